package htmldoc

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// StructureError means a document's basic head/body/root shape could not be
// established. It aborts the whole run rather than being downgraded to a
// warning: a document without a well-defined head and body cannot be
// meaningfully checked.
type StructureError struct {
	// Path is the document that failed.
	Path string

	// Reason describes what about the structure was broken.
	Reason string
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Document is a parsed HTML document plus the references the checks need.
// The tree is not modified after parsing.
type Document struct {
	// Path is the filesystem path the document was loaded from.
	Path string

	// BaseDir is the directory relative URLs initially resolve against:
	// the document's own directory. A <base href="./..."> element may move
	// it during checking; that state lives with the checker, not here.
	BaseDir string

	// Doctype is the doctype name as written, empty if absent.
	Doctype string

	// Root is the <html> element.
	Root *html.Node

	// Head and Body are the document's single head and body elements.
	Head *html.Node
	Body *html.Node

	// LoadWarnings are advisory findings discovered while loading, such as
	// a missing or obsolete doctype. The checker folds them into the
	// document's finding stream.
	LoadWarnings []string
}

// Open loads and parses the document at path.
//
// If the file is a server-side script (executable, or named *.cgi), it is run
// as a CGI subprocess and the generated response body is parsed instead; the
// query string is passed through in the environment. Any invocation failure
// is a *StructureError.
func Open(path, query string) (*Document, error) {
	var content []byte

	info, err := os.Stat(path)
	if err != nil {
		return nil, &StructureError{Path: path, Reason: fmt.Sprintf("cannot open: %v", err)}
	}

	if isScript(path, info) {
		content, err = runCGI(path, query)
		if err != nil {
			return nil, err
		}
	} else {
		content, err = os.ReadFile(path) //nolint:gosec // checking user-named documents is the point
		if err != nil {
			return nil, &StructureError{Path: path, Reason: fmt.Sprintf("cannot read: %v", err)}
		}
	}

	doc := &Document{
		Path:    path,
		BaseDir: filepath.Dir(path),
	}

	if err := doc.precheck(content); err != nil {
		return nil, err
	}

	tree, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, &StructureError{Path: path, Reason: fmt.Sprintf("parse failed: %v", err)}
	}

	if err := doc.locate(tree); err != nil {
		return nil, err
	}
	return doc, nil
}

// isScript reports whether the path denotes a server-side script that must
// be executed rather than read.
func isScript(path string, info os.FileInfo) bool {
	if strings.HasSuffix(path, ".cgi") {
		return true
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}

// runCGI executes a script document and returns the HTML portion of its
// response: everything after the first blank line, per the CGI convention.
func runCGI(path, query string) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &StructureError{Path: path, Reason: fmt.Sprintf("cannot resolve script path: %v", err)}
	}

	cmd := exec.Command(abs) //nolint:gosec // executing the checked script is the point
	cmd.Dir = filepath.Dir(abs)
	cmd.Env = append(os.Environ(),
		"GATEWAY_INTERFACE=CGI/1.1",
		"QUERY_STRING="+query,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, &StructureError{Path: path, Reason: fmt.Sprintf("script invocation failed: %v", err)}
	}

	body, ok := splitCGIResponse(out)
	if !ok {
		return nil, &StructureError{Path: path, Reason: "script output has no header/body separator"}
	}
	return body, nil
}

// splitCGIResponse returns the portion of a CGI response after the first
// blank line. Both LF and CRLF separators are accepted.
func splitCGIResponse(out []byte) ([]byte, bool) {
	if i := bytes.Index(out, []byte("\r\n\r\n")); i >= 0 {
		return out[i+4:], true
	}
	if i := bytes.Index(out, []byte("\n\n")); i >= 0 {
		return out[i+2:], true
	}
	return nil, false
}

// precheck tokenizes the raw source to verify the document shape the tree
// parser would otherwise paper over: doctype, root tag, and exactly one
// explicit head and body element.
func (d *Document) precheck(content []byte) error {
	tok := html.NewTokenizer(bytes.NewReader(content))

	var sawDoctype bool
	var firstStart string
	headCount, bodyCount := 0, 0

	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.DoctypeToken:
			sawDoctype = true
			d.Doctype = strings.TrimSpace(tok.Token().Data)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tok.TagName()
			tag := string(name)
			if firstStart == "" {
				firstStart = tag
			}
			switch tag {
			case "head":
				headCount++
			case "body":
				bodyCount++
			}
		}
	}

	if !sawDoctype {
		d.LoadWarnings = append(d.LoadWarnings, "missing doctype")
	} else if strings.Contains(strings.ToLower(d.Doctype), "frameset") {
		// Frameset documents have no checkable body; give up on them.
		return &StructureError{Path: d.Path, Reason: "frameset doctype"}
	} else if !strings.EqualFold(d.Doctype, "html") {
		d.LoadWarnings = append(d.LoadWarnings, fmt.Sprintf("obsolete doctype: %s", d.Doctype))
	}

	if firstStart != "" && firstStart != "html" {
		return &StructureError{Path: d.Path, Reason: fmt.Sprintf("root element is <%s>, not <html>", firstStart)}
	}
	if headCount != 1 {
		return &StructureError{Path: d.Path, Reason: fmt.Sprintf("expected exactly one <head>, found %d", headCount)}
	}
	if bodyCount != 1 {
		return &StructureError{Path: d.Path, Reason: fmt.Sprintf("expected exactly one <body>, found %d", bodyCount)}
	}
	return nil
}

// locate finds the html root and its head and body children in the parsed
// tree, and rejects documents whose head has no content at all.
func (d *Document) locate(tree *html.Node) error {
	for n := tree.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && n.Data == "html" {
			d.Root = n
			break
		}
	}
	if d.Root == nil {
		return &StructureError{Path: d.Path, Reason: "no root <html> element"}
	}

	for n := d.Root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "head":
			d.Head = n
		case "body":
			d.Body = n
		}
	}
	if d.Head == nil || d.Body == nil {
		return &StructureError{Path: d.Path, Reason: "head or body element missing"}
	}

	if First(d.Head, "*") == nil {
		return &StructureError{Path: d.Path, Reason: "head element is empty, nothing to check"}
	}
	return nil
}
