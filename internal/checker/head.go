package checker

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/david672orford/htmlcheck/internal/htmldoc"
	"github.com/david672orford/htmlcheck/internal/urlutil"
)

// Recognized head child tags. The dispatch switch below has an explicit case
// for each so an unrecognized tag always lands in the "unexpected item" arm.
const (
	tagMeta   = "meta"
	tagTitle  = "title"
	tagLink   = "link"
	tagScript = "script"
	tagStyle  = "style"
	tagBase   = "base"
)

// contentTypeValue matches the accepted http-equiv Content-Type content:
// text/html with the utf-8 charset, case-insensitive, optional space.
var contentTypeValue = regexp.MustCompile(`(?i)^text/html;\s?charset=utf-8$`)

// checkHead validates the document head: language declaration, charset,
// title, and every direct child element.
func (c *Checker) checkHead(s *checkState) error {
	if !htmldoc.HasAttr(s.doc.Root, "lang") {
		c.warn(s, "missing_lang", s.doc.Root, "<html> lacks lang attribute")
	}

	kids := htmldoc.Children(s.doc.Head)
	if len(kids) > 0 && kids[0].Data != tagMeta {
		c.warn(s, "head_first_child", kids[0], "First child of <head> is not <meta>")
	}

	c.checkCharset(s, kids)
	c.extractTitleVariants(s)

	for _, n := range kids {
		c.logger.Debug("head item", "tag", n.Data, "path", s.doc.Path)
		switch n.Data {
		case tagMeta:
			c.recordMeta(s, n)
		case tagTitle:
			// Handled during title extraction.
		case tagLink:
			c.checkHeadLink(s, n)
		case tagScript:
			if err := c.checkScript(s, n, true); err != nil {
				return err
			}
		case tagStyle:
			if htmldoc.Attr(n, "type") != "text/css" {
				c.warn(s, "style_missing_type", n, "<style> lacks type=\"text/css\"")
			}
		case tagBase:
			if err := c.applyBase(s, n); err != nil {
				return err
			}
		default:
			c.warn(s, "head_unexpected_item", n, "Unexpected item in <head>: <%s>", n.Data)
		}
	}
	return nil
}

// checkCharset verifies the charset declaration: either an http-equiv
// Content-Type meta with the utf-8 content value, or a charset attribute
// equal to utf-8.
func (c *Checker) checkCharset(s *checkState, kids []*html.Node) {
	for _, n := range kids {
		if n.Data != tagMeta {
			continue
		}
		if strings.EqualFold(htmldoc.Attr(n, "http-equiv"), "Content-Type") {
			content := htmldoc.Attr(n, "content")
			if !contentTypeValue.MatchString(content) {
				c.warn(s, "charset", n, "Content-Type is %q, expected text/html; charset=utf-8", content)
			}
			return
		}
		if htmldoc.HasAttr(n, "charset") {
			if cs := htmldoc.Attr(n, "charset"); !strings.EqualFold(cs, "utf-8") {
				c.warn(s, "charset", n, "charset is %q, expected utf-8", cs)
			}
			return
		}
	}
	c.warn(s, "charset", nil, "no charset declaration")
}

// extractTitleVariants builds the acceptable strings for the page's own
// top-level heading: the title text, the title with its leading "site-name:"
// prefix stripped, and that with a trailing em-dash category stripped.
func (c *Checker) extractTitleVariants(s *checkState) {
	titleEl := htmldoc.First(s.doc.Head, tagTitle)
	if titleEl == nil {
		c.warn(s, "missing_title", nil, "document has no <title>")
		return
	}

	title := htmldoc.Text(titleEl)
	s.addTitleVariant(title)

	base := title
	if i := strings.Index(base, ":"); i >= 0 {
		base = strings.TrimSpace(base[i+1:])
		s.addTitleVariant(base)
	}
	if i := strings.Index(base, "—"); i >= 0 {
		s.addTitleVariant(strings.TrimSpace(base[:i]))
	}
}

// recordMeta files a meta element into the name-keyed or property-keyed
// mapping. The two mappings are independent: plain metadata and Open Graph.
func (c *Checker) recordMeta(s *checkState, n *html.Node) {
	content := htmldoc.Attr(n, "content")
	if name := htmldoc.Attr(n, "name"); name != "" {
		s.report.Meta[name] = content
		return
	}
	if property := htmldoc.Attr(n, "property"); property != "" {
		s.report.Properties[property] = content
	}
}

// checkHeadLink validates a <link> element: href presence, local target
// existence and quoting, and the rel/type requirements.
func (c *Checker) checkHeadLink(s *checkState, n *html.Node) {
	href := htmldoc.Attr(n, "href")
	if href == "" {
		c.warn(s, "link_missing_href", n, "<link> lacks href")
		return
	}

	if !urlutil.IsRemote(href) {
		rawPath := stripFragmentQuery(href)
		if !urlutil.Exists(rawPath, s.baseDir, c.cfg.SiteRoot) {
			c.warn(s, "broken_link", n, "broken link: %s", href)
		}
		if !urlutil.CheckQuoting(rawPath) {
			c.warn(s, "odd_quoting", n, "odd quoting: %s", href)
		}
	}

	rel := htmldoc.Attr(n, "rel")
	if rel == "" {
		c.warn(s, "link_missing_rel", n, "<link> lacks rel attribute")
	}
	if rel == "stylesheet" && htmldoc.Attr(n, "type") != "text/css" {
		c.warn(s, "stylesheet_missing_type", n, "stylesheet link lacks type=\"text/css\"")
	}
}

// applyBase moves the base directory for all subsequent relative-URL
// resolution in this document. Only relative (dot-prefixed) href values are
// supported; anything else is an unhandled case and fails fast rather than
// silently mis-resolving every later link.
func (c *Checker) applyBase(s *checkState, n *html.Node) error {
	href := htmldoc.Attr(n, "href")
	if !strings.HasPrefix(href, ".") {
		return fmt.Errorf("%s: unsupported <base href=%q>: only ./-relative values are handled", s.doc.Path, href)
	}
	s.baseDir = filepath.Join(s.doc.BaseDir, filepath.FromSlash(href))
	c.logger.Debug("base directory moved", "path", s.doc.Path, "baseDir", s.baseDir)
	return nil
}

// stripFragmentQuery returns the path portion of an href: everything up to
// the first '#' or '?'.
func stripFragmentQuery(href string) string {
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		return href[:i]
	}
	return href
}
