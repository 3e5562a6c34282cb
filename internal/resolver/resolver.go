package resolver

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/david672orford/htmlcheck/internal/htmldoc"
)

// BackArrow is the back-navigation glyph: a less-than sign followed by a
// non-breaking space. The plain-space form appears in the wild and is
// tolerated, but the checker flags it separately.
const BackArrow = "< "

// backArrowSpace is the non-conforming plain-space variant.
const backArrowSpace = "< "

// StripBackArrow removes a leading back-arrow prefix from heading or link
// text. It returns the stripped text, whether an arrow was present, and
// whether the arrow used the non-conforming plain-space form.
func StripBackArrow(s string) (stripped string, arrow, plainSpace bool) {
	switch {
	case strings.HasPrefix(s, BackArrow):
		return strings.TrimSpace(strings.TrimPrefix(s, BackArrow)), true, false
	case strings.HasPrefix(s, backArrowSpace):
		return strings.TrimSpace(strings.TrimPrefix(s, backArrowSpace)), true, true
	}
	return s, false, false
}

// Target is what the resolver learned about a link target: the set of
// acceptable title variants and the set of plausible fragment identifiers.
type Target struct {
	titles    map[string]struct{}
	fragments map[string]struct{}
}

// MatchTitle reports whether the given text matches any acceptable title
// variant. Comparison is NFC-normalized so combining-character spellings of
// the same heading compare equal.
func (t *Target) MatchTitle(text string) bool {
	_, ok := t.titles[norm.NFC.String(strings.TrimSpace(text))]
	return ok
}

// HasFragment reports whether id is a plausible anchor target.
func (t *Target) HasFragment(id string) bool {
	_, ok := t.fragments[id]
	return ok
}

// FragmentCount returns how many plausible fragments the target has.
func (t *Target) FragmentCount() int {
	return len(t.fragments)
}

// Titles returns the acceptable title variants, for warning messages.
func (t *Target) Titles() []string {
	out := make([]string, 0, len(t.titles))
	for v := range t.titles {
		out = append(out, v)
	}
	return out
}

func (t *Target) addTitle(s string) {
	s = strings.TrimSpace(s)
	if s != "" {
		t.titles[norm.NFC.String(s)] = struct{}{}
	}
}

// Resolver opens link targets and extracts their titles and fragments.
type Resolver struct {
	// SiteRoot anchors site-root-relative paths.
	SiteRoot string

	// IndexSpanPrefix is the id prefix marking <span> elements that serve
	// as index anchor targets. Defaults to "idx".
	IndexSpanPrefix string
}

// New creates a Resolver for the given site root.
func New(siteRoot string) *Resolver {
	return &Resolver{SiteRoot: siteRoot, IndexSpanPrefix: "idx"}
}

// parenSuffix matches a trailing parenthetical subtitle: "Foo (bar)" -> "Foo".
var parenSuffix = regexp.MustCompile(`\s*\([^()]*\)\s*$`)

// Resolve opens the document the parsed URL points at, relative to baseDir,
// and returns its acceptable titles and plausible fragments. Directory URLs
// (trailing slash) probe for index.html then index.cgi. Script targets are
// executed with the URL's query string, mirroring how a server would serve
// them.
func (r *Resolver) Resolve(baseDir string, u *url.URL) (*Target, error) {
	doc, err := htmldoc.Open(r.targetPath(baseDir, u.Path), u.RawQuery)
	if err != nil {
		return nil, err
	}

	target := &Target{
		titles:    make(map[string]struct{}),
		fragments: make(map[string]struct{}),
	}
	r.collectTitles(doc, u.Fragment, target)
	r.collectFragments(doc, target)
	return target, nil
}

// targetPath resolves the URL path to a filesystem path, substituting index
// documents for directory references. urlPath comes from url.URL.Path, which
// url.Parse has already percent-decoded; decoding again would misread file
// names containing a literal "%".
func (r *Resolver) targetPath(baseDir, urlPath string) string {
	var path string
	if strings.HasPrefix(urlPath, "/") {
		path = filepath.Join(r.SiteRoot, urlPath)
	} else {
		path = filepath.Join(baseDir, urlPath)
	}

	if strings.HasSuffix(urlPath, "/") || urlPath == "" {
		for _, index := range []string{"index.html", "index.cgi"} {
			candidate := filepath.Join(path, index)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return path
}

// collectTitles builds the acceptable-title set. Each transformation's
// result is added independently; they are not mutually exclusive.
func (r *Resolver) collectTitles(doc *htmldoc.Document, fragment string, target *Target) {
	if titleEl := htmldoc.First(doc.Head, "title"); titleEl != nil {
		title := htmldoc.Text(titleEl)
		target.addTitle(title)

		// Strip a leading "site-name:" prefix.
		base := title
		if i := strings.Index(base, ":"); i >= 0 {
			base = strings.TrimSpace(base[i+1:])
			target.addTitle(base)
		}

		// Trailing parenthetical subtitle: "Foo (bar)" -> "Foo".
		target.addTitle(parenSuffix.ReplaceAllString(base, ""))

		// Trailing em-dash category: "Foo — Category" -> "Foo".
		if i := strings.Index(base, "—"); i >= 0 {
			target.addTitle(strings.TrimSpace(base[:i]))
		}

		target.addTitle(strings.TrimPrefix(base, "Download "))
		target.addTitle(strings.TrimSuffix(base, " on Youtube"))
	}

	// The page's own top-level heading is always acceptable link text.
	if h1 := htmldoc.First(doc.Body, "h1"); h1 != nil {
		text, _, _ := StripBackArrow(htmldoc.Text(h1))
		target.addTitle(text)
	}

	// A fragment link may match the addressed sub-section's heading rather
	// than the page title.
	if fragment != "" {
		if el := htmldoc.ByID(doc.Root, fragment); el != nil {
			if h2 := htmldoc.First(el, "h2"); h2 != nil {
				text := htmldoc.Text(h2)
				target.addTitle(text)
				target.addTitle(parenSuffix.ReplaceAllString(text, ""))
			}
		}
	}
}

// collectFragments gathers the ids considered valid anchor targets:
// section and footer ids, plus index-marker spans.
func (r *Resolver) collectFragments(doc *htmldoc.Document, target *Target) {
	for _, tag := range []string{"section", "footer"} {
		for _, n := range htmldoc.ByTag(doc.Root, tag) {
			if id := htmldoc.Attr(n, "id"); id != "" {
				target.fragments[id] = struct{}{}
			}
		}
	}
	for _, n := range htmldoc.ByTag(doc.Root, "span") {
		if id := htmldoc.Attr(n, "id"); strings.HasPrefix(id, r.IndexSpanPrefix) {
			target.fragments[id] = struct{}{}
		}
	}
}
