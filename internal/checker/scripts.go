package checker

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/david672orford/htmlcheck/internal/htmldoc"
	"github.com/david672orford/htmlcheck/internal/urlutil"
)

// hideNavBootstrap is the exact inline script the site uses to hide its
// navigation frame on direct page loads. It is checked by literal match and
// exempt from the type rules; anything that merely resembles it is flagged.
const hideNavBootstrap = `parent===window||(document.documentElement.className="hide_nav")`

// checkScript validates a script element: source existence and quoting, the
// analytics script conventions, and the type/structured-data rules.
//
// Malformed JSON-LD is a tool-usage error, not a document style defect: it
// propagates as an error and terminates the run.
func (c *Checker) checkScript(s *checkState, n *html.Node, inHead bool) error {
	src := htmldoc.Attr(n, "src")
	if src != "" && !urlutil.IsRemote(src) {
		rawPath := stripFragmentQuery(src)
		if !urlutil.Exists(rawPath, s.baseDir, c.cfg.SiteRoot) {
			c.warn(s, "broken_link", n, "broken link: %s", src)
		}
		if !urlutil.CheckQuoting(rawPath) {
			c.warn(s, "odd_quoting", n, "odd quoting: %s", src)
		}
		if strings.Contains(src, c.cfg.Site.AnalyticsMarker) {
			c.checkAnalyticsScript(s, n, src)
		}
	}

	text := strings.TrimSpace(scriptText(n))

	if src == "" && strings.Contains(text, "hide_nav") {
		if inHead {
			if text != hideNavBootstrap {
				c.warn(s, "hide_nav_mismatch", n, "hide_nav bootstrap differs from the site-wide form")
			}
			return nil
		}
		// A misplaced bootstrap loses the type-rule exemption: it is an
		// ordinary body script and is validated as one.
		c.warn(s, "hide_nav_in_body", n, "hide_nav bootstrap belongs in <head>, not <body>")
	}

	typ := htmldoc.Attr(n, "type")
	switch {
	case !htmldoc.HasAttr(n, "type"):
		c.warn(s, "script_missing_type", n, "<script> lacks type attribute")
	case typ == "text/javascript":
		// Accepted as-is.
	case typ == "application/ld+json":
		if err := c.tallyStructuredData(s, text); err != nil {
			return fmt.Errorf("%s: structured data: %w", s.doc.Path, err)
		}
	default:
		c.warn(s, "script_unexpected_type", n, "unexpected type: %s", typ)
	}
	return nil
}

// checkAnalyticsScript enforces the analytics loading conventions: the
// minified -v4. build, loaded asynchronously. The counter records that the
// page carries analytics at all.
func (c *Checker) checkAnalyticsScript(s *checkState, n *html.Node, src string) {
	s.report.ScriptTypes["analytics"]++

	base := path.Base(src)
	if !strings.Contains(base, ".min.") {
		c.warn(s, "analytics_not_minified", n, "analytics script is not the minified build: %s", base)
	}
	if !strings.Contains(base, c.cfg.Site.AnalyticsVersion) {
		c.warn(s, "analytics_version", n, "analytics script lacks the %s version marker: %s", c.cfg.Site.AnalyticsVersion, base)
	}
	if !htmldoc.HasAttr(n, "async") {
		c.warn(s, "analytics_missing_async", n, "analytics script lacks async attribute")
	}
}

// tallyStructuredData parses a JSON-LD body, a single object or an array of
// objects, and counts each object's @type value.
func (c *Checker) tallyStructuredData(s *checkState, text string) error {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return err
	}

	tally := func(v any) {
		obj, ok := v.(map[string]any)
		if !ok {
			return
		}
		if t, ok := obj["@type"].(string); ok {
			s.report.ScriptTypes[t]++
		}
	}

	switch v := raw.(type) {
	case map[string]any:
		tally(v)
	case []any:
		for _, item := range v {
			tally(item)
		}
	}
	return nil
}

// scriptText returns the raw text of a script body without the whitespace
// trimming Text applies to nested markup.
func scriptText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
