package checker

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/david672orford/htmlcheck/internal/htmldoc"
	"github.com/david672orford/htmlcheck/internal/resolver"
	"github.com/david672orford/htmlcheck/internal/urlutil"
)

// checkBody validates the document body: heading/title agreement, scripts,
// images, hyperlinks, forms, media players, and the See Also float.
func (c *Checker) checkBody(s *checkState) error {
	body := s.doc.Body

	if h1 := htmldoc.First(body, "h1"); h1 != nil {
		text, _, plainSpace := resolver.StripBackArrow(htmldoc.Text(h1))
		if plainSpace {
			c.warn(s, "arrow_space", h1, "back arrow in <h1> uses a plain space instead of a non-breaking space")
		}
		if !s.titleMatch(text) {
			c.warn(s, "h1_title_mismatch", h1, "<h1> %q does not match any title variant %v", text, s.titleVariantList())
		}
		if htmldoc.First(body, "header") == nil {
			c.warn(s, "h1_without_header", h1, "<h1> present but no <header> element")
		}
	}

	for _, n := range htmldoc.ByTag(body, "script") {
		if err := c.checkScript(s, n, false); err != nil {
			return err
		}
	}

	for _, n := range htmldoc.ByTag(body, "img") {
		c.checkImg(s, n)
	}

	for _, n := range htmldoc.ByTag(body, "a") {
		if err := c.checkAnchor(s, n); err != nil {
			return err
		}
	}

	for _, n := range htmldoc.ByTag(body, "form") {
		c.checkFormAction(s, n)
	}

	for _, tag := range []string{"audio", "video"} {
		for _, n := range htmldoc.ByTag(body, tag) {
			c.checkMedia(s, n)
		}
	}

	c.checkSeeAlso(s, body)
	return nil
}

// titleVariantList renders the acceptable title variants for messages.
func (s *checkState) titleVariantList() []string {
	out := make([]string, 0, len(s.titleVariants))
	for v := range s.titleVariants {
		out = append(out, v)
	}
	return out
}

// checkImg validates an image: local existence, quoting, declared MIME type,
// and alternative text. Inline data: URIs skip the filesystem checks.
func (c *Checker) checkImg(s *checkState, n *html.Node) {
	src := htmldoc.Attr(n, "src")

	if !strings.HasPrefix(src, "data:") {
		if src != "" && !urlutil.IsRemote(src) {
			rawPath := stripFragmentQuery(src)
			if !urlutil.Exists(rawPath, s.baseDir, c.cfg.SiteRoot) {
				c.warn(s, "broken_link", n, "broken link: %s", src)
			}
			if !urlutil.CheckQuoting(rawPath) {
				c.warn(s, "odd_quoting", n, "odd quoting: %s", src)
			}
		}
		if !strings.HasPrefix(htmldoc.Attr(n, "type"), "image/") {
			c.warn(s, "img_missing_type", n, "img: lacks image/* type attribute: %s", src)
		}
	}

	id := htmldoc.Attr(n, "id")
	switch {
	case !htmldoc.HasAttr(n, "alt"):
		c.warn(s, "img_missing_alt", n, "img: lacks alt attribute: %s %s", id, src)
	case strings.TrimSpace(htmldoc.Attr(n, "alt")) == "":
		c.warn(s, "img_missing_alt", n, "img: blank alt attribute: %s %s", id, src)
	}
}

// checkFormAction validates a form's action target when it is local.
func (c *Checker) checkFormAction(s *checkState, n *html.Node) {
	action := htmldoc.Attr(n, "action")
	if action == "" || urlutil.IsRemote(action) {
		return
	}
	rawPath := stripFragmentQuery(action)
	if !urlutil.Exists(rawPath, s.baseDir, c.cfg.SiteRoot) {
		c.warn(s, "broken_link", n, "broken link: %s", action)
	}
	if !urlutil.CheckQuoting(rawPath) {
		c.warn(s, "odd_quoting", n, "odd quoting: %s", action)
	}
}

// checkSeeAlso enforces the See Also float convention: a floating div
// containing the text "See Also" carries id="SeeAlso" so section links can
// target it.
func (c *Checker) checkSeeAlso(s *checkState, body *html.Node) {
	for _, n := range htmldoc.ByTag(body, "div") {
		if !strings.HasPrefix(htmldoc.Attr(n, "class"), "fr") {
			continue
		}
		if !strings.Contains(htmldoc.Text(n), "See Also") {
			continue
		}
		if htmldoc.Attr(n, "id") != "SeeAlso" {
			c.warn(s, "see_also_id", n, "See Also float lacks id=\"SeeAlso\"")
		}
	}
}
