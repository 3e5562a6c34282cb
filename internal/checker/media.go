package checker

import (
	"golang.org/x/net/html"

	"github.com/david672orford/htmlcheck/internal/htmldoc"
	"github.com/david672orford/htmlcheck/internal/urlutil"
)

// checkMedia validates an <audio> or <video> element and its nested
// <source> children. The shape mirrors the link and image checks, applied to
// the src and poster attributes; each missing piece is its own warning.
func (c *Checker) checkMedia(s *checkState, n *html.Node) {
	c.checkMediaTarget(s, n, "src")
	c.checkMediaTarget(s, n, "poster")
	if htmldoc.HasAttr(n, "src") && !htmldoc.HasAttr(n, "type") {
		c.warn(s, "media_missing_type", n, "<%s> lacks type attribute", n.Data)
	}

	for _, source := range htmldoc.ByTag(n, "source") {
		c.checkMediaTarget(s, source, "src")
		if !htmldoc.HasAttr(source, "type") {
			c.warn(s, "media_missing_type", source, "<source> lacks type attribute")
		}
	}
}

// checkMediaTarget checks one media URL attribute for existence and quoting.
func (c *Checker) checkMediaTarget(s *checkState, n *html.Node, attr string) {
	v := htmldoc.Attr(n, attr)
	if v == "" || urlutil.IsRemote(v) {
		return
	}
	rawPath := stripFragmentQuery(v)
	if !urlutil.Exists(rawPath, s.baseDir, c.cfg.SiteRoot) {
		c.warn(s, "broken_link", n, "broken link: %s", v)
	}
	if !urlutil.CheckQuoting(rawPath) {
		c.warn(s, "odd_quoting", n, "odd quoting: %s", v)
	}
}
