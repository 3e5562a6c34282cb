package checker

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/david672orford/htmlcheck/internal/htmldoc"
	"github.com/david672orford/htmlcheck/internal/resolver"
	"github.com/david672orford/htmlcheck/internal/urlutil"
)

// checkAnchor validates one hyperlink. Most rules emit a warning and keep
// going; a broken target or the directory-reference heuristic stop further
// checks on this one element only.
func (c *Checker) checkAnchor(s *checkState, a *html.Node) error {
	if !htmldoc.HasAttr(a, "href") {
		c.warn(s, "link_missing_href", a, "<a> lacks href")
		return nil
	}
	href := htmldoc.Attr(a, "href")
	c.logger.Debug("hyperlink", "href", href, "path", s.doc.Path)

	// Pure fragment links point into this same document; nothing to check.
	if strings.HasPrefix(href, "#") {
		return nil
	}

	u, err := url.Parse(href)
	if err != nil {
		c.warn(s, "odd_quoting", a, "unparseable href: %s", href)
		return nil
	}
	if u.Scheme == "mailto" {
		return nil
	}

	declared := htmldoc.Attr(a, "type")
	expected, known := mimeByExt[strings.ToLower(path.Ext(u.Path))]
	if known && !isHTMLType(expected) && declared != "" && declared != expected {
		c.warn(s, "link_type_mismatch", a, "declared type %q disagrees with %q expected for %s", declared, expected, href)
	}

	if urlutil.IsRemote(href) {
		return nil
	}

	rawPath := stripFragmentQuery(href)
	if !urlutil.Exists(rawPath, s.baseDir, c.cfg.SiteRoot) {
		c.warn(s, "broken_link", a, "broken link: %s", href)
		return nil
	}
	if !urlutil.CheckQuoting(rawPath) {
		c.warn(s, "odd_quoting", a, "odd quoting: %s", href)
	}

	// Directory references should end with a slash. Only the trailing
	// single dot form is detected; '..' and '/..' slip through.
	if strings.HasSuffix(rawPath, ".") && !strings.HasSuffix(rawPath, "/") {
		c.warn(s, "directory_reference", a, "directory reference without trailing slash: %s", href)
		return nil
	}

	if strings.HasPrefix(href, c.cfg.Site.SlidesPrefix) && htmldoc.Attr(a, "target") != c.cfg.Site.SlidesTarget {
		c.warn(s, "slides_target", a, "slides link lacks target=%q", c.cfg.Site.SlidesTarget)
	}

	// Only HTML targets get title/fragment cross-checking.
	effective := declared
	if effective == "" {
		if known {
			effective = expected
		} else {
			effective = "text/html"
		}
	}
	if !isHTMLType(effective) {
		return nil
	}

	// Leading ordinary whitespace is noise, but a leading non-breaking
	// space is part of the back-arrow glyph, so only trim the former.
	text := strings.TrimLeft(htmldoc.TextRaw(a), " \t\r\n")
	title := htmldoc.Attr(a, "title")
	stripped, arrow, plainSpace := resolver.StripBackArrow(text)
	stripped = strings.TrimSpace(stripped)

	if arrow {
		if plainSpace {
			c.warn(s, "arrow_space", a, "back arrow uses a plain space instead of a non-breaking space")
		}
		return c.checkBackLink(s, a, u)
	}
	if stripped != "" || title != "" {
		return c.checkForwardLink(s, a, u, stripped, title)
	}

	c.warn(s, "empty_link_text", a, "empty linked text")
	return nil
}

// checkBackLink validates back-navigation links: they should point at the
// index entry for this page inside the target listing.
func (c *Checker) checkBackLink(s *checkState, a *html.Node, u *url.URL) error {
	target, err := c.res.Resolve(s.baseDir, u)
	if err != nil {
		return err
	}

	if target.FragmentCount() > 0 && u.Fragment == "" {
		c.warn(s, "back_link_missing_fragment", a, "back link carries no fragment but target has %d anchor targets", target.FragmentCount())
	}
	if u.Fragment != "" && !target.HasFragment(u.Fragment) {
		c.warn(s, "fragment_not_found", a, "fragment #%s not found in %s", u.Fragment, u.Path)
	}
	return nil
}

// checkForwardLink validates ordinary links: the visible text or title
// attribute must repeat one of the target's acceptable title variants, and
// any fragment must exist in the target.
func (c *Checker) checkForwardLink(s *checkState, a *html.Node, u *url.URL, text, title string) error {
	target, err := c.res.Resolve(s.baseDir, u)
	if err != nil {
		return err
	}

	if !target.MatchTitle(text) && !target.MatchTitle(title) {
		c.warn(s, "title_text_mismatch", a, "link text %q (title %q) does not match target titles %v", text, title, target.Titles())
	}
	if u.Fragment != "" && !target.HasFragment(u.Fragment) {
		c.warn(s, "fragment_not_found", a, "fragment #%s not found in %s", u.Fragment, u.Path)
	}
	return nil
}
