package htmldoc

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr retrieves an attribute value from an HTML node.
// Missing attributes return the empty string; use HasAttr when the
// distinction between missing and empty matters.
func Attr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// HasAttr reports whether the node carries the attribute at all.
func HasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

// Text returns the concatenated text content of a node and its descendants,
// with surrounding whitespace trimmed.
func Text(n *html.Node) string {
	return strings.TrimSpace(TextRaw(n))
}

// TextRaw is Text without the trimming. Needed where leading whitespace is
// significant: TrimSpace eats non-breaking spaces, which would destroy a
// bare back-arrow link text.
func TextRaw(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// First returns the first descendant element with the given tag, in document
// order, or nil. The tag "*" matches any element.
func First(n *html.Node, tag string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && (tag == "*" || n.Data == tag) {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return found
}

// ByTag returns all descendant elements with the given tag in document order.
func ByTag(n *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return nodes
}

// ByID returns the element with the given id, or nil.
func ByID(n *html.Node, id string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && Attr(n, "id") == id {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return found
}

// Children returns the element children of a node, skipping text and
// comment nodes.
func Children(n *html.Node) []*html.Node {
	var nodes []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			nodes = append(nodes, c)
		}
	}
	return nodes
}

// Describe renders a short identifying description of an element for
// finding messages: the tag name plus id, src, href, or action when present.
func Describe(n *html.Node) string {
	parts := []string{n.Data}
	for _, key := range []string{"id", "src", "href", "action"} {
		if v := Attr(n, key); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
