// Package main provides the entry point for the htmlcheck CLI.
//
// htmlcheck is a conformance checker for a hand-written static website.
// It verifies that HTML documents follow the site's structural and style
// conventions: head layout, charset, title/heading agreement, hyperlink
// targets and their titles, scripts, structured data, and media elements.
//
// Usage:
//
//	htmlcheck check page.html other.html
//	htmlcheck check --root /var/www/site page.html
//
// See --help for all available options.
package main

// main is the entry point for htmlcheck.
func main() {
	Execute()
}
