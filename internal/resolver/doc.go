// Package resolver answers the question the hyperlink checks keep asking:
// for an internal link to another document, what title strings may the link
// legitimately display, and which fragment identifiers exist in the target?
//
// The resolver re-parses the target document on every call. There is no
// cache: this is an offline batch tool and link targets are small local
// files, so correctness and simplicity win over speed.
package resolver
