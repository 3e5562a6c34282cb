// Package htmldoc loads HTML documents for conformance checking.
//
// # Architecture
//
// Open is the single entry point. It reads a file (or, for executable
// server-side scripts, runs it as a CGI subprocess and captures the response
// body), verifies the document's basic shape, and returns a parsed tree with
// direct head and body references.
//
// Design decision: We run two passes over the source. golang.org/x/net/html's
// tree parser is deliberately forgiving: it synthesizes html, head, and body
// elements whenever they are missing, which would hide exactly the structural
// defects we must report. A tokenizer pre-pass sees the document as written,
// so missing doctypes, duplicated head/body elements, and non-html roots are
// still visible. The forgiving tree parse then backs all element-level checks.
//
// # Error model
//
// A document whose basic shape cannot be established fails with a
// *StructureError. Structural failures are fatal for the whole run; every
// other defect is an advisory finding raised by the checker, not here.
package htmldoc
