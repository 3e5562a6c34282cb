// Package checker implements the document conformance checks.
//
// # Architecture
//
// Checker.CheckDocument loads one document and applies independent validation
// rules to its head metadata, body structure, hyperlinks, images, scripts,
// forms, and media players. Each rule emits zero or more advisory findings
// and checking continues; only structural breakage (htmldoc.StructureError)
// aborts.
//
// Per-document state lives in a checkState value threaded through the check
// functions. In particular the current base directory, which a
// <base href="./..."> element may move, is an explicit field rather than a
// process-wide variable, so URL resolution is reproducible regardless of
// call order. Script and robots accumulation is likewise returned in the
// DocumentReport instead of living in shared counters.
//
// Findings are delivered to a sink callback the moment they are raised, so
// output is a live stream, and they are also collected in the returned
// DocumentReport for the report writers and the history database.
package checker
