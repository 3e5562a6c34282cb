// Package model defines the data structures shared across htmlcheck.
//
// The central types are Finding (one advisory result from a conformance
// check), DocumentReport (everything collected while checking one document),
// and RunReport (an ordered batch of document reports). Severity levels and
// the per-finding-type hint table live here so that every part of the
// application assesses findings consistently.
package model
