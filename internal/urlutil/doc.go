// Package urlutil provides the URL predicates the conformance checks share:
// remote-URL detection, local-target existence, and the minimal
// percent-encoding rule used for the "odd quoting" check.
//
// The quoting rule follows RFC 3986 section 3.3: unreserved characters plus
// the path-legal reserved set /~!$&'()*+,;=:@ must appear literally; anything
// else is percent-escaped with uppercase hex digits. A path conforms when
// re-encoding its decoded form reproduces it byte for byte.
package urlutil
