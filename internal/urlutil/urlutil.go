package urlutil

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// schemeRegex matches an absolute URL scheme prefix per RFC 3986.
var schemeRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.\-]*:`)

// IsRemote reports whether a URL points off-site: it either carries a scheme
// prefix ("https:", "mailto:", ...) or is protocol-relative ("//host/...").
// Remote URLs are exempt from local existence and quoting checks.
func IsRemote(href string) bool {
	return strings.HasPrefix(href, "//") || schemeRegex.MatchString(href)
}

// pathSafe is the set of characters that must not be percent-escaped in a
// path: the RFC 3986 path-legal reserved characters. Unreserved characters
// (ALPHA / DIGIT / "-" / "." / "_" / "~") are handled separately.
const pathSafe = "/~!$&'()*+,;=:@-._"

// escapeLiteral reports whether byte c may appear literally in a path.
func escapeLiteral(c byte) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return true
	}
	return strings.IndexByte(pathSafe, c) >= 0
}

const upperhex = "0123456789ABCDEF"

// EscapeMinimal percent-encodes a decoded path using the minimal-escaping
// rule: everything in the path-safe set stays literal, everything else is
// escaped with uppercase hex.
func EscapeMinimal(path string) string {
	var b strings.Builder
	for i := 0; i < len(path); i++ {
		c := path[i]
		if escapeLiteral(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

// CheckQuoting reports whether a raw path uses exactly minimal
// percent-encoding: decoding and re-encoding it reproduces the original.
// Lowercase hex escapes, escaped path-safe characters, and unescaped bytes
// that needed escaping all fail the round trip.
func CheckQuoting(rawPath string) bool {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return false
	}
	return EscapeMinimal(decoded) == rawPath
}

// LocalPath resolves a raw (possibly percent-encoded) local URL path to a
// filesystem path. Site-root-relative paths (leading "/") resolve against
// siteRoot; everything else resolves against baseDir, the directory of the
// document being checked (adjusted for any <base href> override).
func LocalPath(rawPath, baseDir, siteRoot string) (string, error) {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(decoded, "/") {
		return filepath.Join(siteRoot, decoded), nil
	}
	return filepath.Join(baseDir, decoded), nil
}

// Exists reports whether the local target of a raw URL path exists on disk.
// Existence is whatever the OS reports at check time; paths are checked as
// raw decoded bytes.
func Exists(rawPath, baseDir, siteRoot string) bool {
	p, err := LocalPath(rawPath, baseDir, siteRoot)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// FullURLExists reports whether rawURL is a full URL (carries both a scheme
// and a network location) whose path component exists under the site root.
// Used for attributes that must be absolute, such as og:image.
func FullURLExists(rawURL, siteRoot string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme == "" || u.Host == "" {
		return false
	}
	_, err = os.Stat(filepath.Join(siteRoot, u.Path))
	return err == nil
}
