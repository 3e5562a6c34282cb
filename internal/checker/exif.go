package checker

import (
	"os"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/david672orford/htmlcheck/internal/htmldoc"
	"github.com/david672orford/htmlcheck/internal/urlutil"
)

// gpsTags are the EXIF tags that disclose where a photograph was taken.
var gpsTags = map[string]bool{
	"GPSLatitude":     true,
	"GPSLongitude":    true,
	"GPSLatitudeRef":  true,
	"GPSLongitudeRef": true,
}

// auditImages scans the local JPEG and TIFF images referenced by the
// document for embedded EXIF metadata. A published image with GPS
// coordinates is a warning; any other surviving EXIF is reported as
// informational. Images that cannot be read were already flagged as broken
// links, so read errors are skipped silently here.
func (c *Checker) auditImages(s *checkState) {
	seen := make(map[string]bool)

	for _, n := range htmldoc.ByTag(s.doc.Body, "img") {
		src := htmldoc.Attr(n, "src")
		if src == "" || urlutil.IsRemote(src) || strings.HasPrefix(src, "data:") {
			continue
		}
		if !hasEXIFCapableExt(src) {
			continue
		}

		path, err := urlutil.LocalPath(stripFragmentQuery(src), s.baseDir, c.cfg.SiteRoot)
		if err != nil || seen[path] {
			continue
		}
		seen[path] = true

		data, err := os.ReadFile(path) //nolint:gosec // reading the site's own images
		if err != nil {
			continue
		}

		rawExif, err := exif.SearchAndExtractExif(data)
		if err != nil || rawExif == nil {
			continue
		}
		entries, _, err := exif.GetFlatExifData(rawExif, nil)
		if err != nil || len(entries) == 0 {
			continue
		}

		gps := false
		for _, entry := range entries {
			if gpsTags[entry.TagName] {
				gps = true
				break
			}
		}
		if gps {
			c.warn(s, "exif_gps", n, "published image embeds GPS coordinates: %s", src)
		} else {
			c.warn(s, "exif_metadata", n, "published image carries EXIF metadata (%d tags): %s", len(entries), src)
		}
	}
}

// hasEXIFCapableExt reports whether the image format can carry EXIF.
func hasEXIFCapableExt(src string) bool {
	lower := strings.ToLower(stripFragmentQuery(src))
	for _, ext := range []string{".jpg", ".jpeg", ".tif", ".tiff"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
