package model

// Severity represents how serious a finding is.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Severity int

const (
	// SeverityInfo indicates purely informational findings.
	// Examples: non-GPS EXIF metadata in a published image.
	// These are reported but are not style violations.
	SeverityInfo Severity = iota

	// SeverityWarning indicates a style or consistency rule violation.
	// Warnings are advisory: they are printed as they are found and never
	// affect the exit status. The vast majority of findings are warnings.
	SeverityWarning

	// SeverityStructure indicates the document's basic shape could not be
	// established (missing or duplicated head/body, root tag mismatch,
	// CGI invocation failure). Structural findings abort the whole run.
	SeverityStructure
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityStructure:
		return "STRUCTURE"
	default:
		return "UNKNOWN"
	}
}

// FindingInfo contains metadata about a finding type: its severity and a
// short hint telling the site author how to fix the page.
type FindingInfo struct {
	Severity Severity
	Hint     string
}

// findingInfoMapping maps finding types to their metadata.
// This centralized mapping keeps severity assessment consistent across the
// checker, the report writers, and the history comparison.
var findingInfoMapping = map[string]FindingInfo{
	// Head checks
	"doctype": {
		Severity: SeverityWarning,
		Hint:     "Start every page with <!DOCTYPE html>.",
	},
	"missing_lang": {
		Severity: SeverityWarning,
		Hint:     "Add a lang attribute to the <html> element.",
	},
	"head_first_child": {
		Severity: SeverityWarning,
		Hint:     "Place the charset <meta> element first in <head> so browsers see it within the first 1024 bytes.",
	},
	"charset": {
		Severity: SeverityWarning,
		Hint:     "Declare the charset as <meta charset=\"utf-8\"> or the equivalent http-equiv form.",
	},
	"missing_title": {
		Severity: SeverityWarning,
		Hint:     "Every page needs a <title> element.",
	},
	"head_unexpected_item": {
		Severity: SeverityWarning,
		Hint:     "Only meta, title, link, script, style, and base belong in <head>.",
	},
	"hide_nav_mismatch": {
		Severity: SeverityWarning,
		Hint:     "The navigation-hiding bootstrap script must match the site-wide form exactly.",
	},
	"hide_nav_in_body": {
		Severity: SeverityWarning,
		Hint:     "The hide_nav bootstrap belongs in <head>, before the body renders.",
	},

	// Link targets and quoting
	"link_missing_href": {
		Severity: SeverityWarning,
		Hint:     "Anchor and link elements need an href.",
	},
	"link_missing_rel": {
		Severity: SeverityWarning,
		Hint:     "Add a rel attribute describing the link relationship.",
	},
	"stylesheet_missing_type": {
		Severity: SeverityWarning,
		Hint:     "Stylesheet links carry type=\"text/css\" on this site.",
	},
	"style_missing_type": {
		Severity: SeverityWarning,
		Hint:     "Style elements carry type=\"text/css\" on this site.",
	},
	"broken_link": {
		Severity: SeverityWarning,
		Hint:     "The referenced local file does not exist. Fix the path or add the file.",
	},
	"odd_quoting": {
		Severity: SeverityWarning,
		Hint:     "Use minimal percent-encoding: unreserved characters and /~!$&'()*+,;=:@ stay literal.",
	},
	"directory_reference": {
		Severity: SeverityWarning,
		Hint:     "Directory references should end with a slash.",
	},
	"link_type_mismatch": {
		Severity: SeverityWarning,
		Hint:     "The declared type attribute disagrees with the target's file extension.",
	},
	"empty_link_text": {
		Severity: SeverityWarning,
		Hint:     "Links need visible text or a title attribute.",
	},
	"title_text_mismatch": {
		Severity: SeverityWarning,
		Hint:     "Link text should repeat the target page's title or heading.",
	},
	"back_link_missing_fragment": {
		Severity: SeverityWarning,
		Hint:     "Back links should point at the index entry for this page, not the bare listing.",
	},
	"fragment_not_found": {
		Severity: SeverityWarning,
		Hint:     "The fragment identifier does not match any section, footer, or index span id in the target.",
	},
	"slides_target": {
		Severity: SeverityWarning,
		Hint:     "Links into the slides tree open in the slide_viewer window.",
	},

	// Body structure
	"h1_title_mismatch": {
		Severity: SeverityWarning,
		Hint:     "The top-level heading should duplicate (a variant of) the page title.",
	},
	"arrow_space": {
		Severity: SeverityWarning,
		Hint:     "The back arrow uses a non-breaking space, not a plain space.",
	},
	"h1_without_header": {
		Severity: SeverityWarning,
		Hint:     "Pages with an <h1> wrap their masthead in a <header> element.",
	},
	"img_missing_alt": {
		Severity: SeverityWarning,
		Hint:     "Every image needs non-empty alternative text.",
	},
	"img_missing_type": {
		Severity: SeverityWarning,
		Hint:     "Images on this site declare their MIME type (type=\"image/...\").",
	},
	"see_also_id": {
		Severity: SeverityWarning,
		Hint:     "The See Also float carries id=\"SeeAlso\" so section links can target it.",
	},

	// Scripts and structured data
	"script_missing_type": {
		Severity: SeverityWarning,
		Hint:     "Script elements declare their type on this site.",
	},
	"script_unexpected_type": {
		Severity: SeverityWarning,
		Hint:     "Only text/javascript and application/ld+json scripts are expected.",
	},
	"analytics_not_minified": {
		Severity: SeverityWarning,
		Hint:     "Serve the minified analytics build (.min. in the filename).",
	},
	"analytics_version": {
		Severity: SeverityWarning,
		Hint:     "The site standardizes on the -v4. analytics build.",
	},
	"analytics_missing_async": {
		Severity: SeverityWarning,
		Hint:     "Load the analytics script with the async attribute.",
	},
	"no_analytics": {
		Severity: SeverityWarning,
		Hint:     "Indexed pages load the site analytics script.",
	},
	"no_breadcrumb_list": {
		Severity: SeverityWarning,
		Hint:     "Indexed pages embed Schema.org BreadcrumbList structured data.",
	},
	"og_image": {
		Severity: SeverityWarning,
		Hint:     "og:image must be an absolute URL whose path exists in the site tree.",
	},

	// Media players
	"media_missing_type": {
		Severity: SeverityWarning,
		Hint:     "Audio/video sources declare their MIME type.",
	},

	// Image hygiene (optional EXIF audit)
	"exif_gps": {
		Severity: SeverityWarning,
		Hint:     "The published image embeds GPS coordinates. Strip EXIF before publishing.",
	},
	"exif_metadata": {
		Severity: SeverityInfo,
		Hint:     "The published image carries EXIF metadata (camera, software, timestamps).",
	},

	// Structural breakage
	"structure": {
		Severity: SeverityStructure,
		Hint:     "Fix the document's basic head/body/root shape before re-running the check.",
	},
}

// GetFindingInfo returns the metadata for a finding type.
// Unknown types default to SeverityWarning with no hint, since every rule the
// checker emits is advisory unless registered otherwise.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{Severity: SeverityWarning}
}

// GetSeverity returns the severity for a finding type.
func GetSeverity(findingType string) Severity {
	return GetFindingInfo(findingType).Severity
}
