package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default site convention values. These reflect the conventions of the site
// the checker grew up alongside; all of them can be overridden from the
// .htmlcheck configuration file.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "htmlcheck"

	// DefaultSlidesPrefix marks links into the slides tree, which must open
	// in the dedicated viewer window.
	DefaultSlidesPrefix = "../Slides/"

	// DefaultSlidesTarget is the window name slide links must target.
	DefaultSlidesTarget = "slide_viewer"

	// DefaultAnalyticsMarker identifies the site analytics script by a
	// substring of its src path.
	DefaultAnalyticsMarker = "/analytics-v"

	// DefaultAnalyticsVersion is the version marker the analytics script
	// filename must carry. The site standardizes on one analytics build.
	DefaultAnalyticsVersion = "-v4."

	// DefaultIndexSpanPrefix is the id prefix marking <span> elements that
	// serve as index anchor targets for back links.
	DefaultIndexSpanPrefix = "idx"
)

// Config holds all configuration options for a check run.
// This struct is populated from CLI flags plus the optional configuration
// file and passed through the application via dependency injection rather
// than global state.
type Config struct {
	// SiteRoot is the directory site-root-relative URLs ("/...") resolve
	// against. Defaults to the current working directory.
	SiteRoot string

	// Debug enables verbose per-element logging at slog.LevelDebug.
	Debug bool

	// JSONReport enables JSON report output instead of the plain text
	// summary. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When empty, the report goes to stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .htmlcheck in the current directory and then in the
	// user's home directory.
	ConfigFilePath string

	// EXIFAudit enables scanning local JPEG/TIFF images referenced by the
	// checked documents for embedded EXIF metadata. Published EXIF is a
	// privacy hazard, but scanning every image slows large runs, so this is
	// opt-in.
	EXIFAudit bool

	// SaveHistory persists the run's findings to the history database so
	// later runs can be compared.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	DBDir string

	// Site holds the site conventions, merged from defaults and the
	// configuration file.
	Site SiteConventions

	// Targets is the list of documents to check, in command-line order.
	// Order is significant: documents are checked strictly sequentially.
	Targets []string
}

// SiteConventions are the site-specific rules the checker enforces.
type SiteConventions struct {
	// SlidesPrefix marks hrefs that must carry the slides viewer target.
	SlidesPrefix string `yaml:"slides_prefix"`

	// SlidesTarget is the required target attribute for slide links.
	SlidesTarget string `yaml:"slides_target"`

	// AnalyticsMarker is the src substring identifying the analytics script.
	AnalyticsMarker string `yaml:"analytics_marker"`

	// AnalyticsVersion is the required version marker in the analytics
	// script filename.
	AnalyticsVersion string `yaml:"analytics_version"`

	// IndexSpanPrefix is the id prefix for index anchor spans.
	IndexSpanPrefix string `yaml:"index_span_prefix"`
}

// DefaultSiteConventions returns the built-in site conventions.
func DefaultSiteConventions() SiteConventions {
	return SiteConventions{
		SlidesPrefix:     DefaultSlidesPrefix,
		SlidesTarget:     DefaultSlidesTarget,
		AnalyticsMarker:  DefaultAnalyticsMarker,
		AnalyticsVersion: DefaultAnalyticsVersion,
		IndexSpanPrefix:  DefaultIndexSpanPrefix,
	}
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		SiteRoot: ".",
		Site:     DefaultSiteConventions(),
	}
}

// Validate checks if the configuration is valid.
// It returns the first specific error found: fixing one error often makes
// the others irrelevant, so collecting them adds noise without value.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.SiteRoot == "" {
		return ErrNoSiteRoot
	}
	return nil
}

// XDGDataDir returns the XDG data directory for htmlcheck.
// On Linux: ~/.local/share/htmlcheck
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
