package checker

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/david672orford/htmlcheck/internal/config"
	"github.com/david672orford/htmlcheck/internal/htmldoc"
	"github.com/david672orford/htmlcheck/internal/model"
	"github.com/david672orford/htmlcheck/internal/resolver"
	"github.com/david672orford/htmlcheck/internal/urlutil"
)

// Sink receives findings as they are raised, before the document check
// finishes. The CLI uses it to stream warnings to the terminal.
type Sink func(model.Finding)

// Checker applies the site conformance rules to documents.
type Checker struct {
	cfg    *config.Config
	res    *resolver.Resolver
	logger *slog.Logger
	sink   Sink
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets a custom logger for per-element debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithSink sets the finding sink. Without one, findings are only collected
// in the returned report.
func WithSink(sink Sink) Option {
	return func(c *Checker) {
		c.sink = sink
	}
}

// New creates a Checker for the given configuration.
func New(cfg *config.Config, opts ...Option) *Checker {
	c := &Checker{
		cfg: cfg,
		res: resolver.New(cfg.SiteRoot),
	}
	c.res.IndexSpanPrefix = cfg.Site.IndexSpanPrefix

	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// checkState is the per-document state threaded through the check functions.
// A fresh one is built for every document; nothing survives across documents.
type checkState struct {
	doc    *htmldoc.Document
	report *model.DocumentReport

	// baseDir is the directory relative URLs currently resolve against.
	// It starts as the document's own directory and may be moved once by a
	// <base href="./..."> element in head.
	baseDir string

	// titleVariants are the acceptable strings for the page's own <h1>,
	// derived from the <title> text, NFC-normalized.
	titleVariants map[string]struct{}
}

// addTitleVariant records an acceptable title string.
func (s *checkState) addTitleVariant(v string) {
	v = strings.TrimSpace(v)
	if v != "" {
		s.titleVariants[norm.NFC.String(v)] = struct{}{}
	}
}

// titleMatch reports whether text matches any acceptable title variant.
func (s *checkState) titleMatch(text string) bool {
	_, ok := s.titleVariants[norm.NFC.String(strings.TrimSpace(text))]
	return ok
}

// CheckDocument checks one document and returns everything found.
//
// Advisory findings never stop the check; a *htmldoc.StructureError (or an
// environment error such as malformed JSON-LD) aborts it, and the caller is
// expected to abort the whole run.
func (c *Checker) CheckDocument(path string) (*model.DocumentReport, error) {
	start := time.Now()
	c.logger.Debug("checking document", "path", path)

	doc, err := htmldoc.Open(path, "")
	if err != nil {
		return nil, err
	}

	state := &checkState{
		doc:           doc,
		report:        model.NewDocumentReport(path),
		baseDir:       doc.BaseDir,
		titleVariants: make(map[string]struct{}),
	}

	// Doctype problems were discovered at load time; they join the stream
	// first so warning order matches document order.
	for _, w := range doc.LoadWarnings {
		c.warn(state, "doctype", nil, "%s", w)
	}

	if err := c.checkHead(state); err != nil {
		return nil, err
	}
	if err := c.checkBody(state); err != nil {
		return nil, err
	}
	c.checkSummary(state)

	if c.cfg.EXIFAudit {
		c.auditImages(state)
	}

	state.report.Elapsed = time.Since(start)
	return state.report, nil
}

// warn raises an advisory finding against an element.
func (c *Checker) warn(s *checkState, findingType string, el *html.Node, format string, args ...any) {
	element := ""
	if el != nil {
		element = htmldoc.Describe(el)
	}
	f := model.NewFinding(findingType, fmt.Sprintf(format, args...), element, s.doc.Path)
	s.report.AddFinding(f)
	if c.sink != nil {
		c.sink(f)
	}
}

// checkSummary applies the whole-document rules once head and body have been
// walked: indexed pages need the analytics script and BreadcrumbList
// structured data, and og:image must be an absolute URL into the site tree.
func (c *Checker) checkSummary(s *checkState) {
	robots := s.report.Meta["robots"]
	if !strings.Contains(robots, "noindex") {
		if s.report.ScriptTypes["analytics"] == 0 {
			c.warn(s, "no_analytics", nil, "no analytics script")
		}
		if s.report.ScriptTypes["BreadcrumbList"] == 0 {
			c.warn(s, "no_breadcrumb_list", nil, "no Schema.org BreadcrumbList")
		}
	}

	if ogImage, ok := s.report.Properties["og:image"]; ok {
		if !urlutil.FullURLExists(ogImage, c.cfg.SiteRoot) {
			c.warn(s, "og_image", nil, "og:image is not a full URL with an existing local path: %s", ogImage)
		}
	}
}

// mimeByExt maps recognized file extensions to the MIME type a link's
// declared type attribute is expected to agree with.
var mimeByExt = map[string]string{
	".html":  "text/html",
	".htm":   "text/html",
	".cgi":   "text/html",
	".xhtml": "application/xhtml+xml",
	".css":   "text/css",
	".js":    "text/javascript",
	".txt":   "text/plain",
	".xml":   "application/xml",
	".pdf":   "application/pdf",
	".zip":   "application/zip",
	".xspf":  "application/xspf+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
	".mp3":   "audio/mpeg",
	".m4a":   "audio/mp4",
	".oga":   "audio/ogg",
	".ogg":   "audio/ogg",
	".opus":  "audio/ogg",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".mkv":   "video/x-matroska",
	".vtt":   "text/vtt",
	".srt":   "application/x-subrip",
}

// isHTMLType reports whether a MIME type denotes an HTML document.
// HTML targets are exempt from the declared-type requirement and are the
// only targets whose titles and fragments get cross-checked.
func isHTMLType(mime string) bool {
	return mime == "text/html" || mime == "application/xhtml+xml"
}
