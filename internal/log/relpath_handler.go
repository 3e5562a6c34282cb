package log

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// RelPathHandler wraps an slog.Handler to shorten site-rooted paths.
// It intercepts log records and rewrites string attribute values that point
// inside the site root to their site-relative form before passing them to
// the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Callers keep passing the full paths they already have
type RelPathHandler struct {
	// handler is the underlying slog handler that receives rewritten records.
	handler slog.Handler

	// root is the absolute site root prefix to strip.
	root string
}

// NewRelPathHandler creates a RelPathHandler wrapping the given handler.
// Paths under siteRoot are logged relative to it. If handler is nil, the
// returned RelPathHandler uses slog.Default().Handler().
func NewRelPathHandler(handler slog.Handler, siteRoot string) *RelPathHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	root, err := filepath.Abs(siteRoot)
	if err != nil {
		root = siteRoot
	}
	return &RelPathHandler{handler: handler, root: root}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *RelPathHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle rewrites the record's attributes and passes it to the underlying
// handler.
func (h *RelPathHandler) Handle(ctx context.Context, r slog.Record) error {
	rewritten := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		rewritten.AddAttrs(h.rewriteAttr(a))
		return true
	})

	return h.handler.Handle(ctx, rewritten)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are rewritten before being added.
func (h *RelPathHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rewrittenAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		rewrittenAttrs[i] = h.rewriteAttr(a)
	}
	return &RelPathHandler{handler: h.handler.WithAttrs(rewrittenAttrs), root: h.root}
}

// WithGroup returns a new handler with the given group name.
func (h *RelPathHandler) WithGroup(name string) slog.Handler {
	return &RelPathHandler{handler: h.handler.WithGroup(name), root: h.root}
}

// rewriteAttr rewrites a single attribute, recursively handling groups.
func (h *RelPathHandler) rewriteAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		rewrittenAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			rewrittenAttrs[i] = h.rewriteAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(rewrittenAttrs...)}
	}

	if a.Value.Kind() != slog.KindString {
		return a
	}
	return slog.String(a.Key, h.relativize(a.Value.String()))
}

// relativize shortens one string value if it is an absolute path under the
// site root. The root itself becomes ".". Relative values pass through
// untouched so ordinary message strings are never mangled.
func (h *RelPathHandler) relativize(v string) string {
	if !filepath.IsAbs(v) {
		return v
	}
	abs := filepath.Clean(v)
	if abs == h.root {
		return "."
	}
	prefix := h.root + string(filepath.Separator)
	if !strings.HasPrefix(abs, prefix) {
		return v
	}
	return abs[len(prefix):]
}

// NewSiteLogger creates a new slog.Logger whose output shows paths relative
// to the site root.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - siteRoot: The site root to relativize paths against
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewSiteLogger(w io.Writer, siteRoot string, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	relPathHandler := NewRelPathHandler(textHandler, siteRoot)

	return slog.New(relPathHandler)
}
