package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/david672orford/htmlcheck/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with per-document sections
// and severity-tagged findings.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showClean controls whether documents with no findings are listed.
	showClean bool

	// verbose enables the fix hint under each finding.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowClean configures the writer to list documents without findings.
func WithShowClean(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showClean = show
	}
}

// WithVerbose enables verbose output with fix hints.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showClean:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	for _, doc := range report.Documents {
		w.writeDocument(&sb, doc)
	}
	w.writeSummary(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         HTMLCHECK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Run Date:  %s\n", report.Started.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Documents: %d\n", len(report.Documents)))
	sb.WriteString("\n")
}

// writeDocument writes one document's section.
func (w *SimpleWriter) writeDocument(sb *strings.Builder, doc *model.DocumentReport) {
	if len(doc.Findings) == 0 && !w.showClean {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(doc.Path)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(doc.Findings) == 0 {
		sb.WriteString("  No findings\n\n")
		return
	}

	for _, finding := range doc.Findings {
		indicator := w.getSeverityIndicator(finding.Severity)
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", indicator, finding.Message))
		if finding.Element != "" {
			sb.WriteString(fmt.Sprintf("      Element: %s\n", finding.Element))
		}
		if w.verbose {
			if hint := model.GetFindingInfo(finding.Type).Hint; hint != "" {
				sb.WriteString(fmt.Sprintf("      Hint: %s\n", hint))
			}
		}
	}
	sb.WriteString("\n")
}

// writeSummary writes the aggregate severity counts.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  STRUCTURE: %d\n", report.StructureCount))
	sb.WriteString(fmt.Sprintf("  WARNING:   %d\n", report.WarningCount))
	sb.WriteString(fmt.Sprintf("  INFO:      %d\n", report.InfoCount))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  TOTAL:     %d findings in %d documents\n",
		report.TotalFindings(), len(report.Documents)))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// getSeverityIndicator returns a visual indicator for the severity level.
func (w *SimpleWriter) getSeverityIndicator(severity model.Severity) string {
	switch severity {
	case model.SeverityStructure:
		return "!!"
	case model.SeverityWarning:
		return "!"
	case model.SeverityInfo:
		return "i"
	default:
		return "?"
	}
}
