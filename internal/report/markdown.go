package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/david672orford/htmlcheck/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeDocuments(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("htmlcheck Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run Date", report.Started.Format("2006-01-02 15:04:05 MST")},
			{"Documents", strconv.Itoa(len(report.Documents))},
			{"Findings", strconv.Itoa(report.TotalFindings())},
		},
	})
	md.PlainText("")
}

// writeSummary writes the severity summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Severity Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Severity", "Count"},
		Rows: [][]string{
			{"🔴 Structure", strconv.Itoa(report.StructureCount)},
			{"🟡 Warning", strconv.Itoa(report.WarningCount)},
			{"⚪ Info", strconv.Itoa(report.InfoCount)},
			{"**Total**", "**" + strconv.Itoa(report.TotalFindings()) + "**"},
		},
	})
	md.PlainText("")

	if report.TotalFindings() > 0 {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart for severity distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.RunReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Finding Severity Distribution"),
		piechart.WithShowData(true),
	)

	if report.StructureCount > 0 {
		chart.LabelAndIntValue("Structure", uint64(report.StructureCount))
	}
	if report.WarningCount > 0 {
		chart.LabelAndIntValue("Warning", uint64(report.WarningCount))
	}
	if report.InfoCount > 0 {
		chart.LabelAndIntValue("Info", uint64(report.InfoCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on severity counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RunReport) {
	switch {
	case report.StructureCount > 0:
		md.Cautionf(
			"Structural defects detected! %d document(s) could not be fully checked.",
			report.StructureCount,
		)
	case report.WarningCount > 0:
		md.Warningf(
			"%d style warning(s) found. Each one is a divergence from the site conventions.",
			report.WarningCount,
		)
	case report.TotalFindings() > 0:
		md.Note("Only informational findings detected.")
	default:
		md.Tip("All documents conform to the site conventions.")
	}
	md.PlainText("")
}

// writeDocuments writes one section per document with findings.
func (w *MarkdownWriter) writeDocuments(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Findings")
	md.PlainText("")

	any := false
	for _, doc := range report.Documents {
		if len(doc.Findings) == 0 {
			continue
		}
		any = true

		md.H3(doc.Path)
		md.PlainText("")
		w.writeFindingsTable(md, doc.Findings)
	}

	if !any {
		md.PlainText("No findings.")
		md.PlainText("")
	}
}

// writeFindingsTable writes a table of findings with details.
func (w *MarkdownWriter) writeFindingsTable(md *markdown.Markdown, findings []model.Finding) {
	headers := []string{"Severity", "Message", "Element"}

	rows := make([][]string, len(findings))
	for i, f := range findings {
		element := f.Element
		if element == "" {
			element = "-"
		}

		rows[i] = []string{
			f.SeverityText,
			truncateString(f.Message, 80),
			truncateString(element, 40),
		}
	}

	md.Table(markdown.TableSet{
		Header: headers,
		Rows:   rows,
	})
	md.PlainText("")

	// Add the fix hint for each distinct rule that fired
	seen := make(map[string]bool)
	for _, f := range findings {
		if seen[f.Type] {
			continue
		}
		seen[f.Type] = true
		if hint := model.GetFindingInfo(f.Type).Hint; hint != "" {
			md.Details(f.Type, hint)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [htmlcheck](https://github.com/david672orford/htmlcheck)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
