package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/david672orford/htmlcheck/internal/config"
	"github.com/david672orford/htmlcheck/internal/history"
	"github.com/david672orford/htmlcheck/internal/model"
)

// Trend directions reported by the compare command.
const (
	trendImproved  = "improved"
	trendWorsened  = "worsened"
	trendUnchanged = "unchanged"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [site-root]",
		Short: "Compare the two most recent check runs",
		Long: `Compare displays differences between the current and previous check runs
for a site: which findings are new, which were fixed, and whether the site
is trending cleaner.

The site root defaults to the current directory. Runs are matched by their
absolute site root path as recorded by the check command.

Examples:
  # Compare the two most recent runs for the current directory
  htmlcheck compare

  # Compare the latest run with a specific earlier run
  htmlcheck compare --with-run-id 3

  # Compare the latest run with the oldest run since a date
  htmlcheck compare --since 2026-01-01

  # List sites with stored history
  htmlcheck compare --list

  # List stored runs for a site
  htmlcheck compare --history /var/www/site`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	cmd.Flags().Bool("list", false, "List all sites with stored run history")
	cmd.Flags().Bool("history", false, "List stored runs for the site")
	cmd.Flags().Int64P("with-run-id", "i", 0, "Compare the latest run with the run with this ID")
	cmd.Flags().String("since", "", "Compare the latest run with the oldest run since this date (YYYY-MM-DD)")
	cmd.Flags().BoolP("json", "j", false, "Output comparison in JSON format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	db, err := history.Open(config.XDGDataDir(), history.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()

	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if list {
		return listSites(ctx, cmd, db)
	}

	siteRoot := "."
	if len(args) == 1 {
		siteRoot = args[0]
	}
	if siteRoot, err = filepath.Abs(siteRoot); err != nil {
		return fmt.Errorf("failed to resolve site root: %w", err)
	}

	showHistory, err := cmd.Flags().GetBool("history")
	if err != nil {
		return err
	}
	if showHistory {
		return listRunHistory(ctx, cmd, db, siteRoot)
	}

	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return runComparison(ctx, cmd, db, siteRoot, withRunID, sinceDate, jsonOutput)
}

// listSites prints every site root with stored history.
func listSites(ctx context.Context, cmd *cobra.Command, db *history.HistoryDB) error {
	sites, err := db.ListSites(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}

	if len(sites) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No run history found.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Sites with stored run history:")
	for _, site := range sites {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", site)
	}
	return nil
}

// listRunHistory prints the stored runs for one site.
func listRunHistory(ctx context.Context, cmd *cobra.Command, db *history.HistoryDB, siteRoot string) error {
	metas, err := db.GetRunHistoryWithMetadata(ctx, siteRoot)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}
	if len(metas) == 0 {
		return fmt.Errorf("no run history found for %s", siteRoot)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Run history for %s:\n\n", siteRoot)
	fmt.Fprintf(cmd.OutOrStdout(), "  %-6s %-20s %-10s %s\n", "ID", "Date", "Documents", "Findings")
	for _, meta := range metas {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-6d %-20s %-10d %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.DocumentCount,
			formatSummary(meta.Summary),
		)
	}
	return nil
}

// formatSummary renders a severity summary map in fixed order.
func formatSummary(summary map[string]int) string {
	if len(summary) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(summary))
	for _, key := range []string{"structure", "warning", "info"} {
		if n, ok := summary[key]; ok && n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", key, n))
		}
	}
	if len(parts) == 0 {
		return "clean"
	}
	return strings.Join(parts, " ")
}

// runComparison compares the latest run against an earlier one.
func runComparison(ctx context.Context, cmd *cobra.Command, db *history.HistoryDB, siteRoot string, withRunID int64, sinceDate string, jsonOutput bool) error {
	reports, err := db.GetRunHistory(ctx, siteRoot)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no run history found for %s", siteRoot)
	}
	if len(reports) < 2 && withRunID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(reports))
	}

	// The latest run is always the current one
	currentReport := reports[0]
	var previousReport *model.RunReport

	switch {
	case withRunID > 0:
		previousReport, err = db.GetRunReportByID(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to get run with ID %d: %w", withRunID, err)
		}
		if previousReport == nil {
			return fmt.Errorf("run with ID %d not found", withRunID)
		}
	case sinceDate != "":
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Runs are sorted newest first, so iterate in reverse to find the
		// oldest run at or after the date
		for i := len(reports) - 1; i >= 0; i-- {
			r := reports[i]
			if r.Started.After(parsedDate) || r.Started.Equal(parsedDate) {
				previousReport = r
				break
			}
		}
		if previousReport == nil {
			return fmt.Errorf("no runs found since %s", sinceDate)
		}
		if previousReport == currentReport {
			return fmt.Errorf("only one run found since %s; at least 2 runs are required for comparison", sinceDate)
		}
	default:
		previousReport = reports[1]
	}

	comparison := compareRuns(siteRoot, previousReport, currentReport)

	if jsonOutput {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(comparison)
	}
	return outputComparisonText(cmd, comparison)
}

// ComparisonResult holds the result of comparing two check runs.
type ComparisonResult struct {
	// SiteRoot is the site whose runs were compared.
	SiteRoot string `json:"site_root"`

	// PreviousRun contains metadata about the previous run.
	PreviousRun RunSummary `json:"previous_run"`

	// CurrentRun contains metadata about the current run.
	CurrentRun RunSummary `json:"current_run"`

	// NewFindings contains findings that are new in the current run.
	NewFindings []model.Finding `json:"new_findings,omitempty"`

	// ResolvedFindings contains findings from the previous run that are
	// gone in the current run.
	ResolvedFindings []model.Finding `json:"resolved_findings,omitempty"`

	// UnchangedCount is the number of findings present in both runs.
	UnchangedCount int `json:"unchanged_count"`

	// Trend describes the overall change between the runs.
	Trend Trend `json:"trend"`
}

// RunSummary contains metadata about one run for comparison display.
type RunSummary struct {
	// Started is when the run began.
	Started time.Time `json:"started"`

	// Documents is how many documents the run checked.
	Documents int `json:"documents"`

	// TotalFindings is the total number of findings in this run.
	TotalFindings int `json:"total_findings"`

	// StructureCount, WarningCount, and InfoCount break the total down.
	StructureCount int `json:"structure_count"`
	WarningCount   int `json:"warning_count"`
	InfoCount      int `json:"info_count"`
}

// Trend describes the change in findings between runs.
type Trend struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// StructureDelta, WarningDelta, and InfoDelta are the per-severity
	// count changes.
	StructureDelta int `json:"structure_delta"`
	WarningDelta   int `json:"warning_delta"`
	InfoDelta      int `json:"info_delta"`
}

// compareRuns compares two run reports and generates a comparison result.
func compareRuns(siteRoot string, previous, current *model.RunReport) *ComparisonResult {
	result := &ComparisonResult{
		SiteRoot:    siteRoot,
		PreviousRun: summarizeRun(previous),
		CurrentRun:  summarizeRun(current),
	}

	previousFindings := findingSet(previous)
	currentFindings := findingSet(current)

	// New findings: walk the current run in document order so the output
	// order is stable across invocations
	for _, doc := range current.Documents {
		for _, f := range doc.Findings {
			if _, exists := previousFindings[findingKey(f)]; !exists {
				result.NewFindings = append(result.NewFindings, f)
			}
		}
	}

	// Resolved findings: walk the previous run in document order
	for _, doc := range previous.Documents {
		for _, f := range doc.Findings {
			if _, exists := currentFindings[findingKey(f)]; exists {
				result.UnchangedCount++
			} else {
				result.ResolvedFindings = append(result.ResolvedFindings, f)
			}
		}
	}

	result.Trend = calculateTrend(result.PreviousRun, result.CurrentRun)
	return result
}

// summarizeRun extracts display metadata from a run report.
func summarizeRun(run *model.RunReport) RunSummary {
	return RunSummary{
		Started:        run.Started,
		Documents:      len(run.Documents),
		TotalFindings:  run.TotalFindings(),
		StructureCount: run.StructureCount,
		WarningCount:   run.WarningCount,
		InfoCount:      run.InfoCount,
	}
}

// findingSet builds a lookup of every finding in a run.
func findingSet(run *model.RunReport) map[string]model.Finding {
	set := make(map[string]model.Finding)
	for _, doc := range run.Documents {
		for _, f := range doc.Findings {
			set[findingKey(f)] = f
		}
	}
	return set
}

// findingKey generates a unique key for a finding for comparison purposes.
func findingKey(f model.Finding) string {
	return f.Type + "|" + f.Message + "|" + f.Location
}

// calculateTrend calculates the change in findings between two runs.
func calculateTrend(previous, current RunSummary) Trend {
	trend := Trend{
		StructureDelta: current.StructureCount - previous.StructureCount,
		WarningDelta:   current.WarningCount - previous.WarningCount,
		InfoDelta:      current.InfoCount - previous.InfoCount,
	}

	// Structural defects weigh more than warnings, warnings more than info
	previousScore := previous.StructureCount*100 + previous.WarningCount*10 + previous.InfoCount
	currentScore := current.StructureCount*100 + current.WarningCount*10 + current.InfoCount

	switch {
	case currentScore < previousScore:
		trend.Direction = trendImproved
	case currentScore > previousScore:
		trend.Direction = trendWorsened
	default:
		trend.Direction = trendUnchanged
	}

	return trend
}

// outputComparisonText outputs the comparison result in human-readable form.
func outputComparisonText(cmd *cobra.Command, result *ComparisonResult) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\nComparison for %s\n\n", result.SiteRoot)
	fmt.Fprintf(out, "  Previous run: %s (%d findings in %d documents)\n",
		result.PreviousRun.Started.Format("2006-01-02 15:04:05"),
		result.PreviousRun.TotalFindings, result.PreviousRun.Documents)
	fmt.Fprintf(out, "  Current run:  %s (%d findings in %d documents)\n\n",
		result.CurrentRun.Started.Format("2006-01-02 15:04:05"),
		result.CurrentRun.TotalFindings, result.CurrentRun.Documents)

	fmt.Fprintf(out, "  Trend: %s %s\n\n", formatTrendDirection(result.Trend.Direction), result.Trend.Direction)

	if len(result.NewFindings) > 0 {
		fmt.Fprintf(out, "  New findings (%d):\n", len(result.NewFindings))
		for _, f := range result.NewFindings {
			fmt.Fprintf(out, "    + [%s] %s: %s\n", f.SeverityText, f.Location, f.Message)
		}
		fmt.Fprintln(out)
	}

	if len(result.ResolvedFindings) > 0 {
		fmt.Fprintf(out, "  Resolved findings (%d):\n", len(result.ResolvedFindings))
		for _, f := range result.ResolvedFindings {
			fmt.Fprintf(out, "    - [%s] %s: %s\n", f.SeverityText, f.Location, f.Message)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "  Unchanged: %d findings\n", result.UnchangedCount)

	if byType := tallyNewByType(result.NewFindings); len(byType) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  New findings by rule:")
		for _, line := range byType {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}

	return nil
}

// tallyNewByType renders "rule: count" lines for the new findings, sorted
// by count descending then name.
func tallyNewByType(findings []model.Finding) []string {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Type]++
	}

	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if counts[types[i]] != counts[types[j]] {
			return counts[types[i]] > counts[types[j]]
		}
		return types[i] < types[j]
	})

	lines := make([]string, 0, len(types))
	for _, t := range types {
		lines = append(lines, fmt.Sprintf("%s: %d", t, counts[t]))
	}
	return lines
}

// formatTrendDirection returns a visual indicator for the trend direction.
func formatTrendDirection(direction string) string {
	switch direction {
	case trendImproved:
		return "✓"
	case trendWorsened:
		return "✗"
	default:
		return "="
	}
}
