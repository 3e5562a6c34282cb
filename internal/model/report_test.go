package model

import "testing"

// TestNewFinding verifies severity resolution and field population.
func TestNewFinding(t *testing.T) {
	t.Parallel()

	f := NewFinding("img_missing_alt", "img: lacks alt attribute: hero hero.jpg", "img hero.jpg", "index.html")
	if f.Severity != SeverityWarning {
		t.Errorf("severity = %v, expected WARNING", f.Severity)
	}
	if f.SeverityText != "WARNING" {
		t.Errorf("severity text = %q, expected WARNING", f.SeverityText)
	}
	if f.Location != "index.html" {
		t.Errorf("location = %q", f.Location)
	}
}

// TestDocumentReportKeepsDuplicates verifies that identical findings are not
// collapsed: two identical violations are two findings.
func TestDocumentReportKeepsDuplicates(t *testing.T) {
	t.Parallel()

	r := NewDocumentReport("page.html")
	f := NewFinding("img_missing_alt", "img: lacks alt attribute: x.jpg", "img x.jpg", "page.html")
	r.AddFinding(f)
	r.AddFinding(f)

	if len(r.Findings) != 2 {
		t.Errorf("findings = %d, expected 2", len(r.Findings))
	}
	if r.WarningCount() != 2 {
		t.Errorf("warning count = %d, expected 2", r.WarningCount())
	}
}

// TestRunReportAggregation verifies severity counts roll up across documents.
func TestRunReportAggregation(t *testing.T) {
	t.Parallel()

	run := NewRunReport()

	doc1 := NewDocumentReport("a.html")
	doc1.AddFinding(NewFinding("broken_link", "broken link: missing.html", "a missing.html", "a.html"))
	doc1.AddFinding(NewFinding("exif_metadata", "image carries EXIF metadata", "img photo.jpg", "a.html"))
	run.AddDocument(doc1)

	doc2 := NewDocumentReport("b.html")
	doc2.AddFinding(NewFinding("structure", "head element missing", "", "b.html"))
	run.AddDocument(doc2)

	if run.WarningCount != 1 {
		t.Errorf("warnings = %d, expected 1", run.WarningCount)
	}
	if run.InfoCount != 1 {
		t.Errorf("infos = %d, expected 1", run.InfoCount)
	}
	if run.StructureCount != 1 {
		t.Errorf("structure = %d, expected 1", run.StructureCount)
	}
	if run.TotalFindings() != 3 {
		t.Errorf("total = %d, expected 3", run.TotalFindings())
	}
	if len(run.Documents) != 2 {
		t.Errorf("documents = %d, expected 2", len(run.Documents))
	}
}
