package model

import "time"

// Finding is one result from a conformance check.
// Findings are emitted as they are discovered, so their order in a
// DocumentReport matches the order they were printed.
type Finding struct {
	// Type identifies the rule that fired (see findingInfoMapping).
	Type string `json:"type"`

	// Severity is the assessed severity of this finding.
	Severity Severity `json:"-"`

	// SeverityText is the string form of Severity for serialization.
	SeverityText string `json:"severity"`

	// Message is the human-readable description, already formatted with the
	// offending values. This is what gets printed to the terminal.
	Message string `json:"message"`

	// Element describes the element that triggered the finding, typically
	// the tag name plus an identifying attribute (id, src, or href).
	Element string `json:"element,omitempty"`

	// Location is the path of the document the finding was raised in.
	Location string `json:"location"`
}

// NewFinding creates a Finding with its severity resolved from the type.
func NewFinding(findingType, message, element, location string) Finding {
	sev := GetSeverity(findingType)
	return Finding{
		Type:         findingType,
		Severity:     sev,
		SeverityText: sev.String(),
		Message:      message,
		Element:      element,
		Location:     location,
	}
}

// DocumentReport collects everything learned while checking one document.
//
// Design decision: The checker returns this as a value rather than mutating
// shared state so that checking a document is a pure function of its inputs
// plus filesystem reads. Script/robots accumulation in particular is modeled
// here instead of in process-wide counters.
type DocumentReport struct {
	// Path is the document that was checked, as given on the command line.
	Path string `json:"path"`

	// Findings are the advisory results, in emission order.
	Findings []Finding `json:"findings"`

	// ScriptTypes counts recognized script categories: the literal tag
	// "analytics" plus each distinct @type value found in JSON-LD bodies.
	ScriptTypes map[string]int `json:"script_types,omitempty"`

	// Meta holds name-keyed metadata from <meta name=...> elements.
	Meta map[string]string `json:"meta,omitempty"`

	// Properties holds Open Graph property-keyed metadata.
	Properties map[string]string `json:"properties,omitempty"`

	// Elapsed is how long the check took, including cross-document resolution.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// NewDocumentReport creates an empty report for the given document path.
func NewDocumentReport(path string) *DocumentReport {
	return &DocumentReport{
		Path:        path,
		Findings:    make([]Finding, 0),
		ScriptTypes: make(map[string]int),
		Meta:        make(map[string]string),
		Properties:  make(map[string]string),
	}
}

// AddFinding appends a finding.
// Duplicates are kept deliberately: two identical images each missing alt
// text are two violations, and the printed stream must match the stored list.
func (r *DocumentReport) AddFinding(f Finding) {
	r.Findings = append(r.Findings, f)
}

// WarningCount returns the number of findings at SeverityWarning.
func (r *DocumentReport) WarningCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// RunReport is the result of one htmlcheck invocation: the per-document
// reports in command-line argument order plus aggregate counts.
type RunReport struct {
	// Started is when the run began.
	Started time.Time `json:"started"`

	// Documents are the per-document reports, in check order.
	Documents []*DocumentReport `json:"documents"`

	// InfoCount, WarningCount, and StructureCount aggregate findings
	// across all documents.
	InfoCount      int `json:"info_count"`
	WarningCount   int `json:"warning_count"`
	StructureCount int `json:"structure_count"`
}

// NewRunReport creates an empty run report stamped with the current time.
func NewRunReport() *RunReport {
	return &RunReport{
		Started:   time.Now(),
		Documents: make([]*DocumentReport, 0),
	}
}

// AddDocument appends a document report and folds its findings into the
// aggregate severity counts.
func (r *RunReport) AddDocument(doc *DocumentReport) {
	r.Documents = append(r.Documents, doc)
	for _, f := range doc.Findings {
		switch f.Severity {
		case SeverityInfo:
			r.InfoCount++
		case SeverityWarning:
			r.WarningCount++
		case SeverityStructure:
			r.StructureCount++
		}
	}
}

// TotalFindings returns the number of findings across all documents.
func (r *RunReport) TotalFindings() int {
	return r.InfoCount + r.WarningCount + r.StructureCount
}
