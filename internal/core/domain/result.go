package domain

import "sort"

// SubjectID identifies a patient or, under document context, a document.
type SubjectID string

// DocumentHandle identifies one document in the store without its text.
type DocumentHandle struct {
	ID         string    `json:"id" yaml:"id"`
	Subject    SubjectID `json:"subject" yaml:"subject"`
	ReportType string    `json:"report_type" yaml:"report_type"`
	Source     string    `json:"source,omitempty" yaml:"source,omitempty"`
}

// Document is a handle plus the fetched text and metadata.
type Document struct {
	DocumentHandle `yaml:",inline"`
	Date           string `json:"date,omitempty" yaml:"date,omitempty"`
	Text           string `json:"text" yaml:"text"`
}

// ExecutionRow is one per-subject value produced by a define. Document names
// the source document for task rows; it is empty for expression rows.
type ExecutionRow struct {
	Subject  SubjectID `json:"subject"`
	Document string    `json:"document,omitempty"`
	Value    Value     `json:"value"`
}

// ResultSet holds every row one define produced during a run.
type ResultSet struct {
	Define string
	Rows   []ExecutionRow
}

// RowsFor returns the rows belonging to one subject, in insertion order.
func (rs *ResultSet) RowsFor(subject SubjectID) []ExecutionRow {
	var rows []ExecutionRow
	for _, r := range rs.Rows {
		if r.Subject == subject {
			rows = append(rows, r)
		}
	}
	return rows
}

// Subjects returns the distinct subjects present in the set, sorted.
func (rs *ResultSet) Subjects() []SubjectID {
	seen := make(map[SubjectID]bool, len(rs.Rows))
	var out []SubjectID
	for _, r := range rs.Rows {
		if !seen[r.Subject] {
			seen[r.Subject] = true
			out = append(out, r.Subject)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TaskRequest is a fully resolved task invocation handed to a task runner.
// Identical requests must produce identical rows (idempotence makes caching
// sound).
type TaskRequest struct {
	Task      string
	Define    string
	Params    map[string]Value
	TermSets  []TermSet
	Documents []DocumentHandle
	Subjects  []SubjectID
	Context   Context
}
