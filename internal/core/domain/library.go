// Package domain contains the core model for phenotype libraries, their
// dependency graph, and the values and records produced by a run.
package domain

// Context is the subject granularity at which results are aggregated.
type Context int

const (
	// ContextPatient aggregates document-level rows per patient.
	ContextPatient Context = iota
	// ContextDocument keeps one row per document.
	ContextDocument
)

// String returns the canonical context name.
func (c Context) String() string {
	if c == ContextDocument {
		return "Document"
	}
	return "Patient"
}

// ParseContext maps a context statement argument to a Context.
func ParseContext(s string) (Context, error) {
	switch s {
	case "Patient", "patient":
		return ContextPatient, nil
	case "Document", "document":
		return ContextDocument, nil
	default:
		return ContextPatient, Annotate(ErrInvalidContext, "got", s)
	}
}

// Include names an external task catalog made available under an alias.
type Include struct {
	Path    string
	Version string
	Alias   string
}

// CodeSystem maps a vocabulary name to its URI.
type CodeSystem struct {
	Name string
	URI  string
}

// TermSet is a named set of literal terms used as task input.
type TermSet struct {
	Name  string
	Terms []string
}

// DocumentCriteria describes which documents a task should scan.
type DocumentCriteria struct {
	ReportTypes []string `json:"report_types,omitempty" yaml:"report_types,omitempty"`
	Sources     []string `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// DocumentSet is a named document filter.
type DocumentSet struct {
	Name     string
	Criteria DocumentCriteria
}

// Cohort is a named reference to an externally resolved set of subjects.
type Cohort struct {
	Name string
	Ref  string
}

// DefineKind discriminates the two define body shapes.
type DefineKind int

const (
	// DefineTask is a task invocation.
	DefineTask DefineKind = iota
	// DefineExpression is a logical/threshold expression.
	DefineExpression
)

// ResultKind is the inferred result shape of a define.
type ResultKind int

const (
	// ResultRecord marks task defines, which yield structured rows.
	ResultRecord ResultKind = iota
	// ResultBool marks expression defines.
	ResultBool
)

// Define is a named intermediate computation.
type Define struct {
	Name       string
	Final      bool
	Kind       DefineKind
	Task       *TaskInvocation // set when Kind == DefineTask
	Expr       Expr            // set when Kind == DefineExpression
	ResultKind ResultKind

	// DependsOn lists the names of every declared entity the body consumes,
	// in first-reference order.
	DependsOn []string
}

// ParamKind discriminates task parameter bindings.
type ParamKind int

const (
	// ParamLiteral is a literal scalar value.
	ParamLiteral ParamKind = iota
	// ParamRef is a reference to a declared entity.
	ParamRef
	// ParamList is an ordered list of parameters.
	ParamList
)

// Param is one parameter binding of a task invocation.
type Param struct {
	Kind    ParamKind
	Literal Value
	Ref     string
	List    []Param
}

// LiteralParam wraps a literal value.
func LiteralParam(v Value) Param { return Param{Kind: ParamLiteral, Literal: v} }

// RefParam wraps an entity reference.
func RefParam(name string) Param { return Param{Kind: ParamRef, Ref: name} }

// ListParam wraps a parameter list.
func ListParam(items ...Param) Param { return Param{Kind: ParamList, List: items} }

// TaskInvocation binds a registered task to its parameters. Bound reference
// parameters are classified by entity kind during validation.
type TaskInvocation struct {
	Task   string
	Params map[string]Param

	// Classified references, filled by the binder.
	TermSets     []string
	DocumentSets []string
	Cohorts      []string
	Defines      []string
}

// Library is the root entity of a parsed and validated phenotype script.
// It is immutable for the remainder of a run.
type Library struct {
	Name             string
	Version          string
	Description      string
	DataModel        string
	DataModelVersion string
	Includes         []Include
	CodeSystems      []CodeSystem
	TermSets         []TermSet
	DocumentSets     []DocumentSet
	Cohorts          []Cohort
	Context          Context
	Defines          []*Define
	Limit            int
	Debug            bool
}

// TermSet returns the named term set.
func (l *Library) TermSet(name string) (TermSet, bool) {
	for _, ts := range l.TermSets {
		if ts.Name == name {
			return ts, true
		}
	}
	return TermSet{}, false
}

// DocumentSet returns the named document set.
func (l *Library) DocumentSet(name string) (DocumentSet, bool) {
	for _, ds := range l.DocumentSets {
		if ds.Name == name {
			return ds, true
		}
	}
	return DocumentSet{}, false
}

// Cohort returns the named cohort.
func (l *Library) Cohort(name string) (Cohort, bool) {
	for _, c := range l.Cohorts {
		if c.Name == name {
			return c, true
		}
	}
	return Cohort{}, false
}

// Define returns the named define.
func (l *Library) Define(name string) (*Define, bool) {
	for _, d := range l.Defines {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// FinalDefines returns the defines flagged final, in declaration order.
// A library with none is valid but yields no membership.
func (l *Library) FinalDefines() []*Define {
	var finals []*Define
	for _, d := range l.Defines {
		if d.Final {
			finals = append(finals, d)
		}
	}
	return finals
}
