package parser

import "go.phenora.dev/phenoql/internal/core/domain"

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

// Program is the parsed script: an ordered list of statements.
type Program struct {
	Statements []Stmt
}

// Stmt is one parsed statement.
type Stmt interface {
	stmtNode()
	Pos() Position
}

type stmtBase struct {
	Position Position
}

func (s stmtBase) Pos() Position { return s.Position }

// PhenotypeStmt declares the library name and optional inline version.
type PhenotypeStmt struct {
	stmtBase
	Name    string
	Version string
}

// VersionStmt declares the library version.
type VersionStmt struct {
	stmtBase
	Version string
}

// DescriptionStmt declares the library description.
type DescriptionStmt struct {
	stmtBase
	Text string
}

// DataModelStmt declares the clinical data model identifier.
type DataModelStmt struct {
	stmtBase
	Name    string
	Version string
}

// IncludeStmt imports an external task catalog under an alias.
type IncludeStmt struct {
	stmtBase
	Path    string
	Version string
	Alias   string
}

// CodeSystemStmt declares a vocabulary name to URI mapping.
type CodeSystemStmt struct {
	stmtBase
	Name string
	URI  string
}

// TermSetStmt declares a named set of literal terms.
type TermSetStmt struct {
	stmtBase
	Name  string
	Terms []string
}

// DocumentSetStmt declares a named document filter via a catalog call.
type DocumentSetStmt struct {
	stmtBase
	Name string
	Call *Call
}

// CohortStmt declares a named external cohort reference, either as a string
// literal or as a catalog call whose first argument is the reference.
type CohortStmt struct {
	stmtBase
	Name string
	Ref  string
	Call *Call
}

// ContextStmt sets the subject granularity.
type ContextStmt struct {
	stmtBase
	Name string
}

// DefineStmt declares an intermediate computation. Exactly one of Call and
// Where is set.
type DefineStmt struct {
	stmtBase
	Name  string
	Final bool
	Call  *Call
	Where domain.Expr
}

// LimitStmt caps the number of subjects entering task dispatch.
type LimitStmt struct {
	stmtBase
	N int
}

// DebugStmt enables verbose diagnostics without altering results.
type DebugStmt struct {
	stmtBase
}

func (PhenotypeStmt) stmtNode()   {}
func (VersionStmt) stmtNode()     {}
func (DescriptionStmt) stmtNode() {}
func (DataModelStmt) stmtNode()   {}
func (IncludeStmt) stmtNode()     {}
func (CodeSystemStmt) stmtNode()  {}
func (TermSetStmt) stmtNode()     {}
func (DocumentSetStmt) stmtNode() {}
func (CohortStmt) stmtNode()      {}
func (ContextStmt) stmtNode()     {}
func (DefineStmt) stmtNode()      {}
func (LimitStmt) stmtNode()       {}
func (DebugStmt) stmtNode()       {}

// ArgKind discriminates call argument shapes.
type ArgKind int

const (
	// ArgLiteral is a scalar literal.
	ArgLiteral ArgKind = iota
	// ArgIdent is an identifier reference.
	ArgIdent
	// ArgList is an ordered argument list.
	ArgList
)

// Arg is one call argument or object field value.
type Arg struct {
	Kind     ArgKind
	Literal  domain.Value
	Ident    string
	List     []Arg
	Position Position
}

// Call is a dotted catalog invocation, for example
// Clarity.ProviderAssertion({...}) or Clarity.createReportTagList([...]).
type Call struct {
	Name     string
	Position Position

	// Object holds the fields of an object-literal argument; ObjectKeys
	// preserves their declaration order.
	Object     map[string]Arg
	ObjectKeys []string

	// Positional holds plain arguments when no object literal is used.
	Positional []Arg
}
