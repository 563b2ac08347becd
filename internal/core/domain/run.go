package domain

// RunState tracks a phenotype run through its lifecycle.
type RunState int

const (
	// StateParsed means the script parsed into an AST.
	StateParsed RunState = iota
	// StateValidated means binding and graph validation succeeded.
	StateValidated
	// StateScheduled means the run plan was computed.
	StateScheduled
	// StateExecuting means DAG nodes are being executed.
	StateExecuting
	// StateAggregated means final defines were collected into memberships.
	StateAggregated
	// StateComplete is the successful terminal state. A complete run may
	// still carry per-subject errors in its manifest.
	StateComplete
	// StateFailed is the failed terminal state.
	StateFailed
)

// String returns the state name.
func (s RunState) String() string {
	switch s {
	case StateParsed:
		return "Parsed"
	case StateValidated:
		return "Validated"
	case StateScheduled:
		return "Scheduled"
	case StateExecuting:
		return "Executing"
	case StateAggregated:
		return "Aggregated"
	case StateComplete:
		return "Complete"
	default:
		return "Failed"
	}
}

// SubjectError attributes a runtime failure to one subject/define pair.
// Subject is empty when a whole invocation failed before producing rows.
type SubjectError struct {
	Subject SubjectID `json:"subject,omitempty"`
	Define  string    `json:"define"`
	Message string    `json:"message"`
}

// Membership is one phenotype membership record. Each final define is
// reported independently; the engine never combines finals implicitly.
type Membership struct {
	Phenotype   string           `json:"phenotype"`
	FinalDefine string           `json:"final_define"`
	Subject     SubjectID        `json:"subject"`
	Qualifies   bool             `json:"qualifies"`
	Supporting  map[string]Value `json:"supporting,omitempty"`
}

// RunReport summarizes one phenotype run.
type RunReport struct {
	RunID         string
	Phenotype     string
	State         RunState
	Subjects      int
	Memberships   []Membership
	SubjectErrors []SubjectError
	CacheHits     int
	CacheMisses   int
}

// Workspace is the engine's resolved workspace configuration.
type Workspace struct {
	CorpusPath  string
	CohortPath  string
	CacheDir    string
	ResultPath  string
	Parallelism int
}
