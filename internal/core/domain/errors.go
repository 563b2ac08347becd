package domain

import "go.trai.ch/zerr"

// Annotate attaches a key/value pair to a sentinel while keeping the
// sentinel in the errors.Is chain. zerr.With on a bare sentinel copies its
// message into a fresh error that no longer unwraps to it; wrapping first
// keeps the sentinel as the cause. Further zerr.With calls on the result
// preserve the chain.
func Annotate(sentinel error, key string, value any) error {
	return zerr.With(zerr.Wrap(sentinel, ""), key, value)
}

var (
	// ErrSyntax is returned when the script text cannot be parsed.
	// It carries "line", "column" and "expected" fields.
	ErrSyntax = zerr.New("syntax error")

	// ErrUnresolvedReference is returned when an identifier does not resolve
	// to any declared entity.
	ErrUnresolvedReference = zerr.New("unresolved reference")

	// ErrCyclicDependency is returned when the define graph contains a cycle.
	// The "cycle" field names one witness cycle.
	ErrCyclicDependency = zerr.New("cyclic dependency")

	// ErrTypeMismatch is returned when an operator is applied to a value of
	// an incompatible kind.
	ErrTypeMismatch = zerr.New("type mismatch")

	// ErrUnknownTask is returned at validation time when a task invocation
	// names a task that is not present in the registry.
	ErrUnknownTask = zerr.New("unknown task")

	// ErrDuplicateDeclaration is returned when two declarations share a name.
	ErrDuplicateDeclaration = zerr.New("duplicate declaration")

	// ErrInvalidContext is returned when a context statement names something
	// other than Patient or Document.
	ErrInvalidContext = zerr.New("invalid context, expected 'Patient' or 'Document'")

	// ErrTaskExecution is returned when a task invocation fails at runtime.
	// It is attributed to one define and, where possible, one subject.
	ErrTaskExecution = zerr.New("task execution failed")

	// ErrCollaboratorUnavailable is returned when a required external
	// collaborator cannot be reached during leaf resolution.
	ErrCollaboratorUnavailable = zerr.New("collaborator unavailable")

	// ErrRunFailed is returned by the application layer when a phenotype run
	// reaches the Failed state.
	ErrRunFailed = zerr.New("phenotype run failed")

	// ErrScriptReadFailed is returned when the script file cannot be read.
	ErrScriptReadFailed = zerr.New("failed to read script file")

	// ErrConfigReadFailed is returned when the workspace file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read workspace file")

	// ErrConfigParseFailed is returned when the workspace file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse workspace file")

	// ErrCorpusReadFailed is returned when the document corpus cannot be read.
	ErrCorpusReadFailed = zerr.New("failed to read document corpus")

	// ErrCorpusParseFailed is returned when the document corpus cannot be parsed.
	ErrCorpusParseFailed = zerr.New("failed to parse document corpus")

	// ErrDocumentNotFound is returned when a document handle does not resolve.
	ErrDocumentNotFound = zerr.New("document not found")

	// ErrCohortReadFailed is returned when the cohort file cannot be read.
	ErrCohortReadFailed = zerr.New("failed to read cohort file")

	// ErrCohortParseFailed is returned when the cohort file cannot be parsed.
	ErrCohortParseFailed = zerr.New("failed to parse cohort file")

	// ErrCohortNotFound is returned when a cohort reference does not resolve.
	ErrCohortNotFound = zerr.New("cohort not found")

	// ErrCacheReadFailed is returned when a cached result cannot be read.
	ErrCacheReadFailed = zerr.New("failed to read cached result")

	// ErrCacheWriteFailed is returned when a result cannot be written to the cache.
	ErrCacheWriteFailed = zerr.New("failed to write cached result")

	// ErrSinkWriteFailed is returned when a membership record cannot be published.
	ErrSinkWriteFailed = zerr.New("failed to publish membership record")
)
