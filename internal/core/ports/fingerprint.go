package ports

import "go.phenora.dev/phenoql/internal/core/domain"

// Fingerprinter derives the cache key of a task request from its content:
// task name, canonical parameter values, and document/cohort scope. The
// define name does not participate, so two defines with identical
// invocations share one computation.
//
//go:generate mockgen -source=fingerprint.go -destination=mocks/mock_fingerprint.go -package=mocks
type Fingerprinter interface {
	Fingerprint(req domain.TaskRequest) string
}
