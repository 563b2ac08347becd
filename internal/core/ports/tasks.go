// Package ports defines the collaborator interfaces of the engine.
package ports

import (
	"context"

	"go.phenora.dev/phenoql/internal/core/domain"
)

// TaskRunner executes one registered extraction task over a resolved scope.
//
// Implementations must be idempotent for identical requests so that caching
// by fingerprint is sound.
//
//go:generate mockgen -source=tasks.go -destination=mocks/mock_tasks.go -package=mocks
type TaskRunner interface {
	// Invoke produces one row per subject/document that matched. Subjects
	// with no extractable value are simply absent from the returned rows.
	Invoke(ctx context.Context, req domain.TaskRequest) ([]domain.ExecutionRow, error)
}

// TaskRegistry maps task invocation names to runners. It is populated at
// process start and read-only afterwards.
type TaskRegistry interface {
	// Lookup returns the runner registered under the given name.
	Lookup(name string) (TaskRunner, bool)

	// Names returns every registered task name, sorted.
	Names() []string
}
