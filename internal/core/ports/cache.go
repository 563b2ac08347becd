package ports

import (
	"context"

	"go.phenora.dev/phenoql/internal/core/domain"
)

// ResultCache stores task result sets keyed by fingerprint. Writes are
// atomic: a stored computation is either fully visible or not visible at
// all. Single-flight coalescing of concurrent identical computations is
// enforced by the scheduler, not here.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ResultCache interface {
	// Get returns the cached rows for a fingerprint.
	// A miss returns nil, nil.
	Get(ctx context.Context, fingerprint string) ([]domain.ExecutionRow, error)

	// PutIfAbsent stores rows under a fingerprint unless an entry already
	// exists. Storing nil rows records an empty result set.
	PutIfAbsent(ctx context.Context, fingerprint string, rows []domain.ExecutionRow) error
}
