package ports

import (
	"context"

	"go.phenora.dev/phenoql/internal/core/domain"
)

// CohortResolver resolves a cohort reference to subject identifiers.
// Resolution happens lazily, once per run, during leaf hydration.
//
//go:generate mockgen -source=cohort.go -destination=mocks/mock_cohort.go -package=mocks
type CohortResolver interface {
	ResolveCohort(ctx context.Context, ref string) ([]domain.SubjectID, error)
}
