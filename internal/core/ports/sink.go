package ports

import (
	"context"

	"go.phenora.dev/phenoql/internal/core/domain"
)

// ResultSink receives phenotype membership records as they are aggregated.
//
//go:generate mockgen -source=sink.go -destination=mocks/mock_sink.go -package=mocks
type ResultSink interface {
	Publish(ctx context.Context, m domain.Membership) error
}
