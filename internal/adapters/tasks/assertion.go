package tasks

import (
	"context"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
)

// ProviderAssertion reports only affirmed term occurrences: matches with a
// negation cue in the preceding token window are dropped.
type ProviderAssertion struct {
	docs ports.DocumentStore
}

// Invoke scans like TermFinder but keeps affirmed matches only.
func (t *ProviderAssertion) Invoke(ctx context.Context, req domain.TaskRequest) ([]domain.ExecutionRow, error) {
	return scanDocuments(ctx, t.docs, req, func(m termMatch) (domain.Value, bool) {
		if m.negated {
			return domain.Absent(), false
		}
		return matchRecord(m), true
	})
}
