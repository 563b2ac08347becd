package tasks

import (
	"context"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
)

// ValueExtraction finds a term and extracts the nearest numeric value
// following it in the same sentence. The minimum_value and maximum_value
// parameters bound accepted values; out-of-range extractions produce no row.
type ValueExtraction struct {
	docs ports.DocumentStore
}

// Invoke scans the documents in scope and emits one row per in-range value.
func (t *ValueExtraction) Invoke(ctx context.Context, req domain.TaskRequest) ([]domain.ExecutionRow, error) {
	min, hasMin := numberParam(req, "minimum_value")
	max, hasMax := numberParam(req, "maximum_value")

	return scanDocuments(ctx, t.docs, req, func(m termMatch) (domain.Value, bool) {
		// Offsets are document-relative; rebase onto the sentence.
		pos := m.end - m.start
		if i := indexFold(m.sentence, m.term); i >= 0 {
			pos = i + len(m.term)
		}
		n, ok := numberAfter(m.sentence, pos)
		if !ok {
			return domain.Absent(), false
		}
		if hasMin && n < min {
			return domain.Absent(), false
		}
		if hasMax && n > max {
			return domain.Absent(), false
		}
		return domain.RecordValue(map[string]domain.Value{
			"value":    domain.NumberValue(n),
			"term":     domain.StringValue(m.term),
			"sentence": domain.StringValue(m.sentence),
		}), true
	})
}

func numberParam(req domain.TaskRequest, name string) (float64, bool) {
	v, ok := req.Params[name]
	if !ok || v.Kind != domain.KindNumber {
		return 0, false
	}
	return v.Number, true
}

