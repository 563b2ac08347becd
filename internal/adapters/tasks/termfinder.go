package tasks

import (
	"context"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
	"go.trai.ch/zerr"
)

// TermFinder reports every occurrence of the bound terms, negated or not.
// One row per match, carrying the matched term, its sentence and offsets.
type TermFinder struct {
	docs ports.DocumentStore
}

// Invoke scans every document in scope whose subject is in scope.
func (t *TermFinder) Invoke(ctx context.Context, req domain.TaskRequest) ([]domain.ExecutionRow, error) {
	return scanDocuments(ctx, t.docs, req, func(m termMatch) (domain.Value, bool) {
		return matchRecord(m), true
	})
}

// scanDocuments runs the term scan shared by the builtin runners. The emit
// callback decides whether a match produces a row and with which value.
func scanDocuments(
	ctx context.Context,
	docs ports.DocumentStore,
	req domain.TaskRequest,
	emit func(m termMatch) (domain.Value, bool),
) ([]domain.ExecutionRow, error) {
	terms := collectTerms(req)
	subjects := subjectSet(req)

	rows := []domain.ExecutionRow{}
	for _, handle := range req.Documents {
		if len(subjects) > 0 && !subjects[handle.Subject] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := docs.FetchDocumentText(ctx, handle.ID)
		if err != nil {
			return nil, zerr.With(err, "document", handle.ID)
		}

		for _, m := range findTerms(doc.Text, terms) {
			v, ok := emit(m)
			if !ok {
				continue
			}
			subject := handle.Subject
			if req.Context == domain.ContextDocument {
				subject = domain.SubjectID(handle.ID)
			}
			rows = append(rows, domain.ExecutionRow{
				Subject:  subject,
				Document: handle.ID,
				Value:    v,
			})
		}
	}
	return rows, nil
}
