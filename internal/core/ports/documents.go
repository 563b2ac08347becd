package ports

import (
	"context"

	"go.phenora.dev/phenoql/internal/core/domain"
)

// DocumentStore is the document full-text collaborator.
//
//go:generate mockgen -source=documents.go -destination=mocks/mock_documents.go -package=mocks
type DocumentStore interface {
	// ResolveDocumentSet returns the handles matching the criteria. Empty
	// criteria match every document.
	ResolveDocumentSet(ctx context.Context, criteria domain.DocumentCriteria) ([]domain.DocumentHandle, error)

	// FetchDocumentText returns the document with its text and metadata.
	FetchDocumentText(ctx context.Context, id string) (*domain.Document, error)

	// Subjects returns the distinct subject identifiers present in the
	// store, sorted. Used when a library declares no cohort.
	Subjects(ctx context.Context) ([]domain.SubjectID, error)
}
