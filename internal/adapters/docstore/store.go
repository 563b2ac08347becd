// Package docstore implements the document collaborator over a YAML corpus
// file.
package docstore

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"sync"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Store implements ports.DocumentStore over a single corpus file. The file
// is read once, on first use.
type Store struct {
	path string

	once sync.Once
	err  error
	docs []domain.Document
	byID map[string]*domain.Document
}

// NewStore creates a store for the corpus at path. The file is not opened
// until the first query.
func NewStore(path string) *Store {
	return &Store{path: path}
}

type corpusFile struct {
	Documents []domain.Document `yaml:"documents"`
}

func (s *Store) load() error {
	s.once.Do(func() {
		//nolint:gosec // path comes from the workspace configuration
		data, err := os.ReadFile(s.path)
		if err != nil {
			s.err = errors.Join(
				domain.ErrCorpusReadFailed,
				zerr.With(err, "path", s.path),
			)
			return
		}

		var file corpusFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			s.err = errors.Join(
				domain.ErrCorpusParseFailed,
				zerr.With(err, "path", s.path),
			)
			return
		}

		s.docs = file.Documents
		s.byID = make(map[string]*domain.Document, len(s.docs))
		for i := range s.docs {
			s.byID[s.docs[i].ID] = &s.docs[i]
		}
	})
	return s.err
}

// ResolveDocumentSet returns the handles matching the criteria. Report type
// and source matching is case-insensitive; empty criteria match everything.
func (s *Store) ResolveDocumentSet(ctx context.Context, criteria domain.DocumentCriteria) ([]domain.DocumentHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, err
	}

	handles := make([]domain.DocumentHandle, 0, len(s.docs))
	for _, d := range s.docs {
		if !matches(criteria.ReportTypes, d.ReportType) {
			continue
		}
		if !matches(criteria.Sources, d.Source) {
			continue
		}
		handles = append(handles, d.DocumentHandle)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i].ID < handles[j].ID })
	return handles, nil
}

func matches(wanted []string, got string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if strings.EqualFold(w, got) {
			return true
		}
	}
	return false
}

// FetchDocumentText returns the document with its text.
func (s *Store) FetchDocumentText(ctx context.Context, id string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, err
	}

	doc, ok := s.byID[id]
	if !ok {
		return nil, domain.Annotate(domain.ErrDocumentNotFound, "id", id)
	}
	return doc, nil
}

// Subjects returns the distinct subjects in the corpus, sorted.
func (s *Store) Subjects(ctx context.Context) ([]domain.SubjectID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.load(); err != nil {
		return nil, err
	}

	seen := make(map[domain.SubjectID]bool)
	var out []domain.SubjectID
	for _, d := range s.docs {
		if !seen[d.Subject] {
			seen[d.Subject] = true
			out = append(out, d.Subject)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
