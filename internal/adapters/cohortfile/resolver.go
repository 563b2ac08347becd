// Package cohortfile resolves cohort references against a YAML file mapping
// references to subject lists.
package cohortfile

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"

	"go.phenora.dev/phenoql/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Resolver implements ports.CohortResolver over a single file. The file is
// read once, on first resolution.
type Resolver struct {
	path string

	once    sync.Once
	err     error
	cohorts map[string][]domain.SubjectID
}

// NewResolver creates a resolver for the cohort file at path.
func NewResolver(path string) *Resolver {
	return &Resolver{path: path}
}

type cohortFile struct {
	Cohorts map[string][]domain.SubjectID `yaml:"cohorts"`
}

func (r *Resolver) load() error {
	r.once.Do(func() {
		//nolint:gosec // path comes from the workspace configuration
		data, err := os.ReadFile(r.path)
		if err != nil {
			r.err = errors.Join(
				domain.ErrCohortReadFailed,
				zerr.With(err, "path", r.path),
			)
			return
		}

		var file cohortFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			r.err = errors.Join(
				domain.ErrCohortParseFailed,
				zerr.With(err, "path", r.path),
			)
			return
		}
		r.cohorts = file.Cohorts
	})
	return r.err
}

// ResolveCohort returns the subjects registered under ref, sorted and
// deduplicated.
func (r *Resolver) ResolveCohort(ctx context.Context, ref string) ([]domain.SubjectID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.load(); err != nil {
		return nil, err
	}

	subjects, ok := r.cohorts[ref]
	if !ok {
		return nil, domain.Annotate(domain.ErrCohortNotFound, "ref", ref)
	}

	seen := make(map[domain.SubjectID]bool, len(subjects))
	out := make([]domain.SubjectID, 0, len(subjects))
	for _, s := range subjects {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
