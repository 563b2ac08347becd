package cohortfile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.phenora.dev/phenoql/internal/adapters/cohortfile"
	"go.phenora.dev/phenoql/internal/core/domain"
)

func writeCohorts(t *testing.T, content string) *cohortfile.Resolver {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cohorts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return cohortfile.NewResolver(path)
}

func TestResolveCohortSortsAndDeduplicates(t *testing.T) {
	r := writeCohorts(t, `
cohorts:
  "registry:icu": [p3, p1, p3, p2]
`)

	subjects, err := r.ResolveCohort(context.Background(), "registry:icu")
	require.NoError(t, err)
	require.Equal(t, []domain.SubjectID{"p1", "p2", "p3"}, subjects)
}

func TestResolveCohortUnknownRef(t *testing.T) {
	r := writeCohorts(t, `
cohorts:
  "registry:icu": [p1]
`)

	_, err := r.ResolveCohort(context.Background(), "registry:ward")
	require.ErrorIs(t, err, domain.ErrCohortNotFound)
}

func TestResolveCohortReadFailure(t *testing.T) {
	r := cohortfile.NewResolver(filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := r.ResolveCohort(context.Background(), "registry:icu")
	require.ErrorIs(t, err, domain.ErrCohortReadFailed)
}

func TestResolveCohortParseFailure(t *testing.T) {
	r := writeCohorts(t, "cohorts: [not a map")

	_, err := r.ResolveCohort(context.Background(), "registry:icu")
	require.ErrorIs(t, err, domain.ErrCohortParseFailed)
}
