package docstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.phenora.dev/phenoql/internal/adapters/docstore"
	"go.phenora.dev/phenoql/internal/core/domain"
)

const testCorpus = `
documents:
  - id: d2
    subject: p2
    report_type: Nurse
    source: EMR
    text: "Patient denies fever."
  - id: d1
    subject: p1
    report_type: Physician
    source: EMR
    text: "Assessment: septic shock."
  - id: d3
    subject: p1
    report_type: Radiology
    source: PACS
    text: "No acute findings."
`

func writeCorpus(t *testing.T, content string) *docstore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return docstore.NewStore(path)
}

func handleIDs(handles []domain.DocumentHandle) []string {
	ids := make([]string, len(handles))
	for i, h := range handles {
		ids[i] = h.ID
	}
	return ids
}

func TestResolveDocumentSetEmptyCriteriaMatchesAll(t *testing.T) {
	s := writeCorpus(t, testCorpus)

	handles, err := s.ResolveDocumentSet(context.Background(), domain.DocumentCriteria{})
	require.NoError(t, err)
	require.Equal(t, []string{"d1", "d2", "d3"}, handleIDs(handles))
}

func TestResolveDocumentSetFiltersCaseInsensitively(t *testing.T) {
	s := writeCorpus(t, testCorpus)

	handles, err := s.ResolveDocumentSet(context.Background(), domain.DocumentCriteria{
		ReportTypes: []string{"physician", "RADIOLOGY"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"d1", "d3"}, handleIDs(handles))

	handles, err = s.ResolveDocumentSet(context.Background(), domain.DocumentCriteria{
		ReportTypes: []string{"Radiology"},
		Sources:     []string{"pacs"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"d3"}, handleIDs(handles))
}

func TestFetchDocumentText(t *testing.T) {
	s := writeCorpus(t, testCorpus)

	doc, err := s.FetchDocumentText(context.Background(), "d1")
	require.NoError(t, err)
	require.Equal(t, domain.SubjectID("p1"), doc.Subject)
	require.Equal(t, "Assessment: septic shock.", doc.Text)

	_, err = s.FetchDocumentText(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestSubjectsDistinctAndSorted(t *testing.T) {
	s := writeCorpus(t, testCorpus)

	subjects, err := s.Subjects(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.SubjectID{"p1", "p2"}, subjects)
}

func TestCorpusReadFailure(t *testing.T) {
	s := docstore.NewStore(filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := s.Subjects(context.Background())
	require.ErrorIs(t, err, domain.ErrCorpusReadFailed)
}

func TestCorpusParseFailure(t *testing.T) {
	s := writeCorpus(t, "documents: [broken")

	_, err := s.ResolveDocumentSet(context.Background(), domain.DocumentCriteria{})
	require.ErrorIs(t, err, domain.ErrCorpusParseFailed)
}
