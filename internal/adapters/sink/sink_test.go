package sink_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.phenora.dev/phenoql/internal/adapters/sink"
	"go.phenora.dev/phenoql/internal/core/domain"
)

func TestPublishAppendsOneLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.jsonl")
	s := sink.NewFileSink(path)
	defer func() { require.NoError(t, s.Close()) }()

	ctx := context.Background()
	require.NoError(t, s.Publish(ctx, domain.Membership{
		Phenotype:   "Sepsis",
		FinalDefine: "Septic",
		Subject:     "p1",
		Qualifies:   true,
	}))
	require.NoError(t, s.Publish(ctx, domain.Membership{
		Phenotype:   "Sepsis",
		FinalDefine: "Septic",
		Subject:     "p2",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	var first domain.Membership
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, domain.SubjectID("p1"), first.Subject)
	require.True(t, first.Qualifies)

	var second domain.Membership
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.False(t, second.Qualifies)
}

func TestPublishHonorsCancelledContext(t *testing.T) {
	s := sink.NewFileSink(filepath.Join(t.TempDir(), "results.jsonl"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Publish(ctx, domain.Membership{Phenotype: "Sepsis"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCloseWithoutPublishIsNoop(t *testing.T) {
	s := sink.NewFileSink(filepath.Join(t.TempDir(), "results.jsonl"))
	require.NoError(t, s.Close())
}
