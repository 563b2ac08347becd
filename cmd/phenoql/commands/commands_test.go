package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.phenora.dev/phenoql/cmd/phenoql/commands"
	"go.phenora.dev/phenoql/internal/app"
	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports/mocks"
	"go.phenora.dev/phenoql/internal/engine/binder"
	"go.phenora.dev/phenoql/internal/engine/parser"
	"go.phenora.dev/phenoql/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

type cliTestMocks struct {
	loader *mocks.MockLibraryLoader
	docs   *mocks.MockDocumentStore
	sink   *mocks.MockResultSink
	logger *mocks.MockLogger
}

func setupCLITest(t *testing.T) (*commands.CLI, cliTestMocks, *bytes.Buffer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := cliTestMocks{
		loader: mocks.NewMockLibraryLoader(ctrl),
		docs:   mocks.NewMockDocumentStore(ctrl),
		sink:   mocks.NewMockResultSink(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}

	m.logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Error(gomock.Any()).AnyTimes()

	sched := scheduler.New(
		mocks.NewMockTaskRegistry(ctrl),
		m.docs,
		mocks.NewMockCohortResolver(ctrl),
		mocks.NewMockResultCache(ctrl),
		mocks.NewMockFingerprinter(ctrl),
		m.logger,
	)
	a := app.New(m.loader, sched, m.sink, &domain.Workspace{Parallelism: 2}, m.logger)

	cli := commands.New(a, m.logger)
	out := &bytes.Buffer{}
	cli.SetOutput(out)
	return cli, m, out
}

func bindScript(t *testing.T, src string) (*domain.Library, *domain.Graph) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)

	catalog := mocks.NewMockTaskRegistry(gomock.NewController(t))
	catalog.EXPECT().Lookup(gomock.Any()).Return(nil, true).AnyTimes()

	lib, graph, err := binder.Bind(prog, catalog)
	require.NoError(t, err)
	return lib, graph
}

func TestCheckCommandReportsValidScript(t *testing.T) {
	cli, m, out := setupCLITest(t)

	lib, graph := bindScript(t, `
phenotype "Sepsis" version "1";
define a: where true;
define final b: where a;
`)
	m.loader.EXPECT().Load("script.nlpql").Return(lib, graph, nil)

	cli.SetArgs([]string{"check", "script.nlpql"})
	require.NoError(t, cli.Execute(context.Background()))
	require.Contains(t, out.String(), "Sepsis is valid: 2 defines, 1 final")
}

func TestCheckCommandFailsOnBrokenScript(t *testing.T) {
	cli, m, _ := setupCLITest(t)

	m.loader.EXPECT().Load("script.nlpql").
		Return(nil, nil, errors.Join(domain.ErrSyntax, errors.New("line 3")))

	cli.SetArgs([]string{"check", "script.nlpql"})
	err := cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrSyntax)
}

func TestRunCommandPrintsReport(t *testing.T) {
	cli, m, out := setupCLITest(t)

	lib, graph := bindScript(t, `
phenotype "Sepsis" version "1";
define final x: where true;
`)
	m.loader.EXPECT().Load("script.nlpql").Return(lib, graph, nil)
	m.docs.EXPECT().ResolveDocumentSet(gomock.Any(), domain.DocumentCriteria{}).
		Return(nil, nil).AnyTimes()
	m.docs.EXPECT().Subjects(gomock.Any()).
		Return([]domain.SubjectID{"p1", "p2"}, nil)
	m.sink.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	cli.SetArgs([]string{"run", "script.nlpql"})
	require.NoError(t, cli.Execute(context.Background()))

	require.Contains(t, out.String(), "phenotype:   Sepsis")
	require.Contains(t, out.String(), "subjects:    2")
	require.Contains(t, out.String(), "memberships: 2 (2 qualify)")
}

func TestDebugFlagEnablesVerboseLogging(t *testing.T) {
	cli, m, _ := setupCLITest(t)

	lib, graph := bindScript(t, `define a: where true;`)
	m.loader.EXPECT().Load("script.nlpql").Return(lib, graph, nil)
	m.logger.EXPECT().SetDebug(true).MinTimes(1)

	cli.SetArgs([]string{"--debug", "check", "script.nlpql"})
	require.NoError(t, cli.Execute(context.Background()))
}

func TestVersionCommand(t *testing.T) {
	cli, _, out := setupCLITest(t)

	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
	require.Contains(t, out.String(), "dev")
}
