// Package app implements the application layer: it drives a phenotype run
// through its lifecycle from script to published memberships.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
	"go.phenora.dev/phenoql/internal/engine/aggregate"
	"go.phenora.dev/phenoql/internal/engine/scheduler"
)

// App represents the main application logic.
type App struct {
	loader    ports.LibraryLoader
	scheduler *scheduler.Scheduler
	sink      ports.ResultSink
	workspace *domain.Workspace
	logger    ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.LibraryLoader,
	sched *scheduler.Scheduler,
	sink ports.ResultSink,
	ws *domain.Workspace,
	logger ports.Logger,
) *App {
	return &App{
		loader:    loader,
		scheduler: sched,
		sink:      sink,
		workspace: ws,
		logger:    logger,
	}
}

// RunOptions are the per-invocation overrides from the CLI.
type RunOptions struct {
	// NoCache bypasses the result cache.
	NoCache bool
	// Parallelism overrides the workspace setting when positive.
	Parallelism int
	// Debug forces verbose diagnostics regardless of the script.
	Debug bool
}

// Run executes the phenotype script at path and returns the run report. A
// report with a non-empty error manifest is still a completed run; only
// static-analysis failures and collaborator failures abort.
func (a *App) Run(ctx context.Context, path string, opts RunOptions) (*domain.RunReport, error) {
	report := &domain.RunReport{RunID: uuid.NewString()}

	lib, graph, err := a.loader.Load(path)
	if err != nil {
		report.State = domain.StateFailed
		return report, err
	}
	report.Phenotype = lib.Name
	report.State = domain.StateValidated

	if lib.Debug || opts.Debug {
		a.logger.SetDebug(true)
	}
	a.logger.Info(fmt.Sprintf("run %s: %s validated, %d defines", report.RunID, lib.Name, len(lib.Defines)))

	parallelism := a.workspace.Parallelism
	if opts.Parallelism > 0 {
		parallelism = opts.Parallelism
	}

	report.State = domain.StateExecuting
	outcome, err := a.scheduler.Run(ctx, lib, graph, scheduler.Options{
		Parallelism: parallelism,
		NoCache:     opts.NoCache,
	})
	if err != nil {
		report.State = domain.StateFailed
		return report, errors.Join(domain.ErrRunFailed, err)
	}

	report.Subjects = len(outcome.Subjects)
	report.SubjectErrors = outcome.SubjectErrors
	report.CacheHits = outcome.CacheHits
	report.CacheMisses = outcome.CacheMisses

	memberships := aggregate.Collect(lib, outcome.Env, outcome.Subjects)
	report.State = domain.StateAggregated

	if err := aggregate.Publish(ctx, a.sink, memberships); err != nil {
		report.State = domain.StateFailed
		return report, err
	}
	report.Memberships = memberships
	report.State = domain.StateComplete

	a.logger.Info(fmt.Sprintf(
		"run %s complete: %d subjects, %d memberships, %d errors, cache %d/%d",
		report.RunID, report.Subjects, len(memberships),
		len(report.SubjectErrors), report.CacheHits, report.CacheHits+report.CacheMisses,
	))
	return report, nil
}

// Check parses and validates a script without executing it.
func (a *App) Check(path string) (*domain.Library, error) {
	lib, _, err := a.loader.Load(path)
	if err != nil {
		return nil, err
	}
	return lib, nil
}
