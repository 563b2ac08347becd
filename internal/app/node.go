package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.phenora.dev/phenoql/internal/adapters/cache"       //nolint:depguard // Wired in app layer
	"go.phenora.dev/phenoql/internal/adapters/cohortfile"  //nolint:depguard // Wired in app layer
	"go.phenora.dev/phenoql/internal/adapters/docstore"    //nolint:depguard // Wired in app layer
	"go.phenora.dev/phenoql/internal/adapters/fingerprint" //nolint:depguard // Wired in app layer
	"go.phenora.dev/phenoql/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.phenora.dev/phenoql/internal/adapters/script"      //nolint:depguard // Wired in app layer
	"go.phenora.dev/phenoql/internal/adapters/sink"        //nolint:depguard // Wired in app layer
	"go.phenora.dev/phenoql/internal/adapters/tasks"       //nolint:depguard // Wired in app layer
	"go.phenora.dev/phenoql/internal/adapters/workspace"
	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
	"go.phenora.dev/phenoql/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App graft node.
	AppNodeID graft.ID = "app.main"
	// SchedulerNodeID is the unique identifier for the engine scheduler node.
	SchedulerNodeID graft.ID = "engine.scheduler"
	// ComponentsNodeID is the unique identifier for the app components node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*scheduler.Scheduler]{
		ID:        SchedulerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			tasks.NodeID,
			docstore.NodeID,
			cohortfile.NodeID,
			cache.NodeID,
			fingerprint.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*scheduler.Scheduler, error) {
			registry, err := graft.Dep[ports.TaskRegistry](ctx)
			if err != nil {
				return nil, err
			}
			docs, err := graft.Dep[ports.DocumentStore](ctx)
			if err != nil {
				return nil, err
			}
			cohorts, err := graft.Dep[ports.CohortResolver](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.ResultCache](ctx)
			if err != nil {
				return nil, err
			}
			prints, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return scheduler.New(registry, docs, cohorts, store, prints, log), nil
		},
	})

	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			script.NodeID,
			SchedulerNodeID,
			sink.NodeID,
			workspace.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.LibraryLoader](ctx)
			if err != nil {
				return nil, err
			}
			sched, err := graft.Dep[*scheduler.Scheduler](ctx)
			if err != nil {
				return nil, err
			}
			results, err := graft.Dep[ports.ResultSink](ctx)
			if err != nil {
				return nil, err
			}
			ws, err := graft.Dep[*domain.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(loader, sched, results, ws, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: application, Logger: log}, nil
		},
	})
}
