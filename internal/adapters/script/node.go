package script

import (
	"context"

	"github.com/grindlemire/graft"
	"go.phenora.dev/phenoql/internal/adapters/logger"
	"go.phenora.dev/phenoql/internal/adapters/tasks"
	"go.phenora.dev/phenoql/internal/core/ports"
)

const NodeID graft.ID = "adapter.library_loader"

func init() {
	graft.Register(graft.Node[ports.LibraryLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, tasks.NodeID},
		Run: func(ctx context.Context) (ports.LibraryLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			catalog, err := graft.Dep[ports.TaskRegistry](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(catalog, log), nil
		},
	})
}
