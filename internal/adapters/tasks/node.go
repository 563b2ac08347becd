package tasks

import (
	"context"

	"github.com/grindlemire/graft"
	"go.phenora.dev/phenoql/internal/adapters/docstore"
	"go.phenora.dev/phenoql/internal/core/ports"
)

const NodeID graft.ID = "adapter.task_registry"

func init() {
	graft.Register(graft.Node[ports.TaskRegistry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{docstore.NodeID},
		Run: func(ctx context.Context) (ports.TaskRegistry, error) {
			docs, err := graft.Dep[ports.DocumentStore](ctx)
			if err != nil {
				return nil, err
			}
			return NewRegistry(docs), nil
		},
	})
}
