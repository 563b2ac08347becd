package docstore

import (
	"context"

	"github.com/grindlemire/graft"
	"go.phenora.dev/phenoql/internal/adapters/workspace"
	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
)

const NodeID graft.ID = "adapter.document_store"

func init() {
	graft.Register(graft.Node[ports.DocumentStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{workspace.NodeID},
		Run: func(ctx context.Context) (ports.DocumentStore, error) {
			ws, err := graft.Dep[*domain.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(ws.CorpusPath), nil
		},
	})
}
