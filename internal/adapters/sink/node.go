package sink

import (
	"context"

	"github.com/grindlemire/graft"
	"go.phenora.dev/phenoql/internal/adapters/workspace"
	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
)

const NodeID graft.ID = "adapter.result_sink"

func init() {
	graft.Register(graft.Node[ports.ResultSink]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{workspace.NodeID},
		Run: func(ctx context.Context) (ports.ResultSink, error) {
			ws, err := graft.Dep[*domain.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			return NewFileSink(ws.ResultPath), nil
		},
	})
}
