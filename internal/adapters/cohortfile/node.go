package cohortfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.phenora.dev/phenoql/internal/adapters/workspace"
	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
)

const NodeID graft.ID = "adapter.cohort_resolver"

func init() {
	graft.Register(graft.Node[ports.CohortResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{workspace.NodeID},
		Run: func(ctx context.Context) (ports.CohortResolver, error) {
			ws, err := graft.Dep[*domain.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(ws.CohortPath), nil
		},
	})
}
