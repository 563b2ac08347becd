// Package workspace resolves the run's workspace configuration once and
// shares it with every adapter that opens workspace files.
package workspace

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.phenora.dev/phenoql/internal/adapters/config"
	"go.phenora.dev/phenoql/internal/core/domain"
	"go.phenora.dev/phenoql/internal/core/ports"
	"go.trai.ch/zerr"
)

const NodeID graft.ID = "adapter.workspace"

func init() {
	graft.Register(graft.Node[*domain.Workspace]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (*domain.Workspace, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return nil, zerr.Wrap(err, "failed to determine working directory")
			}
			return loader.Load(cwd)
		},
	})
}
