package fingerprint

import (
	"context"

	"github.com/grindlemire/graft"
	"go.phenora.dev/phenoql/internal/core/ports"
)

const NodeID graft.ID = "adapter.fingerprinter"

func init() {
	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Fingerprinter, error) {
			return New(), nil
		},
	})
}
