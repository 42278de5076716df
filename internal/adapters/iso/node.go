package iso

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bootimage/internal/core/ports"
)

// NodeID is the unique identifier for the ISO verifier Graft node.
const NodeID graft.ID = "adapter.iso_verifier"

func init() {
	graft.Register(graft.Node[ports.ISOVerifier]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ISOVerifier, error) {
			return NewVerifier(), nil
		},
	})
}
