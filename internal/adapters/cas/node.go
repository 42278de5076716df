package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bootimage/internal/adapters/logger"
	"go.trai.ch/bootimage/internal/core/ports"
)

// NodeID is the unique identifier for the image store Graft node.
const NodeID graft.ID = "adapter.image_store"

func init() {
	graft.Register(graft.Node[ports.ImageStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ImageStore, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(DefaultPath(), log)
		},
	})
}
