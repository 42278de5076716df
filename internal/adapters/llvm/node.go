package llvm

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bootimage/internal/adapters/shell"
	"go.trai.ch/bootimage/internal/core/ports"
)

// NodeID is the unique identifier for the toolset Graft node.
const NodeID graft.ID = "adapter.llvm_toolset"

func init() {
	graft.Register(graft.Node[ports.Toolset]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.Toolset, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewToolset(executor), nil
		},
	})
}
