package image

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bootimage/internal/adapters/cas"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bootimage/internal/adapters/iso"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bootimage/internal/adapters/llvm"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bootimage/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bootimage/internal/adapters/shell"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/bootimage/internal/core/ports"
)

// NodeID is the unique identifier for the image assembler Graft node.
const NodeID graft.ID = "engine.image_assembler"

func init() {
	graft.Register(graft.Node[*Assembler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			llvm.NodeID,
			shell.NodeID,
			cas.NodeID,
			iso.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Assembler, error) {
			toolset, err := graft.Dep[ports.Toolset](ctx)
			if err != nil {
				return nil, err
			}

			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ImageStore](ctx)
			if err != nil {
				return nil, err
			}

			verifier, err := graft.Dep[ports.ISOVerifier](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(toolset, executor, store, verifier, log), nil
		},
	})
}
