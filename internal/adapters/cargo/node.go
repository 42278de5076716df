package cargo

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bootimage/internal/adapters/logger"
	"go.trai.ch/bootimage/internal/adapters/shell"
	"go.trai.ch/bootimage/internal/core/ports"
)

const (
	// MetadataNodeID is the unique identifier for the metadata provider Graft node.
	MetadataNodeID graft.ID = "adapter.cargo_metadata"
	// DriverNodeID is the unique identifier for the build driver Graft node.
	DriverNodeID graft.ID = "adapter.cargo_driver"
)

func init() {
	graft.Register(graft.Node[ports.MetadataProvider]{
		ID:        MetadataNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.MetadataProvider, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewMetadataProvider(executor), nil
		},
	})

	graft.Register(graft.Node[ports.BuildDriver]{
		ID:        DriverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.BuildDriver, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewDriver(executor, log), nil
		},
	})
}
