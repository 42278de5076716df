package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bootimage/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
	// ManifestNodeID is the unique identifier for the manifest reader Graft node.
	ManifestNodeID graft.ID = "adapter.manifest_reader"
)

func init() {
	graft.Register(graft.Node[ports.ManifestReader]{
		ID:        ManifestNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ManifestReader, error) {
			return NewManifestReader(), nil
		},
	})

	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ManifestNodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			manifests, err := graft.Dep[ports.ManifestReader](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(manifests), nil
		},
	})
}
