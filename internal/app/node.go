package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/bootimage/internal/adapters/cargo"              //nolint:depguard // Wired in app layer
	"go.trai.ch/bootimage/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bootimage/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bootimage/internal/adapters/report"             //nolint:depguard // Wired in app layer
	"go.trai.ch/bootimage/internal/adapters/shell"              //nolint:depguard // Wired in app layer
	"go.trai.ch/bootimage/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/bootimage/internal/engine/image"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cargo.MetadataNodeID,
			cargo.DriverNodeID,
			config.ManifestNodeID,
			config.NodeID,
			image.NodeID,
			shell.NodeID,
			report.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	metadata, err := graft.Dep[ports.MetadataProvider](ctx)
	if err != nil {
		return nil, err
	}

	driver, err := graft.Dep[ports.BuildDriver](ctx)
	if err != nil {
		return nil, err
	}

	manifests, err := graft.Dep[ports.ManifestReader](ctx)
	if err != nil {
		return nil, err
	}

	configs, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	assembler, err := graft.Dep[*image.Assembler](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	reports, err := graft.Dep[ports.ReportWriter](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(metadata, driver, manifests, configs, assembler, executor, reports, telemetry, log), nil
}
