// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/bootimage/internal/core/domain"
)

// MetadataProvider supplies the package and feature graph of a workspace.
//
//go:generate go run go.uber.org/mock/mockgen -source=metadata.go -destination=mocks/mock_metadata.go -package=mocks
type MetadataProvider interface {
	// Metadata returns the graph of the workspace containing manifestPath.
	Metadata(ctx context.Context, manifestPath string) (*domain.PackageGraph, error)
}
