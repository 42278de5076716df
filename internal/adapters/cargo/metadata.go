package cargo

import (
	"context"
	"encoding/json"
	"strings"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MetadataProvider = (*MetadataProvider)(nil)

// MetadataProvider implements ports.MetadataProvider with `cargo metadata`.
type MetadataProvider struct {
	executor ports.Executor
	cargo    string
}

// NewMetadataProvider creates a new MetadataProvider.
func NewMetadataProvider(executor ports.Executor) *MetadataProvider {
	return &MetadataProvider{executor: executor, cargo: Binary()}
}

// Metadata runs `cargo metadata` for the workspace of manifestPath.
func (p *MetadataProvider) Metadata(ctx context.Context, manifestPath string) (*domain.PackageGraph, error) {
	out, err := p.executor.Output(ctx, command(p.cargo, domain.CargoInvocation{
		Args: []string{"metadata", "--format-version", "1", "--manifest-path", manifestPath},
	}))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to run cargo metadata")
	}
	if !out.Success() {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrExternalToolFailed, "cargo metadata failed:\n"+strings.TrimSpace(string(out.Stderr))),
			"manifest", manifestPath,
		)
	}
	return ParseMetadata(out.Stdout)
}

type metadataDTO struct {
	Packages        []packageDTO `json:"packages"`
	Resolve         *resolveDTO  `json:"resolve"`
	TargetDirectory string       `json:"target_directory"`
	WorkspaceRoot   string       `json:"workspace_root"`
}

type packageDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	ManifestPath string          `json:"manifest_path"`
	Dependencies []dependencyDTO `json:"dependencies"`
	Targets      []targetDTO     `json:"targets"`
}

type dependencyDTO struct {
	Name   string  `json:"name"`
	Rename *string `json:"rename"`
}

type targetDTO struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

type resolveDTO struct {
	Nodes []nodeDTO `json:"nodes"`
}

type nodeDTO struct {
	ID       string   `json:"id"`
	Features []string `json:"features"`
}

// ParseMetadata decodes the output of `cargo metadata --format-version 1`.
func ParseMetadata(data []byte) (*domain.PackageGraph, error) {
	var dto metadataDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to parse cargo metadata")
	}

	graph := &domain.PackageGraph{
		Packages:        make([]domain.Package, 0, len(dto.Packages)),
		TargetDirectory: dto.TargetDirectory,
		WorkspaceRoot:   dto.WorkspaceRoot,
	}

	for _, p := range dto.Packages {
		pkg := domain.Package{
			ID:           p.ID,
			Name:         p.Name,
			ManifestPath: p.ManifestPath,
		}
		for _, d := range p.Dependencies {
			dep := domain.Dependency{Name: d.Name}
			if d.Rename != nil {
				dep.Rename = *d.Rename
			}
			pkg.Dependencies = append(pkg.Dependencies, dep)
		}
		for _, t := range p.Targets {
			pkg.Targets = append(pkg.Targets, domain.Target{Name: t.Name, Kind: t.Kind})
		}
		graph.Packages = append(graph.Packages, pkg)
	}

	if dto.Resolve != nil {
		graph.Resolve = &domain.ResolveGraph{}
		for _, n := range dto.Resolve.Nodes {
			graph.Resolve.Nodes = append(graph.Resolve.Nodes, domain.ResolveNode{ID: n.ID, Features: n.Features})
		}
	}

	return graph, nil
}
