// Package resolver locates the kernel and bootloader packages in the workspace package graph.
package resolver

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver memoizes the package graph of one workspace for the lifetime of an operation.
type Resolver struct {
	provider     ports.MetadataProvider
	manifestPath string

	mu    sync.Mutex
	graph *domain.PackageGraph
}

// New creates a Resolver that queries provider for the workspace of manifestPath.
func New(provider ports.MetadataProvider, manifestPath string) *Resolver {
	return &Resolver{
		provider:     provider,
		manifestPath: manifestPath,
	}
}

// ManifestPath returns the manifest the resolver was created for.
func (r *Resolver) ManifestPath() string {
	return r.manifestPath
}

// Graph returns the package graph, querying the provider on first use.
// Failed queries are not cached.
func (r *Resolver) Graph(ctx context.Context) (*domain.PackageGraph, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.graph != nil {
		return r.graph, nil
	}

	graph, err := r.provider.Metadata(ctx, r.manifestPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read package metadata")
	}
	r.graph = graph
	return graph, nil
}

// KernelPackage returns the package owning the resolver's manifest.
func (r *Resolver) KernelPackage(ctx context.Context) (*domain.Package, error) {
	return r.PackageByManifest(ctx, r.manifestPath)
}

// PackageByManifest returns the package whose manifest is at manifestPath.
func (r *Resolver) PackageByManifest(ctx context.Context, manifestPath string) (*domain.Package, error) {
	graph, err := r.Graph(ctx)
	if err != nil {
		return nil, err
	}

	pkg, ok := graph.PackageByManifest(manifestPath)
	if !ok {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrKernelPackageNotFound, "no package for manifest"),
			"manifest", manifestPath,
		)
	}
	return pkg, nil
}

// PackageForBin returns the package declaring the binary target bin.
func (r *Resolver) PackageForBin(ctx context.Context, bin string) (*domain.Package, error) {
	graph, err := r.Graph(ctx)
	if err != nil {
		return nil, err
	}

	pkg, ok := graph.PackageForBin(bin)
	if !ok {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrKernelPackageNotFound, "no package declares binary `"+bin+"`"),
			"bin", bin,
		)
	}
	return pkg, nil
}

// Bootloader returns the bootloader package of kernel and its resolved features.
func (r *Resolver) Bootloader(ctx context.Context, kernel *domain.Package) (*domain.Package, []string, error) {
	graph, err := r.Graph(ctx)
	if err != nil {
		return nil, nil, err
	}
	return FindBootloader(graph, kernel)
}

// FindBootloader finds the dependency of kernel whose effective name is "bootloader",
// resolves it to its package record and returns the features enabled for it.
// When several dependencies match, the first declared one wins.
func FindBootloader(graph *domain.PackageGraph, kernel *domain.Package) (*domain.Package, []string, error) {
	var dep *domain.Dependency
	for i := range kernel.Dependencies {
		if kernel.Dependencies[i].EffectiveName() == domain.BootloaderCrateName {
			dep = &kernel.Dependencies[i]
			break
		}
	}
	if dep == nil {
		return nil, nil, zerr.With(
			zerr.Wrap(domain.ErrDependencyNotFound,
				"add a dependency on a crate named `bootloader` to your Cargo.toml"),
			"package", kernel.Name,
		)
	}

	pkg, ok := graph.PackageByName(dep.Name)
	if !ok {
		return nil, nil, incomplete(fmt.Sprintf("packages[name = `%s`]", dep.Name))
	}

	if graph.Resolve == nil {
		return nil, nil, incomplete("resolve")
	}

	node, ok := graph.Resolve.Node(pkg.ID)
	if !ok {
		return nil, nil, incomplete(fmt.Sprintf("resolve[%q]", pkg.ID))
	}

	return pkg, append([]string(nil), node.Features...), nil
}

func incomplete(key string) error {
	return zerr.With(zerr.Wrap(domain.ErrMetadataIncomplete, "missing "+key), "key", key)
}
