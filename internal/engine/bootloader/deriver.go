// Package bootloader derives the bootloader build for a kernel binary and resolves its artifacts.
package bootloader

import (
	"context"
	"path/filepath"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/bootimage/internal/engine/resolver"
	"go.trai.ch/zerr"
)

const tooOldHint = "(If you're using the official bootloader crate, you need at least version 0.5.1)"

// Deriver builds BootloaderBuildConfig values from the package graph and the bootloader manifest.
type Deriver struct {
	resolver  *resolver.Resolver
	manifests ports.ManifestReader
}

// NewDeriver creates a Deriver reading the graph through res.
func NewDeriver(res *resolver.Resolver, manifests ports.ManifestReader) *Deriver {
	return &Deriver{
		resolver:  res,
		manifests: manifests,
	}
}

// Derive returns the build configuration that compiles the bootloader of the kernel package at
// kernelManifestPath with the kernel binary at kernelBinPath embedded.
func (d *Deriver) Derive(
	ctx context.Context,
	kernelManifestPath, kernelBinPath string,
) (*domain.BootloaderBuildConfig, error) {
	graph, err := d.resolver.Graph(ctx)
	if err != nil {
		return nil, err
	}

	kernel, err := d.resolver.PackageByManifest(ctx, kernelManifestPath)
	if err != nil {
		return nil, err
	}

	pkg, features, err := resolver.FindBootloader(graph, kernel)
	if err != nil {
		return nil, err
	}

	manifest, err := d.manifests.Read(pkg.ManifestPath)
	if err != nil {
		return nil, zerr.Wrap(err, "bootloader has no valid Cargo.toml")
	}

	settings, err := parseSettings(manifest)
	if err != nil {
		return nil, zerr.With(err, "manifest", pkg.ManifestPath)
	}
	if settings.binary {
		features = append(features, domain.BinaryFeature)
	}

	return domain.NewBootloaderBuildConfig(
		pkg.ManifestPath,
		pkg.Name,
		filepath.Join(filepath.Dir(pkg.ManifestPath), settings.target),
		filepath.Join(graph.TargetDirectory, "bootimage", pkg.Name),
		kernelBinPath,
		kernel.ManifestPath,
		settings.buildStd,
		features,
	), nil
}

type settings struct {
	target   string
	buildStd string
	binary   bool
}

func parseSettings(m domain.Manifest) (settings, error) {
	var s settings

	raw, _ := m.Lookup("package", "metadata", "bootloader", "target")
	target, ok := raw.(string)
	if !ok {
		return s, zerr.Wrap(domain.ErrConfigurationInvalid,
			"no `package.metadata.bootloader.target` key found in Cargo.toml of bootloader\n\n"+tooOldHint)
	}
	s.target = target

	if raw, ok := m.Lookup("package", "metadata", "bootloader", "build-std"); ok {
		buildStd, ok := raw.(string)
		if !ok {
			return s, zerr.Wrap(domain.ErrConfigurationInvalid,
				"a non-string `package.metadata.bootloader.build-std` key found in Cargo.toml of bootloader")
		}
		s.buildStd = buildStd
	}

	_, s.binary = m.Lookup("features", domain.BinaryFeature)
	return s, nil
}
