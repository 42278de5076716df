// Package config reads Cargo manifests and the bootimage configuration table.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestReader = (*ManifestReader)(nil)

// ManifestReader implements ports.ManifestReader using go-toml.
type ManifestReader struct{}

// NewManifestReader creates a new ManifestReader.
func NewManifestReader() *ManifestReader {
	return &ManifestReader{}
}

// Read decodes the Cargo.toml at path into a generic table.
func (r *ManifestReader) Read(path string) (domain.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from cargo metadata or the user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
	}

	manifest := domain.Manifest{}
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse manifest"), "path", path)
	}
	return manifest, nil
}
