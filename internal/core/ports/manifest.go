package ports

import "go.trai.ch/bootimage/internal/core/domain"

// ManifestReader decodes Cargo.toml files.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestReader interface {
	// Read decodes the manifest at path.
	Read(path string) (domain.Manifest, error)
}
