package ports

import "go.trai.ch/bootimage/internal/core/domain"

// ConfigLoader defines the interface for loading the bootimage configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the [package.metadata.bootimage] table of the given manifest,
	// applying defaults for every key it does not set.
	Load(manifestPath string) (domain.Config, error)
}
