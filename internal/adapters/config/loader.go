package config

import (
	"fmt"
	"math"
	"time"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader on top of a ManifestReader.
type Loader struct {
	manifests ports.ManifestReader
}

// NewLoader creates a new Loader.
func NewLoader(manifests ports.ManifestReader) *Loader {
	return &Loader{manifests: manifests}
}

// Load reads [package.metadata.bootimage] from the manifest at manifestPath.
func (l *Loader) Load(manifestPath string) (domain.Config, error) {
	manifest, err := l.manifests.Read(manifestPath)
	if err != nil {
		return domain.Config{}, err
	}

	cfg, err := Parse(manifest)
	if err != nil {
		return domain.Config{}, zerr.With(err, "manifest", manifestPath)
	}
	return cfg, nil
}

// maxTimeoutSeconds is the largest timeout representable as a time.Duration.
const maxTimeoutSeconds = math.MaxInt64 / int64(time.Second)

// keyParser applies a single recognized key to the config.
type keyParser func(cfg *domain.Config, key string, value any) error

var bootimageKeys = map[string]keyParser{
	"build-command": func(cfg *domain.Config, key string, value any) error {
		v, err := stringArray(key, value)
		cfg.BuildCommand = v
		return err
	},
	"run-command": func(cfg *domain.Config, key string, value any) error {
		v, err := stringArray(key, value)
		if err == nil && len(v) == 0 {
			err = invalid(key, "must not be empty")
		}
		cfg.Run.RunCommand = v
		return err
	},
	"run-args": func(cfg *domain.Config, key string, value any) error {
		v, err := stringArray(key, value)
		cfg.Run.RunArgs = v
		return err
	},
	"test-args": func(cfg *domain.Config, key string, value any) error {
		v, err := stringArray(key, value)
		cfg.Run.TestArgs = v
		return err
	},
	"test-timeout": func(cfg *domain.Config, key string, value any) error {
		v, err := nonNegativeInt(key, value)
		if err != nil {
			return err
		}
		if v > maxTimeoutSeconds {
			return invalid(key, fmt.Sprintf("must not exceed %d seconds", maxTimeoutSeconds))
		}
		cfg.Run.TestTimeout = time.Duration(v) * time.Second
		return nil
	},
	"test-success-exit-code": func(cfg *domain.Config, key string, value any) error {
		v, err := nonNegativeInt(key, value)
		if err != nil {
			return err
		}
		code := int(v)
		cfg.Run.TestSuccessExitCode = &code
		return nil
	},
	"test-no-reboot": func(cfg *domain.Config, key string, value any) error {
		v, ok := value.(bool)
		if !ok {
			return invalid(key, "must be a boolean")
		}
		cfg.Run.TestNoReboot = v
		return nil
	},
}

// Parse extracts the bootimage configuration from a decoded manifest.
// Every key of the table must be recognized.
func Parse(manifest domain.Manifest) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	raw, ok := manifest.Lookup("package", "metadata", "bootimage")
	if !ok {
		return cfg, nil
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return cfg, invalid("package.metadata.bootimage", "must be a table")
	}

	for key, value := range table {
		parse, known := bootimageKeys[key]
		if !known {
			return cfg, zerr.With(
				zerr.Wrap(domain.ErrConfigurationInvalid, fmt.Sprintf("unexpected `package.metadata.bootimage` key `%s`", key)),
				"key", key,
			)
		}
		if err := parse(&cfg, key, value); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func invalid(key, reason string) error {
	return zerr.With(
		zerr.Wrap(domain.ErrConfigurationInvalid, fmt.Sprintf("`%s` %s", key, reason)),
		"key", key,
	)
}

func stringArray(key string, value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, invalid(key, "must be an array of strings")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, invalid(key, "must be an array of strings")
		}
		out = append(out, s)
	}
	return out, nil
}

func nonNegativeInt(key string, value any) (int64, error) {
	v, ok := value.(int64)
	if !ok {
		return 0, invalid(key, "must be an integer")
	}
	if v < 0 {
		return 0, invalid(key, "must not be negative")
	}
	return v, nil
}
