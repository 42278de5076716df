package cargo

import (
	"os"
	"path/filepath"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/zerr"
)

// ManifestFile is the name of a cargo manifest.
const ManifestFile = "Cargo.toml"

// LocateManifest returns the absolute path of the kernel manifest.
// An explicit path wins, then $CARGO_MANIFEST_DIR, then the nearest
// Cargo.toml above the working directory.
func LocateManifest(explicit string) (string, error) {
	if explicit != "" {
		return canonical(explicit)
	}
	if dir := os.Getenv("CARGO_MANIFEST_DIR"); dir != "" {
		return canonical(filepath.Join(dir, ManifestFile))
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return FindManifest(wd)
}

// FindManifest walks up from dir to the first directory containing a Cargo.toml.
func FindManifest(dir string) (string, error) {
	for current := dir; ; {
		candidate := filepath.Join(current, ManifestFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return canonical(candidate)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", zerr.With(zerr.Wrap(domain.ErrManifestNotFound, "no Cargo.toml in any parent directory"), "dir", dir)
		}
		current = parent
	}
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve manifest path"), "path", path)
	}
	if _, err := os.Stat(abs); err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrManifestNotFound, err.Error()), "path", abs)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}
