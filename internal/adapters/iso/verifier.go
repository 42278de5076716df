// Package iso inspects ISO9660 images.
package iso

import (
	"os"
	"strings"

	"github.com/kdomanski/iso9660"
	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ISOVerifier = (*Verifier)(nil)

// Verifier implements ports.ISOVerifier with kdomanski/iso9660.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify opens the image and checks that every required path exists.
func (v *Verifier) Verify(isoPath string, required []string) error {
	f, err := os.Open(isoPath) //nolint:gosec // path of an image we just produced
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open iso image"), "path", isoPath)
	}
	defer func() { _ = f.Close() }()

	image, err := iso9660.OpenImage(f)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrImageInvalid, "not an ISO9660 image: "+err.Error()), "path", isoPath)
	}

	root, err := image.RootDir()
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrImageInvalid, "failed to read root directory: "+err.Error()), "path", isoPath)
	}

	for _, p := range required {
		found, err := lookup(root, strings.Split(strings.Trim(p, "/"), "/"))
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read iso directory"), "path", isoPath)
		}
		if !found {
			return zerr.With(zerr.Wrap(domain.ErrImageInvalid, "missing `"+p+"`"), "path", isoPath)
		}
	}
	return nil
}

func lookup(dir *iso9660.File, segments []string) (bool, error) {
	children, err := dir.GetChildren()
	if err != nil {
		return false, err
	}

	for _, child := range children {
		if !sameName(child.Name(), segments[0]) {
			continue
		}
		if len(segments) == 1 {
			return !child.IsDir(), nil
		}
		if child.IsDir() {
			return lookup(child, segments[1:])
		}
	}
	return false, nil
}

// sameName compares identifiers ignoring case and the ISO9660 version suffix.
func sameName(identifier, want string) bool {
	identifier = strings.TrimSuffix(identifier, ";1")
	identifier = strings.TrimSuffix(identifier, ".")
	return strings.EqualFold(identifier, want)
}
