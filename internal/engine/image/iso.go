package image

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/zerr"
)

// KernelPath is the location of the kernel inside the ISO image.
const KernelPath = "boot/kernel.elf"

// GrubConfig renders the grub.cfg booting KernelPath through multiboot2 without a menu.
func GrubConfig(binName string) string {
	return fmt.Sprintf(`set timeout=0
set default=0

menuentry %q {
    multiboot2 /%s
    boot
}
`, binName, KernelPath)
}

// StagingDir returns the directory grub-mkrescue masters outPath from.
func StagingDir(outPath string) string {
	return outPath + ".isodir"
}

// CreateISOImage stages elfPath with a GRUB configuration and masters an ISO9660 image
// with grub-mkrescue. ISO images are not block padded.
func (a *Assembler) CreateISOImage(
	ctx context.Context, elfPath, outPath, binName string,
) (*domain.BootableImage, error) {
	isoDir := StagingDir(outPath)
	grubDir := filepath.Join(isoDir, "boot", "grub")
	if err := os.MkdirAll(grubDir, 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create boot/grub"), "path", grubDir)
	}

	cfgPath := filepath.Join(grubDir, "grub.cfg")
	//nolint:gosec // the ISO tree is world readable
	if err := os.WriteFile(cfgPath, []byte(GrubConfig(binName)), 0o644); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to write grub.cfg"), "path", cfgPath)
	}

	if err := copyFile(elfPath, filepath.Join(isoDir, filepath.FromSlash(KernelPath))); err != nil {
		return nil, err
	}

	cmd := domain.Command{
		Program: "grub-mkrescue",
		Args:    []string{"-o", outPath, isoDir},
	}
	if err := a.output(ctx, cmd, "grub-mkrescue"); err != nil {
		return nil, err
	}

	if err := a.verifier.Verify(outPath, []string{KernelPath}); err != nil {
		return nil, err
	}

	stat, err := os.Stat(outPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to stat iso image"), "path", outPath)
	}

	return &domain.BootableImage{Path: outPath, Length: stat.Size(), Format: domain.ImageFormatISO}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // build artifact
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open kernel executable"), "path", src)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) //nolint:gosec // staging path
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create kernel.elf"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy kernel.elf"), "path", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close kernel.elf"), "path", dst)
	}
	return nil
}
