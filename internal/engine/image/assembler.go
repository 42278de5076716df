// Package image converts bootloader executables into bootable disk and ISO images.
package image

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

// Assembler produces BootableImage files from a bootloader ELF.
type Assembler struct {
	toolset  ports.Toolset
	executor ports.Executor
	store    ports.ImageStore
	verifier ports.ISOVerifier
	logger   ports.Logger
}

// New creates an Assembler.
func New(
	toolset ports.Toolset,
	executor ports.Executor,
	store ports.ImageStore,
	verifier ports.ISOVerifier,
	logger ports.Logger,
) *Assembler {
	return &Assembler{
		toolset:  toolset,
		executor: executor,
		store:    store,
		verifier: verifier,
		logger:   logger,
	}
}

// Create assembles an image of the given format.
func (a *Assembler) Create(
	ctx context.Context, format domain.ImageFormat, elfPath, outPath, binName string,
) (*domain.BootableImage, error) {
	if format == domain.ImageFormatISO {
		return a.CreateISOImage(ctx, elfPath, outPath, binName)
	}
	return a.CreateDiskImage(ctx, elfPath, outPath)
}

// CreateDiskImage flattens the bootloader ELF into a raw image padded to the block size.
// An image already produced from identical ELF content is reused.
func (a *Assembler) CreateDiskImage(ctx context.Context, elfPath, outPath string) (*domain.BootableImage, error) {
	hash, err := a.store.Fingerprint(elfPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to fingerprint bootloader executable")
	}

	if img, ok := a.cached(outPath, hash); ok {
		if v, found := ports.VertexFromContext(ctx); found {
			v.Cached()
		}
		return img, nil
	}

	objcopy, err := a.toolset.Objcopy(ctx)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create image directory"), "path", outPath)
	}

	cmd := domain.Command{
		Program: objcopy,
		Args: []string{
			"-I", "elf64-x86-64",
			"-O", "binary",
			"--binary-architecture=i386:x86-64",
			elfPath,
			outPath,
		},
	}
	if err := a.output(ctx, cmd, "llvm-objcopy"); err != nil {
		return nil, err
	}

	length, err := PadToBlockSize(outPath)
	if err != nil {
		return nil, err
	}

	info := domain.ImageInfo{
		ImagePath:   outPath,
		Format:      domain.ImageFormatDisk,
		ELFHash:     hash,
		ImageLength: length,
	}
	if err := a.store.Put(info); err != nil {
		a.logger.Warn("failed to record image in cache: " + err.Error())
	}

	return &domain.BootableImage{Path: outPath, Length: length, Format: domain.ImageFormatDisk}, nil
}

func (a *Assembler) cached(outPath string, hash uint64) (*domain.BootableImage, bool) {
	info, err := a.store.Get(outPath)
	if err != nil || info == nil {
		return nil, false
	}
	if info.Format != domain.ImageFormatDisk || info.ELFHash != hash {
		return nil, false
	}

	stat, err := os.Stat(outPath)
	if err != nil || stat.Size() != info.ImageLength || stat.Size()%domain.BlockSize != 0 {
		return nil, false
	}
	return &domain.BootableImage{Path: outPath, Length: stat.Size(), Format: domain.ImageFormatDisk}, true
}

func (a *Assembler) output(ctx context.Context, cmd domain.Command, tool string) error {
	out, err := a.executor.Output(ctx, cmd)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to execute "+tool), "command", cmd.Argv())
	}
	if !out.Success() {
		return zerr.With(
			zerr.With(zerr.Wrap(domain.ErrExternalToolFailed, tool+" failed"), "tool", tool),
			"stderr", string(out.Stderr),
		)
	}
	return nil
}

// PadToBlockSize extends the file at path to the next multiple of the block size and
// returns the resulting length. Aligned files are left untouched.
func PadToBlockSize(path string) (int64, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to get size of boot image"), "path", path)
	}

	padded := domain.PaddedLength(stat.Size())
	if padded == stat.Size() {
		return padded, nil
	}
	if err := os.Truncate(path, padded); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to pad boot image"), "path", path)
	}
	return padded, nil
}
