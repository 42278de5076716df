// Package app implements the application layer for bootimage.
package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/bootimage/internal/engine/bootloader"
	"go.trai.ch/bootimage/internal/engine/image"
	"go.trai.ch/bootimage/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App orchestrates kernel builds, image assembly and emulator runs.
type App struct {
	metadata  ports.MetadataProvider
	driver    ports.BuildDriver
	manifests ports.ManifestReader
	configs   ports.ConfigLoader
	assembler *image.Assembler
	executor  ports.Executor
	reports   ports.ReportWriter
	telemetry ports.Telemetry
	logger    ports.Logger

	out io.Writer
}

// New creates a new App instance.
func New(
	metadata ports.MetadataProvider,
	driver ports.BuildDriver,
	manifests ports.ManifestReader,
	configs ports.ConfigLoader,
	assembler *image.Assembler,
	executor ports.Executor,
	reports ports.ReportWriter,
	telemetry ports.Telemetry,
	log ports.Logger,
) *App {
	return &App{
		metadata:  metadata,
		driver:    driver,
		manifests: manifests,
		configs:   configs,
		assembler: assembler,
		executor:  executor,
		reports:   reports,
		telemetry: telemetry,
		logger:    log,
		out:       os.Stdout,
	}
}

// WithOutput redirects user-facing output such as created image paths and test summaries.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// Close flushes telemetry.
func (a *App) Close() error {
	return a.telemetry.Close()
}

// BuildOptions configures Build.
type BuildOptions struct {
	ManifestPath string
	CargoArgs    []string
	Format       domain.ImageFormat
	Quiet        bool
}

// Build compiles the kernel and creates a bootable image next to every produced executable.
func (a *App) Build(ctx context.Context, opts BuildOptions) ([]*domain.BootableImage, error) {
	cfg, err := a.configs.Load(opts.ManifestPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	res := resolver.New(a.metadata, opts.ManifestPath)
	images, err := a.build(ctx, res, cfg, opts.CargoArgs, opts.Format, opts.Quiet)
	if err != nil {
		return nil, err
	}

	if !opts.Quiet {
		for _, img := range images {
			bin := strings.TrimPrefix(binName(img.Path), imagePrefix)
			_, _ = fmt.Fprintf(a.out, "Created bootimage for `%s` at `%s`\n", bin, img.Path)
		}
	}
	return images, nil
}

// build compiles the kernel with the configured build command and assembles an image for each executable.
func (a *App) build(
	ctx context.Context,
	res *resolver.Resolver,
	cfg domain.Config,
	cargoArgs []string,
	format domain.ImageFormat,
	quiet bool,
) ([]*domain.BootableImage, error) {
	if !quiet {
		a.logger.Info("Building kernel")
	}

	inv := domain.CargoInvocation{Args: append(append([]string(nil), cfg.BuildCommand...), cargoArgs...)}

	var executables []string
	err := a.stage(ctx, domain.StageKernelBuild, "", func(ctx context.Context) error {
		if err := a.driver.Build(ctx, inv, quiet); err != nil {
			return err
		}
		stream, err := a.driver.BuildJSON(ctx, inv.JSON())
		if err != nil {
			return err
		}
		executables, err = bootloader.Executables(bytes.NewReader(stream))
		return err
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build kernel")
	}
	if len(executables) == 0 {
		return nil, zerr.Wrap(domain.ErrConfigurationInvalid, "no executables built")
	}

	images := make([]*domain.BootableImage, 0, len(executables))
	for _, exe := range executables {
		bin := binName(exe)
		kernel, err := res.PackageForBin(ctx, bin)
		if err != nil {
			return nil, err
		}

		out := imagePath(exe, format)
		img, err := a.createBootimage(ctx, res, kernel.ManifestPath, exe, out, format, quiet)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// createBootimage builds the bootloader with the kernel executable embedded and assembles it into out.
func (a *App) createBootimage(
	ctx context.Context,
	res *resolver.Resolver,
	kernelManifest, exe, out string,
	format domain.ImageFormat,
	quiet bool,
) (*domain.BootableImage, error) {
	bin := binName(exe)

	cfg, err := bootloader.NewDeriver(res, a.manifests).Derive(ctx, kernelManifest, exe)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to derive bootloader build")
	}

	if !quiet {
		a.logger.Info("Building bootloader")
	}

	var elf string
	err = a.stage(ctx, domain.StageBootloaderBuild, bin, func(ctx context.Context) error {
		if err := a.driver.Build(ctx, cfg.BuildInvocation(), quiet); err != nil {
			return err
		}
		stream, err := a.driver.BuildJSON(ctx, cfg.JSONBuildInvocation())
		if err != nil {
			return err
		}
		elf, err = bootloader.ResolveExecutable(bytes.NewReader(stream))
		return err
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build bootloader")
	}

	var img *domain.BootableImage
	err = a.stage(ctx, domain.StageAssemble, bin, func(ctx context.Context) error {
		var err error
		img, err = a.assembler.Create(ctx, format, elf, out, bin)
		return err
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create bootimage")
	}
	return img, nil
}

func (a *App) stage(ctx context.Context, stage domain.Stage, subject string, fn func(context.Context) error) error {
	ctx, v := a.telemetry.Record(ctx, stage.VertexName(subject))
	err := fn(ctx)
	v.Complete(err)
	return err
}

const imagePrefix = "bootimage-"

// imagePath places the image of an executable next to it.
func imagePath(exe string, format domain.ImageFormat) string {
	return filepath.Join(filepath.Dir(exe), imagePrefix+binName(exe)+format.Extension())
}

// binName returns the file stem of an executable or image path.
func binName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
