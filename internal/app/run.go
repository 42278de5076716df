package app

import (
	"context"
	"strings"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/engine/harness"
	"go.trai.ch/bootimage/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// RunOptions configures Run.
type RunOptions struct {
	ManifestPath string
	CargoArgs    []string
	// RunArgs are appended to the emulator command line.
	RunArgs []string
	Quiet   bool
}

// Run builds the kernel and runs the single resulting image. It returns the emulator exit code.
func (a *App) Run(ctx context.Context, opts RunOptions) (int, error) {
	cfg, err := a.configs.Load(opts.ManifestPath)
	if err != nil {
		return 0, zerr.Wrap(err, "failed to load configuration")
	}

	res := resolver.New(a.metadata, opts.ManifestPath)

	cargoArgs := opts.CargoArgs
	if !hasBinArg(cargoArgs) {
		bin, err := a.defaultBin(ctx, res)
		if err != nil {
			return 0, err
		}
		cargoArgs = append(append([]string(nil), cargoArgs...), "--bin", bin)
	}

	images, err := a.build(ctx, res, cfg, cargoArgs, domain.ImageFormatDisk, opts.Quiet)
	if err != nil {
		return 0, err
	}
	if len(images) != 1 {
		return 0, zerr.With(
			zerr.Wrap(domain.ErrConfigurationInvalid, "more than one bootimage created"),
			"count", len(images),
		)
	}

	var code int
	err = a.stage(ctx, domain.StageRun, binName(images[0].Path), func(context.Context) error {
		var err error
		code, err = harness.New(a.executor, cfg.Run, a.logger).Run(images[0].Path, opts.RunArgs)
		return err
	})
	return code, err
}

// defaultBin picks the only non-test binary of the kernel package.
func (a *App) defaultBin(ctx context.Context, res *resolver.Resolver) (string, error) {
	kernel, err := res.KernelPackage(ctx)
	if err != nil {
		return "", err
	}

	var bins []string
	for _, name := range kernel.BinNames() {
		if !strings.HasPrefix(name, testPrefix) {
			bins = append(bins, name)
		}
	}

	switch len(bins) {
	case 0:
		return "", zerr.Wrap(domain.ErrConfigurationInvalid, "no kernel executable found")
	case 1:
		return bins[0], nil
	default:
		return "", zerr.With(
			zerr.Wrap(domain.ErrConfigurationInvalid,
				"multiple kernel executables found, specify the one to run with `--bin`"),
			"bins", bins,
		)
	}
}

func hasBinArg(args []string) bool {
	for _, arg := range args {
		if arg == "--bin" || strings.HasPrefix(arg, "--bin=") {
			return true
		}
	}
	return false
}
