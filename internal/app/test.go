package app

import (
	"context"
	"io"
	"os"
	"strings"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/bootimage/internal/engine/harness"
	"go.trai.ch/bootimage/internal/engine/resolver"
	"go.trai.ch/zerr"
)

const testPrefix = "test-"

// TestOptions configures Test.
type TestOptions struct {
	ManifestPath string
	CargoArgs    []string
	// Jobs bounds the number of tests in flight.
	Jobs int
	// ReportPath, when set, receives a YAML report of the suite.
	ReportPath string
	// Quiet captures build output instead of streaming it.
	Quiet bool
}

// Test builds and runs every `test-` binary of the kernel package as a suite.
// It returns domain.ErrTestsFailed when any test did not succeed.
func (a *App) Test(ctx context.Context, opts TestOptions) (*domain.TestReport, error) {
	cfg, err := a.configs.Load(opts.ManifestPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	res := resolver.New(a.metadata, opts.ManifestPath)
	kernel, err := res.KernelPackage(ctx)
	if err != nil {
		return nil, err
	}

	// Every test shares the bootloader target directory, so images are built one at a
	// time and only the emulator runs are parallel.
	var (
		cases       []harness.TestCase
		buildFailed = make(map[string]error)
	)
	for _, name := range kernel.BinNames() {
		if !strings.HasPrefix(name, testPrefix) {
			continue
		}
		img, err := a.buildTest(ctx, res, cfg, opts.CargoArgs, name, opts.Quiet)
		if err != nil {
			buildFailed[name] = err
			continue
		}
		cases = append(cases, harness.TestCase{Name: name, Image: img.Path})
	}

	h := harness.New(a.executor, cfg.Run, a.logger)
	report := harness.RunSuite(ctx, cases, opts.Jobs, func(ctx context.Context, tc harness.TestCase) domain.TestOutcome {
		return a.runTest(ctx, h, tc)
	})
	for name, err := range buildFailed {
		report.Record(name, domain.TestOutcome{Err: err})
	}

	if err := harness.WriteSummary(a.out, report); err != nil {
		return report, zerr.Wrap(err, "failed to write test summary")
	}

	if opts.ReportPath != "" {
		if err := a.reports.Write(opts.ReportPath, report); err != nil {
			return report, zerr.Wrap(err, "failed to write test report")
		}
	}

	if !report.Success() {
		return report, domain.ErrTestsFailed
	}
	return report, nil
}

// buildTest builds the kernel binary of one test and assembles its disk image.
func (a *App) buildTest(
	ctx context.Context,
	res *resolver.Resolver,
	cfg domain.Config,
	cargoArgs []string,
	name string,
	quiet bool,
) (*domain.BootableImage, error) {
	a.logger.Info("BUILD: " + name)

	args := append(append([]string(nil), cargoArgs...), "--bin", name)
	images, err := a.build(ctx, res, cfg, args, domain.ImageFormatDisk, quiet)
	if err != nil {
		return nil, err
	}
	if len(images) != 1 {
		return nil, zerr.With(
			zerr.Wrap(domain.ErrConfigurationInvalid, "expected exactly one test executable"),
			"count", len(images),
		)
	}
	return images[0], nil
}

func (a *App) runTest(ctx context.Context, h *harness.Harness, tc harness.TestCase) domain.TestOutcome {
	a.logger.Info("RUN: " + tc.Name)

	outputPath := harness.OutputPath(tc.Image)
	//nolint:gosec // output file lives next to the image
	f, err := os.Create(outputPath)
	if err != nil {
		return domain.TestOutcome{Err: zerr.With(zerr.Wrap(err, "failed to create test output file"), "path", outputPath)}
	}
	defer func() { _ = f.Close() }()

	var (
		verdict domain.Verdict
		runErr  error
	)
	_ = a.stage(ctx, domain.StageRun, tc.Name, func(ctx context.Context) error {
		var w io.Writer = f
		if v, ok := ports.VertexFromContext(ctx); ok {
			w = io.MultiWriter(f, v.Stdout())
		}

		verdict, runErr = h.Test(ctx, tc.Image, nil, w)
		if runErr != nil {
			return runErr
		}
		if !verdict.IsSuccess() {
			return zerr.New(verdict.String())
		}
		return nil
	})
	if runErr != nil {
		return domain.TestOutcome{Err: runErr, OutputPath: outputPath}
	}

	return domain.TestOutcome{Verdict: verdict, OutputPath: outputPath}
}
