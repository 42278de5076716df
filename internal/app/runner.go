package app

import (
	"context"
	"path/filepath"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/engine/harness"
	"go.trai.ch/bootimage/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// RunnerOptions configures Runner.
type RunnerOptions struct {
	// ManifestPath is the manifest of the package the executable belongs to.
	ManifestPath string
	Executable   string
	// RunnerArgs are appended to the emulator command line.
	RunnerArgs []string
	Quiet      bool
}

// IsTestExecutable reports whether cargo placed the executable in a deps directory,
// which is where test harness binaries are emitted.
func IsTestExecutable(executable string) bool {
	return filepath.Base(filepath.Dir(executable)) == "deps"
}

// Runner creates an image for an executable built by cargo and runs it. Test executables
// are time-bounded and their verdict is mapped to the returned exit code.
func (a *App) Runner(ctx context.Context, opts RunnerOptions) (int, error) {
	cfg, err := a.configs.Load(opts.ManifestPath)
	if err != nil {
		return 0, zerr.Wrap(err, "failed to load configuration")
	}

	exe, err := filepath.Abs(opts.Executable)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to resolve executable path"), "path", opts.Executable)
	}

	bin := binName(exe)
	out := imagePath(exe, domain.ImageFormatDisk)

	res := resolver.New(a.metadata, opts.ManifestPath)
	img, err := a.createBootimage(ctx, res, opts.ManifestPath, exe, out, domain.ImageFormatDisk, opts.Quiet)
	if err != nil {
		return 0, err
	}

	h := harness.New(a.executor, cfg.Run, a.logger)

	if !IsTestExecutable(exe) {
		var code int
		err := a.stage(ctx, domain.StageRun, bin, func(context.Context) error {
			var err error
			code, err = h.Run(img.Path, opts.RunnerArgs)
			return err
		})
		return code, err
	}

	var verdict domain.Verdict
	err = a.stage(ctx, domain.StageRun, bin, func(ctx context.Context) error {
		var err error
		verdict, err = h.Test(ctx, img.Path, opts.RunnerArgs, a.out)
		return err
	})
	if err != nil {
		return 0, err
	}

	switch verdict.Kind {
	case domain.VerdictTimeout:
		return 1, zerr.With(zerr.Wrap(domain.ErrTestTimedOut, "test exceeded its timeout"),
			"timeout", cfg.Run.TestTimeout.String())
	case domain.VerdictNoExitCode:
		return 1, zerr.Wrap(domain.ErrNoExitCode, "failed to read emulator exit code")
	default:
		return domain.ProcessExitCode(verdict), nil
	}
}
