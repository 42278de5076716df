// Package harness runs bootable images under an emulator and classifies test runs.
package harness

import (
	"context"
	"io"
	"os"
	"strings"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

// Harness executes images with the configured run command.
type Harness struct {
	executor ports.Executor
	config   domain.RunConfig
	logger   ports.Logger

	stdout io.Writer
	stderr io.Writer
}

// New creates a Harness. Plain runs write to the process stdout and stderr.
func New(executor ports.Executor, config domain.RunConfig, logger ports.Logger) *Harness {
	return &Harness{
		executor: executor,
		config:   config,
		logger:   logger,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// SetOutput redirects the output of plain runs.
func (h *Harness) SetOutput(stdout, stderr io.Writer) {
	h.stdout = stdout
	h.stderr = stderr
}

// Run executes the image without a time bound and returns the emulator exit code.
// A process terminated by a signal yields 1.
func (h *Harness) Run(imagePath string, extra []string) (int, error) {
	argv := h.config.RunArgv(imagePath, extra)
	h.logger.Info("Running: `" + strings.Join(argv, " ") + "`")

	status, err := h.executor.Run(domain.NewCommand(argv), h.stdout, h.stderr)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to execute run command"), "command", argv)
	}
	if !status.Exited {
		return 1, nil
	}
	return status.Code, nil
}

// Test executes the image as a test, bounded by the configured timeout, and decodes the
// exit status. Emulator output is written to output.
func (h *Harness) Test(ctx context.Context, imagePath string, extra []string, output io.Writer) (domain.Verdict, error) {
	argv := h.config.TestArgv(imagePath, extra)
	h.logger.Info("Running: `" + strings.Join(argv, " ") + "`")

	status, err := h.executor.RunWithTimeout(ctx, domain.NewCommand(argv), h.config.TestTimeout, output, output)
	if err != nil {
		return domain.Verdict{}, zerr.With(zerr.Wrap(err, "failed to execute test command"), "command", argv)
	}

	verdict := domain.DecodeExit(status, h.config.SuccessCode())
	if verdict.Kind == domain.VerdictNoExitCode {
		signal := status.Signal
		if signal == "" {
			signal = "unknown"
		}
		msg := "emulator process was terminated by signal " + signal
		h.logger.Warn(msg)
		if v, ok := ports.VertexFromContext(ctx); ok {
			v.Log(domain.LogLevelWarn, msg)
		}
	}
	return verdict, nil
}

// OutputPath returns the file a test run of imagePath captures emulator output to.
func OutputPath(imagePath string) string {
	return imagePath + "-output.txt"
}
