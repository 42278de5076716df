package cargo

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.trai.ch/bootimage/internal/adapters/shell"
	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildDriver = (*Driver)(nil)

// Driver implements ports.BuildDriver by invoking cargo.
type Driver struct {
	executor ports.Executor
	logger   ports.Logger
	cargo    string
}

// NewDriver creates a new Driver.
func NewDriver(executor ports.Executor, logger ports.Logger) *Driver {
	return &Driver{executor: executor, logger: logger, cargo: Binary()}
}

// Build runs cargo with the invocation. Unless quiet, output is streamed to the
// logger and to the telemetry vertex carried by ctx.
func (d *Driver) Build(ctx context.Context, inv domain.CargoInvocation, quiet bool) error {
	cmd := command(d.cargo, inv)

	if quiet {
		out, err := d.executor.Output(ctx, cmd)
		if err != nil {
			return zerr.Wrap(err, "failed to run cargo")
		}
		if !out.Success() {
			return buildFailed(cmd, out.Status, strings.TrimSpace(string(out.Stderr)))
		}
		return nil
	}

	stdout := shell.NewLineWriter(d.logger)
	stderr := shell.NewLineWriter(d.logger)
	defer stdout.Flush()
	defer stderr.Flush()

	var outW, errW io.Writer = stdout, stderr
	if v, ok := ports.VertexFromContext(ctx); ok {
		outW = io.MultiWriter(stdout, v.Stdout())
		errW = io.MultiWriter(stderr, v.Stderr())
	}

	status, err := d.executor.Run(cmd, outW, errW)
	if err != nil {
		return zerr.Wrap(err, "failed to run cargo")
	}
	if !status.Exited || status.Code != 0 {
		return buildFailed(cmd, status, "")
	}
	return nil
}

// BuildJSON runs a JSON-formatted invocation and returns its stdout.
func (d *Driver) BuildJSON(ctx context.Context, inv domain.CargoInvocation) ([]byte, error) {
	cmd := command(d.cargo, inv)

	out, err := d.executor.Output(ctx, cmd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to run cargo")
	}
	if !out.Success() {
		return nil, buildFailed(cmd, out.Status, strings.TrimSpace(string(out.Stderr)))
	}
	return out.Stdout, nil
}

func buildFailed(cmd domain.Command, status domain.ExitStatus, stderr string) error {
	msg := "cargo " + strings.Join(cmd.Args, " ")
	if stderr != "" {
		msg += ":\n" + stderr
	}
	err := zerr.With(zerr.Wrap(domain.ErrBuildFailed, msg), "exit_code", fmt.Sprint(status.Code))
	if status.Signal != "" {
		err = zerr.With(err, "signal", status.Signal)
	}
	return err
}
