// Package shell provides the process executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

// waitDelay bounds how long Wait keeps copying output after the process exited.
const waitDelay = 2 * time.Second

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Output runs the command to completion and captures its output.
func (e *Executor) Output(ctx context.Context, c domain.Command) (*domain.ProcessOutput, error) {
	cmd := e.command(ctx, c)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil && !isExitError(runErr) {
		return nil, zerr.With(zerr.Wrap(runErr, "failed to run command"), "program", c.Program)
	}

	return &domain.ProcessOutput{
		Status: statusOf(cmd.ProcessState),
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}, nil
}

// Run runs the command attached to the terminal and waits without a time bound.
func (e *Executor) Run(c domain.Command, stdout, stderr io.Writer) (domain.ExitStatus, error) {
	cmd := e.command(context.Background(), c)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil && !isExitError(err) {
		return domain.ExitStatus{}, zerr.With(zerr.Wrap(err, "failed to run command"), "program", c.Program)
	}
	return statusOf(cmd.ProcessState), nil
}

// RunWithTimeout runs the command and kills it once timeout elapses.
// The process is always reaped before this method returns.
func (e *Executor) RunWithTimeout(
	ctx context.Context, c domain.Command, timeout time.Duration, stdout, stderr io.Writer,
) (domain.ExitStatus, error) {
	cmd := e.command(context.Background(), c)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	p, err := start(cmd)
	if err != nil {
		return domain.ExitStatus{}, zerr.With(zerr.Wrap(err, "failed to start process"), "program", c.Program)
	}
	defer p.release(e.logger)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		if p.err != nil && !isExitError(p.err) {
			return domain.ExitStatus{}, zerr.With(zerr.Wrap(p.err, "failed to wait for process"), "program", c.Program)
		}
		return statusOf(cmd.ProcessState), nil
	case <-timer.C:
		p.release(e.logger)
		return domain.ExitStatus{TimedOut: true}, nil
	case <-ctx.Done():
		return domain.ExitStatus{}, zerr.Wrap(ctx.Err(), "process wait cancelled")
	}
}

func (e *Executor) command(ctx context.Context, c domain.Command) *exec.Cmd {
	env := resolveEnvironment(os.Environ(), c.Env)

	executable := c.Program
	if !filepath.IsAbs(executable) && !strings.ContainsRune(executable, filepath.Separator) {
		if lp, err := lookPath(executable, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.Args...) //nolint:gosec // commands come from the user's configuration
	if len(cmd.Args) > 0 {
		cmd.Args[0] = c.Program
	}
	cmd.Dir = c.Dir
	cmd.Env = env
	cmd.WaitDelay = waitDelay
	return cmd
}

// process owns a started command. A single goroutine waits on it; done is
// closed once the process has been reaped.
type process struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

func start(cmd *exec.Cmd) (*process, error) {
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	p := &process{cmd: cmd, done: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.done)
	}()
	return p, nil
}

// release kills the process if it is still running and blocks until it is reaped.
func (p *process) release(logger ports.Logger) {
	select {
	case <-p.done:
		return
	default:
	}

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		logger.Warn("failed to kill process " + p.cmd.Args[0] + ": " + err.Error())
	}
	<-p.done
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

func statusOf(state *os.ProcessState) domain.ExitStatus {
	if state == nil {
		return domain.ExitStatus{}
	}
	if state.Exited() {
		return domain.ExitStatus{Code: state.ExitCode(), Exited: true}
	}
	return domain.ExitStatus{Signal: signalName(state)}
}

// resolveEnvironment applies the overrides on top of the system environment.
// An override with an empty value is kept, so that it clears the inherited variable.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	result := make([]string, 0, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, overridden := overrides[k]; overridden {
			continue
		}
		result = append(result, entry)
	}
	for k, v := range overrides {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
