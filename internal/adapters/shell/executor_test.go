package shell_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bootimage/internal/adapters/shell"
	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newExecutor(t *testing.T) *shell.Executor {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	return shell.NewExecutor(mockLogger)
}

func TestExecutor_Output_CapturesStreams(t *testing.T) {
	executor := newExecutor(t)

	out, err := executor.Output(context.Background(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "echo out; echo err 1>&2; exit 3"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ExitStatus{Code: 3, Exited: true}, out.Status)
	assert.False(t, out.Success())
	assert.Equal(t, "out\n", string(out.Stdout))
	assert.Equal(t, "err\n", string(out.Stderr))
}

func TestExecutor_Output_EnvironmentOverrides(t *testing.T) {
	t.Setenv("RUSTFLAGS", "-C target-cpu=native")
	executor := newExecutor(t)

	out, err := executor.Output(context.Background(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", `printf '%s|%s' "$RUSTFLAGS" "$KERNEL"`},
		Env:     map[string]string{"RUSTFLAGS": "", "KERNEL": "/tmp/kernel"},
	})
	require.NoError(t, err)
	assert.True(t, out.Success())
	assert.Equal(t, "|/tmp/kernel", string(out.Stdout))
}

func TestExecutor_Output_WorkingDir(t *testing.T) {
	executor := newExecutor(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("here"), 0o600))

	out, err := executor.Output(context.Background(), domain.Command{
		Program: "cat",
		Args:    []string{"marker"},
		Dir:     dir,
	})
	require.NoError(t, err)
	assert.Equal(t, "here", string(out.Stdout))
}

func TestExecutor_Output_MissingProgram(t *testing.T) {
	executor := newExecutor(t)

	_, err := executor.Output(context.Background(), domain.Command{Program: "bootimage-test-no-such-program"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to run command")
}

func TestExecutor_Run(t *testing.T) {
	executor := newExecutor(t)
	var stdout bytes.Buffer

	status, err := executor.Run(domain.Command{
		Program: "sh",
		Args:    []string{"-c", "echo booted; exit 5"},
	}, &stdout, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, domain.ExitStatus{Code: 5, Exited: true}, status)
	assert.Equal(t, "booted\n", stdout.String())
}

func TestExecutor_RunWithTimeout_Exits(t *testing.T) {
	executor := newExecutor(t)
	var stdout bytes.Buffer

	status, err := executor.RunWithTimeout(context.Background(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "echo test; exit 33"},
	}, 10*time.Second, &stdout, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, domain.ExitStatus{Code: 33, Exited: true}, status)
	assert.Equal(t, "test\n", stdout.String())
}

func TestExecutor_RunWithTimeout_KillsOnTimeout(t *testing.T) {
	executor := newExecutor(t)

	begin := time.Now()
	status, err := executor.RunWithTimeout(context.Background(), domain.Command{
		Program: "sleep",
		Args:    []string{"30"},
	}, 200*time.Millisecond, io.Discard, io.Discard)
	elapsed := time.Since(begin)

	require.NoError(t, err)
	assert.True(t, status.TimedOut)
	assert.False(t, status.Exited)
	assert.Less(t, elapsed, 10*time.Second)
}

func TestExecutor_RunWithTimeout_ContextCancelled(t *testing.T) {
	executor := newExecutor(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	begin := time.Now()
	_, err := executor.RunWithTimeout(ctx, domain.Command{
		Program: "sleep",
		Args:    []string{"30"},
	}, time.Minute, io.Discard, io.Discard)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(begin), 10*time.Second)
}

func TestExecutor_RunWithTimeout_StartFailure(t *testing.T) {
	executor := newExecutor(t)

	_, err := executor.RunWithTimeout(context.Background(), domain.Command{
		Program: "bootimage-test-no-such-program",
	}, time.Second, io.Discard, io.Discard)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to start process")
}
