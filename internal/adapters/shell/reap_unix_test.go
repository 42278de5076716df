//go:build unix

package shell_test

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bootimage/internal/core/domain"
	"golang.org/x/sys/unix"
)

// sleeper prints its pid and then becomes a long sleep.
var sleeper = domain.Command{Program: "sh", Args: []string{"-c", "echo $$; exec sleep 30"}}

func requireReaped(t *testing.T, stdout *bytes.Buffer) {
	t.Helper()
	pid, err := strconv.Atoi(strings.TrimSpace(stdout.String()))
	require.NoError(t, err, "pid line %q", stdout.String())
	assert.ErrorIs(t, unix.Kill(pid, 0), unix.ESRCH, "process %d still exists", pid)
}

func TestExecutor_RunWithTimeout_ReapsOnTimeout(t *testing.T) {
	executor := newExecutor(t)
	var stdout bytes.Buffer

	status, err := executor.RunWithTimeout(context.Background(), sleeper, 300*time.Millisecond, &stdout, io.Discard)
	require.NoError(t, err)
	assert.True(t, status.TimedOut)

	requireReaped(t, &stdout)
}

func TestExecutor_RunWithTimeout_ReapsOnCancel(t *testing.T) {
	executor := newExecutor(t)
	var stdout bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := executor.RunWithTimeout(ctx, sleeper, time.Minute, &stdout, io.Discard)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	requireReaped(t, &stdout)
}
