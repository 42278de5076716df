//go:build unix

package shell_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bootimage/internal/core/domain"
)

func TestExecutor_RunWithTimeout_Signal(t *testing.T) {
	executor := newExecutor(t)

	status, err := executor.RunWithTimeout(context.Background(), domain.Command{
		Program: "sh",
		Args:    []string{"-c", "kill -KILL $$"},
	}, 10*time.Second, io.Discard, io.Discard)
	require.NoError(t, err)

	assert.False(t, status.Exited)
	assert.False(t, status.TimedOut)
	assert.Equal(t, "SIGKILL", status.Signal)
}
