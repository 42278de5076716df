package ports

import (
	"context"
	"io"
	"time"

	"go.trai.ch/bootimage/internal/core/domain"
)

// Executor spawns external processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Output runs cmd to completion and captures stdout and stderr.
	// A non-zero exit is reported through the status, not as an error.
	Output(ctx context.Context, cmd domain.Command) (*domain.ProcessOutput, error)

	// Run runs cmd with the terminal's stdin and the given writers and waits
	// for it without a time bound.
	Run(cmd domain.Command, stdout, stderr io.Writer) (domain.ExitStatus, error)

	// RunWithTimeout runs cmd and waits at most timeout for it to exit.
	// When the timeout elapses or ctx is done the process is killed and reaped
	// before returning; a timeout is reported as ExitStatus.TimedOut.
	RunWithTimeout(
		ctx context.Context, cmd domain.Command, timeout time.Duration, stdout, stderr io.Writer,
	) (domain.ExitStatus, error)
}
