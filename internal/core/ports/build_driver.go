package ports

import (
	"context"

	"go.trai.ch/bootimage/internal/core/domain"
)

// BuildDriver runs cargo builds.
//
//go:generate go run go.uber.org/mock/mockgen -source=build_driver.go -destination=mocks/mock_build_driver.go -package=mocks
type BuildDriver interface {
	// Build runs a human-readable build. Output is suppressed when quiet is set.
	Build(ctx context.Context, inv domain.CargoInvocation, quiet bool) error

	// BuildJSON runs an invocation requesting `--message-format json` and returns
	// the line-oriented record stream written to stdout.
	BuildJSON(ctx context.Context, inv domain.CargoInvocation) ([]byte, error)
}
