// Package main is the cargo subcommand entry point. cargo invokes it as
// `cargo-bootimage bootimage [args...]`, which maps to `bootimage build [args...]`.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/bootimage/cmd/bootimage/commands"
	"go.trai.ch/bootimage/internal/app"
	_ "go.trai.ch/bootimage/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	if len(args) == 0 || args[0] != "bootimage" {
		_, _ = fmt.Fprintln(stderr, "Error: cargo-bootimage must be executed as `cargo bootimage`")
		return 1
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	cli := commands.New(components.App)
	cli.SetArgs(append([]string{"build"}, args[1:]...))
	cli.SetOutput(os.Stdout, stderr)
	cli.SetQuietHook(components.SetQuiet)

	err = cli.Execute(ctx)
	if closeErr := components.App.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return commands.ExitCode(err, components.Logger)
}
