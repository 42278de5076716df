// Package commands implements the CLI commands for the bootimage tool.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/bootimage/internal/adapters/cargo" //nolint:depguard // Manifest discovery happens before the app runs
	"go.trai.ch/bootimage/internal/app"
	"go.trai.ch/bootimage/internal/build"
	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
)

// CLI represents the command line interface for bootimage.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	quiet   func(bool)
	locate  func(string) (string, error)
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) ([]*domain.BootableImage, error)
	Run(ctx context.Context, opts app.RunOptions) (int, error)
	Runner(ctx context.Context, opts app.RunnerOptions) (int, error)
	Test(ctx context.Context, opts app.TestOptions) (*domain.TestReport, error)
}

// ExitCodeError carries the exit code of an emulator run that did not succeed.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "bootimage",
		Short:         "Create bootable disk images from Rust OS kernels",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
		quiet:   func(bool) {},
		locate:  cargo.LocateManifest,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newRunnerCmd())
	rootCmd.AddCommand(c.newTestCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetQuietHook registers a callback invoked with the --quiet setting before a command runs.
func (c *CLI) SetQuietHook(fn func(bool)) {
	c.quiet = fn
}

// SetManifestLocator replaces manifest discovery. Used for testing.
func (c *CLI) SetManifestLocator(fn func(string) (string, error)) {
	c.locate = fn
}

// ExitCode maps the error returned by Execute to a process exit code. Errors the
// user has already been shown are not logged again.
func ExitCode(err error, log ports.Logger) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, domain.ErrTestsFailed) {
		return 1
	}

	log.Error(err)
	return 1
}

func (c *CLI) printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "bootimage version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date)
}

// exitCode turns a non-zero emulator exit code into an ExitCodeError.
func exitCode(code int, err error) error {
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitCodeError{Code: code}
	}
	return nil
}
