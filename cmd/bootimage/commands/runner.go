package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bootimage/internal/app"
)

func (c *CLI) newRunnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runner [--quiet] EXECUTABLE [emulator args...]",
		Short: "Create an image for a cargo-built executable and run it",
		Long: `Runner is meant to be configured as the cargo target runner. It creates a
bootable image for the given kernel executable and runs it. Executables in a
deps directory are treated as tests and bounded by the configured timeout.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := splitRunnerArgs(args)
			if parsed.Help {
				return cmd.Help()
			}
			if parsed.Version {
				c.printVersion(cmd.OutOrStdout())
				return nil
			}
			if err != nil {
				return err
			}

			// cargo sets CARGO_MANIFEST_DIR for the package being run.
			manifest, err := c.locate("")
			if err != nil {
				return err
			}
			c.quiet(parsed.Quiet)

			return exitCode(c.app.Runner(cmd.Context(), app.RunnerOptions{
				ManifestPath: manifest,
				Executable:   parsed.Executable,
				RunnerArgs:   parsed.Args,
				Quiet:        parsed.Quiet,
			}))
		},
	}
}
