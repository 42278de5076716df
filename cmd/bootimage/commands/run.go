package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bootimage/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [--quiet] [--manifest-path PATH] [cargo build args...] [-- emulator args...]",
		Short: "Build the kernel image and run it in the configured emulator",
		Long: `Run builds a disk image like build does and starts the run command on it.
Arguments after "--" are appended to the emulator command line.
The process exits with the emulator exit code.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := splitArgs(args, optTrailing)
			if err != nil {
				return err
			}
			if parsed.Help {
				return cmd.Help()
			}
			if parsed.Version {
				c.printVersion(cmd.OutOrStdout())
				return nil
			}

			manifest, err := c.locate(parsed.ManifestPath)
			if err != nil {
				return err
			}
			c.quiet(parsed.Quiet)

			return exitCode(c.app.Run(cmd.Context(), app.RunOptions{
				ManifestPath: manifest,
				CargoArgs:    parsed.Cargo,
				RunArgs:      parsed.Trailing,
				Quiet:        parsed.Quiet,
			}))
		},
	}
}
