package commands

import (
	"runtime"

	"github.com/spf13/cobra"
	"go.trai.ch/bootimage/internal/app"
)

func (c *CLI) newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test [--quiet] [--jobs N] [--report PATH] [--manifest-path PATH] [cargo build args...]",
		Short: "Build and run every test- binary of the kernel",
		Long: `Test builds an image for each binary whose name starts with "test-" and runs
them in parallel under the configured timeout. A summary is printed at the end
and, with --report, written as YAML.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := splitArgs(args, optJobs|optReport)
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

			jobs := parsed.Jobs
			if jobs == 0 {
				jobs = runtime.NumCPU()
			}

			_, err = c.app.Test(cmd.Context(), app.TestOptions{
				ManifestPath: manifest,
				CargoArgs:    parsed.Cargo,
				Jobs:         jobs,
				ReportPath:   parsed.Report,
				Quiet:        parsed.Quiet,
			})
			return err
		},
	}
}
