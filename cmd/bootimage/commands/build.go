package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/bootimage/internal/app"
	"go.trai.ch/bootimage/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [--quiet] [--iso] [--manifest-path PATH] [cargo build args...]",
		Short: "Build the kernel and create a bootable image for every executable",
		Long: `Build compiles the kernel with the configured build command, then builds the
bootloader with the kernel embedded and converts it into a bootable image.

All arguments that are not bootimage flags are passed to the kernel build.
--manifest-path is honoured by bootimage and also forwarded.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := splitArgs(args, optISO)
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

			format := domain.ImageFormatDisk
			if parsed.ISO {
				format = domain.ImageFormatISO
			}

			_, err = c.app.Build(cmd.Context(), app.BuildOptions{
				ManifestPath: manifest,
				CargoArgs:    parsed.Cargo,
				Format:       format,
				Quiet:        parsed.Quiet,
			})
			return err
		},
	}
}
