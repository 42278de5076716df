// Package cargo drives the cargo build tool.
package cargo

import (
	"os"

	"go.trai.ch/bootimage/internal/core/domain"
)

// Binary returns the cargo executable, honoring $CARGO as cargo itself does for subcommands.
func Binary() string {
	if c := os.Getenv("CARGO"); c != "" {
		return c
	}
	return "cargo"
}

func command(cargo string, inv domain.CargoInvocation) domain.Command {
	return domain.Command{
		Program: cargo,
		Args:    inv.Args,
		Env:     inv.Env,
		Dir:     inv.Dir,
	}
}
