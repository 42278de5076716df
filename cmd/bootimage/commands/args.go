package commands

import (
	"strconv"
	"strings"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/zerr"
)

// option enables a subcommand specific flag in splitArgs.
type option uint8

const (
	optISO option = 1 << iota
	optJobs
	optReport
	optTrailing
)

// splitResult is a command line divided into the flags bootimage consumes and the
// arguments forwarded to cargo.
type splitResult struct {
	ManifestPath string
	Quiet        bool
	ISO          bool
	Jobs         int
	Report       string
	Help         bool
	Version      bool
	// Cargo holds the arguments forwarded to the kernel build, including --manifest-path.
	Cargo []string
	// Trailing holds everything after a "--" separator when optTrailing is set.
	Trailing []string
}

// splitArgs separates bootimage flags from cargo arguments. Unknown arguments are
// forwarded to cargo untouched. --manifest-path is recorded and also forwarded.
func splitArgs(args []string, opts option) (splitResult, error) {
	var out splitResult

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, inlineValue, inline := strings.Cut(arg, "=")

		value := func() (string, error) {
			if inline {
				return inlineValue, nil
			}
			if i+1 >= len(args) {
				return "", zerr.With(zerr.Wrap(domain.ErrInvalidArguments, "flag needs a value"), "flag", name)
			}
			i++
			return args[i], nil
		}

		switch {
		case arg == "--help" || arg == "-h":
			out.Help = true
		case arg == "--version":
			out.Version = true
		case arg == "--quiet":
			out.Quiet = true
		case arg == "--":
			if opts&optTrailing != 0 {
				out.Trailing = append(out.Trailing, args[i+1:]...)
			} else {
				out.Cargo = append(out.Cargo, args[i:]...)
			}
			return out, nil
		case arg == "--iso" && opts&optISO != 0:
			out.ISO = true
		case name == "--manifest-path":
			path, err := value()
			if err != nil {
				return out, err
			}
			if out.ManifestPath != "" {
				return out, zerr.Wrap(domain.ErrInvalidArguments, "--manifest-path must be specified only once")
			}
			out.ManifestPath = path
			if inline {
				out.Cargo = append(out.Cargo, arg)
			} else {
				out.Cargo = append(out.Cargo, name, path)
			}
		case name == "--jobs" && opts&optJobs != 0:
			raw, err := value()
			if err != nil {
				return out, err
			}
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				return out, zerr.With(zerr.Wrap(domain.ErrInvalidArguments, "--jobs must be a positive integer"), "value", raw)
			}
			out.Jobs = n
		case name == "--report" && opts&optReport != 0:
			path, err := value()
			if err != nil {
				return out, err
			}
			out.Report = path
		default:
			out.Cargo = append(out.Cargo, arg)
		}
	}

	return out, nil
}

// runnerArgs is the command line of the cargo runner: bootimage flags, then the
// executable, then arguments for the emulator.
type runnerArgs struct {
	Executable string
	Quiet      bool
	Help       bool
	Version    bool
	Args       []string
}

func splitRunnerArgs(args []string) (runnerArgs, error) {
	var out runnerArgs
	for i, arg := range args {
		switch arg {
		case "--help", "-h":
			out.Help = true
			return out, nil
		case "--version":
			out.Version = true
			return out, nil
		case "--quiet":
			out.Quiet = true
		default:
			out.Executable = arg
			if rest := args[i+1:]; len(rest) > 0 {
				out.Args = append([]string(nil), rest...)
			}
			return out, nil
		}
	}
	return out, zerr.Wrap(domain.ErrInvalidArguments, "expected path to kernel executable as first argument")
}
