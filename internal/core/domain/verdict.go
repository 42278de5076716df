package domain

import "fmt"

// DebugExitCode returns the raw emulator exit code produced when the guest writes b to the debug-exit port.
func DebugExitCode(b byte) int {
	return int(b)<<1 | 1
}

// DebugExitValue reverses DebugExitCode. It reports false for codes the device cannot produce.
func DebugExitValue(code int) (byte, bool) {
	if code&1 == 0 || code < 1 || code > DebugExitCode(0xff) {
		return 0, false
	}
	return byte(code >> 1), true
}

// ExitStatus is the observed outcome of a finished process.
type ExitStatus struct {
	// Code is valid only when Exited is true.
	Code   int
	Exited bool
	// Signal names the terminating signal when known.
	Signal   string
	TimedOut bool
}

// VerdictKind enumerates the verdict variants.
type VerdictKind int

const (
	// VerdictSuccess means the emulator exited with the success code.
	VerdictSuccess VerdictKind = iota
	// VerdictFailure means the emulator exited with any other code.
	VerdictFailure
	// VerdictTimeout means the emulator was killed after the test timeout.
	VerdictTimeout
	// VerdictNoExitCode means the emulator was terminated by a signal.
	VerdictNoExitCode
)

// Verdict classifies one test execution.
type Verdict struct {
	Kind VerdictKind
	// Code is the raw exit code for failures.
	Code int
}

// Success returns the success verdict.
func Success() Verdict { return Verdict{Kind: VerdictSuccess} }

// Failure returns a failure verdict carrying the raw exit code.
func Failure(code int) Verdict { return Verdict{Kind: VerdictFailure, Code: code} }

// Timeout returns the timeout verdict.
func Timeout() Verdict { return Verdict{Kind: VerdictTimeout} }

// NoExitCode returns the verdict for signal termination.
func NoExitCode() Verdict { return Verdict{Kind: VerdictNoExitCode} }

// IsSuccess reports whether the verdict is Success.
func (v Verdict) IsSuccess() bool {
	return v.Kind == VerdictSuccess
}

func (v Verdict) String() string {
	switch v.Kind {
	case VerdictSuccess:
		return "Success"
	case VerdictFailure:
		return fmt.Sprintf("Failure(%d)", v.Code)
	case VerdictTimeout:
		return "Timeout"
	case VerdictNoExitCode:
		return "NoExitCode"
	default:
		return "Unknown"
	}
}

// DecodeExit classifies a process outcome against the success code.
func DecodeExit(status ExitStatus, successCode int) Verdict {
	switch {
	case status.TimedOut:
		return Timeout()
	case !status.Exited:
		return NoExitCode()
	case status.Code == successCode:
		return Success()
	default:
		return Failure(status.Code)
	}
}

// ProcessExitCode maps a verdict to the exit code reported to cargo in runner mode.
// A failure never maps to zero.
func ProcessExitCode(v Verdict) int {
	switch v.Kind {
	case VerdictSuccess:
		return 0
	case VerdictFailure:
		if v.Code == 0 {
			return 1
		}
		return v.Code
	default:
		return 1
	}
}
