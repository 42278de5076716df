package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigurationInvalid is returned when a manifest key is missing or malformed,
	// or when the build produced an ambiguous or absent artifact.
	ErrConfigurationInvalid = zerr.New("configuration invalid")

	// ErrDependencyNotFound is returned when the kernel package declares no bootloader dependency.
	ErrDependencyNotFound = zerr.New("bootloader dependency not found")

	// ErrMetadataIncomplete is returned when the package metadata lacks a required entry.
	// The missing key is attached as the "key" metadata field.
	ErrMetadataIncomplete = zerr.New("package metadata incomplete")

	// ErrKernelPackageNotFound is returned when no package matches the kernel manifest or binary.
	ErrKernelPackageNotFound = zerr.New("kernel package not found")

	// ErrManifestNotFound is returned when no Cargo.toml could be located.
	ErrManifestNotFound = zerr.New("cargo manifest not found")

	// ErrToolsetMissing is returned when the rustc LLVM tools directory does not exist.
	ErrToolsetMissing = zerr.New("llvm-tools not found, install with `rustup component add llvm-tools-preview`")

	// ErrObjcopyMissing is returned when llvm-objcopy is absent from the LLVM tools directory.
	ErrObjcopyMissing = zerr.New("llvm-objcopy not found in llvm-tools")

	// ErrExternalToolFailed is returned when an external tool exits unsuccessfully.
	ErrExternalToolFailed = zerr.New("external tool failed")

	// ErrImageInvalid is returned when a produced image does not have the expected layout.
	ErrImageInvalid = zerr.New("image invalid")

	// ErrBuildFailed is returned when a cargo build exits unsuccessfully.
	ErrBuildFailed = zerr.New("build failed")

	// ErrTestTimedOut is returned in runner mode when a test exceeds its timeout.
	ErrTestTimedOut = zerr.New("test timed out")

	// ErrNoExitCode is returned in runner mode when the emulator was terminated by a signal.
	ErrNoExitCode = zerr.New("emulator exited without exit code")

	// ErrInvalidArguments is returned when the command line cannot be parsed.
	ErrInvalidArguments = zerr.New("invalid arguments")

	// ErrTestsFailed is returned when at least one test of a suite did not succeed.
	ErrTestsFailed = zerr.New("tests failed")
)
