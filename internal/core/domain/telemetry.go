package domain

// LogLevel represents the severity of a vertex log line, mirroring the slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Stage names a step of the image pipeline recorded as a telemetry vertex.
type Stage string

const (
	// StageKernelBuild compiles the kernel.
	StageKernelBuild Stage = "build kernel"
	// StageBootloaderBuild compiles the bootloader with the kernel embedded.
	StageBootloaderBuild Stage = "build bootloader"
	// StageAssemble converts the bootloader executable into an image.
	StageAssemble Stage = "assemble image"
	// StageRun executes an image.
	StageRun Stage = "run"
)

// VertexName joins a stage and its subject into a unique vertex name.
func (s Stage) VertexName(subject string) string {
	if subject == "" {
		return string(s)
	}
	return string(s) + " " + subject
}
