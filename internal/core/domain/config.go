package domain

import (
	"strings"
	"time"
)

// ImagePlaceholder is replaced by the image path in run command tokens.
const ImagePlaceholder = "{}"

// NoRebootFlag is injected into test runs when TestNoReboot is set.
const NoRebootFlag = "-no-reboot"

// DefaultSuccessExitCode is the raw exit code of an emulator that shut down cleanly.
const DefaultSuccessExitCode = 0

// Config is the bootimage section of the kernel manifest.
type Config struct {
	// BuildCommand is the cargo subcommand used to build the kernel.
	BuildCommand []string
	Run          RunConfig
}

// RunConfig controls how images are executed.
type RunConfig struct {
	RunCommand          []string
	RunArgs             []string
	TestArgs            []string
	TestTimeout         time.Duration
	TestSuccessExitCode *int
	TestNoReboot        bool
}

// DefaultConfig returns the configuration used when the manifest sets nothing.
func DefaultConfig() Config {
	return Config{
		BuildCommand: []string{"build"},
		Run: RunConfig{
			RunCommand:   []string{"qemu-system-x86_64", "-drive", "format=raw,file=" + ImagePlaceholder},
			TestTimeout:  300 * time.Second,
			TestNoReboot: true,
		},
	}
}

// SuccessCode returns the raw exit code that counts as a passing test.
// A configured code replaces the default entirely.
func (c RunConfig) SuccessCode() int {
	if c.TestSuccessExitCode != nil {
		return *c.TestSuccessExitCode
	}
	return DefaultSuccessExitCode
}

// RunArgv builds the argv of a plain run.
func (c RunConfig) RunArgv(imagePath string, extra []string) []string {
	argv := c.substitute(imagePath)
	argv = append(argv, c.RunArgs...)
	return append(argv, extra...)
}

// TestArgv builds the argv of a test run.
func (c RunConfig) TestArgv(imagePath string, extra []string) []string {
	argv := c.substitute(imagePath)
	if c.TestNoReboot {
		argv = append(argv, NoRebootFlag)
	}
	argv = append(argv, c.TestArgs...)
	return append(argv, extra...)
}

func (c RunConfig) substitute(imagePath string) []string {
	argv := make([]string, 0, len(c.RunCommand)+len(c.RunArgs)+len(c.TestArgs)+1)
	for _, tok := range c.RunCommand {
		argv = append(argv, strings.ReplaceAll(tok, ImagePlaceholder, imagePath))
	}
	return argv
}
