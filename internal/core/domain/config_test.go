package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/bootimage/internal/core/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()

	assert.Equal(t, []string{"build"}, cfg.BuildCommand)
	assert.Equal(t, 300*time.Second, cfg.Run.TestTimeout)
	assert.True(t, cfg.Run.TestNoReboot)
	assert.Equal(t, 0, cfg.Run.SuccessCode())
}

func TestRunConfig_SuccessCode(t *testing.T) {
	code := 33
	cfg := domain.RunConfig{TestSuccessExitCode: &code}
	assert.Equal(t, 33, cfg.SuccessCode())
}

func TestRunConfig_Argv(t *testing.T) {
	cfg := domain.RunConfig{
		RunCommand:   []string{"qemu-system-x86_64", "-drive", "format=raw,file={}"},
		RunArgs:      []string{"-serial", "stdio"},
		TestArgs:     []string{"-display", "none"},
		TestNoReboot: true,
	}

	assert.Equal(t, []string{
		"qemu-system-x86_64", "-drive", "format=raw,file=/img.bin", "-serial", "stdio", "-s",
	}, cfg.RunArgv("/img.bin", []string{"-s"}))

	assert.Equal(t, []string{
		"qemu-system-x86_64", "-drive", "format=raw,file=/img.bin", "-no-reboot", "-display", "none",
	}, cfg.TestArgv("/img.bin", nil))

	cfg.TestNoReboot = false
	assert.NotContains(t, cfg.TestArgv("/img.bin", nil), domain.NoRebootFlag)

	// The command template is not modified by substitution.
	assert.Equal(t, "format=raw,file={}", cfg.RunCommand[2])
}
