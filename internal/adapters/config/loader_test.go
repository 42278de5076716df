package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bootimage/internal/adapters/config"
	"go.trai.ch/bootimage/internal/core/domain"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func load(t *testing.T, content string) (domain.Config, error) {
	t.Helper()
	loader := config.NewLoader(config.NewManifestReader())
	return loader.Load(writeManifest(t, content))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t, `
[package]
name = "kernel"
version = "0.1.0"
`)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
	assert.Equal(t, []string{"build"}, cfg.BuildCommand)
	assert.Equal(t, []string{"qemu-system-x86_64", "-drive", "format=raw,file={}"}, cfg.Run.RunCommand)
	assert.Equal(t, 300*time.Second, cfg.Run.TestTimeout)
	assert.True(t, cfg.Run.TestNoReboot)
	assert.Nil(t, cfg.Run.TestSuccessExitCode)
}

func TestLoad_AllKeys(t *testing.T) {
	cfg, err := load(t, `
[package]
name = "kernel"

[package.metadata.bootimage]
build-command = ["xbuild"]
run-command = ["qemu-system-x86_64", "-drive", "format=raw,file={}"]
run-args = ["-serial", "stdio"]
test-args = ["-device", "isa-debug-exit,iobase=0xf4,iosize=0x04", "-display", "none"]
test-timeout = 60
test-success-exit-code = 33
test-no-reboot = false
`)
	require.NoError(t, err)

	assert.Equal(t, []string{"xbuild"}, cfg.BuildCommand)
	assert.Equal(t, []string{"-serial", "stdio"}, cfg.Run.RunArgs)
	assert.Equal(t, []string{"-device", "isa-debug-exit,iobase=0xf4,iosize=0x04", "-display", "none"}, cfg.Run.TestArgs)
	assert.Equal(t, 60*time.Second, cfg.Run.TestTimeout)
	require.NotNil(t, cfg.Run.TestSuccessExitCode)
	assert.Equal(t, 33, *cfg.Run.TestSuccessExitCode)
	assert.False(t, cfg.Run.TestNoReboot)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantMsg string
	}{
		{
			name:    "unknown key",
			table:   `test-timout = 10`,
			wantMsg: "test-timout",
		},
		{
			name:    "negative timeout",
			table:   `test-timeout = -1`,
			wantMsg: "must not be negative",
		},
		{
			name:    "timeout overflows duration",
			table:   `test-timeout = 9223372037`,
			wantMsg: "must not exceed 9223372036 seconds",
		},
		{
			name:    "negative success code",
			table:   `test-success-exit-code = -3`,
			wantMsg: "must not be negative",
		},
		{
			name:    "timeout wrong type",
			table:   `test-timeout = "60"`,
			wantMsg: "must be an integer",
		},
		{
			name:    "args not strings",
			table:   `run-args = ["-m", 512]`,
			wantMsg: "must be an array of strings",
		},
		{
			name:    "no reboot wrong type",
			table:   `test-no-reboot = "yes"`,
			wantMsg: "must be a boolean",
		},
		{
			name:    "empty run command",
			table:   `run-command = []`,
			wantMsg: "must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, "[package.metadata.bootimage]\n"+tt.table+"\n")
			require.Error(t, err)
			require.ErrorIs(t, err, domain.ErrConfigurationInvalid)
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	loader := config.NewLoader(config.NewManifestReader())
	_, err := loader.Load(filepath.Join(t.TempDir(), "Cargo.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestManifestReader_Read(t *testing.T) {
	path := writeManifest(t, `
[package]
name = "bootloader"

[package.metadata.bootloader]
target = "x86_64-bootloader.json"

[features]
binary = ["xmas-elf"]
`)

	m, err := config.NewManifestReader().Read(path)
	require.NoError(t, err)

	target, ok := m.Lookup("package", "metadata", "bootloader", "target")
	require.True(t, ok)
	assert.Equal(t, "x86_64-bootloader.json", target)

	features, ok := m.Table("features")
	require.True(t, ok)
	assert.Contains(t, features, "binary")

	_, ok = m.Lookup("package", "metadata", "bootimage")
	assert.False(t, ok)
}

func TestManifestReader_ParseError(t *testing.T) {
	path := writeManifest(t, "[package\nname = ")
	_, err := config.NewManifestReader().Read(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to parse manifest")
}
