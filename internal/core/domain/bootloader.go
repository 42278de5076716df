package domain

import (
	"path/filepath"
	"strings"
)

// BinaryFeature is force-enabled when the bootloader manifest declares it.
const BinaryFeature = "binary"

// CargoInvocation is a single cargo command line and the environment overrides it runs with.
type CargoInvocation struct {
	Args []string
	Env  map[string]string
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// WithArgs returns a copy of the invocation with extra arguments appended.
func (c CargoInvocation) WithArgs(args ...string) CargoInvocation {
	out := CargoInvocation{
		Args: make([]string, 0, len(c.Args)+len(args)),
		Env:  c.Env,
		Dir:  c.Dir,
	}
	out.Args = append(out.Args, c.Args...)
	out.Args = append(out.Args, args...)
	return out
}

// JSON returns a copy of the invocation that emits the machine-readable message stream.
func (c CargoInvocation) JSON() CargoInvocation {
	return c.WithArgs("--message-format", "json")
}

// BootloaderBuildConfig holds everything needed to compile the bootloader for one kernel binary.
type BootloaderBuildConfig struct {
	ManifestPath       string
	Name               string
	TargetPath         string
	Features           []string
	TargetDir          string
	KernelBinPath      string
	KernelManifestPath string
	BuildStd           string
}

// NewBootloaderBuildConfig creates a config, de-duplicating the feature list.
func NewBootloaderBuildConfig(
	manifestPath, name, targetPath, targetDir, kernelBin, kernelManifest, buildStd string,
	features []string,
) *BootloaderBuildConfig {
	seen := make(map[string]struct{}, len(features))
	set := make([]string, 0, len(features))
	for _, f := range features {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		set = append(set, f)
	}

	return &BootloaderBuildConfig{
		ManifestPath:       manifestPath,
		Name:               name,
		TargetPath:         targetPath,
		Features:           set,
		TargetDir:          targetDir,
		KernelBinPath:      kernelBin,
		KernelManifestPath: kernelManifest,
		BuildStd:           buildStd,
	}
}

// SysrootPath is the sysroot cache location isolated under the bootloader target directory.
func (c *BootloaderBuildConfig) SysrootPath() string {
	return filepath.Join(c.TargetDir, "bootloader-sysroot")
}

// BuildInvocation returns the cargo invocation that compiles the bootloader.
func (c *BootloaderBuildConfig) BuildInvocation() CargoInvocation {
	var args []string
	if c.BuildStd != "" {
		args = append(args, "build", "-Zbuild-std="+c.BuildStd)
	} else {
		args = append(args, "xbuild")
	}

	args = append(args,
		"--manifest-path", c.ManifestPath,
		"--bin", c.Name,
		"--target-dir", c.TargetDir,
		"--features", strings.Join(c.Features, " "),
		"--target", c.TargetPath,
		"--release",
	)

	return CargoInvocation{
		Args: args,
		Env: map[string]string{
			"KERNEL":              c.KernelBinPath,
			"KERNEL_MANIFEST":     c.KernelManifestPath,
			"RUSTFLAGS":           "",
			"XBUILD_SYSROOT_PATH": c.SysrootPath(),
		},
	}
}

// JSONBuildInvocation returns the bootloader build invocation that emits a JSON artifact stream.
func (c *BootloaderBuildConfig) JSONBuildInvocation() CargoInvocation {
	return c.BuildInvocation().JSON()
}
