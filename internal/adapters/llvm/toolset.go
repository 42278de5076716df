// Package llvm locates the LLVM tools shipped with the rust toolchain.
package llvm

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Toolset = (*Toolset)(nil)

// Toolset implements ports.Toolset using the llvm-tools-preview rustup component.
type Toolset struct {
	executor ports.Executor
	rustc    string

	mu      sync.Mutex
	objcopy string
}

// NewToolset creates a Toolset that queries the rustc named by $RUSTC, or rustc.
func NewToolset(executor ports.Executor) *Toolset {
	rustc := os.Getenv("RUSTC")
	if rustc == "" {
		rustc = "rustc"
	}
	return &Toolset{executor: executor, rustc: rustc}
}

// Objcopy returns the path of llvm-objcopy inside the toolchain sysroot.
func (t *Toolset) Objcopy(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.objcopy != "" {
		return t.objcopy, nil
	}

	binDir, err := t.binDir(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(binDir, executableName("llvm-objcopy"))
	if _, err := os.Stat(path); err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrObjcopyMissing, err.Error()), "path", path)
	}

	t.objcopy = path
	return path, nil
}

func (t *Toolset) binDir(ctx context.Context) (string, error) {
	sysroot, err := t.query(ctx, "--print", "sysroot")
	if err != nil {
		return "", err
	}
	version, err := t.query(ctx, "-vV")
	if err != nil {
		return "", err
	}
	host, err := parseHost(version)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(strings.TrimSpace(sysroot), "lib", "rustlib", host, "bin")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", zerr.With(zerr.Wrap(domain.ErrToolsetMissing, "llvm-tools directory not found"), "path", dir)
	}
	return dir, nil
}

func (t *Toolset) query(ctx context.Context, args ...string) (string, error) {
	out, err := t.executor.Output(ctx, domain.Command{Program: t.rustc, Args: args})
	if err != nil {
		return "", zerr.Wrap(err, "failed to run rustc")
	}
	if !out.Success() {
		return "", zerr.With(
			zerr.Wrap(domain.ErrExternalToolFailed, "rustc "+strings.Join(args, " ")+":\n"+strings.TrimSpace(string(out.Stderr))),
			"exit_code", out.Status.Code,
		)
	}
	return string(out.Stdout), nil
}

// parseHost extracts the host triple from `rustc -vV` output.
func parseHost(version string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(version))
	for scanner.Scan() {
		if host, ok := strings.CutPrefix(scanner.Text(), "host: "); ok {
			return strings.TrimSpace(host), nil
		}
	}
	return "", zerr.Wrap(domain.ErrToolsetMissing, "rustc -vV did not report a host triple")
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
