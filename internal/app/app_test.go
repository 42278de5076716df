package app_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bootimage/internal/app"
	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/bootimage/internal/core/ports/mocks"
	"go.trai.ch/bootimage/internal/engine/image"
	"go.uber.org/mock/gomock"
)

const (
	kernelManifest     = "/work/blog_os/Cargo.toml"
	bootloaderManifest = "/registry/bootloader-0.9.8/Cargo.toml"
	bootloaderID       = "bootloader 0.9.8"
)

type fixture struct {
	dir       string
	config    domain.Config
	metadata  *mocks.MockMetadataProvider
	driver    *mocks.MockBuildDriver
	manifests *mocks.MockManifestReader
	configs   *mocks.MockConfigLoader
	executor  *mocks.MockExecutor
	store     *mocks.MockImageStore
	toolset   *mocks.MockToolset
	verifier  *mocks.MockISOVerifier
	reports   *mocks.MockReportWriter
	logger    *mocks.MockLogger
	out       *bytes.Buffer
	app       *app.App
}

func packageGraph(bins ...string) *domain.PackageGraph {
	targets := make([]domain.Target, 0, len(bins)+1)
	targets = append(targets, domain.Target{Name: "blog_os", Kind: []string{"lib"}})
	for _, b := range bins {
		targets = append(targets, domain.Target{Name: b, Kind: []string{"bin"}})
	}
	return &domain.PackageGraph{
		Packages: []domain.Package{
			{
				ID:           "blog_os 0.1.0",
				Name:         "blog_os",
				ManifestPath: kernelManifest,
				Dependencies: []domain.Dependency{{Name: "bootloader"}},
				Targets:      targets,
			},
			{ID: bootloaderID, Name: "bootloader", ManifestPath: bootloaderManifest},
		},
		Resolve: &domain.ResolveGraph{Nodes: []domain.ResolveNode{{ID: bootloaderID}}},
	}
}

func newFixture(t *testing.T, bins ...string) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		dir:       t.TempDir(),
		config:    domain.DefaultConfig(),
		metadata:  mocks.NewMockMetadataProvider(ctrl),
		driver:    mocks.NewMockBuildDriver(ctrl),
		manifests: mocks.NewMockManifestReader(ctrl),
		configs:   mocks.NewMockConfigLoader(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
		store:     mocks.NewMockImageStore(ctrl),
		toolset:   mocks.NewMockToolset(ctrl),
		verifier:  mocks.NewMockISOVerifier(ctrl),
		reports:   mocks.NewMockReportWriter(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		out:       &bytes.Buffer{},
	}

	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	vertex.EXPECT().Cached().AnyTimes()
	vertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
	vertex.EXPECT().Stdout().Return(io.Discard).AnyTimes()
	vertex.EXPECT().Stderr().Return(io.Discard).AnyTimes()

	telemetry := mocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ports.ContextWithVertex(ctx, vertex), vertex
		}).AnyTimes()
	telemetry.EXPECT().Close().Return(nil).AnyTimes()

	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.configs.EXPECT().Load(kernelManifest).DoAndReturn(func(string) (domain.Config, error) {
		return f.config, nil
	}).AnyTimes()
	f.metadata.EXPECT().Metadata(gomock.Any(), kernelManifest).Return(packageGraph(bins...), nil).AnyTimes()
	f.manifests.EXPECT().Read(bootloaderManifest).Return(domain.Manifest{
		"package": map[string]any{
			"metadata": map[string]any{"bootloader": map[string]any{"target": "x86_64-bootloader.json"}},
		},
	}, nil).AnyTimes()

	asm := image.New(f.toolset, f.executor, f.store, f.verifier, f.logger)
	f.app = app.New(f.metadata, f.driver, f.manifests, f.configs, asm, f.executor, f.reports, telemetry, f.logger).
		WithOutput(f.out)
	return f
}

// expectBuilds simulates cargo: the kernel build emits one executable per `--bin`
// and the bootloader build emits a single ELF.
func (f *fixture) expectBuilds() {
	f.driver.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.driver.EXPECT().BuildJSON(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.CargoInvocation) ([]byte, error) {
			if inv.Args[0] == "xbuild" {
				return fmt.Appendf(nil, `{"executable":%q}`+"\n", filepath.Join(f.dir, "bootloader", filepath.Base(inv.Env["KERNEL"]))), nil
			}
			bin := "blog_os"
			if i := slices.Index(inv.Args, "--bin"); i >= 0 {
				bin = inv.Args[i+1]
			}
			return fmt.Appendf(nil, `{"executable":%q}`+"\n", filepath.Join(f.dir, "debug", bin)), nil
		}).AnyTimes()

	f.store.EXPECT().Fingerprint(gomock.Any()).Return(uint64(1), nil).AnyTimes()
	f.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	f.store.EXPECT().Put(gomock.Any()).Return(nil).AnyTimes()
	f.toolset.EXPECT().Objcopy(gomock.Any()).Return("llvm-objcopy", nil).AnyTimes()
	f.executor.EXPECT().Output(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (*domain.ProcessOutput, error) {
			out := cmd.Args[len(cmd.Args)-1]
			if err := os.WriteFile(out, make([]byte, 100), 0o600); err != nil {
				return nil, err
			}
			return &domain.ProcessOutput{Status: domain.ExitStatus{Exited: true}}, nil
		}).AnyTimes()
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t, "blog_os")
	f.expectBuilds()

	images, err := f.app.Build(context.Background(), app.BuildOptions{
		ManifestPath: kernelManifest,
		CargoArgs:    []string{"--release"},
		Format:       domain.ImageFormatDisk,
	})
	require.NoError(t, err)
	require.Len(t, images, 1)

	expected := filepath.Join(f.dir, "debug", "bootimage-blog_os.bin")
	assert.Equal(t, expected, images[0].Path)
	assert.Equal(t, int64(512), images[0].Length)
	assert.Equal(t, "Created bootimage for `blog_os` at `"+expected+"`\n", f.out.String())
}

func TestApp_Build_PassesBuildCommand(t *testing.T) {
	f := newFixture(t, "blog_os")
	f.config.BuildCommand = []string{"xbuild"}

	f.driver.EXPECT().Build(gomock.Any(), domain.CargoInvocation{Args: []string{"xbuild", "--release"}}, true).
		Return(domain.ErrBuildFailed)

	_, err := f.app.Build(context.Background(), app.BuildOptions{
		ManifestPath: kernelManifest,
		CargoArgs:    []string{"--release"},
		Quiet:        true,
	})
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.Empty(t, f.out.String())
}

func TestApp_Build_NoExecutables(t *testing.T) {
	f := newFixture(t, "blog_os")
	f.driver.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.driver.EXPECT().BuildJSON(gomock.Any(), gomock.Any()).Return([]byte(`{"reason":"build-finished"}`+"\n"), nil)

	_, err := f.app.Build(context.Background(), app.BuildOptions{ManifestPath: kernelManifest})
	require.ErrorIs(t, err, domain.ErrConfigurationInvalid)
	assert.ErrorContains(t, err, "no executables built")
}

func TestApp_Run(t *testing.T) {
	f := newFixture(t, "blog_os", "test-panic")
	f.expectBuilds()

	image := filepath.Join(f.dir, "debug", "bootimage-blog_os.bin")
	f.executor.EXPECT().Run(domain.Command{
		Program: "qemu-system-x86_64",
		Args:    []string{"-drive", "format=raw,file=" + image, "-s"},
	}, gomock.Any(), gomock.Any()).Return(domain.ExitStatus{Exited: true, Code: 7}, nil)

	code, err := f.app.Run(context.Background(), app.RunOptions{
		ManifestPath: kernelManifest,
		RunArgs:      []string{"-s"},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestApp_Run_AmbiguousKernel(t *testing.T) {
	f := newFixture(t, "kernel_a", "kernel_b")

	_, err := f.app.Run(context.Background(), app.RunOptions{ManifestPath: kernelManifest})
	require.ErrorIs(t, err, domain.ErrConfigurationInvalid)
	assert.ErrorContains(t, err, "--bin")
}

func TestApp_Runner(t *testing.T) {
	successCode := domain.DebugExitCode(0x10)

	tests := []struct {
		name     string
		exe      string
		status   domain.ExitStatus
		expected int
		sentinel error
	}{
		{name: "plain run", exe: "debug/blog_os", status: domain.ExitStatus{Exited: true, Code: 5}, expected: 5},
		{name: "test success", exe: "debug/deps/basic_boot-1a2b", status: domain.ExitStatus{Exited: true, Code: 33}},
		{
			name:     "test failure keeps code",
			exe:      "debug/deps/should_panic-1a2b",
			status:   domain.ExitStatus{Exited: true, Code: 35},
			expected: 35,
		},
		{
			name:     "test exit zero is a failure",
			exe:      "debug/deps/reboot-1a2b",
			status:   domain.ExitStatus{Exited: true, Code: 0},
			expected: 1,
		},
		{
			name:     "test timeout",
			exe:      "debug/deps/hang-1a2b",
			status:   domain.ExitStatus{TimedOut: true},
			expected: 1,
			sentinel: domain.ErrTestTimedOut,
		},
		{
			name:     "test signal",
			exe:      "debug/deps/crash-1a2b",
			status:   domain.ExitStatus{Signal: "SIGKILL"},
			expected: 1,
			sentinel: domain.ErrNoExitCode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "blog_os")
			f.config.Run.TestSuccessExitCode = &successCode
			f.expectBuilds()
			f.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

			exe := filepath.Join(f.dir, filepath.FromSlash(tt.exe))
			require.NoError(t, os.MkdirAll(filepath.Dir(exe), 0o750))

			if app.IsTestExecutable(exe) {
				f.executor.EXPECT().RunWithTimeout(gomock.Any(), gomock.Any(), f.config.Run.TestTimeout, gomock.Any(), gomock.Any()).
					Return(tt.status, nil)
			} else {
				f.executor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.status, nil)
			}

			code, err := f.app.Runner(context.Background(), app.RunnerOptions{
				ManifestPath: kernelManifest,
				Executable:   exe,
			})
			if tt.sentinel != nil {
				require.ErrorIs(t, err, tt.sentinel)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected, code)

			_, statErr := os.Stat(filepath.Join(filepath.Dir(exe), "bootimage-"+filepath.Base(exe)+".bin"))
			assert.NoError(t, statErr)
		})
	}
}

func TestIsTestExecutable(t *testing.T) {
	assert.True(t, app.IsTestExecutable("/t/x86_64/debug/deps/basic_boot-5f3c"))
	assert.False(t, app.IsTestExecutable("/t/x86_64/debug/blog_os"))
}

func TestApp_Test(t *testing.T) {
	f := newFixture(t, "blog_os", "test-a", "test-b", "test-c")
	f.expectBuilds()

	f.executor.EXPECT().RunWithTimeout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command, _ time.Duration, stdout, _ io.Writer) (domain.ExitStatus, error) {
			_, _ = io.WriteString(stdout, "serial output\n")
			if slices.Contains(cmd.Args, "format=raw,file="+filepath.Join(f.dir, "debug", "bootimage-test-b.bin")) {
				return domain.ExitStatus{TimedOut: true}, nil
			}
			return domain.ExitStatus{Exited: true}, nil
		}).Times(3)

	reportPath := filepath.Join(f.dir, "report.yaml")
	f.reports.EXPECT().Write(reportPath, gomock.Any()).DoAndReturn(func(_ string, r *domain.TestReport) error {
		assert.Equal(t, 3, r.Len())
		return nil
	})

	report, err := f.app.Test(context.Background(), app.TestOptions{
		ManifestPath: kernelManifest,
		Jobs:         2,
		ReportPath:   reportPath,
	})
	require.ErrorIs(t, err, domain.ErrTestsFailed)

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "test-b", failures[0].Name)
	assert.Equal(t, domain.Timeout(), failures[0].Verdict)

	assert.Contains(t, f.out.String(), "OK: test-a\n")
	assert.Contains(t, f.out.String(), "OK: test-c\n")
	assert.Contains(t, f.out.String(), "The following tests failed:\n    test-b: Timeout\n")

	outcome, ok := report.Get("test-a")
	require.True(t, ok)
	captured, err := os.ReadFile(outcome.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "serial output\n", string(captured))
}

func TestApp_Test_AllPass(t *testing.T) {
	f := newFixture(t, "blog_os", "test-a")
	f.expectBuilds()
	f.executor.EXPECT().RunWithTimeout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ExitStatus{Exited: true}, nil)

	report, err := f.app.Test(context.Background(), app.TestOptions{ManifestPath: kernelManifest})
	require.NoError(t, err)
	assert.True(t, report.Success())
	assert.Contains(t, f.out.String(), "All tests succeeded.")
}

// TestApp_Test_SharedBootloaderOutput simulates cargo writing every bootloader build to the
// same path. Each image must still embed the kernel of its own test.
func TestApp_Test_SharedBootloaderOutput(t *testing.T) {
	names := []string{"test-0", "test-1", "test-2", "test-3", "test-4", "test-5", "test-6", "test-7"}
	f := newFixture(t, append([]string{"blog_os"}, names...)...)

	shared := filepath.Join(f.dir, "bootimage", "bootloader", "release", "bootloader")
	require.NoError(t, os.MkdirAll(filepath.Dir(shared), 0o750))

	var inFlight, maxInFlight atomic.Int32
	f.driver.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.CargoInvocation, _ bool) error {
			if inv.Args[0] != "xbuild" {
				return nil
			}
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for m := maxInFlight.Load(); n > m && !maxInFlight.CompareAndSwap(m, n); m = maxInFlight.Load() {
			}
			time.Sleep(time.Millisecond)
			return os.WriteFile(shared, []byte(inv.Env["KERNEL"]), 0o600)
		}).AnyTimes()
	f.driver.EXPECT().BuildJSON(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.CargoInvocation) ([]byte, error) {
			if inv.Args[0] == "xbuild" {
				return fmt.Appendf(nil, `{"executable":%q}`+"\n", shared), nil
			}
			bin := inv.Args[slices.Index(inv.Args, "--bin")+1]
			return fmt.Appendf(nil, `{"executable":%q}`+"\n", filepath.Join(f.dir, "debug", bin)), nil
		}).AnyTimes()

	f.store.EXPECT().Fingerprint(gomock.Any()).Return(uint64(1), nil).AnyTimes()
	f.store.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	f.store.EXPECT().Put(gomock.Any()).Return(nil).AnyTimes()
	f.toolset.EXPECT().Objcopy(gomock.Any()).Return("llvm-objcopy", nil).AnyTimes()
	f.executor.EXPECT().Output(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command) (*domain.ProcessOutput, error) {
			elf, out := cmd.Args[len(cmd.Args)-2], cmd.Args[len(cmd.Args)-1]
			data, err := os.ReadFile(elf)
			if err != nil {
				return nil, err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return nil, err
			}
			return &domain.ProcessOutput{Status: domain.ExitStatus{Exited: true}}, nil
		}).AnyTimes()

	// The emulator passes when the image embeds the kernel the image is named after.
	f.executor.EXPECT().RunWithTimeout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cmd domain.Command, _ time.Duration, _, _ io.Writer) (domain.ExitStatus, error) {
			image := strings.TrimPrefix(cmd.Args[1], "format=raw,file=")
			data, err := os.ReadFile(image)
			if err != nil {
				return domain.ExitStatus{}, err
			}
			kernel := string(bytes.TrimRight(data, "\x00"))
			want := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(image), "bootimage-"), ".bin")
			if filepath.Base(kernel) != want {
				return domain.ExitStatus{Exited: true, Code: 1}, nil
			}
			return domain.ExitStatus{Exited: true}, nil
		}).Times(len(names))

	report, err := f.app.Test(context.Background(), app.TestOptions{
		ManifestPath: kernelManifest,
		Jobs:         len(names),
		Quiet:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, len(names), report.Len())
	assert.Empty(t, report.Failures())
	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestApp_Test_BuildFailureIsRecorded(t *testing.T) {
	f := newFixture(t, "blog_os", "test-a", "test-b")
	// Registered before expectBuilds so it is matched first.
	f.driver.EXPECT().Build(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv domain.CargoInvocation, _ bool) error {
			if slices.Contains(inv.Args, "test-a") {
				return domain.ErrBuildFailed
			}
			return nil
		}).AnyTimes()
	f.expectBuilds()
	f.executor.EXPECT().RunWithTimeout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ExitStatus{Exited: true}, nil).Times(1)

	report, err := f.app.Test(context.Background(), app.TestOptions{ManifestPath: kernelManifest, Jobs: 2})
	require.ErrorIs(t, err, domain.ErrTestsFailed)

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "test-a", failures[0].Name)
	require.ErrorIs(t, failures[0].Err, domain.ErrBuildFailed)
	assert.Contains(t, f.out.String(), "OK: test-b\n")
}

func TestApp_Close(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.app.Close())
}
