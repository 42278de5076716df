package cargo_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bootimage/internal/adapters/cargo"
	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

var bootloaderInvocation = domain.CargoInvocation{
	Args: []string{"xbuild", "--bin", "bootloader"},
	Env:  map[string]string{"KERNEL": "/work/target/kernel", "RUSTFLAGS": ""},
}

func TestDriver_Build_Streams(t *testing.T) {
	t.Setenv("CARGO", "")
	ctrl := gomock.NewController(t)
	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockExecutor.EXPECT().Run(domain.Command{
		Program: "cargo",
		Args:    bootloaderInvocation.Args,
		Env:     bootloaderInvocation.Env,
	}, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ domain.Command, _, stderr io.Writer) (domain.ExitStatus, error) {
			_, _ = io.WriteString(stderr, "   Compiling bootloader v0.9.8\n    Finished release")
			return domain.ExitStatus{Exited: true}, nil
		}).Times(1)

	gomock.InOrder(
		mockLogger.EXPECT().Info("   Compiling bootloader v0.9.8").Times(1),
		mockLogger.EXPECT().Info("    Finished release").Times(1),
	)

	driver := cargo.NewDriver(mockExecutor, mockLogger)
	require.NoError(t, driver.Build(context.Background(), bootloaderInvocation, false))
}

func TestDriver_Build_QuietFailure(t *testing.T) {
	t.Setenv("CARGO", "")
	ctrl := gomock.NewController(t)
	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockExecutor.EXPECT().Output(gomock.Any(), gomock.Any()).Return(&domain.ProcessOutput{
		Status: domain.ExitStatus{Code: 101, Exited: true},
		Stderr: []byte("error[E0463]: can't find crate for `core`\n"),
	}, nil).Times(1)

	driver := cargo.NewDriver(mockExecutor, mockLogger)
	err := driver.Build(context.Background(), bootloaderInvocation, true)

	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.ErrorContains(t, err, "can't find crate for `core`")
}

func TestDriver_Build_NonZeroExit(t *testing.T) {
	t.Setenv("CARGO", "")
	ctrl := gomock.NewController(t)
	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	mockExecutor.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(domain.ExitStatus{Code: 101, Exited: true}, nil).Times(1)

	driver := cargo.NewDriver(mockExecutor, mockLogger)
	err := driver.Build(context.Background(), bootloaderInvocation, false)
	require.ErrorIs(t, err, domain.ErrBuildFailed)
}

func TestDriver_BuildJSON(t *testing.T) {
	t.Setenv("CARGO", "")
	ctrl := gomock.NewController(t)
	mockExecutor := mocks.NewMockExecutor(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	stream := []byte(`{"reason":"compiler-artifact","executable":"/work/target/release/bootloader"}` + "\n")

	mockExecutor.EXPECT().Output(gomock.Any(), domain.Command{
		Program: "cargo",
		Args:    []string{"xbuild", "--bin", "bootloader", "--message-format", "json"},
		Env:     bootloaderInvocation.Env,
	}).Return(&domain.ProcessOutput{Status: domain.ExitStatus{Exited: true}, Stdout: stream}, nil).Times(1)

	driver := cargo.NewDriver(mockExecutor, mockLogger)
	out, err := driver.BuildJSON(context.Background(), bootloaderInvocation.JSON())
	require.NoError(t, err)
	assert.Equal(t, stream, out)

	// The caller's invocation is not mutated.
	assert.Equal(t, []string{"xbuild", "--bin", "bootloader"}, bootloaderInvocation.Args)
}
