package progrock_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vito/progrock"
	bootprogrock "go.trai.ch/bootimage/internal/adapters/telemetry/progrock"
	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
)

type captureWriter struct {
	mu      sync.Mutex
	updates []*progrock.StatusUpdate
	closed  bool
}

func (w *captureWriter) WriteStatus(u *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.updates = append(w.updates, u)
	return nil
}

func (w *captureWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *captureWriter) vertexNames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var names []string
	for _, u := range w.updates {
		for _, v := range u.Vertexes {
			names = append(names, v.Name)
		}
	}
	return names
}

func (w *captureWriter) logs() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var sb strings.Builder
	for _, u := range w.updates {
		for _, l := range u.Logs {
			sb.Write(l.Data)
		}
	}
	return sb.String()
}

func (w *captureWriter) failed(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, u := range w.updates {
		for _, v := range u.Vertexes {
			if v.Name == name && v.Error != nil {
				return true
			}
		}
	}
	return false
}

func TestNew(t *testing.T) {
	recorder := bootprogrock.New()
	assert.NotNil(t, recorder)
	assert.NoError(t, recorder.Close())
}

func TestRecorder_Record(t *testing.T) {
	w := &captureWriter{}
	recorder := bootprogrock.NewRecorder(w)

	name := domain.StageBootloaderBuild.VertexName("blog_os")
	ctx, vertex := recorder.Record(context.Background(), name)

	fromCtx, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, fromCtx)

	_, err := vertex.Stdout().Write([]byte("Compiling bootloader\n"))
	require.NoError(t, err)
	vertex.Log(domain.LogLevelWarn, "careful")
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())

	assert.Contains(t, w.vertexNames(), "build bootloader blog_os")
	assert.Contains(t, w.logs(), "Compiling bootloader")
	assert.Contains(t, w.logs(), "[WARN] careful")
	assert.True(t, w.closed)
}

func TestRecorder_CompleteWithError(t *testing.T) {
	w := &captureWriter{}
	recorder := bootprogrock.NewRecorder(w)

	_, vertex := recorder.Record(context.Background(), "run test-panic")
	vertex.Complete(errors.New("Failure(3)"))

	assert.True(t, w.failed("run test-panic"))
}
