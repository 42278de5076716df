package shell

import (
	"bytes"
	"strings"
	"sync"

	"go.trai.ch/bootimage/internal/core/ports"
)

// LineWriter forwards complete lines written to it to Logger.Info.
// A trailing partial line is held until the next newline or Flush.
type LineWriter struct {
	logger ports.Logger
	mu     sync.Mutex
	buf    bytes.Buffer
}

// NewLineWriter creates a LineWriter.
func NewLineWriter(logger ports.Logger) *LineWriter {
	return &LineWriter{logger: logger}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Put the partial line back.
			w.buf.WriteString(line)
			break
		}
		w.emit(line[:len(line)-1])
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *LineWriter) emit(line string) {
	w.logger.Info(strings.TrimSuffix(line, "\r"))
}
