// Package report exports test reports.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/bootimage/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ReportWriter = (*YAMLWriter)(nil)

// YAMLWriter implements ports.ReportWriter writing YAML documents.
type YAMLWriter struct{}

// NewYAMLWriter creates a new YAMLWriter.
func NewYAMLWriter() *YAMLWriter {
	return &YAMLWriter{}
}

type reportDTO struct {
	Success bool      `yaml:"success"`
	Tests   []testDTO `yaml:"tests"`
}

type testDTO struct {
	Name           string `yaml:"name"`
	Verdict        string `yaml:"verdict"`
	ExitCode       *int   `yaml:"exit_code,omitempty"`
	DebugExitValue string `yaml:"debug_exit_value,omitempty"`
	Error          string `yaml:"error,omitempty"`
	Output         string `yaml:"output,omitempty"`
}

// Write encodes the report and writes it to path.
func (w *YAMLWriter) Write(path string, report *domain.TestReport) error {
	data, err := Marshal(report)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create report directory"), "path", path)
	}
	//nolint:gosec // report path is chosen by the user
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write report"), "path", path)
	}
	return nil
}

// Marshal renders the report as YAML with tests sorted by name.
func Marshal(report *domain.TestReport) ([]byte, error) {
	dto := reportDTO{Success: report.Success(), Tests: []testDTO{}}

	for _, e := range report.Entries() {
		t := testDTO{
			Name:    e.Name,
			Verdict: e.Verdict.String(),
			Output:  e.OutputPath,
		}
		if e.Err != nil {
			t.Verdict = "Error"
			t.Error = e.Err.Error()
		} else if e.Verdict.Kind == domain.VerdictFailure {
			code := e.Verdict.Code
			t.ExitCode = &code
			if b, ok := domain.DebugExitValue(code); ok {
				t.DebugExitValue = fmt.Sprintf("%#x", b)
			}
		}
		dto.Tests = append(dto.Tests, t)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(dto); err != nil {
		return nil, zerr.Wrap(err, "failed to encode report")
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to encode report")
	}
	return buf.Bytes(), nil
}
