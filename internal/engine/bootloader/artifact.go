package bootloader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"go.trai.ch/bootimage/internal/core/domain"
	"go.trai.ch/zerr"
)

const maxRecordSize = 16 << 20

// Executables scans a cargo JSON message stream and returns every distinct executable path
// in the order first seen.
func Executables(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxRecordSize)

	var (
		executables []string
		seen        = make(map[string]struct{})
		line        int
	)
	for scanner.Scan() {
		line++
		record := bytes.TrimSpace(scanner.Bytes())
		if len(record) == 0 {
			continue
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(record, &fields); err != nil || fields == nil {
			return nil, zerr.With(
				zerr.Wrap(domain.ErrConfigurationInvalid, "build output is not a JSON record stream"),
				"line", line,
			)
		}

		raw, ok := fields["executable"]
		if !ok {
			continue
		}
		var executable *string
		if err := json.Unmarshal(raw, &executable); err != nil {
			return nil, zerr.With(
				zerr.Wrap(domain.ErrConfigurationInvalid, "`executable` field is not a string"),
				"line", line,
			)
		}
		if executable == nil || *executable == "" {
			continue
		}
		if _, dup := seen[*executable]; dup {
			continue
		}
		seen[*executable] = struct{}{}
		executables = append(executables, *executable)
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read build output")
	}

	return executables, nil
}

// ResolveExecutable returns the single executable named in a cargo JSON message stream.
func ResolveExecutable(r io.Reader) (string, error) {
	executables, err := Executables(r)
	if err != nil {
		return "", err
	}

	switch len(executables) {
	case 0:
		return "", zerr.Wrap(domain.ErrConfigurationInvalid, "bootloader has no executable")
	case 1:
		return executables[0], nil
	default:
		return "", zerr.With(
			zerr.Wrap(domain.ErrConfigurationInvalid, "bootloader has multiple executables"),
			"executables", executables,
		)
	}
}
