package harness

import (
	"context"
	"fmt"
	"io"

	"go.trai.ch/bootimage/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// TestCase is one assembled test image of a suite.
type TestCase struct {
	Name  string
	Image string
}

// Pipeline runs a single test case.
type Pipeline func(ctx context.Context, tc TestCase) domain.TestOutcome

// RunSuite runs pipeline for every case with at most parallelism cases in flight and collects
// the outcomes. A failing case never cancels its siblings. Parallelism below one means unbounded.
func RunSuite(ctx context.Context, cases []TestCase, parallelism int, pipeline Pipeline) *domain.TestReport {
	report := domain.NewTestReport()

	var g errgroup.Group
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for _, tc := range cases {
		g.Go(func() error {
			report.Record(tc.Name, pipeline(ctx, tc))
			return nil
		})
	}
	_ = g.Wait()

	return report
}

// WriteSummary prints a line per passed test followed by the list of failures.
func WriteSummary(w io.Writer, report *domain.TestReport) error {
	for _, e := range report.Entries() {
		if e.Passed() {
			if _, err := fmt.Fprintf(w, "OK: %s\n", e.Name); err != nil {
				return err
			}
		}
	}

	failures := report.Failures()
	if len(failures) == 0 {
		_, err := fmt.Fprintln(w, "\nAll tests succeeded.")
		return err
	}

	if _, err := fmt.Fprintln(w, "\nThe following tests failed:"); err != nil {
		return err
	}
	for _, f := range failures {
		if _, err := fmt.Fprintf(w, "    %s: %s\n", f.Name, describe(f.TestOutcome)); err != nil {
			return err
		}
	}
	return nil
}

func describe(o domain.TestOutcome) string {
	if o.Err != nil {
		return o.Err.Error()
	}
	if b, ok := domain.DebugExitValue(o.Verdict.Code); ok && o.Verdict.Kind == domain.VerdictFailure {
		return fmt.Sprintf("%s (debug exit %#x)", o.Verdict, b)
	}
	return o.Verdict.String()
}
