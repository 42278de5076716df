package domain

import (
	"sort"
	"sync"
)

// TestOutcome is the recorded result of a single test.
type TestOutcome struct {
	Verdict Verdict
	// Err is set when the test could not be built, assembled or started.
	Err error
	// OutputPath is the file the emulator output was captured to.
	OutputPath string
}

// Passed reports whether the outcome counts as a pass.
func (o TestOutcome) Passed() bool {
	return o.Err == nil && o.Verdict.IsSuccess()
}

// NamedOutcome pairs a test name with its outcome.
type NamedOutcome struct {
	Name string
	TestOutcome
}

// TestReport collects outcomes keyed by test name. It is safe for concurrent use.
type TestReport struct {
	mu       sync.Mutex
	outcomes map[string]TestOutcome
}

// NewTestReport creates an empty report.
func NewTestReport() *TestReport {
	return &TestReport{outcomes: make(map[string]TestOutcome)}
}

// Record stores the outcome for name, replacing any previous entry.
func (r *TestReport) Record(name string, outcome TestOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[name] = outcome
}

// Get returns the outcome recorded for name.
func (r *TestReport) Get(name string) (TestOutcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.outcomes[name]
	return o, ok
}

// Len returns the number of recorded tests.
func (r *TestReport) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.outcomes)
}

// Success reports whether every recorded test passed.
func (r *TestReport) Success() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.outcomes {
		if !o.Passed() {
			return false
		}
	}
	return true
}

// Entries returns all outcomes sorted by test name.
func (r *TestReport) Entries() []NamedOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]NamedOutcome, 0, len(r.outcomes))
	for name, o := range r.outcomes {
		entries = append(entries, NamedOutcome{Name: name, TestOutcome: o})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Failures returns the outcomes that did not pass, sorted by test name.
func (r *TestReport) Failures() []NamedOutcome {
	var failed []NamedOutcome
	for _, e := range r.Entries() {
		if !e.Passed() {
			failed = append(failed, e)
		}
	}
	return failed
}
