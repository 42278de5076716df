package domain_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/bootimage/internal/core/domain"
)

func TestTestReport_ConcurrentRecord(t *testing.T) {
	report := domain.NewTestReport()

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Record(fmt.Sprintf("test-%02d", i), domain.TestOutcome{Verdict: domain.Success()})
		}()
	}
	wg.Wait()

	assert.Equal(t, 64, report.Len())
	assert.True(t, report.Success())

	entries := report.Entries()
	assert.Equal(t, "test-00", entries[0].Name)
	assert.Equal(t, "test-63", entries[63].Name)
}

func TestTestReport_Failures(t *testing.T) {
	report := domain.NewTestReport()
	report.Record("test-c", domain.TestOutcome{Verdict: domain.Timeout()})
	report.Record("test-a", domain.TestOutcome{Verdict: domain.Success()})
	report.Record("test-b", domain.TestOutcome{Err: errors.New("build failed")})

	assert.False(t, report.Success())

	failures := report.Failures()
	assert.Len(t, failures, 2)
	assert.Equal(t, "test-b", failures[0].Name)
	assert.Equal(t, "test-c", failures[1].Name)

	o, ok := report.Get("test-a")
	assert.True(t, ok)
	assert.True(t, o.Passed())
}

func TestTestReport_Empty(t *testing.T) {
	report := domain.NewTestReport()
	assert.True(t, report.Success())
	assert.Empty(t, report.Entries())
}
