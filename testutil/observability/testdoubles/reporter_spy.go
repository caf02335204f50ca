package testdoubles

import (
	"sync"

	"github.com/AntonStoeckl/dynamic-spies-go/spies"
)

// SpyAssertion represents one recorded Reporter.Assert call.
type SpyAssertion struct {
	Passed             bool
	FailureDescription string
}

// ReporterSpy implements spies.Reporter and records every assertion instead of failing anything.
type ReporterSpy struct {
	assertions []SpyAssertion
	mu         sync.Mutex
}

// NewReporterSpy creates a new ReporterSpy.
func NewReporterSpy() *ReporterSpy {
	return &ReporterSpy{}
}

// Assert implements spies.Reporter.
func (s *ReporterSpy) Assert(passed bool, failureDescription string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assertions = append(s.assertions, SpyAssertion{Passed: passed, FailureDescription: failureDescription})
}

// GetAssertions returns a copy of all recorded assertions.
func (s *ReporterSpy) GetAssertions() []SpyAssertion {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyAssertion(nil), s.assertions...)
}

// GetFailures returns the failure descriptions of all failed assertions.
func (s *ReporterSpy) GetFailures() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var failures []string
	for _, assertion := range s.assertions {
		if !assertion.Passed {
			failures = append(failures, assertion.FailureDescription)
		}
	}

	return failures
}

// Reset clears all recorded assertions.
func (s *ReporterSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assertions = s.assertions[:0]
}

var _ spies.Reporter = (*ReporterSpy)(nil)
