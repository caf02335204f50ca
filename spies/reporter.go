package spies

// Reporter is the assertion backend of the host test framework.
// It receives every verification outcome and decides what a failure means, e.g. failing the test.
type Reporter interface {
	Assert(passed bool, failureDescription string)
}

// ReporterFunc adapts a plain function to the Reporter interface.
type ReporterFunc func(passed bool, failureDescription string)

// Assert calls f(passed, failureDescription).
func (f ReporterFunc) Assert(passed bool, failureDescription string) {
	f(passed, failureDescription)
}

// PanicReporter panics with an *AssertionFailedError on every failed assertion.
// It is the default Reporter of registries and expectations.
type PanicReporter struct{}

// Assert implements Reporter.
func (PanicReporter) Assert(passed bool, failureDescription string) {
	if !passed {
		panic(&AssertionFailedError{Description: failureDescription})
	}
}

// AssertionFailedError carries the failure description of a failed expectation.
// It matches ErrAssertionFailed with errors.Is.
type AssertionFailedError struct {
	Description string
}

func (e *AssertionFailedError) Error() string {
	return e.Description
}

func (e *AssertionFailedError) Unwrap() error {
	return ErrAssertionFailed
}
