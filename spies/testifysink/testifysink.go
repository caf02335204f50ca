// Package testifysink reports expectation outcomes through testify assertions.
package testifysink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-spies-go/spies"
)

// AssertReporter reports through assert.True: a failure marks the test as failed and the test continues.
type AssertReporter struct {
	t assert.TestingT
}

// New creates an AssertReporter for t.
func New(t assert.TestingT) *AssertReporter {
	return &AssertReporter{t: t}
}

// Assert implements spies.Reporter.
func (r *AssertReporter) Assert(passed bool, failureDescription string) {
	if h, ok := r.t.(interface{ Helper() }); ok {
		h.Helper()
	}

	assert.True(r.t, passed, failureDescription)
}

// RequireReporter reports through require.True: a failure stops the test.
type RequireReporter struct {
	t require.TestingT
}

// NewRequire creates a RequireReporter for t.
func NewRequire(t require.TestingT) *RequireReporter {
	return &RequireReporter{t: t}
}

// Assert implements spies.Reporter.
func (r *RequireReporter) Assert(passed bool, failureDescription string) {
	if h, ok := r.t.(interface{ Helper() }); ok {
		h.Helper()
	}

	require.True(r.t, passed, failureDescription)
}

// NewRegistry creates a spies.Registry reporting to t, whose Finish runs on t.Cleanup.
// Additional options are applied after the reporter, so a WithReporter option overrides it.
func NewRegistry(t testing.TB, options ...spies.Option) *spies.Registry {
	t.Helper()

	registry, err := spies.NewRegistry(append([]spies.Option{spies.WithReporter(New(t))}, options...)...)
	require.NoError(t, err)

	t.Cleanup(func() {
		registry.Finish()
	})

	return registry
}

var _ spies.Reporter = (*AssertReporter)(nil)
var _ spies.Reporter = (*RequireReporter)(nil)
