package spies

import (
	"fmt"
	"slices"
)

// ExpectationOption defines a functional option for configuring an Expectation.
type ExpectationOption func(*Expectation)

// WithExpectationReporter sets the Reporter that Verify routes outcomes to. A nil Reporter is ignored.
func WithExpectationReporter(reporter Reporter) ExpectationOption {
	return func(e *Expectation) {
		if reporter != nil {
			e.reporter = reporter
		}
	}
}

// check is one deferred predicate of an Expectation.
// holds is evaluated at verification time, describe renders the failure for the given negation state.
type check struct {
	holds    func() bool
	describe func(negated bool) string
}

// Expectation is a deferred, chainable assertion bound to exactly one Spy.
//
// Builder methods only collect predicates; nothing is compared before verification.
// Verification evaluates the predicates in order and stops at the first failure.
//
//	expectation.ToHaveBeenCalled().With("hello", "world", spies.Any()).Twice()
type Expectation struct {
	spy          *Spy
	reporter     Reporter
	checks       []check
	arguments    []any
	hasArguments bool
	negated      bool
	silent       bool
	verified     bool
}

// NewExpectation creates an Expectation for target, which must be a non-nil *Spy.
// Anything else, e.g. the name of a spy, yields an error wrapping ErrInvalidArgument.
func NewExpectation(target any, options ...ExpectationOption) (*Expectation, error) {
	spy, ok := target.(*Spy)
	if !ok || spy == nil {
		return nil, fmt.Errorf("%w: an expectation needs a *spies.Spy, got %T", ErrInvalidArgument, target)
	}

	e := &Expectation{
		spy:      spy,
		reporter: PanicReporter{},
	}

	for _, option := range options {
		option(e)
	}

	return e, nil
}

// Spy returns the Spy the Expectation is bound to.
func (e *Expectation) Spy() *Spy {
	return e.spy
}

// ToBeCalled expects the Spy to have been called at all.
func (e *Expectation) ToBeCalled() *Expectation {
	e.checks = append(e.checks, check{
		holds: e.spy.WasCalled,
		describe: func(negated bool) string {
			if negated {
				return fmt.Sprintf(
					"%s was not called. It was called %s: %s",
					e.spy.Name(), pluralizeTimes(e.spy.CallCount()), describeCalls(e.spy.Calls()),
				)
			}

			return fmt.Sprintf("%s was called", e.spy.Name())
		},
	})

	return e
}

// ToHaveBeenCalled is an alias of ToBeCalled.
func (e *Expectation) ToHaveBeenCalled() *Expectation {
	return e.ToBeCalled()
}

// Times expects exactly n calls. If With was used, only calls matching the most recent With arguments are counted.
func (e *Expectation) Times(n int) *Expectation {
	e.checks = append(e.checks, check{
		holds: func() bool {
			return e.matchingCallCount() == n
		},
		describe: func(negated bool) string {
			not := ""
			if negated {
				not = "not "
			}

			return fmt.Sprintf(
				"%s was %scalled %s%s. It was called %s. Recorded calls: %s",
				e.spy.Name(), not, pluralizeTimes(n), e.describeArgumentFilter(),
				pluralizeTimes(e.matchingCallCount()), describeCalls(e.spy.Calls()),
			)
		},
	})

	return e
}

// Once is Times(1).
func (e *Expectation) Once() *Expectation {
	return e.Times(1)
}

// Twice is Times(2).
func (e *Expectation) Twice() *Expectation {
	return e.Times(2)
}

// With expects at least one call whose arguments match args positionally.
// The arguments also become the filter for subsequent Times checks.
//
// Passing a single func(*Spy) bool is the same as calling When.
func (e *Expectation) With(args ...any) *Expectation {
	if len(args) == 1 {
		if fn, ok := args[0].(func(*Spy) bool); ok {
			return e.When(fn)
		}
	}

	arguments := slices.Clone(args)
	e.arguments = arguments
	e.hasArguments = true

	e.checks = append(e.checks, check{
		holds: func() bool {
			return e.spy.WasCalledWith(arguments...)
		},
		describe: func(negated bool) string {
			not := ""
			if negated {
				not = "not "
			}

			return fmt.Sprintf(
				"%s was %scalled with %s. Recorded calls: %s",
				e.spy.Name(), not, describeArguments(arguments), describeCalls(e.spy.Calls()),
			)
		},
	})

	return e
}

// When expects fn to return true for the Spy. A nil fn never holds.
func (e *Expectation) When(fn func(spy *Spy) bool) *Expectation {
	e.checks = append(e.checks, check{
		holds: func() bool {
			return fn != nil && fn(e.spy)
		},
		describe: func(negated bool) string {
			verb := "satisfies"
			if negated {
				verb = "does not satisfy"
			}

			return fmt.Sprintf(
				"%s %s the given condition. Recorded calls: %s",
				e.spy.Name(), verb, describeCalls(e.spy.Calls()),
			)
		},
	})

	return e
}

// Before expects the first call of the Spy to have happened strictly before the first call of other.
func (e *Expectation) Before(other *Spy) *Expectation {
	e.checks = append(e.checks, check{
		holds: func() bool {
			return e.spy.WasCalledBefore(other)
		},
		describe: func(negated bool) string {
			not := ""
			if negated {
				not = "not "
			}

			otherName := "<nil spy>"
			if other != nil {
				otherName = other.Name()
			}

			return fmt.Sprintf(
				"%s was %scalled before %s. First call of %s: %s, first call of %s: %s",
				e.spy.Name(), not, otherName,
				e.spy.Name(), describeFirstCall(e.spy),
				otherName, describeFirstCall(other),
			)
		},
	})

	return e
}

// Not negates the Expectation. Negation is sticky and applies to every predicate of the chain,
// including those added before.
func (e *Expectation) Not() *Expectation {
	e.negated = true

	return e
}

// Silent switches the Expectation to silent mode: Verify only returns the outcome and never calls the Reporter.
func (e *Expectation) Silent() *Expectation {
	e.silent = true

	return e
}

// Verify evaluates the predicates and returns whether all of them hold.
// Outside of silent mode, the outcome and failure description are also passed to the Reporter.
func (e *Expectation) Verify() bool {
	failure := e.evaluate()
	passed := failure == ""

	if e.silent {
		return passed
	}

	e.reporter.Assert(passed, failure)

	return passed
}

// FailureDescription evaluates the predicates and returns the description of the first failing one,
// or an empty string if all hold.
func (e *Expectation) FailureDescription() string {
	return e.evaluate()
}

// MetExpectations reports whether all predicates hold.
func (e *Expectation) MetExpectations() bool {
	return e.evaluate() == ""
}

// Verified reports whether the Expectation was evaluated at least once.
func (e *Expectation) Verified() bool {
	return e.verified
}

// Negated reports whether Not was called.
func (e *Expectation) Negated() bool {
	return e.negated
}

// Property returns a named property of the Expectation: "spy", "negated", "silent" or "verified".
// Unknown names yield an error wrapping ErrInvalidArgument.
func (e *Expectation) Property(name string) (any, error) {
	switch name {
	case "spy":
		return e.spy, nil
	case "negated":
		return e.negated, nil
	case "silent":
		return e.silent, nil
	case "verified":
		return e.verified, nil
	default:
		return nil, fmt.Errorf("%w: expectation has no property %q", ErrInvalidArgument, name)
	}
}

func (e *Expectation) evaluate() string {
	e.verified = true

	for _, c := range e.checks {
		holds := c.holds()
		if e.negated {
			holds = !holds
		}

		if !holds {
			return FailurePrefix + c.describe(e.negated)
		}
	}

	return ""
}

func (e *Expectation) matchingCallCount() int {
	if e.hasArguments {
		return e.spy.CallCountWith(e.arguments...)
	}

	return e.spy.CallCount()
}

func (e *Expectation) describeArgumentFilter() string {
	if !e.hasArguments {
		return ""
	}

	return " with " + describeArguments(e.arguments)
}

func describeFirstCall(spy *Spy) string {
	if spy == nil {
		return "never"
	}

	first, ok := spy.FirstCall()
	if !ok {
		return "never"
	}

	return fmt.Sprintf("%s at %s", first, first.At().Format("15:04:05.000000000"))
}
