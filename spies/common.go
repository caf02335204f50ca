package spies

import (
	"errors"
)

var ErrInvalidArgument = errors.New("invalid argument")
var ErrUndefinedBehavior = errors.New("undefined behavior")
var ErrConfigurationConflict = errors.New("configuration conflict")
var ErrAssertionFailed = errors.New("assertion failed")
var ErrNilReporter = errors.New("nil reporter supplied")

// AnonymousName is the name of spies which were created without a name.
const AnonymousName = "anonymous function"

// FailurePrefix starts every failure description produced by an Expectation.
const FailurePrefix = "Failed asserting that "
