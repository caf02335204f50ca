package spies

import (
	"slices"
	"sync/atomic"
	"time"
)

// callSequence orders calls across all spies of the process when two timestamps are equal.
var callSequence atomic.Uint64

// Call is one entry of a Spy's call record. It is immutable once created.
type Call struct {
	args     []any
	at       time.Time
	sequence uint64
}

func newCall(args []any, at time.Time) Call {
	return Call{
		args:     slices.Clone(args),
		at:       at,
		sequence: callSequence.Add(1),
	}
}

// Args returns a copy of the arguments the call was made with.
func (c Call) Args() []any {
	return slices.Clone(c.args)
}

// At returns the instant the call was recorded.
func (c Call) At() time.Time {
	return c.at
}

// Sequence returns the process-wide sequence number of the call.
func (c Call) Sequence() uint64 {
	return c.sequence
}

// Before reports whether the call happened strictly before the other one.
// Equal timestamps are ordered by sequence number.
func (c Call) Before(other Call) bool {
	if c.at.Before(other.at) {
		return true
	}

	if other.at.Before(c.at) {
		return false
	}

	return c.sequence < other.sequence
}

// MatchesArguments reports whether the call's arguments match expected positionally.
// An arity mismatch is never a match.
func (c Call) MatchesArguments(expected ...any) bool {
	return argumentsMatch(expected, c.args)
}

func (c Call) String() string {
	return describeArguments(c.args)
}

func argumentsMatch(expected, actual []any) bool {
	if len(expected) != len(actual) {
		return false
	}

	for i := range expected {
		if !Match(expected[i], actual[i]) {
			return false
		}
	}

	return true
}
