package spies

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SpyOption defines a functional option for configuring a Spy.
type SpyOption func(*Spy)

// WithName sets the name of the Spy, used in failure descriptions, logs and registry lookups.
// An empty name keeps the default AnonymousName.
func WithName(name string) SpyOption {
	return func(s *Spy) {
		if name != "" {
			s.name = name
		}
	}
}

// WithClock sets the function the Spy uses to timestamp calls. Defaults to time.Now.
func WithClock(now func() time.Time) SpyOption {
	return func(s *Spy) {
		if now != nil {
			s.now = now
		}
	}
}

type conditionalReturn struct {
	arguments []any
	value     any
}

// Spy is a recording stand-in for a function which can optionally be programmed to return values.
//
// Constructing or calling a Spy never fails: an unconfigured Spy returns nil.
// Failure semantics live in Expectation.
type Spy struct {
	mu                 sync.Mutex
	id                 uuid.UUID
	name               string
	now                func() time.Time
	calls              []Call
	defaultReturn      any
	hasDefaultReturn   bool
	conditionalReturns []conditionalReturn
	stagedArguments    []any
	hasStagedArguments bool
}

// NewSpy creates a Spy with an empty call record and no programmed returns.
func NewSpy(options ...SpyOption) *Spy {
	s := &Spy{
		id:   uuid.New(),
		name: AnonymousName,
		now:  time.Now,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// ID returns the unique identity of the Spy, which tells apart spies sharing a name.
func (s *Spy) ID() uuid.UUID {
	return s.id
}

// Name returns the name of the Spy.
func (s *Spy) Name() string {
	return s.name
}

func (s *Spy) String() string {
	return s.name
}

// Call records a call with the given arguments and returns the resolved return value.
func (s *Spy) Call(args ...any) any {
	return s.CallWithArgs(args)
}

// CallWithArgs is like Call but takes the arguments as a slice.
//
// The return value is resolved in this order:
//   - the value of the first conditional return whose arguments match (in insertion order)
//   - the default return
//   - nil
//
// The selected value is then filtered, see PassedArgument and Literally.
//
// Matchers and delegates run without the Spy's lock held, so they may call back into the Spy.
func (s *Spy) CallWithArgs(args []any) any {
	s.mu.Lock()
	call := newCall(args, s.now())
	s.calls = append(s.calls, call)
	programmed := s.programmedReturns()
	s.mu.Unlock()

	selected, found := programmed.selectFor(call.args)
	if !found {
		return nil
	}

	return resolveReturnValue(selected, call.Args())
}

type programmedReturns struct {
	conditional      []conditionalReturn
	defaultValue     any
	hasDefaultReturn bool
}

// programmedReturns snapshots the programmed returns; the caller must hold s.mu.
func (s *Spy) programmedReturns() programmedReturns {
	return programmedReturns{
		conditional:      slices.Clone(s.conditionalReturns),
		defaultValue:     s.defaultReturn,
		hasDefaultReturn: s.hasDefaultReturn,
	}
}

func (p programmedReturns) selectFor(args []any) (any, bool) {
	for _, rule := range p.conditional {
		if argumentsMatch(rule.arguments, args) {
			return rule.value, true
		}
	}

	if p.hasDefaultReturn {
		return p.defaultValue, true
	}

	return nil, false
}

// WithArguments stages a set of argument matchers which the next AndReturn consumes into a conditional return.
func (s *Spy) WithArguments(args ...any) *Spy {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stagedArguments = slices.Clone(args)
	s.hasStagedArguments = true

	return s
}

// AndReturn programs a return value.
//
// With staged arguments (see WithArguments) it appends a conditional return and clears the staging,
// earlier conditional returns are kept. Without staged arguments it (re)sets the default return.
func (s *Spy) AndReturn(value any) *Spy {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasStagedArguments {
		s.conditionalReturns = append(s.conditionalReturns, conditionalReturn{
			arguments: s.stagedArguments,
			value:     value,
		})
		s.stagedArguments = nil
		s.hasStagedArguments = false

		return s
	}

	s.defaultReturn = value
	s.hasDefaultReturn = true

	return s
}

// WasCalled reports whether the Spy recorded at least one call.
func (s *Spy) WasCalled() bool {
	return s.CallCount() > 0
}

// WasCalledTimes reports whether the Spy recorded exactly n calls.
func (s *Spy) WasCalledTimes(n int) bool {
	return s.CallCount() == n
}

// WasCalledWith reports whether at least one recorded call matches args positionally, with the same arity.
func (s *Spy) WasCalledWith(args ...any) bool {
	return s.CallCountWith(args...) > 0
}

// WasCalledBefore reports whether the first call of this Spy happened strictly before the first call of other.
// It is false if either Spy was never called.
func (s *Spy) WasCalledBefore(other *Spy) bool {
	if other == nil {
		return false
	}

	first, ok := s.FirstCall()
	if !ok {
		return false
	}

	otherFirst, ok := other.FirstCall()
	if !ok {
		return false
	}

	return first.Before(otherFirst)
}

// CallCount returns the number of recorded calls.
func (s *Spy) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.calls)
}

// CallCountWith returns the number of recorded calls whose arguments match args positionally.
func (s *Spy) CallCountWith(args ...any) int {
	count := 0
	for _, call := range s.Calls() {
		if argumentsMatch(args, call.args) {
			count++
		}
	}

	return count
}

// FirstCall returns the first recorded call, if any.
func (s *Spy) FirstCall() (Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.calls) == 0 {
		return Call{}, false
	}

	return s.calls[0], true
}

// Calls returns a copy of the call record.
func (s *Spy) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.calls)
}

// ClearCallRecord empties the call record. Programmed returns are kept.
func (s *Spy) ClearCallRecord() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = nil
}
