package spies

import (
	"context"
	"sync"
	"time"
)

// Registry owns named spies and pending expectations for one test (or one process).
//
// Callers are responsible for calling Finish at test boundaries; omitting it leaks spies
// and expectations into the next test.
type Registry struct {
	mu               sync.Mutex
	spies            map[string]*Spy
	pending          []*Expectation
	reporter         Reporter
	spyClock         func() time.Time
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewRegistry creates an empty Registry.
// Without WithReporter, failures are reported by panicking (see PanicReporter).
func NewRegistry(options ...Option) (*Registry, error) {
	r := newRegistry()

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func newRegistry() *Registry {
	return &Registry{
		spies:    make(map[string]*Spy),
		reporter: PanicReporter{},
		spyClock: time.Now,
	}
}

// GetOrCreateNamedSpy returns the Spy registered under name, creating it on first use.
func (r *Registry) GetOrCreateNamedSpy(name string) *Spy {
	r.mu.Lock()
	defer r.mu.Unlock()

	if spy, ok := r.spies[name]; ok {
		return spy
	}

	spy := NewSpy(WithName(name), WithClock(r.spyClock))
	r.spies[name] = spy

	r.logDebug(logMsgSpyCreated, logAttrSpyName, spy.Name(), logAttrSpyID, spy.ID().String())

	return spy
}

// Stub is an alias of GetOrCreateNamedSpy for stub-style phrasing:
//
//	registry.Stub("add_one").WithArguments(5).AndReturn(6)
func (r *Registry) Stub(name string) *Spy {
	return r.GetOrCreateNamedSpy(name)
}

// LookupNamedSpy returns the Spy registered under name without creating it.
func (r *Registry) LookupNamedSpy(name string) (*Spy, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	spy, ok := r.spies[name]

	return spy, ok
}

// NamedSpyCount returns the number of named spies.
func (r *Registry) NamedSpyCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.spies)
}

// ClearAllSpies clears the call record of every named Spy and forgets all of them.
func (r *Registry) ClearAllSpies() {
	r.mu.Lock()
	named := r.spies
	r.spies = make(map[string]*Spy)
	r.mu.Unlock()

	clearCallRecords(named)
}

// AddPendingExpectation registers an Expectation to be verified by Finish. nil is ignored.
func (r *Registry) AddPendingExpectation(expectation *Expectation) {
	if expectation == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = append(r.pending, expectation)

	r.logDebug(logMsgExpectationAdded, logAttrSpyName, expectation.Spy().Name(), logAttrPending, len(r.pending))
}

// Expect creates an Expectation for target, which must be a *Spy, and registers it as pending.
// The Expectation reports to the Registry's Reporter.
func (r *Registry) Expect(target any) (*Expectation, error) {
	expectation, err := NewExpectation(target, WithExpectationReporter(r.reporter))
	if err != nil {
		return nil, err
	}

	r.AddPendingExpectation(expectation)

	return expectation, nil
}

// PendingExpectations returns the number of expectations awaiting Finish.
func (r *Registry) PendingExpectations() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.pending)
}

// Finish is FinishContext with a background context.
func (r *Registry) Finish() bool {
	return r.FinishContext(context.Background())
}

// FinishContext verifies every pending Expectation in registration order and stops at the first failure,
// which is passed to the Reporter. Afterward, it unconditionally clears the pending expectations and the
// named spies, even if the Reporter panics.
//
// It is idempotent and safe to call with nothing pending. It returns whether all verified expectations held.
func (r *Registry) FinishContext(ctx context.Context) (passed bool) {
	ctx, span := r.startFinishSpan(ctx)
	start := time.Now()

	r.mu.Lock()
	pending := r.pending
	named := r.spies
	r.pending = nil
	r.spies = make(map[string]*Spy)
	r.mu.Unlock()

	passed = true
	verified := 0
	failedSpy := ""

	defer func() {
		recovered := recover()
		if recovered != nil {
			passed = false
			r.logErrorContext(ctx, logMsgFinishAborted, logAttrSpyName, failedSpy)
		}

		clearCallRecords(named)

		status := statusPassed
		if !passed {
			status = statusFailed
		}

		duration := time.Since(start)
		r.recordDurationMetricsContext(ctx, metricFinishDuration, duration, status)
		r.recordValueMetricsContext(ctx, metricNamedSpies, float64(len(named)), status)
		r.logInfoContext(
			ctx, logMsgFinished,
			logAttrStatus, status,
			logAttrPending, len(pending),
			logAttrVerified, verified,
			logAttrNamedSpies, len(named),
			logAttrDurationMS, toMilliseconds(duration),
		)
		r.finishFinishSpan(span, status, len(pending), verified, failedSpy)

		if recovered != nil {
			panic(recovered)
		}
	}()

	for _, expectation := range pending {
		failure := expectation.FailureDescription()
		verified++

		if failure != "" {
			passed = false
			failedSpy = expectation.Spy().Name()
			r.incrementVerifiedCounterContext(ctx, statusFailed)
			r.logWarnContext(ctx, logMsgExpectationFailed, logAttrSpyName, failedSpy, logAttrFailure, failure)
			r.reporter.Assert(false, failure)

			return passed
		}

		r.incrementVerifiedCounterContext(ctx, statusPassed)
		r.reporter.Assert(true, "")
	}

	return passed
}

func clearCallRecords(named map[string]*Spy) {
	for _, spy := range named {
		spy.ClearCallRecord()
	}
}
