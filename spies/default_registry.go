package spies

import (
	"sync"
)

var (
	defaultRegistryMu sync.Mutex
	defaultRegistry   = newRegistry()
)

// Default returns the process-scoped Registry used by the package-level functions.
func Default() *Registry {
	defaultRegistryMu.Lock()
	defer defaultRegistryMu.Unlock()

	return defaultRegistry
}

// SetDefault installs r as the process-scoped Registry and returns the previous one.
// A nil r installs a fresh Registry.
func SetDefault(r *Registry) *Registry {
	if r == nil {
		r = newRegistry()
	}

	defaultRegistryMu.Lock()
	defer defaultRegistryMu.Unlock()

	previous := defaultRegistry
	defaultRegistry = r

	return previous
}

// GetOrCreateNamedSpy calls GetOrCreateNamedSpy on the Default Registry.
func GetOrCreateNamedSpy(name string) *Spy {
	return Default().GetOrCreateNamedSpy(name)
}

// Stub calls Stub on the Default Registry.
func Stub(name string) *Spy {
	return Default().Stub(name)
}

// Expect creates a pending Expectation for spy on the Default Registry.
// It panics with an error wrapping ErrInvalidArgument if spy is nil.
func Expect(spy *Spy) *Expectation {
	expectation, err := Default().Expect(spy)
	if err != nil {
		panic(err)
	}

	return expectation
}

// Finish calls Finish on the Default Registry.
func Finish() bool {
	return Default().Finish()
}
