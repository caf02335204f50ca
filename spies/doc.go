// Package spies provides recording test doubles for functions and the matcher and expectation
// engine used to assert on how they were invoked.
//
// A Spy records every call (arguments and timestamp) and can be programmed to return values,
// either unconditionally or only for calls whose arguments match a set of matchers.
// An Expectation wraps exactly one Spy and collects deferred predicates which are only
// evaluated on verification, in order, stopping at the first failure.
//
// The package supports matching arguments by:
//   - Literal values (deep, structural equality)
//   - Wildcards (Any)
//   - Regular expressions on strings (Pattern)
//   - Partial structures of maps and structs (Partial)
//
// Key types:
//   - Matcher: Compares a candidate value against an expected shape
//   - Spy: Records calls and resolves programmed return values
//   - Expectation: Deferred, chainable assertion bound to one Spy
//   - Registry: Named spies and pending expectations with a Finish teardown
//
// Common usage pattern:
//
//	registry, _ := spies.NewRegistry(spies.WithReporter(reporter))
//
//	addOne := registry.Stub("add_one")
//	addOne.WithArguments(5).AndReturn(6)
//	addOne.WithArguments(1).AndReturn(2)
//
//	result := addOne.Call(5) // 6
//
//	expectation, _ := registry.Expect(addOne)
//	expectation.ToHaveBeenCalled().With(5).Once()
//
//	registry.Finish() // verifies all pending expectations and resets the registry
package spies
