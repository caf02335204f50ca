// Package funcpatch routes package-level function variables through spies.
//
// Go can't portably patch compiled functions, so interception is an explicit, opt-in capability
// that works on function variables:
//
//	var now = time.Now // in the package under test
//
//	spy := spies.NewSpy(spies.WithName("now"))
//	spy.AndReturn(fixedTime)
//	restore, err := funcpatch.Replace(&now, spy)
//	defer restore()
//
// Intercept does the same for a named Spy of a Registry, creating the Spy on first use.
package funcpatch
