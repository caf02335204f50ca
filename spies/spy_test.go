package spies_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-spies-go/spies"
)

// fixedClock returns a clock which returns the given instants in order and then keeps returning the last one.
func fixedClock(instants ...time.Time) func() time.Time {
	i := 0

	return func() time.Time {
		instant := instants[min(i, len(instants)-1)]
		i++

		return instant
	}
}

func Test_NewSpy_Defaults(t *testing.T) {
	spy := spies.NewSpy()

	assert.Equal(t, spies.AnonymousName, spy.Name())
	assert.NotEqual(t, spy.ID(), spies.NewSpy().ID(), "every spy should have its own identity")
	assert.False(t, spy.WasCalled())
	assert.Empty(t, spy.Calls())
}

func Test_NewSpy_WithOptions(t *testing.T) {
	at := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	spy := spies.NewSpy(spies.WithName("add_one"), spies.WithClock(fixedClock(at)))

	spy.Call(1)

	assert.Equal(t, "add_one", spy.Name())
	assert.Equal(t, "add_one", spy.String())
	require.Len(t, spy.Calls(), 1)
	assert.Equal(t, at, spy.Calls()[0].At())
}

func Test_NewSpy_EmptyNameAndNilClockKeepDefaults(t *testing.T) {
	spy := spies.NewSpy(spies.WithName(""), spies.WithClock(nil))

	assert.Equal(t, spies.AnonymousName, spy.Name())
	assert.NotPanics(t, func() { spy.Call() })
}

func Test_Spy_UnconfiguredCallReturnsNil(t *testing.T) {
	spy := spies.NewSpy()

	assert.Nil(t, spy.Call("anything", 1, 2))
	assert.Nil(t, spy.CallWithArgs(nil))
	assert.Equal(t, 2, spy.CallCount())
}

func Test_Spy_RecordsCallsInOrder(t *testing.T) {
	spy := spies.NewSpy()

	spy.Call("hello", "world", 7)
	spy.CallWithArgs([]any{"hello", "world", 8})

	calls := spy.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []any{"hello", "world", 7}, calls[0].Args())
	assert.Equal(t, []any{"hello", "world", 8}, calls[1].Args())
	assert.Less(t, calls[0].Sequence(), calls[1].Sequence())
	assert.True(t, calls[0].Before(calls[1]))
}

func Test_Spy_CallRecordIsSnapshot(t *testing.T) {
	spy := spies.NewSpy()
	args := []any{"a", "b"}

	spy.CallWithArgs(args)
	args[0] = "mutated"

	recorded := spy.Calls()[0].Args()
	recorded[1] = "mutated too"

	assert.Equal(t, []any{"a", "b"}, spy.Calls()[0].Args())
}

func Test_Spy_WasCalledTimes(t *testing.T) {
	for n := 0; n < 5; n++ {
		t.Run(fmt.Sprintf("%d_calls", n), func(t *testing.T) {
			spy := spies.NewSpy()
			for i := 0; i < n; i++ {
				spy.Call(i)
			}

			for candidate := 0; candidate < 5; candidate++ {
				assert.Equal(t, candidate == n, spy.WasCalledTimes(candidate))
			}
			assert.Equal(t, n > 0, spy.WasCalled())
		})
	}
}

func Test_Spy_WasCalledWith(t *testing.T) {
	spy := spies.NewSpy()
	spy.Call("hello", "world", 7)

	assert.True(t, spy.WasCalledWith("hello", "world", 7))
	assert.True(t, spy.WasCalledWith("hello", spies.Any(), 7))
	assert.True(t, spy.WasCalledWith(spies.Any(), spies.Any(), spies.Any()))
	assert.True(t, spy.WasCalledWith(spies.Pattern("^he"), "world", spies.Literal(7)))
	assert.False(t, spy.WasCalledWith("hello", "world"), "arity mismatch is no match")
	assert.False(t, spy.WasCalledWith("hello", "world", 7, 8), "arity mismatch is no match")
	assert.False(t, spy.WasCalledWith("hello", "world", 8))
}

func Test_Spy_CallCountWith(t *testing.T) {
	spy := spies.NewSpy()
	spy.Call("a", 1)
	spy.Call("a", 2)
	spy.Call("b", 3)

	assert.Equal(t, 2, spy.CallCountWith("a", spies.Any()))
	assert.Equal(t, 1, spy.CallCountWith("b", 3))
	assert.Equal(t, 0, spy.CallCountWith("c", spies.Any()))
}

func Test_Spy_ConditionalReturns(t *testing.T) {
	addOne := spies.NewSpy(spies.WithName("add_one"))
	addOne.WithArguments(5).AndReturn(6)
	addOne.WithArguments(1).AndReturn(2)

	assert.Equal(t, 6, addOne.Call(5))
	assert.Equal(t, 2, addOne.Call(1))
	assert.Nil(t, addOne.Call(99))
	assert.Nil(t, addOne.Call(5, 1), "arity mismatch is no match")
}

func Test_Spy_ConditionalReturns_FirstMatchWins(t *testing.T) {
	spy := spies.NewSpy()
	spy.WithArguments(5).AndReturn(6)
	spy.WithArguments(5).AndReturn(99)

	assert.Equal(t, 6, spy.Call(5))
}

func Test_Spy_ConditionalReturns_WithMatchers(t *testing.T) {
	spy := spies.NewSpy()
	spy.WithArguments(spies.Pattern("^book-"), spies.Any()).AndReturn("found")
	spy.WithArguments(spies.Any(), spies.Any()).AndReturn("fallback")

	assert.Equal(t, "found", spy.Call("book-1", 3))
	assert.Equal(t, "fallback", spy.Call("reader-1", 3))
}

func Test_Spy_DefaultReturn(t *testing.T) {
	spy := spies.NewSpy()
	spy.AndReturn("green")

	assert.Equal(t, "green", spy.Call())
	assert.Equal(t, "green", spy.Call(1, 2, 3))
	assert.Equal(t, "green", spy.Call("anything"))

	spy.AndReturn("blue")
	assert.Equal(t, "blue", spy.Call(), "AndReturn without staged arguments resets the default")
}

func Test_Spy_ConditionalReturnsTakePrecedenceOverDefault(t *testing.T) {
	spy := spies.NewSpy()
	spy.AndReturn("default")
	spy.WithArguments("special").AndReturn("special value")

	assert.Equal(t, "special value", spy.Call("special"))
	assert.Equal(t, "default", spy.Call("other"))
}

func Test_Spy_StagedArgumentsAreConsumedOnce(t *testing.T) {
	spy := spies.NewSpy()
	spy.WithArguments(1).AndReturn("one")
	spy.AndReturn("default")

	assert.Equal(t, "one", spy.Call(1))
	assert.Equal(t, "default", spy.Call(2))
}

func Test_Spy_PassedArgumentEcho(t *testing.T) {
	spy := spies.NewSpy()
	spy.AndReturn(spies.PassedArgument(0))

	assert.Equal(t, 5, spy.Call(5, 6, 7))
	assert.Equal(t, 1, spy.Call(1, 2, 3))
	assert.Nil(t, spy.Call(), "index out of range yields nil")

	spy.WithArguments(spies.Any(), "second").AndReturn(spies.PassedArgument(1))
	assert.Equal(t, "second", spy.Call("first", "second"))

	spy.AndReturn(spies.PassedArgument(-1))
	assert.Nil(t, spy.Call(1))
}

func Test_Spy_DelegatesToVariadicAnyFunc(t *testing.T) {
	spy := spies.NewSpy()
	spy.AndReturn(func(args ...any) any {
		return len(args)
	})

	assert.Equal(t, 3, spy.Call("a", "b", "c"))
	assert.Equal(t, 0, spy.Call())
}

func Test_Spy_DelegatesToTypedFunc(t *testing.T) {
	spy := spies.NewSpy()
	spy.WithArguments(spies.Any(), spies.Any()).AndReturn(func(a, b int) int {
		return a + b
	})
	spy.WithArguments(spies.Any()).AndReturn(func(s string) (string, error) {
		return strings.ToUpper(s), nil
	})
	spy.AndReturn(func() {})

	assert.Equal(t, 5, spy.Call(2, 3))
	assert.Equal(t, []any{"HELLO", nil}, spy.Call("hello"))
	assert.Nil(t, spy.Call(), "a delegate without results yields nil")
}

func Test_Spy_DelegatesToTypedVariadicFunc(t *testing.T) {
	spy := spies.NewSpy()
	spy.AndReturn(func(prefix string, parts ...string) string {
		return prefix + strings.Join(parts, ",")
	})

	assert.Equal(t, "x:a,b", spy.Call("x:", "a", "b"))
	assert.Equal(t, "x:", spy.Call("x:"))
}

func Test_Spy_DelegateReceivesZeroValuesForNilArguments(t *testing.T) {
	spy := spies.NewSpy()
	spy.AndReturn(func(err error) bool {
		return err == nil
	})

	assert.Equal(t, true, spy.Call(nil))
	assert.Equal(t, false, spy.Call(errors.New("boom")))
}

func Test_Spy_DelegateWithMismatchingArgumentsPanics(t *testing.T) {
	spy := spies.NewSpy()
	spy.AndReturn(func(a int) int { return a })

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)

		err, ok := recovered.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, spies.ErrConfigurationConflict)
		assert.Contains(t, err.Error(), "needs 1 arguments, got 2")
	}()

	spy.Call(1, 2)
}

func Test_Spy_DelegateWithMismatchingArgumentTypePanics(t *testing.T) {
	spy := spies.NewSpy()
	spy.AndReturn(func(a int) int { return a })

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)

		err, ok := recovered.(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, spies.ErrConfigurationConflict)
	}()

	spy.Call("not an int")
}

func Test_Spy_LiterallyReturnsFuncWithoutInvokingIt(t *testing.T) {
	called := false
	fn := func() { called = true }

	spy := spies.NewSpy()
	spy.AndReturn(spies.Literally(fn))

	returned, ok := spy.Call().(func())
	require.True(t, ok)
	assert.False(t, called)

	returned()
	assert.True(t, called)
}

func Test_Spy_DelegateMayCallTheSpyItself(t *testing.T) {
	spy := spies.NewSpy()
	spy.WithArguments(0).AndReturn(0)
	spy.AndReturn(func(n int) int {
		return n + spy.Call(n-1).(int)
	})

	assert.Equal(t, 6, spy.Call(3))
	assert.Equal(t, 4, spy.CallCount())
}

func Test_Spy_MatcherMayReadTheSpyItself(t *testing.T) {
	spy := spies.NewSpy()
	firstCall := spies.Satisfying("first call", func(any) bool { return spy.CallCount() == 1 })
	spy.WithArguments(firstCall).AndReturn("first")
	spy.AndReturn("later")

	done := make(chan any, 2)
	go func() {
		done <- spy.Call(1)
		done <- spy.Call(2)
	}()

	select {
	case first := <-done:
		assert.Equal(t, "first", first)
	case <-time.After(2 * time.Second):
		t.Fatal("spy.Call blocked while evaluating a matcher which reads the spy")
	}

	assert.Equal(t, "later", <-done)
	assert.Equal(t, 1, spy.CallCountWith(spies.Satisfying("reads call count", func(candidate any) bool {
		return spy.CallCount() == 2 && candidate == 1
	})))
}

func Test_Spy_WasCalledWithMatchersInUnexportedFields(t *testing.T) {
	type lendingEvent struct {
		name    string
		payload any
	}

	spy := spies.NewSpy()
	spy.WithArguments(lendingEvent{name: "lent", payload: spies.Any()}).AndReturn("matched")

	assert.Equal(t, "matched", spy.Call(lendingEvent{name: "lent", payload: 7}))
	assert.True(t, spy.WasCalledWith(lendingEvent{name: "lent", payload: spies.Any()}))
	assert.True(t, spy.WasCalledWith(spies.Partial(map[string]any{"name": spies.Pattern("^le")})))
	assert.False(t, spy.WasCalledWith(lendingEvent{name: "returned", payload: spies.Any()}))
}

func Test_Spy_WasCalledBefore(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Millisecond)

	a := spies.NewSpy(spies.WithName("a"), spies.WithClock(fixedClock(t1)))
	b := spies.NewSpy(spies.WithName("b"), spies.WithClock(fixedClock(t2)))
	never := spies.NewSpy(spies.WithName("never"))

	assert.False(t, a.WasCalledBefore(b), "neither was called")

	a.Call()
	assert.False(t, a.WasCalledBefore(b), "b was never called")
	assert.False(t, b.WasCalledBefore(a), "b was never called")

	b.Call()
	assert.True(t, a.WasCalledBefore(b))
	assert.False(t, b.WasCalledBefore(a))
	assert.False(t, a.WasCalledBefore(never))
	assert.False(t, never.WasCalledBefore(a))
	assert.False(t, a.WasCalledBefore(nil))
	assert.False(t, a.WasCalledBefore(a), "strictly earlier")
}

func Test_Spy_WasCalledBefore_ComparesFirstCalls(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	a := spies.NewSpy(spies.WithClock(fixedClock(t1, t1.Add(3*time.Second))))
	b := spies.NewSpy(spies.WithClock(fixedClock(t1.Add(time.Second))))

	a.Call()
	b.Call()
	a.Call()

	assert.True(t, a.WasCalledBefore(b), "only the first recorded calls count")
}

func Test_Spy_WasCalledBefore_EqualTimestampsFallBackToCallOrder(t *testing.T) {
	frozen := fixedClock(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))

	a := spies.NewSpy(spies.WithClock(frozen))
	b := spies.NewSpy(spies.WithClock(frozen))

	a.Call()
	b.Call()

	assert.True(t, a.WasCalledBefore(b))
	assert.False(t, b.WasCalledBefore(a))
}

func Test_Spy_ClearCallRecordKeepsProgrammedReturns(t *testing.T) {
	spy := spies.NewSpy()
	spy.WithArguments(5).AndReturn(6)
	spy.AndReturn("default")
	spy.Call(5)
	spy.Call(1)

	spy.ClearCallRecord()

	assert.False(t, spy.WasCalled())
	assert.Empty(t, spy.Calls())
	_, hasFirstCall := spy.FirstCall()
	assert.False(t, hasFirstCall)
	assert.Equal(t, 6, spy.Call(5))
	assert.Equal(t, "default", spy.Call(1))
}

func Test_Call_String(t *testing.T) {
	spy := spies.NewSpy()
	spy.Call("hello", 7, nil, []int{1, 2}, map[string]any{"k": true})

	assert.Equal(t, `["hello", 7, null, [1,2], {"k": true}]`, spy.Calls()[0].String())
	assert.True(t, spy.Calls()[0].MatchesArguments("hello", spies.Any(), nil, []int{1, 2}, spies.Partial(map[string]any{})))
}
