package spies

import (
	"fmt"
	"reflect"
)

type passedArgument struct {
	index int
}

// PassedArgument returns a marker which, used as a return value, echoes the call's argument at index.
// An index out of range yields nil.
func PassedArgument(index int) any {
	return passedArgument{index: index}
}

type literally struct {
	value any
}

// Literally wraps a return value so that it is returned as-is, even if it is a function.
// Without it, function return values are invoked with the call's arguments.
func Literally(value any) any {
	return literally{value: value}
}

// resolveReturnValue filters a selected return value against the call's arguments.
func resolveReturnValue(value any, args []any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case passedArgument:
		if v.index < 0 || v.index >= len(args) {
			return nil
		}

		return args[v.index]
	case literally:
		return v.value
	case func(args ...any) any:
		return v(args...)
	}

	fn := reflect.ValueOf(value)
	if fn.Kind() == reflect.Func && !fn.IsNil() {
		return invokeDelegate(fn, args)
	}

	return value
}

// invokeDelegate calls an arbitrary func value with the call's arguments.
// It panics with ErrConfigurationConflict if the arguments do not fit the func's signature.
func invokeDelegate(fn reflect.Value, args []any) any {
	in, err := delegateArguments(fn.Type(), args)
	if err != nil {
		panic(err)
	}

	out := fn.Call(in)

	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0].Interface()
	default:
		results := make([]any, 0, len(out))
		for _, result := range out {
			results = append(results, result.Interface())
		}

		return results
	}
}

func delegateArguments(fnType reflect.Type, args []any) ([]reflect.Value, error) {
	numIn := fnType.NumIn()

	if fnType.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, fmt.Errorf(
				"%w: return delegate %s needs at least %d arguments, got %d",
				ErrConfigurationConflict, fnType, numIn-1, len(args),
			)
		}
	} else if len(args) != numIn {
		return nil, fmt.Errorf(
			"%w: return delegate %s needs %d arguments, got %d",
			ErrConfigurationConflict, fnType, numIn, len(args),
		)
	}

	in := make([]reflect.Value, 0, len(args))
	for i, arg := range args {
		paramType := fnType.In(min(i, numIn-1))
		if fnType.IsVariadic() && i >= numIn-1 {
			paramType = fnType.In(numIn - 1).Elem()
		}

		value, err := ValueFor(arg, paramType)
		if err != nil {
			return nil, fmt.Errorf("argument %d of return delegate %s: %w", i, fnType, err)
		}

		in = append(in, value)
	}

	return in, nil
}

// ValueFor converts v into a reflect.Value of type t. A nil v yields the zero value of t.
// It returns an error wrapping ErrConfigurationConflict if v is not assignable to t.
func ValueFor(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}

	value := reflect.ValueOf(v)
	if !value.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrConfigurationConflict, value.Type(), t)
	}

	if value.Type() != t {
		converted := reflect.New(t).Elem()
		converted.Set(value)

		return converted, nil
	}

	return value, nil
}
