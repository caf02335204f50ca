package funcpatch

import (
	"fmt"
	"reflect"

	"github.com/AntonStoeckl/dynamic-spies-go/spies"
)

// Replace swaps the function stored in target for one that routes every call through spy.
// It returns a func restoring the original function.
//
// The Spy's return value is converted to the function's results: nil becomes the zero values,
// a function with several results expects a []any with one element per result.
// A return value that does not fit panics with an error wrapping spies.ErrConfigurationConflict.
//
// It returns an error wrapping spies.ErrInvalidArgument if target is nil, does not point to a func,
// or spy is nil.
func Replace[F any](target *F, spy *spies.Spy) (func(), error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target", spies.ErrInvalidArgument)
	}

	if spy == nil {
		return nil, fmt.Errorf("%w: nil spy", spies.ErrInvalidArgument)
	}

	fnType := reflect.TypeFor[F]()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s is not a function type", spies.ErrInvalidArgument, fnType)
	}

	original := *target

	replacement := reflect.MakeFunc(fnType, func(in []reflect.Value) []reflect.Value {
		result := spy.CallWithArgs(callArguments(fnType, in))

		out, err := results(fnType, result)
		if err != nil {
			panic(fmt.Errorf("intercepted %s: %w", spy.Name(), err))
		}

		return out
	})

	*target = replacement.Interface().(F)

	return func() {
		*target = original
	}, nil
}

// Intercept resolves or creates the Spy named name in registry and installs it into target, see Replace.
func Intercept[F any](registry *spies.Registry, name string, target *F) (*spies.Spy, func(), error) {
	if registry == nil {
		return nil, nil, fmt.Errorf("%w: nil registry", spies.ErrInvalidArgument)
	}

	spy := registry.GetOrCreateNamedSpy(name)

	restore, err := Replace(target, spy)
	if err != nil {
		return nil, nil, err
	}

	return spy, restore, nil
}

// callArguments flattens the reflect arguments into the Spy's argument list. Variadic arguments are spread.
func callArguments(fnType reflect.Type, in []reflect.Value) []any {
	args := make([]any, 0, len(in))

	for i, value := range in {
		if fnType.IsVariadic() && i == len(in)-1 {
			for j := 0; j < value.Len(); j++ {
				args = append(args, value.Index(j).Interface())
			}

			continue
		}

		args = append(args, value.Interface())
	}

	return args
}

func results(fnType reflect.Type, result any) ([]reflect.Value, error) {
	numOut := fnType.NumOut()

	switch numOut {
	case 0:
		return nil, nil

	case 1:
		value, err := spies.ValueFor(result, fnType.Out(0))
		if err != nil {
			return nil, err
		}

		return []reflect.Value{value}, nil
	}

	out := make([]reflect.Value, numOut)

	if result == nil {
		for i := range out {
			out[i] = reflect.Zero(fnType.Out(i))
		}

		return out, nil
	}

	values, ok := result.([]any)
	if !ok || len(values) != numOut {
		return nil, fmt.Errorf(
			"%w: %s has %d results, the spy returned %T",
			spies.ErrConfigurationConflict, fnType, numOut, result,
		)
	}

	for i, v := range values {
		value, err := spies.ValueFor(v, fnType.Out(i))
		if err != nil {
			return nil, err
		}

		out[i] = value
	}

	return out, nil
}
