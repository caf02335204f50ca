package spies

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// describeValue renders a value for failure descriptions.
// Matchers render via String(), containers of interface values are rendered element by element so that
// nested Matchers stay readable, everything else is rendered as JSON with a Go-syntax fallback.
func describeValue(value any) string {
	if value == nil {
		return "null"
	}

	if m, ok := value.(Matcher); ok {
		return m.String()
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return "null"
		}

		if v.Type().Elem().Kind() == reflect.Interface {
			parts := make([]string, 0, v.Len())
			for i := 0; i < v.Len(); i++ {
				parts = append(parts, describeValue(interfaceOf(v.Index(i))))
			}

			return "[" + strings.Join(parts, ", ") + "]"
		}

	case reflect.Map:
		if v.IsNil() {
			return "null"
		}

		if v.Type().Elem().Kind() == reflect.Interface {
			parts := make([]string, 0, v.Len())
			iter := v.MapRange()
			for iter.Next() {
				parts = append(parts, describeValue(interfaceOf(iter.Key()))+": "+describeValue(interfaceOf(iter.Value())))
			}
			sort.Strings(parts)

			return "{" + strings.Join(parts, ", ") + "}"
		}

	case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("<%T>", value)
	}

	// JSON drops unexported fields.
	if hasUnexportedFields(v.Type()) {
		return fmt.Sprintf("%+v", value)
	}

	rendered, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(value)
	if err != nil {
		return fmt.Sprintf("%#v", value)
	}

	return rendered
}

func hasUnexportedFields(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			return true
		}
	}

	return false
}

// describeArguments renders an argument list, e.g. ["hello", "world", <any>].
func describeArguments(args []any) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, describeValue(arg))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// describeCalls renders a call record, one argument list per call.
func describeCalls(calls []Call) string {
	if len(calls) == 0 {
		return "none"
	}

	parts := make([]string, 0, len(calls))
	for _, call := range calls {
		parts = append(parts, describeArguments(call.args))
	}

	return strings.Join(parts, "; ")
}

func pluralizeTimes(n int) string {
	if n == 1 {
		return "1 time"
	}

	return fmt.Sprintf("%d times", n)
}
