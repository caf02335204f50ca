package spies

import (
	"reflect"
	"regexp"
	"sort"
	"strings"
	"unsafe"
)

// Matcher compares a candidate value against an expected shape.
// Implementations must be total and free of side effects.
type Matcher interface {
	Matches(candidate any) bool
	String() string
}

// Match reports whether a and b match each other.
//
// It is symmetric in its operands:
//   - if either side is a wildcard (Any), the pair matches
//   - if both sides are equal Matchers, the pair matches
//   - if either side is a Matcher, that Matcher decides
//   - otherwise both sides are compared structurally, recursing into slices, arrays, maps, pointers
//     and structs (unexported fields included), so a Matcher nested at any depth is honored
func Match(a, b any) bool {
	c := comparer{visited: make(map[visit]bool)}

	return c.matchValues(reflect.ValueOf(a), reflect.ValueOf(b))
}

/***** Wildcard *****/

type wildcard struct{}

// Any returns the wildcard Matcher which matches every value, including nil.
func Any() Matcher {
	return wildcard{}
}

func (wildcard) Matches(_ any) bool {
	return true
}

func (wildcard) String() string {
	return "<any>"
}

/***** Literal *****/

type literal struct {
	value any
}

// Literal returns a Matcher which matches values that are structurally equal to value.
func Literal(value any) Matcher {
	return literal{value: value}
}

func (l literal) Matches(candidate any) bool {
	return Match(l.value, candidate)
}

func (l literal) String() string {
	return describeValue(l.value)
}

/***** Pattern *****/

type pattern struct {
	re *regexp.Regexp
}

// Pattern returns a Matcher which matches strings in which the regular expression finds a match.
// Candidates which are not strings never match.
//
// It panics if expr does not compile, like regexp.MustCompile.
func Pattern(expr string) Matcher {
	return pattern{re: regexp.MustCompile(expr)}
}

// PatternRegexp is like Pattern but takes an already compiled regular expression.
func PatternRegexp(re *regexp.Regexp) Matcher {
	return pattern{re: re}
}

func (p pattern) Matches(candidate any) bool {
	if p.re == nil {
		return false
	}

	s, ok := asString(reflect.ValueOf(candidate))
	if !ok {
		return false
	}

	return p.re.MatchString(s)
}

func (p pattern) String() string {
	if p.re == nil {
		return "<pattern nil>"
	}

	return "<pattern " + p.re.String() + ">"
}

/***** Partial *****/

type partial struct {
	subset map[string]any
}

// Partial returns a Matcher for associative containers: maps with string keys and structs.
// Every key of subset must be present in the candidate (as a map key or a struct field name)
// and its value must match the expected one; extra keys of the candidate are ignored.
func Partial(subset map[string]any) Matcher {
	return partial{subset: subset}
}

func (p partial) Matches(candidate any) bool {
	v := indirect(reflect.ValueOf(candidate))
	if !v.IsValid() {
		return false
	}

	switch v.Kind() {
	case reflect.Map:
		keyType := v.Type().Key()
		if keyType.Kind() != reflect.String {
			return false
		}

		for key, expected := range p.subset {
			actual := v.MapIndex(reflect.ValueOf(key).Convert(keyType))
			if !actual.IsValid() {
				return false
			}

			if !p.matchField(expected, actual) {
				return false
			}
		}

		return true

	case reflect.Struct:
		v = addressable(v)
		for key, expected := range p.subset {
			actual := readable(v.FieldByName(key))
			if !actual.IsValid() {
				return false
			}

			if !p.matchField(expected, actual) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

func (p partial) matchField(expected any, actual reflect.Value) bool {
	c := comparer{visited: make(map[visit]bool)}

	return c.matchValues(reflect.ValueOf(expected), actual)
}

func (p partial) String() string {
	keys := make([]string, 0, len(p.subset))
	for key := range p.subset {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, describeValue(key)+": "+describeValue(p.subset[key]))
	}

	return "<partial {" + strings.Join(parts, ", ") + "}>"
}

/***** Satisfying *****/

type satisfying struct {
	description string
	fn          func(candidate any) bool
}

// Satisfying returns a Matcher backed by an arbitrary predicate.
// The description is used when the Matcher is rendered in failure descriptions.
func Satisfying(description string, fn func(candidate any) bool) Matcher {
	return satisfying{description: description, fn: fn}
}

func (s satisfying) Matches(candidate any) bool {
	if s.fn == nil {
		return false
	}

	return s.fn(candidate)
}

func (s satisfying) String() string {
	return "<" + s.description + ">"
}

/***** structural comparison *****/

type visit struct {
	a   uintptr
	b   uintptr
	typ reflect.Type
}

type comparer struct {
	visited map[visit]bool
}

func (c comparer) matchValues(a, b reflect.Value) bool {
	if isWildcard(a) || isWildcard(b) {
		return true
	}

	matcherA, aIsMatcher := matcherOf(a)
	matcherB, bIsMatcher := matcherOf(b)

	switch {
	case aIsMatcher && bIsMatcher:
		if equalMatchers(matcherA, matcherB) {
			return true
		}

		return matcherA.Matches(interfaceOf(b)) || matcherB.Matches(interfaceOf(a))
	case aIsMatcher:
		return matcherA.Matches(interfaceOf(b))
	case bIsMatcher:
		return matcherB.Matches(interfaceOf(a))
	}

	a = unwrapInterface(a)
	b = unwrapInterface(b)

	aIsNil, bIsNil := isNil(a), isNil(b)
	if aIsNil || bIsNil {
		return aIsNil && bIsNil
	}

	if a.Type() != b.Type() {
		return false
	}

	if c.seen(a, b) {
		return true
	}

	switch a.Kind() {
	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}

		for i := 0; i < a.Len(); i++ {
			if !c.matchValues(a.Index(i), b.Index(i)) {
				return false
			}
		}

		return true

	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}

		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() {
				return false
			}

			if !c.matchValues(iter.Value(), other) {
				return false
			}
		}

		return true

	case reflect.Pointer:
		if a.Pointer() == b.Pointer() {
			return true
		}

		return c.matchValues(a.Elem(), b.Elem())

	case reflect.Struct:
		a, b = addressable(a), addressable(b)
		for i := 0; i < a.NumField(); i++ {
			if !c.matchValues(readable(a.Field(i)), readable(b.Field(i))) {
				return false
			}
		}

		return true

	case reflect.Bool:
		return a.Bool() == b.Bool()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()

	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()

	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()

	case reflect.String:
		return a.String() == b.String()

	case reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()

	default:
		// Non-nil funcs are never equal, same as reflect.DeepEqual.
		return false
	}
}

// seen guards against cycles in self-referencing maps and pointers.
func (c comparer) seen(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Map, reflect.Pointer:
	default:
		return false
	}

	key := visit{a: a.Pointer(), b: b.Pointer(), typ: a.Type()}
	if c.visited[key] {
		return true
	}

	c.visited[key] = true

	return false
}

var wildcardType = reflect.TypeOf(wildcard{})

func isWildcard(v reflect.Value) bool {
	v = unwrapInterface(v)

	return v.IsValid() && v.Type() == wildcardType
}

// equalMatchers reports whether a and b are the same Matcher, e.g. two Pattern matchers built from
// the same expression.
func equalMatchers(a, b Matcher) bool {
	if pa, ok := a.(pattern); ok {
		pb, ok := b.(pattern)

		return ok && pa.re != nil && pb.re != nil && pa.re.String() == pb.re.String()
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	return reflect.DeepEqual(a, b)
}

func matcherOf(v reflect.Value) (Matcher, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}

	if v.Kind() == reflect.Interface && v.IsNil() {
		return nil, false
	}

	m, ok := v.Interface().(Matcher)

	return m, ok
}

// interfaceOf returns the value held by v, or nil if it is invalid or not exported.
func interfaceOf(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}

	return v.Interface()
}

// addressable returns v if it is addressable, otherwise an addressable copy of it,
// so that unexported fields of a struct can be made readable.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() || !v.CanInterface() {
		return v
	}

	c := reflect.New(v.Type()).Elem()
	c.Set(v)

	return c
}

// readable returns an interfaceable view of a value reached through an unexported struct field.
// The view is only read, never written.
func readable(v reflect.Value) reflect.Value {
	if !v.IsValid() || v.CanInterface() || !v.CanAddr() {
		return v
	}

	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

func unwrapInterface(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

func indirect(v reflect.Value) reflect.Value {
	v = unwrapInterface(v)
	for v.IsValid() && v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = unwrapInterface(v.Elem())
	}

	return v
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer, reflect.Slice, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

func asString(v reflect.Value) (string, bool) {
	v = unwrapInterface(v)
	if !v.IsValid() || v.Kind() != reflect.String {
		return "", false
	}

	return v.String(), true
}
