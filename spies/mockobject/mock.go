package mockobject

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/AntonStoeckl/dynamic-spies-go/spies"
)

// reservedNames are the control operations of a Mock, which can't be used as method names.
var reservedNames = []string{"AddMethod", "Method", "Invoke", "HasMethod", "MethodNames", "Expect", "Reset", "Name"}

// Option defines a functional option for configuring a Mock.
type Option func(*Mock)

// WithIgnoreMissing makes Invoke return nil for unconfigured methods instead of failing.
func WithIgnoreMissing() Option {
	return func(m *Mock) {
		m.ignoreMissing = true
	}
}

// WithSpyOptions sets options applied to every Spy the Mock creates for its methods.
func WithSpyOptions(options ...spies.SpyOption) Option {
	return func(m *Mock) {
		m.spyOptions = append(m.spyOptions, options...)
	}
}

// Mock is a stand-in object whose methods are spies, looked up by name.
type Mock struct {
	mu            sync.Mutex
	name          string
	methods       map[string]*spies.Spy
	ignoreMissing bool
	spyOptions    []spies.SpyOption
}

// New creates a Mock without methods.
func New(name string, options ...Option) *Mock {
	m := &Mock{
		name:    name,
		methods: make(map[string]*spies.Spy),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// FromInterface creates a Mock with one Spy for every method of the interface type T.
// It returns an error wrapping spies.ErrInvalidArgument if T is not an interface type.
func FromInterface[T any](options ...Option) (*Mock, error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Interface {
		return nil, fmt.Errorf("%w: %s is not an interface type", spies.ErrInvalidArgument, t)
	}

	m := New(t.String(), options...)
	for i := 0; i < t.NumMethod(); i++ {
		methodName := t.Method(i).Name
		if slices.Contains(reservedNames, methodName) {
			return nil, fmt.Errorf("%w: method %s of %s collides with a control operation", spies.ErrConfigurationConflict, methodName, t)
		}

		m.methods[methodName] = m.newMethodSpy(methodName)
	}

	return m, nil
}

// Name returns the name of the Mock.
func (m *Mock) Name() string {
	return m.name
}

// AddMethod adds or replaces a method. body must be a *spies.Spy or a func value; a func is wrapped in a Spy
// whose default return delegates to it.
//
// It returns an error wrapping spies.ErrConfigurationConflict if name is empty or reserved, or body is not callable.
func (m *Mock) AddMethod(name string, body any) error {
	if err := validateMethodName(name); err != nil {
		return err
	}

	var spy *spies.Spy

	switch b := body.(type) {
	case *spies.Spy:
		if b == nil {
			return fmt.Errorf("%w: nil spy for method %s", spies.ErrConfigurationConflict, name)
		}

		spy = b

	default:
		fn := reflect.ValueOf(body)
		if fn.Kind() != reflect.Func || fn.IsNil() {
			return fmt.Errorf("%w: body of method %s is %T, not a function", spies.ErrConfigurationConflict, name, body)
		}

		spy = m.newMethodSpy(name).AndReturn(body)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.methods[name] = spy

	return nil
}

// Method returns the Spy behind a method, creating it on first use, so that it can be programmed:
//
//	mock.Method("Add").WithArguments(1, 2).AndReturn(3)
//
// It panics with an error wrapping spies.ErrConfigurationConflict if name is empty or reserved.
func (m *Mock) Method(name string) *spies.Spy {
	if err := validateMethodName(name); err != nil {
		panic(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if spy, ok := m.methods[name]; ok {
		return spy
	}

	spy := m.newMethodSpy(name)
	m.methods[name] = spy

	return spy
}

func validateMethodName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty method name", spies.ErrConfigurationConflict)
	}

	if slices.Contains(reservedNames, name) {
		return fmt.Errorf("%w: %s is a control operation of the mock", spies.ErrConfigurationConflict, name)
	}

	return nil
}

// Invoke calls the named method with args and returns its resolved return value.
// Unconfigured methods fail with spies.ErrUndefinedBehavior unless the Mock ignores missing methods.
func (m *Mock) Invoke(name string, args ...any) (any, error) {
	m.mu.Lock()
	spy, ok := m.methods[name]
	m.mu.Unlock()

	if !ok {
		if m.ignoreMissing {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %s.%s was never configured", spies.ErrUndefinedBehavior, m.name, name)
	}

	return spy.CallWithArgs(args), nil
}

// HasMethod reports whether the named method is configured.
func (m *Mock) HasMethod(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.methods[name]

	return ok
}

// MethodNames returns the configured method names, sorted.
func (m *Mock) MethodNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.methods))
	for name := range m.methods {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Expect creates an Expectation for the Spy behind the named method.
// It returns an error wrapping spies.ErrUndefinedBehavior if the method is not configured.
func (m *Mock) Expect(method string, options ...spies.ExpectationOption) (*spies.Expectation, error) {
	m.mu.Lock()
	spy, ok := m.methods[method]
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s.%s was never configured", spies.ErrUndefinedBehavior, m.name, method)
	}

	return spies.NewExpectation(spy, options...)
}

// Reset clears the call records of all methods. Programmed returns are kept.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, spy := range m.methods {
		spy.ClearCallRecord()
	}
}

func (m *Mock) newMethodSpy(method string) *spies.Spy {
	options := append([]spies.SpyOption{spies.WithName(m.name + "." + method)}, m.spyOptions...)

	return spies.NewSpy(options...)
}
