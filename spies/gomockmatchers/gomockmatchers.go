// Package gomockmatchers connects spies matchers with go.uber.org/mock.
//
// Both libraries describe a matcher as Matches(any) bool plus String() string, so every
// gomock.Matcher can be used as a spies argument matcher and vice versa, in spies.Spy.WithArguments
// as well as in the EXPECT calls of generated mocks, variadic ones included:
//
//	logger.EXPECT().Info("book lent", "book_id", spies.Pattern("^book-"))
//
// Eq adds an equality matcher for gomock expectations that honors spies matchers nested inside
// the expected value.
package gomockmatchers

import (
	"go.uber.org/mock/gomock"

	"github.com/AntonStoeckl/dynamic-spies-go/spies"
)

// Both matcher interfaces are interchangeable.
var (
	_ gomock.Matcher = spies.Matcher(nil)
	_ spies.Matcher  = gomock.Matcher(nil)
)

// Eq returns a gomock.Matcher using spies structural matching, so that spies.Any(), spies.Pattern(...)
// and spies.Partial(...) may appear anywhere inside expected.
func Eq(expected any) gomock.Matcher {
	return spies.Literal(expected)
}
