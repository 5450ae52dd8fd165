// Package kind provides type identity tokens for locator keys.
//
// A kind.ID is a stable, comparable token per distinct Go type. It is the
// key half of every registry entry and tree binding. Tokens come from two
// places:
//   - kind.Of[T]() for a statically known type
//   - kind.OfValue(v) for the dynamic type of a value, which supports
//     registering through a supertype-typed reference
//
// The token wraps reflect.Type strictly as an identity handle. No field
// inspection or structural reflection happens anywhere in the locator.
package kind

import (
	"errors"
	"reflect"
)

// ID identifies a registered type. IDs are comparable and usable as map keys.
type ID struct {
	t reflect.Type
}

// Zero is the invalid ID. It never matches a registered type.
var Zero = ID{}

// ErrNilValue is returned by OfValue for a nil value, which carries no
// type information.
var ErrNilValue = errors.New("kind: cannot derive identity from nil value")

// Of returns the identity token for the static type T.
func Of[T any]() ID {
	return ID{t: reflect.TypeFor[T]()}
}

// OfValue returns the identity token for the dynamic type of v.
// A nil v carries no type information and is rejected.
func OfValue(v any) (ID, error) {
	if v == nil {
		return Zero, ErrNilValue
	}
	return ID{t: reflect.TypeOf(v)}, nil
}

// IsZero reports whether the ID is the invalid zero token.
func (id ID) IsZero() bool {
	return id.t == nil
}

// String returns a package-qualified type name for diagnostics.
func (id ID) String() string {
	if id.t == nil {
		return "<none>"
	}
	return id.t.String()
}
