package registry

import (
	"fmt"

	"github.com/arborui/locator/faults"
	"github.com/arborui/locator/kind"
	"github.com/arborui/locator/lazy"
)

// The generic front keys everything off kind.Of[T] so call sites never
// spell out type identities by hand.

// Register inserts a lazy unnamed entry for T.
func Register[T any](r *Registry, factory func() T, opts ...lazy.Option) error {
	return RegisterNamed[T](r, "", factory, opts...)
}

// RegisterNamed inserts a lazy named entry for T.
func RegisterNamed[T any](r *Registry, name string, factory func() T, opts ...lazy.Option) error {
	if factory == nil {
		return faults.NewConfiguration("register: factory for %s is nil", kind.Of[T]())
	}
	return r.RegisterFactory(kind.Of[T](), name, func() any { return factory() }, opts...)
}

// RegisterInstance inserts an eager unnamed entry for T.
func RegisterInstance[T any](r *Registry, instance T, opts ...lazy.Option) error {
	return RegisterInstanceNamed[T](r, "", instance, opts...)
}

// RegisterInstanceNamed inserts an eager named entry for T.
func RegisterInstanceNamed[T any](r *Registry, name string, instance T, opts ...lazy.Option) error {
	return r.RegisterValue(kind.Of[T](), name, instance, opts...)
}

// Get resolves the unnamed entry for T.
func Get[T any](r *Registry) (T, error) {
	return GetNamed[T](r, "")
}

// GetNamed resolves the named entry for T.
func GetNamed[T any](r *Registry, name string) (T, error) {
	var zero T
	v, err := r.GetRaw(kind.Of[T](), name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("registry: entry for %s holds %T, not %T", kind.Of[T](), v, zero)
	}
	return typed, nil
}

// GetSelect resolves an entry for T whose name the filter picks from the
// full list of registered names. Name-based and filter-based lookup are
// separate entry points, never combined.
func GetSelect[T any](r *Registry, filter func(names []string) string) (T, error) {
	var zero T
	v, err := r.GetSelect(kind.Of[T](), filter)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("registry: entry for %s holds %T, not %T", kind.Of[T](), v, zero)
	}
	return typed, nil
}

// MustGet resolves the unnamed entry for T and panics on failure. For
// composition roots where a miss is a programming error.
func MustGet[T any](r *Registry) T {
	v, err := Get[T](r)
	if err != nil {
		panic(err)
	}
	return v
}

// IsRegistered reports whether the unnamed entry for T is present.
func IsRegistered[T any](r *Registry) bool {
	return r.IsRegistered(kind.Of[T](), "")
}

// IsRegisteredNamed reports whether the named entry for T is present.
func IsRegisteredNamed[T any](r *Registry, name string) bool {
	return r.IsRegistered(kind.Of[T](), name)
}

// Unregister removes the unnamed entry for T, disposing its cell.
func Unregister[T any](r *Registry) error {
	return r.Unregister(kind.Of[T](), "", true)
}

// UnregisterNamed removes the named entry for T. dispose controls whether
// the cell's instance is torn down.
func UnregisterNamed[T any](r *Registry, name string, dispose bool) error {
	return r.Unregister(kind.Of[T](), name, dispose)
}
