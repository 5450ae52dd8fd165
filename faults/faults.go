// Package faults defines the locator error taxonomy.
//
// Every failure surfaces synchronously to the caller of the failing
// operation; nothing here is transient or retryable. Errors carry the
// requested type, name, and the location that was searched so a caller can
// tell "wrong location" apart from "never registered at all".
//
// Error Types:
//   - ConfigurationError: malformed construction (factory/instance mismatch)
//   - AlreadyRegisteredError: duplicate (type, name) registration
//   - NotRegisteredError: registry lookup or unregister miss
//   - NotFoundError: tree-walk miss
//   - CapabilityError: reactive resolution on a non-observable value
//
// All types match their sentinel through errors.Is:
//
//	if errors.Is(err, faults.ErrNotRegistered) { ... }
package faults

import (
	"errors"
	"fmt"

	"github.com/arborui/locator/kind"
)

// Location names the store an operation searched or mutated.
type Location string

const (
	// LocationRegistry is the process-wide keyed registry.
	LocationRegistry Location = "registry"
	// LocationTree is the ancestor-walk scope of a tree position.
	LocationTree Location = "tree"
)

// Sentinels for errors.Is matching.
var (
	ErrConfiguration     = errors.New("invalid locator configuration")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotRegistered     = errors.New("not registered")
	ErrNotFound          = errors.New("not found")
	ErrCapability        = errors.New("capability not satisfied")
)

// ConfigurationError reports malformed construction, such as supplying both
// a factory and an eager instance, or neither.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("locator configuration: %s", e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// NewConfiguration builds a ConfigurationError with a formatted reason.
func NewConfiguration(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// AlreadyRegisteredError reports a duplicate (type, name) registration.
// The first registration is never overwritten.
type AlreadyRegisteredError struct {
	Type     kind.ID
	Name     string
	Location Location
}

func (e *AlreadyRegisteredError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s already registered in %s", e.Type, e.Location)
	}
	return fmt.Sprintf("%s (name %q) already registered in %s", e.Type, e.Name, e.Location)
}

func (e *AlreadyRegisteredError) Unwrap() error { return ErrAlreadyRegistered }

// NotRegisteredError reports a registry lookup or unregister against an
// absent (type, name) key.
type NotRegisteredError struct {
	Type     kind.ID
	Name     string
	Location Location
}

func (e *NotRegisteredError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s not registered in %s", e.Type, e.Location)
	}
	return fmt.Sprintf("%s (name %q) not registered in %s", e.Type, e.Name, e.Location)
}

func (e *NotRegisteredError) Unwrap() error { return ErrNotRegistered }

// NotFoundError reports a tree walk that reached the root without finding a
// binding of the requested type.
type NotFoundError struct {
	Type     kind.ID
	Location Location
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no binding for %s found in %s", e.Type, e.Location)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// CapabilityError reports a value that lacks a capability the requested
// operation needs, such as change notification for reactive resolution.
type CapabilityError struct {
	Type       kind.ID
	Capability string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s does not satisfy capability %q", e.Type, e.Capability)
}

func (e *CapabilityError) Unwrap() error { return ErrCapability }

// IsAlreadyRegistered reports whether err is a duplicate-registration failure.
func IsAlreadyRegistered(err error) bool { return errors.Is(err, ErrAlreadyRegistered) }

// IsNotRegistered reports whether err is a registry miss.
func IsNotRegistered(err error) bool { return errors.Is(err, ErrNotRegistered) }

// IsNotFound reports whether err is a tree-walk miss.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsCapability reports whether err is a missing-capability failure.
func IsCapability(err error) bool { return errors.Is(err, ErrCapability) }
