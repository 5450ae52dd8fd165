// Package events carries locator lifecycle events from the core to
// observers such as metrics collectors and the inspection stream.
//
// The registry and tree scope emit; they never know who listens. Sinks must
// return quickly — delivery is synchronous on the mutating call path.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/arborui/locator/kind"
)

// Op names what happened to a binding or entry.
type Op string

const (
	OpRegistered   Op = "registered"
	OpUnregistered Op = "unregistered"
	OpResolved     Op = "resolved"
	OpBound        Op = "bound"
	OpUnbound      Op = "unbound"
	OpPromoted     Op = "promoted"
	OpDemoted      Op = "demoted"
	OpNotified     Op = "notified"
)

// Source names where the operation happened.
type Source string

const (
	SourceRegistry Source = "registry"
	SourceTree     Source = "tree"
)

// Event describes one locator operation.
type Event struct {
	ID     string    `json:"id"`
	Op     Op        `json:"op"`
	Type   string    `json:"type"`
	Name   string    `json:"name,omitempty"`
	Source Source    `json:"source"`
	At     time.Time `json:"at"`
}

// New builds an event for the given operation.
func New(op Op, id kind.ID, name string, source Source) Event {
	return Event{
		ID:     uuid.New().String(),
		Op:     op,
		Type:   id.String(),
		Name:   name,
		Source: source,
		At:     time.Now(),
	}
}

// Sink receives locator events.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) { f(e) }

// Sinks fans one event out to several sinks in order.
type Sinks []Sink

// Emit delivers e to every sink.
func (s Sinks) Emit(e Event) {
	for _, sink := range s {
		sink.Emit(e)
	}
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})
