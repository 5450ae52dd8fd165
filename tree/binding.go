package tree

import (
	"sync"

	"go.uber.org/zap"

	"github.com/arborui/locator/events"
	"github.com/arborui/locator/kind"
	"github.com/arborui/locator/lazy"
	"github.com/arborui/locator/observe"
)

// Location selects where a binding is published at bind time.
type Location int

const (
	// LocationTree publishes to descendants of the node only.
	LocationTree Location = iota
	// LocationRegistry additionally inserts the binding into the backing
	// registry at bind time.
	LocationRegistry
)

// String returns the location name.
func (l Location) String() string {
	if l == LocationRegistry {
		return "registry"
	}
	return "tree"
}

// State tracks a binding through its lifecycle.
type State int

const (
	// StateBound: attached to a node, tree-visible.
	StateBound State = iota
	// StatePromoted: additionally visible through the registry.
	StatePromoted
	// StateTornDown: terminal; reached exactly once, on unmount.
	StateTornDown
)

// Dependent is a position that wants re-evaluation when a reactively
// resolved value changes. The engine delivers the signal; scheduling the
// re-evaluation is the host's job. Implement on a pointer receiver —
// identity of the dependent de-duplicates repeated subscriptions.
type Dependent interface {
	Invalidate()
}

// Binding ties one cell to one node position.
type Binding struct {
	scope  *Scope
	node   *Node
	typeID kind.ID
	name   string
	cell   *lazy.Cell

	location Location
	dispose  bool

	mu           sync.Mutex
	state        State
	promotedName string
	listeners    map[Dependent]observe.Listener
	subs         *observe.SubscriptionManager
}

// Type returns the bound type identity.
func (b *Binding) Type() kind.ID { return b.typeID }

// Location returns the placement requested at bind time.
func (b *Binding) Location() Location { return b.location }

// State returns the binding's lifecycle state.
func (b *Binding) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Promoted reports whether the binding currently has a promoted registry
// entry.
func (b *Binding) Promoted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == StatePromoted
}

// Resolved reports whether the underlying cell has materialized.
func (b *Binding) Resolved() bool { return b.cell.Resolved() }

// addDependent subscribes dep to the bound value's change signal.
// Re-subscribing the same dependent is a no-op.
func (b *Binding) addDependent(dep Dependent, obs observe.Observable) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateTornDown {
		return
	}
	if _, ok := b.listeners[dep]; ok {
		return
	}
	l := observe.NewListener(func() {
		dep.Invalidate()
		b.scope.sink.Emit(events.New(events.OpNotified, b.typeID, b.name, events.SourceTree))
	})
	b.listeners[dep] = l
	b.subs.Subscribe(obs, l)
}

// teardown runs the unmount rule: drop registry visibility without
// disposing there, release reactive subscriptions, then dispose the cell
// iff the dispose flag was set at bind time. Terminal; later calls no-op.
func (b *Binding) teardown() {
	b.mu.Lock()
	if b.state == StateTornDown {
		b.mu.Unlock()
		return
	}
	promoted := b.state == StatePromoted
	promotedName := b.promotedName
	b.state = StateTornDown
	b.listeners = nil
	b.mu.Unlock()

	// Registry entries share the cell, so removal must not dispose it;
	// disposal is owned by this teardown path alone.
	if b.location == LocationRegistry {
		if err := b.scope.reg.Unregister(b.typeID, b.name, false); err != nil {
			b.scope.log.Warn("teardown: registry entry missing",
				zap.Stringer("type", b.typeID), zap.String("name", b.name))
		}
	}
	if promoted {
		if err := b.scope.reg.Unregister(b.typeID, promotedName, false); err != nil {
			b.scope.log.Warn("teardown: promoted entry missing",
				zap.Stringer("type", b.typeID), zap.String("name", promotedName))
		}
	}

	b.subs.UnsubscribeAll()

	if b.dispose {
		b.cell.Dispose()
	}

	b.scope.sink.Emit(events.New(events.OpUnbound, b.typeID, b.name, events.SourceTree))
}
