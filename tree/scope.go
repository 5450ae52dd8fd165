package tree

import (
	"sync"

	"go.uber.org/zap"

	"github.com/arborui/locator/events"
	"github.com/arborui/locator/faults"
	"github.com/arborui/locator/kind"
	"github.com/arborui/locator/lazy"
	"github.com/arborui/locator/logging"
	"github.com/arborui/locator/observe"
	"github.com/arborui/locator/registry"
)

// Scope performs tree-scoped resolution over a backing registry. One scope
// serves one tree; the registry reference is how promoted bindings become
// globally visible.
type Scope struct {
	reg  *registry.Registry
	log  *logging.Logger
	sink events.Sink

	mu     sync.Mutex
	groups map[string]*Node // mounted group keys to their node
}

// ScopeOption configures a Scope at construction.
type ScopeOption func(*Scope)

// WithLogger attaches a structured logger. The default logger is a no-op.
func WithLogger(log *logging.Logger) ScopeOption {
	return func(s *Scope) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSink attaches an event sink for metrics or inspection.
func WithSink(sink events.Sink) ScopeOption {
	return func(s *Scope) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// NewScope creates a scope over reg.
func NewScope(reg *registry.Registry, opts ...ScopeOption) *Scope {
	s := &Scope{
		reg:    reg,
		log:    logging.NewNop(),
		sink:   events.Discard,
		groups: make(map[string]*Node),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the backing registry.
func (s *Scope) Registry() *registry.Registry { return s.reg }

// SetSink replaces the event sink. Useful when the sink's consumer is
// constructed after the scope it observes.
func (s *Scope) SetSink(sink events.Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sink == nil {
		sink = events.Discard
	}
	s.sink = sink
}

// BindingSpec declares one binding for a node.
type BindingSpec struct {
	// Type is the identity descendants resolve by. Required.
	Type kind.ID
	// Name keys the registry entry when Location is LocationRegistry.
	// Ignored for tree-only bindings, which are resolved by type alone.
	Name string
	// Factory and Instance are mutually exclusive; exactly one is required.
	Factory  lazy.Factory
	Instance any
	// Init runs once against the materialized instance.
	Init lazy.InitHook
	// Location selects tree-only or tree+registry placement.
	Location Location
	// Dispose marks the instance for disposal when the node unmounts.
	Dispose bool
}

// Bind attaches a new binding at node per spec. With LocationRegistry the
// same cell is also inserted into the backing registry, so both paths
// resolve one shared instance. A second binding of the same type on one
// node fails with AlreadyRegisteredError.
func (s *Scope) Bind(node *Node, spec BindingSpec) (*Binding, error) {
	if node == nil {
		return nil, faults.NewConfiguration("bind: node is nil")
	}
	if spec.Type.IsZero() {
		return nil, faults.NewConfiguration("bind: type identity is required")
	}

	var cellOpts []lazy.Option
	if spec.Init != nil {
		cellOpts = append(cellOpts, lazy.WithInit(spec.Init))
	}
	cell, err := lazy.New(spec.Factory, spec.Instance, cellOpts...)
	if err != nil {
		return nil, err
	}

	b := &Binding{
		scope:     s,
		node:      node,
		typeID:    spec.Type,
		name:      spec.Name,
		cell:      cell,
		location:  spec.Location,
		dispose:   spec.Dispose,
		state:     StateBound,
		listeners: make(map[Dependent]observe.Listener),
		subs:      observe.NewSubscriptionManager(),
	}

	ok, dup := node.attach(b)
	if dup {
		return nil, &faults.AlreadyRegisteredError{Type: spec.Type, Name: spec.Name, Location: faults.LocationTree}
	}
	if !ok {
		return nil, faults.NewConfiguration("bind: node %s is unmounted", node.ID())
	}

	if spec.Location == LocationRegistry {
		if err := s.reg.RegisterCell(spec.Type, spec.Name, cell); err != nil {
			node.detach(spec.Type)
			return nil, err
		}
	}

	s.log.Debug("bound",
		zap.Stringer("type", spec.Type),
		zap.String("node", node.ID()),
		zap.Stringer("location", spec.Location),
	)
	s.sink.Emit(events.New(events.OpBound, spec.Type, spec.Name, events.SourceTree))
	return b, nil
}

// lookup walks from position toward the root and returns the nearest
// binding of id.
func (s *Scope) lookup(from *Node, id kind.ID) *Binding {
	for n := from; n != nil; n = n.parent {
		if b := n.binding(id); b != nil {
			return b
		}
	}
	return nil
}

// ResolveNonReactive walks from position toward the root and resolves the
// nearest binding of id. No re-evaluation dependency is established:
// callers that want fresh values re-invoke explicitly. Fails with
// NotFoundError past the root.
func (s *Scope) ResolveNonReactive(from *Node, id kind.ID) (any, error) {
	b := s.lookup(from, id)
	if b == nil {
		return nil, &faults.NotFoundError{Type: id, Location: faults.LocationTree}
	}
	instance := b.cell.Resolve()
	s.sink.Emit(events.New(events.OpResolved, id, b.name, events.SourceTree))
	return instance, nil
}

// ResolveReactive is the same walk, but additionally subscribes dep to the
// resolved value's change signal so the host can re-evaluate the calling
// position when the value announces a change.
//
// The observable capability is required of the first (nearest) match only;
// farther ancestors are never consulted once a match is found. A
// non-observable match fails with CapabilityError.
func (s *Scope) ResolveReactive(from *Node, id kind.ID, dep Dependent) (any, error) {
	if dep == nil {
		return nil, faults.NewConfiguration("resolve: dependent is nil")
	}
	b := s.lookup(from, id)
	if b == nil {
		return nil, &faults.NotFoundError{Type: id, Location: faults.LocationTree}
	}

	instance := b.cell.Resolve()
	obs, ok := observe.AsObservable(instance)
	if !ok {
		return nil, &faults.CapabilityError{Type: id, Capability: "observable"}
	}

	b.addDependent(dep, obs)
	s.sink.Emit(events.New(events.OpResolved, id, b.name, events.SourceTree))
	return instance, nil
}

// Promote makes the node's binding of id additionally visible through the
// registry under (id, name). The cell resolves first — promotion never
// publishes an unmaterialized entry — and the registry entry shares the
// binding's cell. Fails with NotFoundError when the binding is absent and
// AlreadyRegisteredError when the registry key is taken; a failed
// promotion leaves the binding unpromoted.
func (s *Scope) Promote(node *Node, id kind.ID, name string) error {
	b := node.binding(id)
	if b == nil {
		return &faults.NotFoundError{Type: id, Location: faults.LocationTree}
	}

	b.mu.Lock()
	if b.state != StateBound {
		state := b.state
		b.mu.Unlock()
		if state == StatePromoted {
			return &faults.AlreadyRegisteredError{Type: id, Name: b.promotedName, Location: faults.LocationRegistry}
		}
		return &faults.NotFoundError{Type: id, Location: faults.LocationTree}
	}
	b.mu.Unlock()

	b.cell.Resolve()

	if err := s.reg.RegisterCell(id, name, b.cell); err != nil {
		return err
	}

	b.mu.Lock()
	b.state = StatePromoted
	b.promotedName = name
	b.mu.Unlock()

	s.log.Debug("promoted", zap.Stringer("type", id), zap.String("name", name))
	s.sink.Emit(events.New(events.OpPromoted, id, name, events.SourceTree))
	return nil
}

// Demote reverses a promotion: the registry entry under (id, name) is
// removed without disposal — the node still owns the instance and will
// dispose it on unmount. The tree binding itself is untouched and remains
// resolvable. Fails with NotFoundError when the binding is absent and
// NotRegisteredError when it is not currently promoted under name.
func (s *Scope) Demote(node *Node, id kind.ID, name string) error {
	b := node.binding(id)
	if b == nil {
		return &faults.NotFoundError{Type: id, Location: faults.LocationTree}
	}

	b.mu.Lock()
	if b.state != StatePromoted || b.promotedName != name {
		b.mu.Unlock()
		return &faults.NotRegisteredError{Type: id, Name: name, Location: faults.LocationRegistry}
	}
	b.mu.Unlock()

	if err := s.reg.Unregister(id, name, false); err != nil {
		return err
	}

	b.mu.Lock()
	b.state = StateBound
	b.promotedName = ""
	b.mu.Unlock()

	s.log.Debug("demoted", zap.Stringer("type", id), zap.String("name", name))
	s.sink.Emit(events.New(events.OpDemoted, id, name, events.SourceTree))
	return nil
}

// OnMount is the host lifecycle adapter: bind every spec at node, unwinding
// all of them if any bind fails so a failed mount leaves no partial state.
func (s *Scope) OnMount(node *Node, specs ...BindingSpec) error {
	bound := make([]kind.ID, 0, len(specs))
	for _, spec := range specs {
		if _, err := s.Bind(node, spec); err != nil {
			for _, id := range bound {
				if b := node.detach(id); b != nil {
					b.teardown()
				}
			}
			return err
		}
		bound = append(bound, spec.Type)
	}
	return nil
}

// OnUnmount is the host lifecycle adapter for node removal.
func (s *Scope) OnUnmount(node *Node) {
	node.Unmount()
}
