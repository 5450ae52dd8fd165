package tree

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arborui/locator/faults"
	"github.com/arborui/locator/kind"
	"github.com/arborui/locator/lazy"
)

// GroupSpec declares one member of a batch binding group.
type GroupSpec struct {
	Type     kind.ID
	Name     string
	Factory  lazy.Factory
	Instance any
	Dispose  bool
}

// Group is a batch of binding declarations registered and unregistered as a
// set when their owning node mounts and unmounts. The idempotency key
// protects repeated mounts of the same group: a key the scope has already
// processed is skipped.
type Group struct {
	key   string
	specs []GroupSpec
}

// NewGroup creates a group under the caller's idempotency key. An empty key
// gets a generated one, which disables cross-mount de-duplication since no
// later mount can present the same key.
func NewGroup(key string, specs ...GroupSpec) *Group {
	if key == "" {
		key = uuid.New().String()
	}
	return &Group{key: key, specs: specs}
}

// Key returns the group's idempotency key.
func (g *Group) Key() string { return g.key }

// Mount binds every member at node with registry placement, as one set:
// every key is validated before anything is inserted, so a duplicate
// anywhere aborts the whole mount with no partial state. A key the scope
// already processed is a logged no-op.
func (g *Group) Mount(s *Scope, node *Node) error {
	s.mu.Lock()
	if _, mounted := s.groups[g.key]; mounted {
		s.mu.Unlock()
		s.log.Debug("group already mounted", zap.String("key", g.key))
		return nil
	}
	s.mu.Unlock()

	if err := g.validate(s, node); err != nil {
		return err
	}

	specs := make([]BindingSpec, 0, len(g.specs))
	for _, m := range g.specs {
		specs = append(specs, BindingSpec{
			Type:     m.Type,
			Name:     m.Name,
			Factory:  m.Factory,
			Instance: m.Instance,
			Location: LocationRegistry,
			Dispose:  m.Dispose,
		})
	}
	if err := s.OnMount(node, specs...); err != nil {
		return err
	}

	s.mu.Lock()
	s.groups[g.key] = node
	s.mu.Unlock()
	return nil
}

// Unmount unwinds the group's bindings on node and releases the
// idempotency key so the group may mount again. A group that never
// mounted on node is a no-op: same-typed bindings placed there by other
// means are not the group's to tear down.
func (g *Group) Unmount(s *Scope, node *Node) {
	s.mu.Lock()
	mounted, ok := s.groups[g.key]
	if !ok || mounted != node {
		s.mu.Unlock()
		return
	}
	delete(s.groups, g.key)
	s.mu.Unlock()

	for _, m := range g.specs {
		if b := node.detach(m.Type); b != nil {
			b.teardown()
		}
	}
}

// validate checks every member key against the node and the registry
// before any insertion happens.
func (g *Group) validate(s *Scope, node *Node) error {
	seen := make(map[kind.ID]bool, len(g.specs))
	for _, m := range g.specs {
		if m.Type.IsZero() {
			return faults.NewConfiguration("group %s: member type identity is required", g.key)
		}
		if (m.Factory == nil) == (m.Instance == nil) {
			return faults.NewConfiguration("group %s: member %s needs exactly one of factory or instance", g.key, m.Type)
		}
		if seen[m.Type] || node.binding(m.Type) != nil {
			return &faults.AlreadyRegisteredError{Type: m.Type, Name: m.Name, Location: faults.LocationTree}
		}
		if s.reg.IsRegistered(m.Type, m.Name) {
			return &faults.AlreadyRegisteredError{Type: m.Type, Name: m.Name, Location: faults.LocationRegistry}
		}
		seen[m.Type] = true
	}
	return nil
}
