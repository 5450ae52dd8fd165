package tree

import (
	"sync"

	"github.com/google/uuid"

	"github.com/arborui/locator/kind"
)

// Node is a position in the host's hierarchy. The host creates one per
// mounted element that declares bindings and calls Unmount when the element
// leaves the tree. Nodes only know their parent; descending is the host's
// business.
type Node struct {
	id     string
	parent *Node

	mu        sync.Mutex
	bindings  map[kind.ID]*Binding
	unmounted bool
}

// NewRoot creates a parentless node.
func NewRoot() *Node {
	return &Node{
		id:       uuid.New().String(),
		bindings: make(map[kind.ID]*Binding),
	}
}

// NewChild creates a node positioned under n.
func (n *Node) NewChild() *Node {
	return &Node{
		id:       uuid.New().String(),
		parent:   n,
		bindings: make(map[kind.ID]*Binding),
	}
}

// ID returns the node's generated identifier, for diagnostics.
func (n *Node) ID() string { return n.id }

// Parent returns the node above n, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Unmount tears down every binding on the node and marks it dead. Further
// binds fail; the node no longer answers resolution walks. Unmounting
// descendants first is the host's responsibility.
func (n *Node) Unmount() {
	n.mu.Lock()
	if n.unmounted {
		n.mu.Unlock()
		return
	}
	n.unmounted = true
	torn := make([]*Binding, 0, len(n.bindings))
	for _, b := range n.bindings {
		torn = append(torn, b)
	}
	n.bindings = make(map[kind.ID]*Binding)
	n.mu.Unlock()

	for _, b := range torn {
		b.teardown()
	}
}

// Unmounted reports whether the node has left the tree.
func (n *Node) Unmounted() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.unmounted
}

// binding returns the live binding for id on this node, or nil.
func (n *Node) binding(id kind.ID) *Binding {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bindings[id]
}

// attach inserts b under its type, failing on duplicates or a dead node.
// ok=false means unmounted; dup=true means the type is already bound here.
func (n *Node) attach(b *Binding) (ok, dup bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.unmounted {
		return false, false
	}
	if _, taken := n.bindings[b.typeID]; taken {
		return false, true
	}
	n.bindings[b.typeID] = b
	return true, false
}

// detach removes the binding for id without tearing it down.
func (n *Node) detach(id kind.ID) *Binding {
	n.mu.Lock()
	defer n.mu.Unlock()

	b := n.bindings[id]
	delete(n.bindings, id)
	return b
}
