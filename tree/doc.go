// Package tree implements the scoped half of the locator: objects published
// at positions in a hierarchical tree, visible to descendants by upward
// walk.
//
// Key Components:
//   - Node: a position in the host's hierarchy, owner of its bindings
//   - Scope: bind / resolve / promote / demote over a backing registry
//   - Group: batch binding declarations with idempotency keys
//
// A binding moves through Bound → (Promoted ⇄ Bound) → TornDown. Promotion
// makes a tree binding additionally visible through the registry; teardown
// on unmount removes any registry visibility and optionally disposes the
// instance.
//
// Example Usage:
//
//	scope := tree.NewScope(reg)
//	root := tree.NewRoot()
//	panel := root.NewChild()
//
//	_, err := scope.Bind(panel, tree.BindingSpec{
//	    Type:    kind.Of[*Model](),
//	    Factory: func() any { return NewModel() },
//	    Dispose: true,
//	})
//
//	leaf := panel.NewChild()
//	m, err := scope.ResolveNonReactive(leaf, kind.Of[*Model]())
package tree
