// Package lazy provides Cell, the deferred-construction holder behind every
// registry entry and tree binding.
//
// A cell holds either a zero-argument factory or an eagerly supplied
// instance — exactly one of the two. The factory runs at most once, on
// first Resolve; a one-time init hook can run against the fresh instance
// before the first Resolve returns. Dispose tears the instance down if it
// was ever materialized and supports disposal.
package lazy

import (
	"sync"

	"github.com/arborui/locator/faults"
	"github.com/arborui/locator/observe"
)

// Factory builds the cell's instance on first resolution.
type Factory func() any

// InitHook runs once against the freshly built instance.
type InitHook func(any)

// Cell holds one lazily constructed object.
type Cell struct {
	mu       sync.Mutex
	factory  Factory
	instance any
	init     InitHook
	resolved bool
	disposed bool
}

// Option configures a cell at construction.
type Option func(*Cell)

// WithInit sets a hook that runs exactly once, after the factory builds the
// instance and before the first Resolve returns. For an eager cell the hook
// runs immediately at construction.
func WithInit(hook InitHook) Option {
	return func(c *Cell) {
		c.init = hook
	}
}

// New creates a cell from exactly one source. Supplying both a factory and
// an instance, or neither, is a ConfigurationError.
func New(factory Factory, instance any, opts ...Option) (*Cell, error) {
	if factory != nil && instance != nil {
		return nil, faults.NewConfiguration("cell: factory and instance are mutually exclusive")
	}
	if factory == nil && instance == nil {
		return nil, faults.NewConfiguration("cell: either a factory or an instance is required")
	}

	c := &Cell{factory: factory}
	for _, opt := range opts {
		opt(c)
	}

	if instance != nil {
		c.instance = instance
		c.resolved = true
		if c.init != nil {
			c.init(instance)
		}
	}
	return c, nil
}

// NewFactory creates a lazy cell from a factory.
func NewFactory(factory Factory, opts ...Option) (*Cell, error) {
	if factory == nil {
		return nil, faults.NewConfiguration("cell: factory is nil")
	}
	return New(factory, nil, opts...)
}

// NewInstance creates an eager cell around a pre-built value.
func NewInstance(instance any, opts ...Option) (*Cell, error) {
	if instance == nil {
		return nil, faults.NewConfiguration("cell: instance is nil")
	}
	return New(nil, instance, opts...)
}

// Resolve returns the instance, building it on first call. The factory and
// the init hook each run at most once for the lifetime of the cell; later
// calls return the cached instance.
func (c *Cell) Resolve() any {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.resolved {
		c.instance = c.factory()
		c.resolved = true
		if c.init != nil {
			c.init(c.instance)
		}
	}
	return c.instance
}

// Resolved reports whether the instance has been materialized.
func (c *Cell) Resolved() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved
}

// Peek returns the instance without materializing. The second result is
// false when the cell has not resolved yet.
func (c *Cell) Peek() (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instance, c.resolved
}

// Dispose tears the instance down when it was materialized and satisfies
// observe.Disposable. A never-resolved cell disposes as a no-op — the
// factory is not forced just to destroy its result. Idempotent.
func (c *Cell) Dispose() {
	c.mu.Lock()
	if c.disposed || !c.resolved {
		c.disposed = true
		c.mu.Unlock()
		return
	}
	c.disposed = true
	instance := c.instance
	c.mu.Unlock()

	if d, ok := instance.(observe.Disposable); ok {
		d.Dispose()
	}
}
