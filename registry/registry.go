// Package registry implements the process-wide half of the locator: a
// keyed store of lazily constructed objects.
//
// Entries are keyed by (kind.ID, name); the empty name is the unnamed slot
// for a type. Registration is fail-fast — a duplicate key errors and never
// overwrites. Lookup materializes the entry's cell on first access.
//
// Key Components:
//   - Registry: the keyed store (register / unregister / get / contains)
//   - Generic front: Register[T], Get[T], and friends for typed call sites
//   - Default(): the designated process-wide instance
//
// Example Usage:
//
//	reg := registry.New()
//	if err := registry.Register(reg, func() *Clock { return NewClock() }); err != nil {
//	    return err
//	}
//	clock, err := registry.Get[*Clock](reg)
package registry

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/arborui/locator/events"
	"github.com/arborui/locator/faults"
	"github.com/arborui/locator/kind"
	"github.com/arborui/locator/lazy"
	"github.com/arborui/locator/logging"
)

// Registry is the process-wide (type, name) → cell mapping. Create one with
// New and pass it by reference; Default() exists for hosts that want the
// classic global entry point.
type Registry struct {
	mu      sync.RWMutex
	buckets map[kind.ID]map[string]*lazy.Cell
	log     *logging.Logger
	sink    events.Sink
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithLogger attaches a structured logger. The default logger is a no-op.
func WithLogger(log *logging.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithSink attaches an event sink for metrics or inspection.
func WithSink(sink events.Sink) Option {
	return func(r *Registry) {
		if sink != nil {
			r.sink = sink
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		buckets: make(map[kind.ID]map[string]*lazy.Cell),
		log:     logging.NewNop(),
		sink:    events.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetSink replaces the event sink. Useful when the sink's consumer (such
// as the inspection server) is constructed after the registry it observes.
func (r *Registry) SetSink(sink events.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sink == nil {
		sink = events.Discard
	}
	r.sink = sink
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry. It is the only implicit
// shared instance in the package; everything else takes a *Registry.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// RegisterFactory inserts a lazy entry under (id, name). Fails with
// AlreadyRegisteredError when the key is taken; the existing entry is
// never touched.
func (r *Registry) RegisterFactory(id kind.ID, name string, factory lazy.Factory, opts ...lazy.Option) error {
	cell, err := lazy.NewFactory(factory, opts...)
	if err != nil {
		return err
	}
	return r.insert(id, name, cell)
}

// RegisterValue inserts an eager entry around a pre-built instance.
func (r *Registry) RegisterValue(id kind.ID, name string, instance any, opts ...lazy.Option) error {
	cell, err := lazy.NewInstance(instance, opts...)
	if err != nil {
		return err
	}
	return r.insert(id, name, cell)
}

// RegisterRuntime inserts an eager entry keyed by the dynamic type of
// instance rather than a statically declared one. Needed when the caller
// holds the value through a supertype-typed reference.
func (r *Registry) RegisterRuntime(instance any, name string, opts ...lazy.Option) error {
	id, err := kind.OfValue(instance)
	if err != nil {
		return faults.NewConfiguration("register: %v", err)
	}
	return r.RegisterValue(id, name, instance, opts...)
}

// RegisterCell inserts an existing cell under (id, name). The tree scope
// uses this to share a binding's cell during promotion.
func (r *Registry) RegisterCell(id kind.ID, name string, cell *lazy.Cell) error {
	if cell == nil {
		return faults.NewConfiguration("register: cell is nil")
	}
	return r.insert(id, name, cell)
}

func (r *Registry) insert(id kind.ID, name string, cell *lazy.Cell) error {
	if id.IsZero() {
		return faults.NewConfiguration("register: type identity is required")
	}

	r.mu.Lock()
	bucket, ok := r.buckets[id]
	if !ok {
		bucket = make(map[string]*lazy.Cell)
		r.buckets[id] = bucket
	}
	if _, taken := bucket[name]; taken {
		r.mu.Unlock()
		return &faults.AlreadyRegisteredError{Type: id, Name: name, Location: faults.LocationRegistry}
	}
	bucket[name] = cell
	r.mu.Unlock()

	r.log.Debug("registered", zap.Stringer("type", id), zap.String("name", name))
	r.sink.Emit(events.New(events.OpRegistered, id, name, events.SourceRegistry))
	return nil
}

// Unregister removes the entry under (id, name). Fails with
// NotRegisteredError when absent. With dispose set, the entry's cell is
// disposed after removal. An emptied type bucket is pruned.
func (r *Registry) Unregister(id kind.ID, name string, dispose bool) error {
	r.mu.Lock()
	bucket, ok := r.buckets[id]
	if !ok {
		r.mu.Unlock()
		return &faults.NotRegisteredError{Type: id, Name: name, Location: faults.LocationRegistry}
	}
	cell, ok := bucket[name]
	if !ok {
		r.mu.Unlock()
		return &faults.NotRegisteredError{Type: id, Name: name, Location: faults.LocationRegistry}
	}
	delete(bucket, name)
	if len(bucket) == 0 {
		delete(r.buckets, id)
	}
	r.mu.Unlock()

	if dispose {
		cell.Dispose()
	}

	r.log.Debug("unregistered", zap.Stringer("type", id), zap.String("name", name), zap.Bool("disposed", dispose))
	r.sink.Emit(events.New(events.OpUnregistered, id, name, events.SourceRegistry))
	return nil
}

// GetRaw resolves the entry under (id, name), materializing it on first
// access. Fails with NotRegisteredError when absent.
func (r *Registry) GetRaw(id kind.ID, name string) (any, error) {
	r.mu.RLock()
	cell, ok := r.buckets[id][name]
	r.mu.RUnlock()

	if !ok {
		return nil, &faults.NotRegisteredError{Type: id, Name: name, Location: faults.LocationRegistry}
	}

	instance := cell.Resolve()
	r.sink.Emit(events.New(events.OpResolved, id, name, events.SourceRegistry))
	return instance, nil
}

// GetSelect resolves an entry of type id whose name is chosen by filter.
// The filter receives every registered name under id, sorted, and returns
// the one to use — the seam for first-match or pattern policies. A filter
// result that names no entry fails with NotRegisteredError.
func (r *Registry) GetSelect(id kind.ID, filter func(names []string) string) (any, error) {
	if filter == nil {
		return nil, faults.NewConfiguration("get: filter is nil")
	}
	names := r.Names(id)
	if len(names) == 0 {
		return nil, &faults.NotRegisteredError{Type: id, Location: faults.LocationRegistry}
	}
	return r.GetRaw(id, filter(names))
}

// IsRegistered reports whether (id, name) is present. Pure query; never
// materializes.
func (r *Registry) IsRegistered(id kind.ID, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.buckets[id][name]
	return ok
}

// Names returns the sorted names registered under id. The unnamed slot
// appears as the empty string.
func (r *Registry) Names(id kind.ID) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.buckets[id]
	names := make([]string, 0, len(bucket))
	for name := range bucket {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, bucket := range r.buckets {
		n += len(bucket)
	}
	return n
}

// Entry describes one registration for introspection.
type Entry struct {
	Type         string `json:"type"`
	Name         string `json:"name,omitempty"`
	Materialized bool   `json:"materialized"`
}

// Snapshot returns a stable-ordered view of every entry. Never
// materializes; intended for the inspection surface.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, 16)
	for id, bucket := range r.buckets {
		for name, cell := range bucket {
			out = append(out, Entry{
				Type:         id.String(),
				Name:         name,
				Materialized: cell.Resolved(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Reset drops every entry without disposal. Test hygiene between cases.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets = make(map[kind.ID]map[string]*lazy.Cell)
}
