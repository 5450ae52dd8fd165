package registry

import (
	"testing"

	"github.com/arborui/locator/events"
	"github.com/arborui/locator/faults"
	"github.com/arborui/locator/kind"
	"github.com/arborui/locator/observe"
)

type clock struct {
	ticks int
}

type database struct {
	closed int
}

func (d *database) Dispose() { d.closed++ }

type store interface{ Kind() string }

type memStore struct{}

func (m *memStore) Kind() string { return "memory" }

func TestRegisterThenIsRegistered(t *testing.T) {
	r := New()

	if err := Register(r, func() *clock { return &clock{} }); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !IsRegistered[*clock](r) {
		t.Error("entry should be registered")
	}

	if err := Unregister[*clock](r); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	if IsRegistered[*clock](r) {
		t.Error("entry should be gone after unregister")
	}
}

func TestDuplicateRegistrationFailsFast(t *testing.T) {
	r := New()
	first := &clock{ticks: 1}

	if err := RegisterInstance(r, first); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	err := RegisterInstance(r, &clock{ticks: 2})
	if !faults.IsAlreadyRegistered(err) {
		t.Fatalf("duplicate should fail with AlreadyRegisteredError, got %v", err)
	}

	// The first registration's value is unaffected.
	got, err := Get[*clock](r)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != first {
		t.Error("duplicate registration must not overwrite")
	}
}

func TestFactoryInvokedAtMostOnce(t *testing.T) {
	r := New()
	calls := 0
	Register(r, func() *clock {
		calls++
		return &clock{}
	})

	a, _ := Get[*clock](r)
	b, _ := Get[*clock](r)

	if calls != 1 {
		t.Errorf("factory should run once, ran %d times", calls)
	}
	if a != b {
		t.Error("Get should return the same instance")
	}
}

func TestGetAfterUnregister(t *testing.T) {
	r := New()
	RegisterInstance(r, &clock{})
	Unregister[*clock](r)

	_, err := Get[*clock](r)
	if !faults.IsNotRegistered(err) {
		t.Errorf("expected NotRegisteredError, got %v", err)
	}
}

func TestUnregisterAbsentKey(t *testing.T) {
	r := New()
	err := Unregister[*clock](r)
	if !faults.IsNotRegistered(err) {
		t.Errorf("expected NotRegisteredError, got %v", err)
	}
}

func TestDisposeFlag(t *testing.T) {
	r := New()
	db := &database{}
	RegisterInstanceNamed(r, "main", db)

	if err := UnregisterNamed[*database](r, "main", true); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	if db.closed != 1 {
		t.Errorf("dispose=true should dispose exactly once, got %d", db.closed)
	}

	kept := &database{}
	RegisterInstanceNamed(r, "kept", kept)
	UnregisterNamed[*database](r, "kept", false)
	if kept.closed != 0 {
		t.Error("dispose=false must never dispose")
	}
}

func TestUnregisterNeverForcesFactory(t *testing.T) {
	r := New()
	calls := 0
	Register(r, func() *database {
		calls++
		return &database{}
	})

	if err := Unregister[*database](r); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}
	if calls != 0 {
		t.Error("unregistering an unresolved entry must not run the factory")
	}
}

func TestIsRegisteredNeverMaterializes(t *testing.T) {
	r := New()
	Register(r, func() *clock {
		t.Fatal("IsRegistered must not run the factory")
		return nil
	})

	IsRegistered[*clock](r)
}

func TestNamedEntriesShareAType(t *testing.T) {
	r := New()
	RegisterInstanceNamed(r, "wall", &clock{ticks: 1})
	RegisterInstanceNamed(r, "cpu", &clock{ticks: 2})

	wall, err := GetNamed[*clock](r, "wall")
	if err != nil {
		t.Fatalf("GetNamed failed: %v", err)
	}
	if wall.ticks != 1 {
		t.Error("wrong entry resolved for name")
	}

	names := r.Names(kind.Of[*clock]())
	if len(names) != 2 || names[0] != "cpu" || names[1] != "wall" {
		t.Errorf("expected sorted names [cpu wall], got %v", names)
	}
}

func TestGetSelectFilter(t *testing.T) {
	r := New()
	RegisterInstanceNamed(r, "primary", &clock{ticks: 1})
	RegisterInstanceNamed(r, "replica", &clock{ticks: 2})

	got, err := GetSelect[*clock](r, func(names []string) string {
		for _, n := range names {
			if n == "replica" {
				return n
			}
		}
		return names[0]
	})
	if err != nil {
		t.Fatalf("GetSelect failed: %v", err)
	}
	if got.ticks != 2 {
		t.Error("filter should have selected the replica")
	}

	_, err = GetSelect[*database](r, func(names []string) string { return names[0] })
	if !faults.IsNotRegistered(err) {
		t.Errorf("filter over an empty type should fail NotRegistered, got %v", err)
	}
}

func TestRegisterRuntimeIdentity(t *testing.T) {
	r := New()

	// Registration through a supertype-typed reference keys off the
	// dynamic type, not the interface.
	var s store = &memStore{}
	if err := r.RegisterRuntime(s, ""); err != nil {
		t.Fatalf("RegisterRuntime failed: %v", err)
	}

	if !IsRegistered[*memStore](r) {
		t.Error("entry should be keyed by the concrete type")
	}
	if IsRegistered[store](r) {
		t.Error("entry should not be keyed by the interface type")
	}

	if err := r.RegisterRuntime(nil, ""); err == nil {
		t.Error("nil value should be rejected")
	}
}

func TestBucketPruning(t *testing.T) {
	r := New()
	RegisterInstanceNamed(r, "only", &clock{})
	UnregisterNamed[*clock](r, "only", false)

	if len(r.Names(kind.Of[*clock]())) != 0 {
		t.Error("emptied bucket should be pruned")
	}
	if r.Len() != 0 {
		t.Errorf("registry should be empty, has %d entries", r.Len())
	}
}

func TestReset(t *testing.T) {
	r := New()
	db := &database{}
	RegisterInstance(r, db)

	r.Reset()

	if r.Len() != 0 {
		t.Error("Reset should drop every entry")
	}
	if db.closed != 0 {
		t.Error("Reset must not dispose")
	}
}

func TestSnapshot(t *testing.T) {
	r := New()
	Register(r, func() *clock { return &clock{} })
	RegisterInstanceNamed(r, "main", &database{})

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap))
	}
	for _, e := range snap {
		if e.Name == "main" && !e.Materialized {
			t.Error("eager entry should report materialized")
		}
		if e.Name == "" && e.Materialized {
			t.Error("lazy entry should not report materialized before Get")
		}
	}
}

func TestEventsEmitted(t *testing.T) {
	var ops []events.Op
	r := New(WithSink(events.SinkFunc(func(e events.Event) {
		ops = append(ops, e.Op)
	})))

	RegisterInstance(r, &clock{})
	Get[*clock](r)
	Unregister[*clock](r)

	want := []events.Op{events.OpRegistered, events.OpResolved, events.OpUnregistered}
	if len(ops) != len(want) {
		t.Fatalf("expected %v, got %v", want, ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ops)
		}
	}
}

// counter is the observable model from the acceptance scenario.
type counter struct {
	observe.Notifier
	value int
}

func (c *counter) increment() {
	c.value++
	c.Notify()
}

func TestCounterScenario(t *testing.T) {
	r := New()
	if err := RegisterInstance(r, &counter{}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	first, err := Get[*counter](r)
	if err != nil {
		t.Fatalf("first get failed: %v", err)
	}
	second, err := Get[*counter](r)
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if first != second {
		t.Fatal("both gets should return the identical instance")
	}

	subs := observe.NewSubscriptionManager()
	fired := 0
	subs.Subscribe(first, observe.NewListener(func() { fired++ }))

	second.increment()

	if fired != 1 {
		t.Errorf("subscribed listener should fire exactly once, fired %d", fired)
	}
	if first.value != 1 {
		t.Errorf("mutation should be visible through the shared instance, got %d", first.value)
	}
}
