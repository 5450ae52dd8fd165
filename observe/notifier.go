package observe

import "sync"

// Notifier is a concrete Observable for values that want to announce state
// changes. Embed it and call Notify after each mutation.
//
//	type Counter struct {
//	    observe.Notifier
//	    n int
//	}
//
//	func (c *Counter) Increment() {
//	    c.n++
//	    c.Notify()
//	}
type Notifier struct {
	mu        sync.Mutex
	listeners []Listener
	disposed  bool
}

// AddListener attaches l in subscription order. Returns false when l is
// already attached or the notifier is disposed.
func (n *Notifier) AddListener(l Listener) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.disposed {
		return false
	}
	for _, existing := range n.listeners {
		if existing == l {
			return false
		}
	}
	n.listeners = append(n.listeners, l)
	return true
}

// RemoveListener detaches l. Absent listeners are ignored.
func (n *Notifier) RemoveListener(l Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, existing := range n.listeners {
		if existing == l {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			return
		}
	}
}

// Notify delivers a change signal to every listener synchronously, in
// subscription order.
//
// Delivery iterates a snapshot taken when Notify starts: a listener added
// during delivery is not invoked in that pass, and a listener removed
// during delivery still fires if it was in the snapshot.
func (n *Notifier) Notify() {
	n.mu.Lock()
	if n.disposed || len(n.listeners) == 0 {
		n.mu.Unlock()
		return
	}
	snapshot := make([]Listener, len(n.listeners))
	copy(snapshot, n.listeners)
	n.mu.Unlock()

	for _, l := range snapshot {
		l.OnChange()
	}
}

// ListenerCount returns the number of attached listeners.
func (n *Notifier) ListenerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.listeners)
}

// Dispose drops all listeners and silences future Notify calls. Idempotent.
func (n *Notifier) Dispose() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = nil
	n.disposed = true
}

// Disposed reports whether Dispose has been called.
func (n *Notifier) Disposed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.disposed
}
