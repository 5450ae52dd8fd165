package observe

import "sync"

// subscription is one tracked (observable, listener) pair. Pairs are
// value-equal by identity of both fields.
type subscription struct {
	observable Observable
	listener   Listener
}

// SubscriptionManager tracks the subscriptions an observing entity holds.
// Entities own one by composition and release everything through
// UnsubscribeAll — the locator never releases subscriptions on the owner's
// behalf.
type SubscriptionManager struct {
	mu   sync.Mutex
	subs []subscription
}

// NewSubscriptionManager creates an empty manager.
func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{}
}

// Subscribe attaches listener to observable and tracks the pair. An already
// tracked pair is left untouched; the listener fires once per notification
// no matter how many times the same pair is subscribed. Returns whether the
// pair was newly tracked.
func (m *SubscriptionManager) Subscribe(observable Observable, listener Listener) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.subs {
		if s.observable == observable && s.listener == listener {
			return false
		}
	}
	observable.AddListener(listener)
	m.subs = append(m.subs, subscription{observable: observable, listener: listener})
	return true
}

// Unsubscribe detaches one tracked pair. Unknown pairs are ignored.
func (m *SubscriptionManager) Unsubscribe(observable Observable, listener Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.subs {
		if s.observable == observable && s.listener == listener {
			s.observable.RemoveListener(s.listener)
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return
		}
	}
}

// UnsubscribeAll detaches every tracked listener and clears tracking.
// Calling it on an empty manager is a no-op, so repeated teardown is safe.
func (m *SubscriptionManager) UnsubscribeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.subs {
		s.observable.RemoveListener(s.listener)
	}
	m.subs = nil
}

// Len returns the number of tracked pairs.
func (m *SubscriptionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}
