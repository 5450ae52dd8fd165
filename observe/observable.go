// Package observe provides the change-notification capability used by the
// locator: observable values, listener handles, and subscription
// bookkeeping held by observing entities through composition.
//
// Key Components:
//   - Observable: capability interface for change notification
//   - Disposable: capability interface for explicit teardown
//   - Notifier: embeddable concrete Observable
//   - SubscriptionManager: per-owner (observable, listener) bookkeeping
//
// A value is observable when it satisfies the Observable interface; the
// check is structural, via observe.AsObservable. Listeners are comparable
// handles: the handle returned by NewListener identifies the subscription,
// so the same handle subscribed twice attaches once.
package observe

// Listener receives change notifications from an Observable.
//
// Listener values must be comparable — implement on a pointer receiver or
// obtain one from NewListener. Identity of the handle is identity of the
// subscription.
type Listener interface {
	OnChange()
}

// Observable is the change-notification capability.
//
// AddListener reports whether the listener was attached; an already-present
// listener identity is not attached twice. RemoveListener on an absent
// listener is a no-op.
type Observable interface {
	AddListener(Listener) bool
	RemoveListener(Listener)
}

// Disposable is the explicit-teardown capability. Cells invoke it when they
// dispose a materialized instance that satisfies it.
type Disposable interface {
	Dispose()
}

// AsObservable reports whether v supports change notification.
// Never materializes or mutates anything.
func AsObservable(v any) (Observable, bool) {
	o, ok := v.(Observable)
	return o, ok
}

// funcListener wraps a plain function in a unique, comparable handle.
type funcListener struct {
	fn func()
}

func (l *funcListener) OnChange() { l.fn() }

// NewListener wraps fn in a fresh Listener handle. Each call yields a
// distinct identity, so two handles over the same function are independent
// subscriptions.
func NewListener(fn func()) Listener {
	return &funcListener{fn: fn}
}
