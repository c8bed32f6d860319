// Package session tracks the authenticated identity for the current user
// session and gates access on it. The tracker mirrors the identity
// provider's lifecycle: it starts unresolved (neither present nor absent,
// so dependents can tell "still loading" from "definitely signed out"),
// resolves to Present or Absent on the first provider callback, and never
// returns to unresolved after that.
package session

import "sync"

// Status is the resolution state of the tracked identity.
type Status string

const (
	StatusUnresolved Status = "unresolved"
	StatusPresent    Status = "present"
	StatusAbsent     Status = "absent"
)

// State is a point-in-time snapshot of the tracked session. Identity is
// only meaningful when Status is StatusPresent.
type State struct {
	Status   Status `json:"status"`
	Identity string `json:"user_id,omitempty"`
}

// Provider is the consumed identity-provider boundary. Subscribe registers
// a callback invoked on every auth state change; the returned cancel
// function detaches it. A provider disconnect must be reported as absent.
type Provider interface {
	Subscribe(fn func(identity string, present bool)) (cancel func())
}

// Tracker exposes the current identity as an observable value.
// It is safe for concurrent use; transitions are serialized, and observers
// are invoked synchronously in transition order.
type Tracker struct {
	// transMu serializes whole transitions (state change + observer fan-out)
	// so no two transitions are processed concurrently.
	transMu sync.Mutex

	mu        sync.Mutex // guards state for readers
	state     State
	observers []func(State)
}

// NewTracker returns a tracker in the unresolved state.
func NewTracker() *Tracker {
	return &Tracker{state: State{Status: StatusUnresolved}}
}

// State returns the current snapshot. Safe to call from observers.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// OnChange registers fn to be called after every state transition.
// Registration order is invocation order.
func (t *Tracker) OnChange(fn func(State)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// SetPresent records a provider sign-in callback for identity.
// A repeated callback with the same identity is a no-op (no re-notification,
// so dependents do not tear down and rebuild subscriptions needlessly).
func (t *Tracker) SetPresent(identity string) {
	t.transition(State{Status: StatusPresent, Identity: identity})
}

// SetAbsent records a provider sign-out or disconnect.
func (t *Tracker) SetAbsent() {
	t.transition(State{Status: StatusAbsent})
}

// Watch wires provider callbacks into the tracker. The returned cancel
// function detaches from the provider; the tracker keeps its last state.
func (t *Tracker) Watch(p Provider) (cancel func()) {
	return p.Subscribe(func(identity string, present bool) {
		if present {
			t.SetPresent(identity)
		} else {
			t.SetAbsent()
		}
	})
}

func (t *Tracker) transition(next State) {
	t.transMu.Lock()
	defer t.transMu.Unlock()

	t.mu.Lock()
	if t.state == next {
		t.mu.Unlock()
		return
	}
	t.state = next
	observers := append(make([]func(State), 0, len(t.observers)), t.observers...)
	t.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}
}
