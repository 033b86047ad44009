package views

import "sync"

// inflight is a per-action single-flight latch: while a mutating action is
// pending, a second submission of the same action is rejected instead of
// queued. This is the UI-side duplicate-submit guard; the backend keeps its
// own invariants regardless.
type inflight struct {
	mu      sync.Mutex
	pending map[string]bool
}

func newInflight() *inflight {
	return &inflight{pending: make(map[string]bool)}
}

// begin marks the action pending. It returns false if the action is already
// in flight.
func (f *inflight) begin(action string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending[action] {
		return false
	}
	f.pending[action] = true
	return true
}

func (f *inflight) end(action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, action)
}
