package gitstatus

import "sync"

// register is a single-slot mailbox between the key handler, which writes
// intents, and the frame poller, which takes them and starts the git
// operation. A new intent replaces one that has not been taken yet. While a
// taken intent is still running, Take holds the next one back so at most one
// operation per register is outstanding.
type register[T any] struct {
	mu       sync.Mutex
	value    T
	full     bool
	inFlight bool
}

// Set stores v, replacing any unread value.
func (r *register[T]) Set(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.value = v
	r.full = true
}

// Take clears and returns the stored value and marks the register in
// flight. It returns false when the register is empty or busy.
func (r *register[T]) Take() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	if !r.full || r.inFlight {
		return zero, false
	}
	v := r.value
	r.value = zero
	r.full = false
	r.inFlight = true
	return v, true
}

// Done marks the taken operation as finished.
func (r *register[T]) Done() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight = false
}

// Pending reports whether an unread value is waiting.
func (r *register[T]) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.full
}

// Busy reports whether a taken operation has not finished.
func (r *register[T]) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight
}
