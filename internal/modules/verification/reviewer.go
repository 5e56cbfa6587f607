package verification

import (
	"sync"
	"time"
)

// AutoReviewer approves a fresh request after a fixed delay, simulating a
// compliance review. This is a placeholder for a real review pipeline, not a
// policy: the delay is configurable and the whole mechanism must be replaced
// before production use.
//
// Every scheduled approval is a cancellable task keyed by request ID. Admin
// decisions cancel it; Stop cancels everything on shutdown. The underlying
// status update is guarded (pending-only), so even a timer that slips past a
// cancel cannot overwrite an admin decision.
type AutoReviewer struct {
	mu      sync.Mutex
	delay   time.Duration
	timers  map[int64]*time.Timer
	review  func(requestID int64)
	stopped bool
}

// NewAutoReviewer builds a reviewer calling review after delay for each
// scheduled request. A non-positive delay disables auto approval entirely.
func NewAutoReviewer(delay time.Duration, review func(requestID int64)) *AutoReviewer {
	return &AutoReviewer{
		delay:  delay,
		timers: make(map[int64]*time.Timer),
		review: review,
	}
}

// Schedule queues the request for auto approval. Rescheduling an already
// queued request resets its timer (resubmission restarts the review clock).
func (r *AutoReviewer) Schedule(requestID int64) {
	if r.delay <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	if t, ok := r.timers[requestID]; ok {
		t.Stop()
	}
	r.timers[requestID] = time.AfterFunc(r.delay, func() {
		r.fire(requestID)
	})
}

func (r *AutoReviewer) fire(requestID int64) {
	r.mu.Lock()
	_, ok := r.timers[requestID]
	delete(r.timers, requestID)
	stopped := r.stopped
	r.mu.Unlock()

	if !ok || stopped {
		return
	}
	r.review(requestID)
}

// Cancel removes a queued approval; returns false when nothing was queued.
func (r *AutoReviewer) Cancel(requestID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.timers[requestID]
	if !ok {
		return false
	}
	t.Stop()
	delete(r.timers, requestID)
	return true
}

// Stop cancels all queued approvals. The reviewer accepts no new work after.
func (r *AutoReviewer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopped = true
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}

// PendingCount reports how many approvals are queued.
func (r *AutoReviewer) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}
