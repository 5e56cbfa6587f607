package verification

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type reviewRecorder struct {
	mu  sync.Mutex
	ids []int64
}

func (r *reviewRecorder) record(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *reviewRecorder) seen() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int64, len(r.ids))
	copy(out, r.ids)
	return out
}

func TestAutoReviewerFiresAfterDelay(t *testing.T) {
	rec := &reviewRecorder{}
	r := NewAutoReviewer(20*time.Millisecond, rec.record)
	defer r.Stop()

	r.Schedule(7)
	assert.Equal(t, 1, r.PendingCount())

	assert.Eventually(t, func() bool {
		ids := rec.seen()
		return len(ids) == 1 && ids[0] == int64(7)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, r.PendingCount())
}

func TestAutoReviewerCancelPreventsFiring(t *testing.T) {
	rec := &reviewRecorder{}
	r := NewAutoReviewer(30*time.Millisecond, rec.record)
	defer r.Stop()

	r.Schedule(11)
	assert.True(t, r.Cancel(11))

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.seen())
	assert.False(t, r.Cancel(11))
}

func TestAutoReviewerRescheduleResetsTimer(t *testing.T) {
	rec := &reviewRecorder{}
	r := NewAutoReviewer(50*time.Millisecond, rec.record)
	defer r.Stop()

	r.Schedule(3)
	time.Sleep(30 * time.Millisecond)
	r.Schedule(3)
	assert.Equal(t, 1, r.PendingCount())

	// the original timer would have fired by now
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, rec.seen())

	assert.Eventually(t, func() bool {
		return len(rec.seen()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestAutoReviewerDisabledWithZeroDelay(t *testing.T) {
	rec := &reviewRecorder{}
	r := NewAutoReviewer(0, rec.record)
	defer r.Stop()

	r.Schedule(1)
	assert.Equal(t, 0, r.PendingCount())

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, rec.seen())
}

func TestAutoReviewerStopCancelsEverything(t *testing.T) {
	rec := &reviewRecorder{}
	r := NewAutoReviewer(30*time.Millisecond, rec.record)

	r.Schedule(1)
	r.Schedule(2)
	r.Stop()

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, rec.seen())

	// no new work after Stop
	r.Schedule(3)
	assert.Equal(t, 0, r.PendingCount())
}
