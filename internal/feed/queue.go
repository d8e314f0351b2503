package feed

import (
	"sync"

	"hftbot/pkg/types"
)

// DefaultQueueCapacity is the bounded capacity recommended by spec.md §5
// for the handoff between a background feed reader and the engine driver.
const DefaultQueueCapacity = 1000

// TickQueue is a bounded single-producer/single-consumer FIFO with an
// overwrite-oldest-on-overflow policy: a Push on a full queue evicts the
// oldest entry to make room, rather than blocking the producer or
// dropping the new tick.
//
// A plain Go channel can only drop the newest item on overflow (the
// teacher's select/default pattern in internal/exchange/ws.go), which is
// the wrong policy for a tick feed — it is better to lose a stale tick
// than a fresh one. TickQueue is grounded on that same select/default
// non-blocking-send discipline, generalized to evict from the front
// instead of rejecting the incoming item.
type TickQueue struct {
	mu       sync.Mutex
	buf      []types.Tick
	cap      int
	dropped  int
	notifyCh chan struct{}
}

// NewTickQueue creates a queue with the given capacity.
func NewTickQueue(capacity int) *TickQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &TickQueue{
		buf:      make([]types.Tick, 0, capacity),
		cap:      capacity,
		notifyCh: make(chan struct{}, 1),
	}
}

// Push appends t, evicting the oldest entry first if the queue is full.
func (q *TickQueue) Push(t types.Tick) {
	q.mu.Lock()
	if len(q.buf) >= q.cap {
		q.buf = q.buf[1:]
		q.dropped++
	}
	q.buf = append(q.buf, t)
	q.mu.Unlock()

	select {
	case q.notifyCh <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest entry, or ok=false if empty.
func (q *TickQueue) Pop() (t types.Tick, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		return types.Tick{}, false
	}
	t = q.buf[0]
	q.buf = q.buf[1:]
	return t, true
}

// Notify returns a channel that receives a value whenever the queue
// transitions from possibly-empty to possibly-non-empty, for a consumer
// that wants to block (with a timeout via select) until data may be
// available rather than busy-polling Pop.
func (q *TickQueue) Notify() <-chan struct{} {
	return q.notifyCh
}

// Len returns the current number of buffered entries.
func (q *TickQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Dropped returns the cumulative count of entries evicted due to overflow.
func (q *TickQueue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
