package feed

import (
	"testing"

	"hftbot/pkg/types"
)

func TestTickQueueFIFOOrder(t *testing.T) {
	q := NewTickQueue(3)
	q.Push(types.Tick{Symbol: "a"})
	q.Push(types.Tick{Symbol: "b"})

	tick, ok := q.Pop()
	if !ok || tick.Symbol != "a" {
		t.Fatalf("got %+v, want symbol=a", tick)
	}
	tick, ok = q.Pop()
	if !ok || tick.Symbol != "b" {
		t.Fatalf("got %+v, want symbol=b", tick)
	}
}

func TestTickQueueDropsOldestOnOverflow(t *testing.T) {
	q := NewTickQueue(2)
	q.Push(types.Tick{Symbol: "a"})
	q.Push(types.Tick{Symbol: "b"})
	q.Push(types.Tick{Symbol: "c"}) // should evict "a"

	if q.Len() != 2 {
		t.Fatalf("len = %d, want 2", q.Len())
	}
	if q.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", q.Dropped())
	}

	tick, ok := q.Pop()
	if !ok || tick.Symbol != "b" {
		t.Fatalf("oldest surviving entry = %+v, want symbol=b", tick)
	}
	tick, ok = q.Pop()
	if !ok || tick.Symbol != "c" {
		t.Fatalf("next entry = %+v, want symbol=c", tick)
	}
}

func TestTickQueuePopEmpty(t *testing.T) {
	q := NewTickQueue(2)
	if _, ok := q.Pop(); ok {
		t.Fatal("expected ok=false on empty queue")
	}
}

func TestTickQueueDefaultCapacity(t *testing.T) {
	q := NewTickQueue(0)
	if q.cap != DefaultQueueCapacity {
		t.Fatalf("cap = %d, want %d", q.cap, DefaultQueueCapacity)
	}
}
