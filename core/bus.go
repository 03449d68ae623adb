package core

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// alignedCounter pads an atomic counter out to a 64-byte cache line so the
// producer-owned head and consumer-owned tail never share a line. Only the
// first field is meaningful; the rest is padding.
type alignedCounter struct {
	v atomic.Uint64
	_ [7]uint64 // pad to 64 bytes alongside the 8-byte atomic.Uint64
}

// Bus is a bounded FIFO ring of Events with exactly one producer task and
// one consumer task. Capacity must be a power of two. Slot access is
// unsynchronized; soundness comes entirely from the acquire/release
// ordering on head and tail. Under no circumstances may two producers or
// two consumers operate on the same Bus.
type Bus struct {
	slots  []Event
	mask   uint64
	head   alignedCounter // producer-written, consumer-read
	tail   alignedCounter // consumer-written, producer-read
	closed atomic.Bool
}

// NewBus constructs a Bus with the given capacity, which must be a power of
// two. Returns ErrInvalidCapacity otherwise.
func NewBus(capacity int) (*Bus, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Bus{
		slots: make([]Event, capacity),
		mask:  uint64(capacity - 1),
	}, nil
}

// TryPush attempts a non-blocking push. Returns ErrQueueFull when
// head-tail == capacity.
func (b *Bus) TryPush(e Event) error {
	tail := b.tail.v.Load() // Acquire
	head := b.head.v.Load()
	if head-tail >= uint64(len(b.slots)) {
		return ErrQueueFull
	}
	b.slots[head&b.mask] = e
	b.head.v.Store(head + 1) // Release
	return nil
}

// SendBlocking retries TryPush, yielding the scheduler between attempts,
// until it succeeds. It never drops an event. Fuzz and scenario sources use
// this to preserve every event.
func (b *Bus) SendBlocking(e Event) {
	for {
		if err := b.TryPush(e); err == nil {
			return
		}
		runtime.Gosched()
	}
}

// Recv returns the oldest event and true if one is available, else the
// zero Event and false. Never blocks.
func (b *Bus) Recv() (Event, bool) {
	head := b.head.v.Load() // Acquire
	tail := b.tail.v.Load()
	if tail >= head {
		return Event{}, false
	}
	idx := tail & b.mask
	e := b.slots[idx]
	b.slots[idx] = Event{} // drop the reference so the GC can reclaim the payload
	b.tail.v.Store(tail + 1) // Release
	return e, true
}

// Close marks the bus as closed. The producer calls this after its final
// push; the consumer exits once it observes the bus closed AND a subsequent
// Recv comes back empty (in that order — the close store happens after the
// final push, so a Recv issued after observing Closed sees every event).
func (b *Bus) Close() {
	b.closed.Store(true)
}

// Closed reports whether Close has been called.
func (b *Bus) Closed() bool {
	return b.closed.Load()
}

// Len returns the number of events currently queued (head - tail).
func (b *Bus) Len() int {
	return int(b.head.v.Load() - b.tail.v.Load())
}

// Cap returns the bus's fixed capacity.
func (b *Bus) Cap() int {
	return len(b.slots)
}
