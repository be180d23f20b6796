package engine

import "sync/atomic"

// Trigger is a UI-issued pad hit, queued by the control thread and drained
// by the RT thread at the start of each period.
type Trigger struct {
	PadIdx   int
	Velocity uint8
}

// TriggerQueue is a bounded single-producer/single-consumer lock-free
// ring buffer. The control thread is the sole producer (TryEnqueue); the
// RT thread is the sole consumer (TryDequeue). A full queue drops the new
// trigger rather than blocking either side, matching spec.md's "drop on
// overflow" rule for UI-issued triggers under RT pressure.
type TriggerQueue struct {
	buf  []Trigger
	mask uint64
	head atomic.Uint64 // consumer-owned (RT)
	tail atomic.Uint64 // producer-owned (control)
}

// NewTriggerQueue allocates a queue with capacity rounded up to the next
// power of two (at least 1).
func NewTriggerQueue(capacity int) *TriggerQueue {
	n := 1
	for n < capacity {
		n <<= 1
	}
	if n == 0 {
		n = 1
	}
	return &TriggerQueue{
		buf:  make([]Trigger, n),
		mask: uint64(n - 1),
	}
}

// TryEnqueue attempts to add a trigger, returning false if the queue is
// full (the caller should count and log the drop, never retry inline).
func (q *TriggerQueue) TryEnqueue(t Trigger) bool {
	tail := q.tail.Load()
	head := q.head.Load()
	if tail-head >= uint64(len(q.buf)) {
		return false
	}
	q.buf[tail&q.mask] = t
	q.tail.Store(tail + 1)
	return true
}

// TryDequeue removes the oldest trigger, if any. RT-thread only.
func (q *TriggerQueue) TryDequeue() (Trigger, bool) {
	head := q.head.Load()
	tail := q.tail.Load()
	if head == tail {
		return Trigger{}, false
	}
	t := q.buf[head&q.mask]
	q.head.Store(head + 1)
	return t, true
}
