package engine

import "sync/atomic"

// ConfigSwap is a two-slot Config handoff between the control thread
// (writer) and the RT thread (reader). The control thread always writes
// into the slot the RT thread is not currently reading, then calls
// Publish; the RT thread calls Observe once per period to pick up a
// pending publish, never blocking.
type ConfigSwap struct {
	slots [2]Config

	active  atomic.Int32 // RT-owned index into slots currently live; written only by Observe
	pending atomic.Int32 // index the control thread wants to become active
	armed   atomic.Bool  // release-stored by Publish, acquire-loaded by Observe
}

// NewConfigSwap seeds both slots with the same initial config so Active
// and Inactive agree before the first Publish.
func NewConfigSwap(initial Config) *ConfigSwap {
	cs := &ConfigSwap{}
	cs.slots[0] = initial
	cs.slots[1] = initial
	return cs
}

// Active returns the slot currently read by the RT thread. Control-thread
// callers must treat it read-only except for the documented CC live-gain
// override tolerance (see engine/mididecoder.go).
func (cs *ConfigSwap) Active() *Config {
	return &cs.slots[cs.active.Load()]
}

// Inactive returns the slot the control thread may freely mutate before
// calling Publish.
func (cs *ConfigSwap) Inactive() *Config {
	return &cs.slots[1-cs.active.Load()]
}

// Publish arms the swap: the slot most recently returned by Inactive()
// becomes active at the RT thread's next Observe call.
func (cs *ConfigSwap) Publish() {
	next := 1 - cs.active.Load()
	cs.pending.Store(next)
	cs.armed.Store(true) // release
}

// Observe is RT-thread-only, called at the start of every period.
func (cs *ConfigSwap) Observe() {
	if cs.armed.Load() { // acquire
		cs.active.Store(cs.pending.Load())
		cs.armed.Store(false)
	}
}

// ActiveRT is Observe's companion read used inside the same RT period;
// equivalent to Active but documents that the caller is the RT thread and
// the pointer is only valid for the duration of the current period.
func (cs *ConfigSwap) ActiveRT() *Config {
	return &cs.slots[cs.active.Load()]
}
