package engine

import "sync/atomic"

// PadSampleSlot is a double-buffered PCM holder for one pad: the control
// thread stages new sample data into the inactive buffer and flips an
// atomic flag; the RT thread observes the flag once per period and swaps
// its read pointer, never blocking and never touching the inactive buffer
// while the control thread may still be writing it.
type PadSampleSlot struct {
	info [2]WaveInfo
	pcm  [2][][]float32 // [slot][channel][frame]

	live    int32      // RT-owned index of the buffer currently being read; no atomic needed, mutated only inside CommitPending
	pending atomic.Bool // release-stored by Stage, acquire-loaded by CommitPending
	staged  int32      // which slot Stage last wrote; read by CommitPending only after pending is observed true
}

// SampleStore holds one PadSampleSlot per pad.
type SampleStore struct {
	pads [SamplerNumPads]PadSampleSlot
}

// NewSampleStore returns a store with every pad marked unavailable.
func NewSampleStore() *SampleStore {
	return &SampleStore{}
}

// Stage publishes PCM data for a pad into its inactive buffer and arms the
// swap for the next CommitPending call. Safe to call from the control
// thread only; never from the RT thread.
func (s *SampleStore) Stage(padIdx int, info WaveInfo, pcm [][]float32) {
	slot := &s.pads[padIdx]
	next := 1 - slot.live
	slot.info[next] = info
	slot.pcm[next] = pcm
	slot.staged = next
	slot.pending.Store(true) // release: PCM/info writes above are visible before the flag
}

// CommitPending swaps every pad whose staged buffer is ready. Called once
// per period from the RT thread, before mixing.
func (s *SampleStore) CommitPending() {
	for i := range s.pads {
		slot := &s.pads[i]
		if slot.pending.Load() { // acquire
			slot.live = slot.staged
			slot.pending.Store(false)
		}
	}
}

// Live returns the currently active wave info and PCM for a pad. RT-thread
// only; the returned slices must not be retained past the current period
// since a later Stage may reuse the inactive buffer for a new file.
func (s *SampleStore) Live(padIdx int) (WaveInfo, [][]float32) {
	slot := &s.pads[padIdx]
	return slot.info[slot.live], slot.pcm[slot.live]
}
