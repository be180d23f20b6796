package engine

import "testing"

// fakeClock advances a fixed number of pulses per period at a fixed
// pulses-per-beat, wrapping beats. It ignores ApplyCommand payloads except
// to flip Running.
type fakeClock struct {
	running        bool
	beat, pulse    int
	nPulses        int
	pulsesPerFrame int
}

func (c *fakeClock) Process(nframes int) TransportState {
	if c.running {
		c.pulse += c.pulsesPerFrame
		for c.pulse >= c.nPulses {
			c.pulse -= c.nPulses
			c.beat++
		}
	}
	return TransportState{Running: c.running, Beat: c.beat, Pulse: c.pulse, NPulses: c.nPulses, PulseIdx: c.beat*c.nPulses + c.pulse}
}

func (c *fakeClock) ApplyCommand(cmd TransportCommand) error {
	switch cmd.Kind {
	case TransportPlay:
		c.running = true
	case TransportStop:
		c.running = false
	}
	return nil
}

// fakeHost feeds a scripted batch of MIDI events on its first ReadMidiIn
// call and records every WriteAudio call.
type fakeHost struct {
	pending    []MidiEvent
	written    [][2][]float32
	registered ProcessFunc
}

func (h *fakeHost) Register(cb ProcessFunc, bufferSize, sampleRate int) error {
	h.registered = cb
	return nil
}
func (h *fakeHost) Activate() error               { return nil }
func (h *fakeHost) ConnectPorts(cfg *Config) error { return nil }
func (h *fakeHost) Close() error                   { return nil }

func (h *fakeHost) ReadMidiIn(buf []MidiEvent) int {
	n := copy(buf, h.pending)
	h.pending = nil
	return n
}

func (h *fakeHost) WriteAudio(outL, outR []float32) {
	l := append([]float32(nil), outL...)
	r := append([]float32(nil), outR...)
	h.written = append(h.written, [2][]float32{l, r})
}

func testConfigWithPad0() Config {
	cfg := Config{}
	cfg.Pads[0] = Pad{
		Available:    true,
		Tone:         36,
		LengthSamps:  4,
		GainLeftLin:  1,
		GainRightLin: 1,
		Patterns:     []Pattern{{Steps: []Step{{Active: true, Velocity: 127}}}},
	}
	return cfg
}

// TestProcessUninitializedIsNoop covers step 1: Process must not touch the
// host or render audio before SetInitialized(true).
func TestProcessUninitializedIsNoop(t *testing.T) {
	clock := &fakeClock{}
	host := &fakeHost{}
	p := NewProcessing(Config{}, clock, nil, 4, 48000, 8)

	p.Process(4, host)

	if len(host.written) != 0 {
		t.Fatalf("Process before SetInitialized must not write audio")
	}
}

// TestProcessRendersMidiTrigger covers end-to-end scenario 1: a note-on
// event delivered by the host produces non-silent audio in the same
// period.
func TestProcessRendersMidiTrigger(t *testing.T) {
	cfg := testConfigWithPad0()
	store := NewSampleStore()
	store.Stage(0, WaveInfo{Valid: true, NumChannels: 1, NumFrames: 4, SampleRate: 48000}, [][]float32{{1, 1, 1, 1}})
	store.CommitPending()

	clock := &fakeClock{nPulses: 24}
	host := &fakeHost{pending: []MidiEvent{{Status: 0x90, Data1: 36, Data2: 127}}}
	p := NewProcessing(cfg, clock, nil, 4, 48000, 8)
	p.store = store
	p.SetInitialized(true)

	p.Process(4, host)

	if len(host.written) != 1 {
		t.Fatalf("expected exactly one WriteAudio call, got %d", len(host.written))
	}
	silent := true
	for _, s := range host.written[0][0] {
		if s != 0 {
			silent = false
		}
	}
	if silent {
		t.Fatalf("triggered pad should have produced non-silent output")
	}
}

// TestProcessSequencerTriggersOnStepBoundary drives the transport instead
// of MIDI: running with a step-0 pattern active should trigger a voice on
// the very first period.
func TestProcessSequencerTriggersOnStepBoundary(t *testing.T) {
	cfg := testConfigWithPad0()
	store := NewSampleStore()
	store.Stage(0, WaveInfo{Valid: true, NumChannels: 1, NumFrames: 4, SampleRate: 48000}, [][]float32{{1, 1, 1, 1}})
	store.CommitPending()

	clock := &fakeClock{running: true, nPulses: 24}
	host := &fakeHost{}
	p := NewProcessing(cfg, clock, nil, 4, 48000, 8)
	p.store = store
	p.SetInitialized(true)

	p.Process(4, host)

	silent := true
	for _, s := range host.written[0][0] {
		if s != 0 {
			silent = false
		}
	}
	if silent {
		t.Fatalf("step 0 being active should have triggered a voice on the first period")
	}
}

// TestProcessConfigSwapObservedAtPeriodStart covers I2/scenario 3: a
// Publish before a period takes effect inside that same period, not the
// one after.
func TestProcessConfigSwapObservedAtPeriodStart(t *testing.T) {
	cfg := testConfigWithPad0()
	clock := &fakeClock{nPulses: 24}
	host := &fakeHost{}
	p := NewProcessing(cfg, clock, nil, 4, 48000, 8)
	p.SetInitialized(true)

	next := cfg
	next.Pads[0].Available = false
	*p.cfgSwap.Inactive() = next
	p.cfgSwap.Publish()

	p.Process(4, host)

	if p.cfgSwap.ActiveRT().Pads[0].Available {
		t.Fatalf("published config should be active for the period that observes it")
	}
}

// TestProcessTriggerQueueDrainsUIHit covers pads.trigger delivery: a
// trigger enqueued by the control thread is applied during the next
// period even with no MIDI or sequencer activity.
func TestProcessTriggerQueueDrainsUIHit(t *testing.T) {
	cfg := testConfigWithPad0()
	store := NewSampleStore()
	store.Stage(0, WaveInfo{Valid: true, NumChannels: 1, NumFrames: 4, SampleRate: 48000}, [][]float32{{1, 1, 1, 1}})
	store.CommitPending()

	clock := &fakeClock{nPulses: 24}
	host := &fakeHost{}
	p := NewProcessing(cfg, clock, nil, 4, 48000, 8)
	p.store = store
	p.SetInitialized(true)
	p.triggers.TryEnqueue(Trigger{PadIdx: 0, Velocity: 127})

	p.Process(4, host)

	silent := true
	for _, s := range host.written[0][0] {
		if s != 0 {
			silent = false
		}
	}
	if silent {
		t.Fatalf("enqueued UI trigger should have produced non-silent output")
	}
}
