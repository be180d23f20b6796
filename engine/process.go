package engine

import (
	"sync"
	"sync/atomic"
)

// Processing is the realtime period orchestrator: it owns the RT-facing
// collaborators (ConfigSwap, SampleStore, VoicePool, StepSequencer) and
// runs the fixed ordering spec.md §4.6 describes, once per Host-driven
// period. ControlPlane drives the same instance from the control thread
// through its Inactive/Publish/Stage/TriggerQueue accessors.
type Processing struct {
	initialized  atomic.Bool
	isProcessing atomic.Bool
	done         atomic.Bool

	cfgSwap  *ConfigSwap
	store    *SampleStore
	voices   *VoicePool
	seq      *StepSequencer
	triggers *TriggerQueue
	clock    Clock
	explorer SampleExplorer

	bufferSize int
	sampleRate int

	// RT-owned period bookkeeping; never touched by the control thread.
	lastTransport  TransportState
	transportRate  int
	midiBuf        []MidiEvent
	outL, outR     []float32

	// transportMu/transportCond implement spec.md §5's transportCond:
	// RT signals, report thread waits, bounded by one period.
	transportMu   sync.Mutex
	transportCond *sync.Cond
	reportState   TransportState
	reportSeq     uint64

	// processMu/processCond implement spec.md §5's processCond: RT
	// signals at the end of every period, control may wait up to one
	// period (used by SetConfiguration's "wait for in-flight period").
	processMu   sync.Mutex
	processCond *sync.Cond
}

// NewProcessing wires a fresh engine instance around the given initial
// config, clock and optional sample explorer (nil is fine — step 11
// becomes a no-op).
func NewProcessing(initial Config, clock Clock, explorer SampleExplorer, bufferSize, sampleRate, triggerQueueCapacity int) *Processing {
	p := &Processing{
		cfgSwap:    NewConfigSwap(initial),
		store:      NewSampleStore(),
		voices:     NewVoicePool(),
		seq:        NewStepSequencer(),
		triggers:   NewTriggerQueue(triggerQueueCapacity),
		clock:      clock,
		explorer:   explorer,
		bufferSize: bufferSize,
		sampleRate: sampleRate,
		midiBuf:    make([]MidiEvent, bufferSize),
		outL:       make([]float32, bufferSize),
		outR:       make([]float32, bufferSize),
	}
	p.transportCond = sync.NewCond(&p.transportMu)
	p.processCond = sync.NewCond(&p.processMu)
	return p
}

// Initialized reports whether Process will render audio.
func (p *Processing) Initialized() bool { return p.initialized.Load() }

// SetInitialized flips the flag Process checks at step 1; called once by
// ControlPlane.Init after every collaborator is wired.
func (p *Processing) SetInitialized(v bool) { p.initialized.Store(v) }

// ConfigSwap, SampleStore and Triggers expose the control-thread-facing
// accessors ControlPlane needs without reaching into Processing's other RT
// state.
func (p *Processing) ConfigSwap() *ConfigSwap   { return p.cfgSwap }
func (p *Processing) SampleStore() *SampleStore { return p.store }
func (p *Processing) Triggers() *TriggerQueue    { return p.triggers }

// WaitPeriod blocks the calling (control) thread until the RT thread
// finishes a period currently in flight, or returns immediately if none
// is. Bounded to at most one period by construction: Process always
// signals processCond exactly once near the end of its run, whether or
// not anyone is waiting.
func (p *Processing) WaitPeriod() {
	p.processMu.Lock()
	for p.isProcessing.Load() {
		p.processCond.Wait()
	}
	p.processMu.Unlock()
}

// TransportReport is read by the report thread after Wait returns; it is
// a snapshot, safe to read without additional synchronization once woken.
type TransportReport struct {
	State TransportState
	Step  int
	Seq   uint64
}

// WaitTransportReport blocks until the RT thread signals a step change or
// the periodic heartbeat, then returns the latest snapshot. lastSeq is the
// caller's last-seen sequence number (0 initially); the call returns as
// soon as reportSeq advances past it.
func (p *Processing) WaitTransportReport(lastSeq uint64) TransportReport {
	p.transportMu.Lock()
	defer p.transportMu.Unlock()
	for p.reportSeq <= lastSeq && !p.done.Load() {
		p.transportCond.Wait()
	}
	return TransportReport{State: p.reportState, Step: p.seq.lastStep, Seq: p.reportSeq}
}

// Shutdown sets done and wakes the report thread so it can exit; part of
// the cancellation sequence in spec.md §5 (set done, close host, persist
// config, join report thread — the join itself happens in ControlPlane).
func (p *Processing) Shutdown() {
	p.done.Store(true)
	p.transportMu.Lock()
	p.transportCond.Broadcast()
	p.transportMu.Unlock()
}

// Process is the registered ProcessFunc: the RT period entry point. It
// follows spec.md §4.6's fixed ordering exactly.
func (p *Processing) Process(nframes int, host Host) {
	if !p.initialized.Load() { // step 1
		return
	}
	p.isProcessing.Store(true) // step 2

	p.cfgSwap.Observe() // step 3
	cfg := p.cfgSwap.ActiveRT()

	ts := p.clock.Process(nframes) // step 4: advances transport; no MIDI-out events are written here
	stepIdx := ComputeStep(ts)     // step 5

	n := host.ReadMidiIn(p.midiBuf)
	DecodeMidi(p.midiBuf[:n], cfg, p.voices) // step 6

	p.drainTriggers(cfg) // step 7

	stepChanged := false
	transportChanged := ts.Running != p.lastTransport.Running
	if transportChanged || stepIdx != p.seq.lastStep {
		if stepIdx >= 0 {
			stepChanged = p.seq.Evaluate(stepIdx, ts, nframes, cfg, p.voices)
		}
		p.publishReport(ts)
		p.transportRate = 0
	} else {
		p.transportRate += nframes
		if p.transportRate >= p.sampleRate {
			p.publishReport(ts)
			p.transportRate = 0
		}
	}
	_ = stepChanged
	p.lastTransport = ts

	p.store.CommitPending() // step 9

	for i := 0; i < nframes; i++ { // step 10: zero then mix
		p.outL[i] = 0
		p.outR[i] = 0
	}
	p.voices.Mix(p.store, p.outL[:nframes], p.outR[:nframes], nframes)

	if p.explorer != nil { // step 11
		p.explorer.ProcessAudio(p.outL[:nframes], p.outR[:nframes], nframes)
	}

	host.WriteAudio(p.outL[:nframes], p.outR[:nframes])

	p.isProcessing.Store(false) // step 12
	p.processMu.Lock()
	p.processCond.Broadcast()
	p.processMu.Unlock()
}

// drainTriggers applies step 7: UI-issued pad hits, startIdx always 0.
func (p *Processing) drainTriggers(cfg *Config) {
	for {
		t, ok := p.triggers.TryDequeue()
		if !ok {
			return
		}
		if t.PadIdx < 0 || t.PadIdx >= len(cfg.Pads) {
			continue
		}
		pad := &cfg.Pads[t.PadIdx]
		if !pad.Available {
			continue
		}
		strength := float64(t.Velocity) / 127.0
		p.voices.Assign(t.PadIdx, 0, pad.LengthSamps, strength*pad.GainLeftLin, strength*pad.GainRightLin, pad.Pitch)
	}
}

func (p *Processing) publishReport(ts TransportState) {
	p.transportMu.Lock()
	p.reportState = ts
	p.reportSeq++
	p.transportCond.Signal()
	p.transportMu.Unlock()
}
