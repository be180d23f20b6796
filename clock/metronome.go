// Package clock implements engine.Clock: the transport/tempo generator the
// core engine treats as an external collaborator. Grounded on the
// teacher's tempo/tick bookkeeping (Manager.SetTempo, S.Tick), adapted from
// wall-clock-driven ticks to sample-accurate pulse advancement so it can be
// driven directly from the audio period (Process(nframes)) instead of a
// separate wall-clock goroutine.
package clock

import (
	"sync"

	"mcksamplerd/engine"
)

// Metronome tracks beat/pulse position at a configurable tempo and pulses-
// per-beat resolution (24, matching standard MIDI clock PPQ, by default).
type Metronome struct {
	mu sync.Mutex

	running   bool
	tempo     float64 // BPM
	nPulses   int
	beat      int
	pulse     int
	pulseIdx  int
	sampleRate int

	accumFrames float64 // fractional frames since the last pulse
}

// NewMetronome returns a stopped metronome at the given tempo and
// pulses-per-beat resolution.
func NewMetronome(tempo float64, nPulses, sampleRate int) *Metronome {
	return &Metronome{tempo: tempo, nPulses: nPulses, sampleRate: sampleRate}
}

// Process advances the transport by nframes and returns the resulting
// state, satisfying engine.Clock.
func (m *Metronome) Process(nframes int) engine.TransportState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running && m.tempo > 0 && m.nPulses > 0 {
		framesPerPulse := (60.0 / m.tempo) * float64(m.sampleRate) / float64(m.nPulses)
		m.accumFrames += float64(nframes)
		for framesPerPulse > 0 && m.accumFrames >= framesPerPulse {
			m.accumFrames -= framesPerPulse
			m.pulse++
			m.pulseIdx++
			if m.pulse >= m.nPulses {
				m.pulse = 0
				m.beat++
			}
		}
	}

	return engine.TransportState{
		Running:  m.running,
		Beat:     m.beat,
		Pulse:    m.pulse,
		NPulses:  m.nPulses,
		PulseIdx: m.pulseIdx,
	}
}

// ApplyCommand handles play/stop/tempo/seek commands from the control
// plane, satisfying engine.Clock.
func (m *Metronome) ApplyCommand(cmd engine.TransportCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch cmd.Kind {
	case engine.TransportPlay:
		m.running = true
	case engine.TransportStop:
		m.running = false
	case engine.TransportSetTempo:
		if cmd.Tempo > 0 {
			m.tempo = cmd.Tempo
		}
	case engine.TransportSeek:
		m.beat = cmd.Beat
		m.pulse = 0
		m.accumFrames = 0
	}
	return nil
}
