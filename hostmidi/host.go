// Package hostmidi implements engine.Host against real MIDI hardware via
// gitlab.com/gomidi/midi/v2, grounded on the teacher's DeviceManager
// hot-plug scan and LaunchpadController port-opening pattern. There is no
// portaudio/cgo audio driver anywhere in the retrieval pack, so the audio
// side is a synchronous ring-buffer: WriteAudio copies each period's mix
// into a small ring a UI/inspector can read, and the period pump that
// drives ProcessFunc is a ticker at bufferSize/sampleRate intervals
// standing in for a JACK-style callback thread.
package hostmidi

import (
	"fmt"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"mcksamplerd/engine"
)

// Host drives engine.Processing from a real MIDI input port and a ticker
// in place of an audio callback thread.
type Host struct {
	inPortName string

	mu        sync.Mutex
	pending   []engine.MidiEvent
	stopInput func()
	inPort    drivers.In

	cb         engine.ProcessFunc
	bufferSize int
	sampleRate int
	ticker     *time.Ticker
	done       chan struct{}

	ring    [][2][]float32
	ringLen int
	ringPos int
	ringMu  sync.Mutex
}

// NewHost returns a Host that will open the MIDI input port whose name
// contains inPortName (case-insensitive substring match, same matching
// style as the teacher's isLaunchpad), or the first available input port
// if inPortName is empty.
func NewHost(inPortName string) *Host {
	return &Host{inPortName: inPortName, ringLen: 8}
}

// Register stores the process callback and period parameters and
// allocates the audio ring; it neither opens MIDI ports nor starts the
// ticker-driven period pump (both happen in Activate, matching the
// teacher's two-phase controller setup).
func (h *Host) Register(cb engine.ProcessFunc, bufferSize, sampleRate int) error {
	h.cb = cb
	h.bufferSize = bufferSize
	h.sampleRate = sampleRate
	h.ring = make([][2][]float32, h.ringLen)
	return nil
}

// Activate opens the matching MIDI input port and starts the period
// ticker.
func (h *Host) Activate() error {
	if err := h.openInput(); err != nil {
		return err
	}

	period := time.Duration(float64(h.bufferSize) / float64(h.sampleRate) * float64(time.Second))
	if period <= 0 {
		period = time.Millisecond
	}
	h.ticker = time.NewTicker(period)
	h.done = make(chan struct{})
	go func() {
		for {
			select {
			case <-h.done:
				return
			case <-h.ticker.C:
				h.cb(h.bufferSize)
			}
		}
	}()
	return nil
}

func (h *Host) openInput() error {
	inPorts := gomidi.GetInPorts()
	var chosen drivers.In
	for i, p := range inPorts {
		name := strings.ToLower(p.String())
		if h.inPortName == "" || strings.Contains(name, strings.ToLower(h.inPortName)) {
			chosen = inPorts[i]
			break
		}
	}
	if chosen == nil {
		return fmt.Errorf("hostmidi: no matching MIDI input port for %q", h.inPortName)
	}
	h.inPort = chosen

	stop, err := gomidi.ListenTo(chosen, func(msg gomidi.Message, timestampms int32) {
		raw := msg.Bytes()
		if len(raw) == 0 {
			return
		}
		ev := engine.MidiEvent{Status: raw[0]}
		if len(raw) > 1 {
			ev.Data1 = raw[1]
		}
		if len(raw) > 2 {
			ev.Data2 = raw[2]
		}
		h.mu.Lock()
		h.pending = append(h.pending, ev)
		h.mu.Unlock()
	})
	if err != nil {
		return fmt.Errorf("hostmidi: open input: %w", err)
	}
	h.stopInput = stop
	return nil
}

// ConnectPorts is a no-op: this Host's only port is the one opened in
// Activate, resolved by name rather than the persisted connection lists.
func (h *Host) ConnectPorts(cfg *engine.Config) error { return nil }

// ReadMidiIn drains every event queued since the last period into buf
// (dropping any that don't fit) and returns the count written.
func (h *Host) ReadMidiIn(buf []engine.MidiEvent) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := copy(buf, h.pending)
	h.pending = h.pending[:0]
	return n
}

// WriteAudio stores a copy of this period's mix in the ring buffer for
// inspection; there is no real audio output device in this build.
func (h *Host) WriteAudio(outL, outR []float32) {
	l := append([]float32(nil), outL...)
	r := append([]float32(nil), outR...)
	h.ringMu.Lock()
	h.ring[h.ringPos] = [2][]float32{l, r}
	h.ringPos = (h.ringPos + 1) % len(h.ring)
	h.ringMu.Unlock()
}

// LastPeriods returns up to n of the most recently written periods'
// stereo mixes, oldest first, for a UI/inspector to sample.
func (h *Host) LastPeriods(n int) [][2][]float32 {
	h.ringMu.Lock()
	defer h.ringMu.Unlock()
	if n > len(h.ring) {
		n = len(h.ring)
	}
	out := make([][2][]float32, 0, n)
	for i := 0; i < n; i++ {
		idx := (h.ringPos - n + i + len(h.ring)*2) % len(h.ring)
		if h.ring[idx][0] != nil {
			out = append(out, h.ring[idx])
		}
	}
	return out
}

// Close stops the period ticker and closes the MIDI input port.
func (h *Host) Close() error {
	if h.ticker != nil {
		h.ticker.Stop()
	}
	if h.done != nil {
		close(h.done)
	}
	if h.stopInput != nil {
		h.stopInput()
	}
	return nil
}
