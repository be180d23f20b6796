package hostmidi

import (
	"testing"

	"mcksamplerd/engine"
)

func TestReadMidiInDrainsPending(t *testing.T) {
	h := NewHost("")
	h.pending = []engine.MidiEvent{{Status: 0x90, Data1: 36, Data2: 100}}

	buf := make([]engine.MidiEvent, 4)
	n := h.ReadMidiIn(buf)
	if n != 1 {
		t.Fatalf("ReadMidiIn returned %d, want 1", n)
	}
	if buf[0].Data1 != 36 {
		t.Fatalf("buf[0] = %+v", buf[0])
	}

	n = h.ReadMidiIn(buf)
	if n != 0 {
		t.Fatalf("second ReadMidiIn should drain nothing, got %d", n)
	}
}

func TestWriteAudioRingWraps(t *testing.T) {
	h := NewHost("")
	h.ring = make([][2][]float32, 2)

	h.WriteAudio([]float32{1}, []float32{1})
	h.WriteAudio([]float32{2}, []float32{2})
	h.WriteAudio([]float32{3}, []float32{3})

	last := h.LastPeriods(2)
	if len(last) != 2 {
		t.Fatalf("LastPeriods(2) returned %d entries, want 2", len(last))
	}
}

func TestLastPeriodsEmptyBeforeAnyWrite(t *testing.T) {
	h := NewHost("")
	h.ring = make([][2][]float32, 4)
	if got := h.LastPeriods(4); len(got) != 0 {
		t.Fatalf("expected no periods before any WriteAudio, got %d", len(got))
	}
}
