package engine

import "testing"

func configWithPad(chan_ uint8, pad Pad) *Config {
	cfg := &Config{MidiChan: chan_}
	cfg.Pads[0] = pad
	return cfg
}

// TestMidiDecoderChannelFilter covers end-to-end scenario 4: a note-on on
// the matching channel triggers, the same note on another channel doesn't.
func TestMidiDecoderChannelFilter(t *testing.T) {
	pad := Pad{Available: true, Tone: 36, LengthSamps: 100, GainLeftLin: 1, GainRightLin: 1}
	cfg := configWithPad(3, pad)
	vp := NewVoicePool()

	DecodeMidi([]MidiEvent{{Status: 0x93, Data1: 36, Data2: 100}}, cfg, vp)
	if !vp.Voices()[0].Playing {
		t.Fatalf("note-on on matching channel 3 should trigger a voice")
	}

	vp2 := NewVoicePool()
	DecodeMidi([]MidiEvent{{Status: 0x94, Data1: 36, Data2: 100}}, cfg, vp2)
	for _, v := range vp2.Voices() {
		if v.Playing {
			t.Fatalf("note-on on non-matching channel 4 must not trigger")
		}
	}
}

func TestMidiDecoderRejectsSystemMessages(t *testing.T) {
	pad := Pad{Available: true, Tone: 36, LengthSamps: 100, GainLeftLin: 1, GainRightLin: 1}
	cfg := configWithPad(0, pad)
	vp := NewVoicePool()

	DecodeMidi([]MidiEvent{{Status: 0xF8}}, cfg, vp)
	for _, v := range vp.Voices() {
		if v.Playing {
			t.Fatalf("system messages (0xF_) must never trigger a voice")
		}
	}
}

func TestMidiDecoderMultiplePadsShareTone(t *testing.T) {
	cfg := &Config{}
	cfg.Pads[0] = Pad{Available: true, Tone: 40, LengthSamps: 10, GainLeftLin: 1, GainRightLin: 1}
	cfg.Pads[1] = Pad{Available: true, Tone: 40, LengthSamps: 10, GainLeftLin: 1, GainRightLin: 1}
	vp := NewVoicePool()

	DecodeMidi([]MidiEvent{{Status: 0x90, Data1: 40, Data2: 127}}, cfg, vp)

	triggered := map[int]bool{}
	for _, v := range vp.Voices() {
		if v.Playing {
			triggered[v.PadIdx] = true
		}
	}
	if !triggered[0] || !triggered[1] {
		t.Fatalf("both pads sharing tone 40 should trigger, got %v", triggered)
	}
}

func TestMidiDecoderUnavailablePadIgnored(t *testing.T) {
	cfg := configWithPad(0, Pad{Available: false, Tone: 36, LengthSamps: 10})
	vp := NewVoicePool()
	DecodeMidi([]MidiEvent{{Status: 0x90, Data1: 36, Data2: 127}}, cfg, vp)
	for _, v := range vp.Voices() {
		if v.Playing {
			t.Fatalf("unavailable pad must not trigger")
		}
	}
}

// TestMidiDecoderCCWritesRawFraction documents the preserved CC/gain
// mismatch: the handler writes value/127 straight into the dB field.
func TestMidiDecoderCCWritesRawFraction(t *testing.T) {
	cfg := configWithPad(0, Pad{Available: true, Ctrl: 20, GainDB: -50})
	vp := NewVoicePool()

	DecodeMidi([]MidiEvent{{Status: 0xB0, Data1: 20, Data2: 64}}, cfg, vp)

	want := 64.0 / 127.0
	if cfg.Pads[0].GainDB != want {
		t.Fatalf("GainDB = %v, want raw fraction %v", cfg.Pads[0].GainDB, want)
	}
}

// TestMidiDecoderCCIgnoresAvailability documents that CC gain overrides
// reach a pad regardless of whether it has a loaded sample, unlike note-on.
func TestMidiDecoderCCIgnoresAvailability(t *testing.T) {
	cfg := configWithPad(0, Pad{Available: false, Ctrl: 20, GainDB: -50})
	vp := NewVoicePool()

	DecodeMidi([]MidiEvent{{Status: 0xB0, Data1: 20, Data2: 64}}, cfg, vp)

	want := 64.0 / 127.0
	if cfg.Pads[0].GainDB != want {
		t.Fatalf("GainDB = %v, want raw fraction %v even for an unavailable pad", cfg.Pads[0].GainDB, want)
	}
}

func TestMidiDecoderEventTimeOffsetBecomesStartIdx(t *testing.T) {
	cfg := configWithPad(0, Pad{Available: true, Tone: 36, LengthSamps: 10, GainLeftLin: 1, GainRightLin: 1})
	vp := NewVoicePool()

	DecodeMidi([]MidiEvent{{Status: 0x90, Data1: 36, Data2: 127, TimeOffset: 37}}, cfg, vp)

	if got := vp.Voices()[0].StartIdx; got != 37 {
		t.Fatalf("StartIdx = %d, want 37", got)
	}
}
