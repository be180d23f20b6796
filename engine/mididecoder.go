package engine

// MidiEvent is one raw decoded status/data-byte triple with its frame
// offset inside the current period. The RT thread builds these directly
// from host-delivered bytes; no allocation, no gomidi.Message parsing on
// this path (that lives in package hostmidi, off the RT thread).
type MidiEvent struct {
	Status     uint8
	Data1      uint8
	Data2      uint8
	TimeOffset int
}

const (
	statusNoteOn uint8 = 0x90
	statusCC     uint8 = 0xB0
)

// DecodeMidi applies a period's worth of MIDI events to the active config
// and voice pool: note-on triggers every pad whose tone matches, and CC
// live-mutates every pad whose ctrl matches.
//
// The CC branch writes value/127.0 straight into GainDB: the field is
// documented in dB but the handler stores a raw 0..1 fraction, a known
// mismatch preserved from the original rather than silently corrected.
func DecodeMidi(events []MidiEvent, cfg *Config, voices *VoicePool) {
	for _, e := range events {
		if e.Status&0xF0 == 0xF0 {
			continue // system message, not addressed to a channel
		}
		if e.Status&0x0F != cfg.MidiChan&0x0F {
			continue
		}

		switch e.Status & 0xF0 {
		case statusNoteOn:
			tone := e.Data1 & 0x7F
			velocity := e.Data2 & 0x7F
			for i := range cfg.Pads {
				p := &cfg.Pads[i]
				if p.Available && p.Tone == tone {
					strength := float64(velocity) / 127.0
					voices.Assign(i, e.TimeOffset, p.LengthSamps, strength*p.GainLeftLin, strength*p.GainRightLin, p.Pitch)
				}
			}
		case statusCC:
			ctrl := e.Data1 & 0x7F
			value := e.Data2 & 0x7F
			for i := range cfg.Pads {
				p := &cfg.Pads[i]
				if p.Ctrl == ctrl {
					p.GainDB = float64(value) / 127.0
				}
			}
		}
	}
}
