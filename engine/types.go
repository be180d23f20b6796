// Package engine implements the realtime MIDI-driven drum sampler: a fixed
// voice pool mixing pre-loaded PCM samples, triggered by MIDI note/CC
// messages and a step sequencer, behind a lock-free config and sample
// handoff so the audio thread never allocates or blocks.
package engine

// SamplerNumPads is the fixed pad count (GM-16 drum grid layout carried
// over from the teacher's 16-track pattern grid).
const SamplerNumPads = 16

// VoicesPerPad bounds how many overlapping hits a single pad can sustain
// before the oldest is stolen.
const VoicesPerPad = 4

// NumVoices is the size of the global voice pool.
const NumVoices = SamplerNumPads * VoicesPerPad

// NumSteps is the step count per pattern bar.
const NumSteps = 16

// Sample describes one scanned wave file, independent of any pad
// assignment.
type Sample struct {
	Available    bool   `json:"available"`
	Name         string `json:"name"`
	RelativePath string `json:"relativePath"`
	FullPath     string `json:"fullPath"`
	NumChannels  int    `json:"numChannels"`
	NumFrames    int    `json:"numFrames"`
	SampleRate   int    `json:"sampleRate"`
}

// Step is one sequencer cell.
type Step struct {
	Active   bool  `json:"active"`
	Velocity uint8 `json:"velocity"` // 0..127, clamped on load
}

// Pattern is one bar of steps for a single pad.
type Pattern struct {
	Steps []Step `json:"steps"`
}

// Pad binds a MIDI tone/CC pair to a sample and its patterns.
type Pad struct {
	Available    bool      `json:"available"`
	Tone         uint8     `json:"tone"` // MIDI note number that triggers this pad
	Ctrl         uint8     `json:"ctrl"` // MIDI CC number that live-mutates GainDB
	SamplePath   string    `json:"samplePath"`
	SampleName   string    `json:"sampleName"`
	SampleIdx    int       `json:"sampleIdx"` // index into Config.Samples, -1 if unassigned
	GainDB       float64   `json:"gainDb"`
	Pan          float64   `json:"pan"` // -100..100
	LengthMs     float64   `json:"lengthMs"`
	LengthSamps  int       `json:"lengthSamps"`  // derived: LengthMs at the engine sample rate
	Pitch        float64   `json:"pitch"`
	GainLeftLin  float64   `json:"gainLeftLin"`  // derived: lin(GainDB) * pan-law left term
	GainRightLin float64   `json:"gainRightLin"` // derived: lin(GainDB) * pan-law right term
	Patterns     []Pattern `json:"patterns"`
}

// Config is the full live configuration: tempo, pad bank and persisted
// port-connection lists. Two instances of Config live side by side in
// ConfigSwap; control-thread code must only mutate the inactive instance.
//
// Pads is a fixed-size array rather than a slice: it makes invariant 4
// ("pads.len() == numPads == SAMPLER_NUM_PADS") hold structurally instead
// of needing the resize-with-defaults step spec.md §4.7 describes for a
// variable-length representation.
type Config struct {
	Tempo    float64                 `json:"tempo"`
	MidiChan uint8                   `json:"midiChan"`
	Pads     [SamplerNumPads]Pad     `json:"pads"`
	Samples  []Sample                `json:"samples"`

	Reconnect             bool     `json:"reconnect"`
	MidiInConnections     []string `json:"midiInConnections"`
	MidiOutConnections    []string `json:"midiOutConnections"`
	AudioLeftConnections  []string `json:"audioLeftConnections"`
	AudioRightConnections []string `json:"audioRightConnections"`
}

// Voice is one playing instance of a pad's sample. RT-thread owned; never
// touched by the control thread.
type Voice struct {
	Playing   bool
	PadIdx    int
	BufferIdx int // next source frame to read
	BufferLen int
	StartIdx  int // output-buffer offset to start writing from (for MIDI events mid-period)
	GainLeft  float64
	GainRight float64
	Pitch     float64
}

// WaveInfo is the decoded-sample metadata published alongside PCM data in
// a PadSampleSlot.
type WaveInfo struct {
	Valid       bool
	NumChannels int
	NumFrames   int
	SampleRate  int
}
