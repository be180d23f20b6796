package engine

// ProcessFunc is the realtime callback a Host invokes once per audio
// period with a caller-owned buffer size.
type ProcessFunc func(nframes int)

// Host abstracts the audio/MIDI backend: it registers the process
// callback, exposes the four logical ports (midi_in, midi_out, audio_out_l,
// audio_out_r named in spec.md §6), and drives ProcessFunc repeatedly once
// activated.
type Host interface {
	Register(cb ProcessFunc, bufferSize, sampleRate int) error
	Activate() error
	ConnectPorts(cfg *Config) error
	Close() error

	// ReadMidiIn fills buf with this period's inbound MIDI events (no
	// allocation: buf is preallocated and reused every period) and
	// returns the count written.
	ReadMidiIn(buf []MidiEvent) int

	// WriteAudio publishes this period's rendered stereo mix to the
	// audio_out_l/audio_out_r ports.
	WriteAudio(outL, outR []float32)
}

// SampleExplorer is the auxiliary preview-playback hook ProcessCallback
// invokes after mixing (spec.md §4.6 step 11). No implementation ships in
// this repository, and ControlPlane does not forward samples.command
// (load/play/stop) to one: it answers those commands with an error.
type SampleExplorer interface {
	ProcessAudio(outL, outR []float32, nframes int)
}

// ConfigFile reads and writes the persisted JSON configuration.
type ConfigFile interface {
	ReadFile(path string) (Config, error)
	WriteFile(path string, cfg Config) error
}

// SampleScanner recursively discovers wave files under a sample pack root.
type SampleScanner interface {
	Scan(root string) ([]Sample, error)
}

// WaveDecoder decodes a wave file to float32 PCM at a target sample rate.
type WaveDecoder interface {
	Decode(path string, targetSampleRate int) (WaveInfo, [][]float32, error)
}

// Clock generates the transport's beat/pulse position for the current
// period and accepts transport commands from the control plane.
type Clock interface {
	Process(nframes int) TransportState
	ApplyCommand(cmd TransportCommand) error
}

// TransportCommand is a control-plane instruction to the clock (play/stop/
// set tempo/seek).
type TransportCommand struct {
	Kind  TransportCommandKind
	Tempo float64
	Beat  int
}

// TransportCommandKind enumerates TransportCommand.Kind values.
type TransportCommandKind int

const (
	TransportPlay TransportCommandKind = iota
	TransportStop
	TransportSetTempo
	TransportSeek
)

// GuiTransport carries UI messages in both directions: Send pushes an
// engine-originated notification (e.g. a pad level meter update), Messages
// delivers operator-issued commands (pads.trigger, transport.command,
// data.get, data.patch, samples.get, samples.command per spec.md §6).
type GuiTransport interface {
	Send(section, msgType string, payload any) error
	Messages() <-chan GuiMessage
	Close() error
}

// GuiMessage is one inbound UI message.
type GuiMessage struct {
	Section string
	MsgType string
	Payload any
}
