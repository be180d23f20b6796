package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"mcksamplerd/clock"
	"mcksamplerd/configfile"
	"mcksamplerd/debug"
	"mcksamplerd/engine"
	"mcksamplerd/gui/guichan"
	"mcksamplerd/gui/guitea"
	"mcksamplerd/hostmidi"
	"mcksamplerd/samplepack"
	"mcksamplerd/theme"
	"mcksamplerd/wavedecode"
)

func main() {
	configPath := flag.String("config", "", "path to config.json (default: $HOME/.mck/sampler/config.json)")
	samplesDir := flag.String("samples", "", "sample pack root (default: $HOME/.local/share/mck/sampler)")
	midiIn := flag.String("midi-in", "", "substring match for the MIDI input port to open (default: first available)")
	debugLog := flag.Bool("debug", false, "enable debug logging")
	bufferSize := flag.Int("buffer-size", 256, "audio period size in frames")
	sampleRate := flag.Int("sample-rate", 48000, "audio sample rate")
	tempo := flag.Float64("tempo", 120, "initial metronome tempo (BPM)")
	nPulses := flag.Int("pulses-per-beat", 24, "metronome pulses per beat (MIDI clock PPQ)")
	headless := flag.Bool("headless", false, "run without the terminal inspector")
	flag.Parse()

	if *debugLog {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: debug log disabled: %v\n", err)
		}
		defer debug.Disable()
	}

	resolvedConfigPath := *configPath
	if resolvedConfigPath == "" {
		p, err := configfile.ConfigPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolve config path: %v\n", err)
			os.Exit(1)
		}
		resolvedConfigPath = p
	}

	resolvedSamplesDir := *samplesDir
	if resolvedSamplesDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "resolve sample pack root: %v\n", err)
			os.Exit(1)
		}
		resolvedSamplesDir = filepath.Join(home, ".local", "share", "mck", "sampler")
	}

	decoder := wavedecode.NewDecoder()
	cfgFile := configfile.NewFile()
	scanner := samplepack.NewScanner(decoder)
	host := hostmidi.NewHost(*midiIn)
	mclock := clock.NewMetronome(*tempo, *nPulses, *sampleRate)

	transport := guichan.NewTransport(32, 32)

	initial := configfile.DefaultConfig()
	initial.Tempo = *tempo
	proc := engine.NewProcessing(initial, mclock, nil, *bufferSize, *sampleRate, 64)
	cp := engine.NewControlPlane(proc, host, cfgFile, scanner, decoder, transport, resolvedSamplesDir, resolvedConfigPath)

	if err := cp.Init(*bufferSize, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "init engine: %v\n", err)
		os.Exit(1)
	}

	go dispatchGuiMessages(cp, transport, *sampleRate)

	if *headless {
		waitForSignal()
	} else {
		th := theme.New(theme.DefaultPalette())
		m := guitea.NewModel(transport, th)
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "tui error: %v\n", err)
		}
	}

	if err := cp.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		os.Exit(1)
	}
}

// dispatchGuiMessages forwards operator-issued commands from the GUI
// transport into the control plane, the way a standalone IPC server
// would; here it's an in-process loop since guichan is a channel pair.
func dispatchGuiMessages(cp *engine.ControlPlane, transport *guichan.Transport, sampleRate int) {
	for msg := range transport.Messages() {
		if _, err := cp.ReceiveMessage(msg, sampleRate); err != nil {
			debug.Log("gui", "message %s.%s failed: %v", msg.Section, msg.MsgType, err)
		}
	}
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}
