// Package configfile persists the sampler's engine.Config as JSON at
// $HOME/.mck/sampler/config.json, and seeds new pads from a named drum kit
// tone map the way the teacher's project/kit system does.
package configfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"mcksamplerd/engine"
)

// ConfigDir returns the directory config.json and debug.log live under.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mck", "sampler"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// File implements engine.ConfigFile against the local filesystem.
type File struct{}

// NewFile returns a File reader/writer.
func NewFile() *File { return &File{} }

// ReadFile loads cfg from path, or returns DefaultConfig if the file
// doesn't exist yet. Every pad's velocity table and gain/pan are clamped
// to their documented ranges on ingest, mirroring the original's
// JSON-load-time clamp.
func (f *File) ReadFile(path string) (engine.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return engine.Config{}, err
	}

	var cfg engine.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return engine.Config{}, err
	}
	clampConfig(&cfg)
	return cfg, nil
}

// WriteFile persists cfg to path, creating its directory if needed.
func (f *File) WriteFile(path string, cfg engine.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func clampConfig(cfg *engine.Config) {
	for i := range cfg.Pads {
		p := &cfg.Pads[i]
		if p.GainDB < -200 {
			p.GainDB = -200
		}
		if p.GainDB > 6 {
			p.GainDB = 6
		}
		if p.Pan < -100 {
			p.Pan = -100
		}
		if p.Pan > 100 {
			p.Pan = 100
		}
		for pi := range p.Patterns {
			for si := range p.Patterns[pi].Steps {
				st := &p.Patterns[pi].Steps[si]
				if st.Velocity > 127 {
					st.Velocity = 127
				}
			}
		}
	}
}

// DefaultConfig seeds a fresh Config with the "gm" kit's tone map, all
// pads unavailable until a sample is assigned, and one empty pattern each
// so the sequencer has something to index into immediately.
func DefaultConfig() engine.Config {
	cfg := engine.Config{Tempo: 120, MidiChan: 0}
	kit := GetKit(DefaultKit)
	for i := 0; i < engine.SamplerNumPads; i++ {
		cfg.Pads[i] = engine.Pad{
			Available:    false,
			Tone:         kit.Notes[i],
			Ctrl:         uint8(20 + i),
			SampleIdx:    -1,
			GainDB:       0,
			Pan:          0,
			LengthMs:     1000,
			GainLeftLin:  1,
			GainRightLin: 1,
			Patterns:     []engine.Pattern{{Steps: make([]engine.Step, engine.NumSteps)}},
		}
	}
	return cfg
}
