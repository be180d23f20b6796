package configfile

import (
	"path/filepath"
	"testing"

	"mcksamplerd/engine"
)

func TestReadFileMissingReturnsDefault(t *testing.T) {
	f := NewFile()
	cfg, err := f.ReadFile(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("ReadFile on a missing path returned an error: %v", err)
	}
	if cfg.Tempo != 120 {
		t.Fatalf("DefaultConfig().Tempo = %v, want 120", cfg.Tempo)
	}
	if cfg.Pads[0].Tone != Kits["gm"].Notes[0] {
		t.Fatalf("default pad 0 tone = %d, want %d", cfg.Pads[0].Tone, Kits["gm"].Notes[0])
	}
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	f := NewFile()
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Tempo = 96
	cfg.Pads[3].SampleName = "clap.wav"

	if err := f.WriteFile(path, cfg); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := f.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Tempo != 96 || got.Pads[3].SampleName != "clap.wav" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestReadFileClampsOutOfRangeValues(t *testing.T) {
	f := NewFile()
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.Pads[0].GainDB = 999
	cfg.Pads[0].Pan = -999
	cfg.Pads[0].Patterns = []engine.Pattern{{Steps: []engine.Step{{Active: true, Velocity: 255}}}}

	if err := f.WriteFile(path, cfg); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := f.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.Pads[0].GainDB != 6 {
		t.Fatalf("GainDB = %v, want clamped to 6", got.Pads[0].GainDB)
	}
	if got.Pads[0].Pan != -100 {
		t.Fatalf("Pan = %v, want clamped to -100", got.Pads[0].Pan)
	}
	if got.Pads[0].Patterns[0].Steps[0].Velocity != 127 {
		t.Fatalf("Velocity = %d, want clamped to 127", got.Pads[0].Patterns[0].Steps[0].Velocity)
	}
}

func TestGetKitFallsBackToGM(t *testing.T) {
	if got := GetKit("nonexistent"); got.Name != Kits["gm"].Name {
		t.Fatalf("GetKit(unknown) = %q, want gm fallback", got.Name)
	}
}
