package engine

import "testing"

// TestConfigSwapObserveAtomicity covers I2/scenario 3: the RT thread must
// never see a config between Inactive's mutation and Publish, and must
// see the full new config only after Observe.
func TestConfigSwapObserveAtomicity(t *testing.T) {
	initial := Config{Tempo: 120}
	cs := NewConfigSwap(initial)

	if got := cs.Active().Tempo; got != 120 {
		t.Fatalf("Active().Tempo = %v, want 120", got)
	}

	cs.Inactive().Tempo = 140
	if got := cs.Active().Tempo; got != 120 {
		t.Fatalf("Active().Tempo changed before Publish: got %v", got)
	}

	cs.Publish()
	if got := cs.Active().Tempo; got != 120 {
		t.Fatalf("Active().Tempo changed before Observe: got %v", got)
	}

	cs.Observe()
	if got := cs.Active().Tempo; got != 140 {
		t.Fatalf("Active().Tempo = %v after Observe, want 140", got)
	}
}

func TestConfigSwapInactiveAlternates(t *testing.T) {
	cs := NewConfigSwap(Config{})

	cs.Inactive().Tempo = 1
	cs.Publish()
	cs.Observe()
	if cs.Active().Tempo != 1 {
		t.Fatalf("first publish didn't take")
	}

	cs.Inactive().Tempo = 2
	cs.Publish()
	cs.Observe()
	if cs.Active().Tempo != 2 {
		t.Fatalf("second publish didn't take")
	}
}

func TestConfigSwapObserveWithoutPublishIsNoop(t *testing.T) {
	cs := NewConfigSwap(Config{Tempo: 90})
	cs.Observe()
	cs.Observe()
	if cs.Active().Tempo != 90 {
		t.Fatalf("Observe without Publish must not change Active")
	}
}
