package engine

import "math"

// TransportState is the beat/pulse position the clock collaborator
// computes for the current period.
type TransportState struct {
	Running bool
	Beat    int
	Pulse   int
	NPulses int // pulses per beat, from the clock's PPQ resolution
	PulseIdx int // monotonic pulse counter, used to place a step within the current buffer
}

// StepSequencer tracks the last evaluated step so a period that doesn't
// cross a step boundary is a no-op.
type StepSequencer struct {
	lastStep int
}

// NewStepSequencer returns a sequencer primed so the first evaluated step
// (including step 0) is always treated as new.
func NewStepSequencer() *StepSequencer {
	return &StepSequencer{lastStep: -1}
}

// ComputeStep derives the 0..15 step index from the transport's beat/pulse
// position, or -1 while stopped.
func ComputeStep(ts TransportState) int {
	if !ts.Running || ts.NPulses <= 0 {
		return -1
	}
	step := ts.Beat*4 + int(math.Floor(float64(ts.Pulse)/float64(ts.NPulses)*4.0))
	return step % NumSteps
}

// Evaluate triggers every pad's active step at stepIdx, once per step
// boundary. startIdx is the output-buffer offset the triggered voices
// should start at (the frame within the period where the step lands).
//
// patternIdx is computed as floor(stepIdx/16); since stepIdx is already
// reduced mod 16 by ComputeStep this always resolves to 0, so every pad
// always plays pattern 0 regardless of how many patterns it has. This is
// preserved verbatim from the original rather than "fixed" — see
// DESIGN.md's Open Questions section.
func (sq *StepSequencer) Evaluate(stepIdx int, ts TransportState, bufferSize int, cfg *Config, voices *VoicePool) bool {
	if stepIdx < 0 || stepIdx == sq.lastStep {
		return false
	}
	sq.lastStep = stepIdx

	startIdx := ts.PulseIdx % bufferSize
	patternIdx := int(math.Floor(float64(stepIdx) / 16.0))

	for i := range cfg.Pads {
		p := &cfg.Pads[i]
		if !p.Available || len(p.Patterns) == 0 {
			continue
		}
		pat := p.Patterns[patternIdx%len(p.Patterns)]
		if len(pat.Steps) == 0 {
			continue
		}
		st := pat.Steps[stepIdx%len(pat.Steps)]
		if !st.Active {
			continue
		}
		strength := float64(st.Velocity) / 127.0
		voices.Assign(i, startIdx, p.LengthSamps, strength*p.GainLeftLin, strength*p.GainRightLin, p.Pitch)
	}
	return true
}
