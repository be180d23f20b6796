package engine

import "math"

// linGain converts a decibel value to a linear amplitude multiplier.
func linGain(db float64) float64 {
	return math.Pow(10, db/20.0)
}

// panLaw splits a linear gain into left/right terms from a -100..100 pan
// value using an equal-power law: gainLeft = gain*sqrt((100-pan)/200),
// gainRight = gain*sqrt((100+pan)/200).
func panLaw(gain, pan float64) (left, right float64) {
	left = gain * math.Sqrt((100-pan)/200)
	right = gain * math.Sqrt((100+pan)/200)
	return left, right
}

// deriveGains fills Pad.GainLeftLin/GainRightLin from GainDB and Pan.
func deriveGains(p *Pad) {
	g := linGain(p.GainDB)
	p.GainLeftLin, p.GainRightLin = panLaw(g, p.Pan)
}

// stereoCompensate scales a stereo source's per-channel gain up by √2,
// undoing the 1/√2 the mono pan law applies at centre pan, clamped to
// unity.
func stereoCompensate(g float64) float64 {
	g *= math.Sqrt2
	if g > 1.0 {
		return 1.0
	}
	return g
}
