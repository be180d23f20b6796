package engine

// VoicePool is a fixed-size ring of voices. Assigning a new voice always
// overwrites the oldest slot (round-robin steal), which bounds worst-case
// work per period regardless of how many notes arrive. RT-thread owned.
// The slice is allocated once at construction and never grows, so Assign
// and Mix never allocate.
type VoicePool struct {
	voices []Voice
	next   int
}

// NewVoicePool returns an empty pool sized NumVoices, the production
// capacity (VoicesPerPad * SamplerNumPads).
func NewVoicePool() *VoicePool {
	return NewVoicePoolSize(NumVoices)
}

// NewVoicePoolSize returns an empty pool with a caller-chosen capacity,
// used by tests that need to observe voice stealing without allocating a
// full NumVoices pool.
func NewVoicePoolSize(capacity int) *VoicePool {
	return &VoicePool{voices: make([]Voice, capacity)}
}

// Assign steals the oldest voice slot and starts it playing padIdx's
// sample from frame 0, writing into the output buffer starting at
// startIdx (the MIDI event's offset within the current period).
func (vp *VoicePool) Assign(padIdx, startIdx, bufferLen int, gainLeft, gainRight, pitch float64) {
	vp.voices[vp.next] = Voice{
		Playing:   true,
		PadIdx:    padIdx,
		BufferIdx: 0,
		BufferLen: bufferLen,
		StartIdx:  startIdx,
		GainLeft:  gainLeft,
		GainRight: gainRight,
		Pitch:     pitch,
	}
	vp.next = (vp.next + 1) % len(vp.voices)
}

// Voices exposes a read-only view of the voice ring, for tests asserting
// on stealing behaviour (I3) and instrumentation.
func (vp *VoicePool) Voices() []Voice {
	return vp.voices
}

// Mix adds every playing voice's contribution into outL/outR (length
// bufferSize each, assumed pre-zeroed by the caller) and frees voices that
// reach the end of their sample.
func (vp *VoicePool) Mix(store *SampleStore, outL, outR []float32, bufferSize int) {
	for i := range vp.voices {
		v := &vp.voices[i]
		if !v.Playing {
			continue
		}
		info, pcm := store.Live(v.PadIdx)
		if !info.Valid {
			v.Playing = false
			continue
		}

		// n = min(bufferSize, bufferLen-bufferIdx) - startIdx: the frames
		// available in the sample this period, capped to the period size,
		// minus the offset already consumed by startIdx.
		n := v.BufferLen - v.BufferIdx
		if bufferSize < n {
			n = bufferSize
		}
		n -= v.StartIdx
		if n < 0 {
			n = 0
		}

		gainLeft, gainRight := v.GainLeft, v.GainRight
		if info.NumChannels > 1 {
			gainLeft = stereoCompensate(gainLeft)
			gainRight = stereoCompensate(gainRight)
			left, right := pcm[0], pcm[1]
			for k := 0; k < n; k++ {
				outL[v.StartIdx+k] += left[v.BufferIdx+k] * float32(gainLeft)
				outR[v.StartIdx+k] += right[v.BufferIdx+k] * float32(gainRight)
			}
		} else {
			mono := pcm[0]
			for k := 0; k < n; k++ {
				s := mono[v.BufferIdx+k]
				outL[v.StartIdx+k] += s * float32(gainLeft)
				outR[v.StartIdx+k] += s * float32(gainRight)
			}
		}

		v.BufferIdx += n
		v.StartIdx = 0 // only the first period after the trigger has a non-zero offset
		if v.BufferIdx >= v.BufferLen {
			v.Playing = false
		}
	}
}
