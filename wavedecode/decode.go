// Package wavedecode implements engine.WaveDecoder on top of
// github.com/youpy/go-wav, with a naive linear-interpolation resampler to
// the engine's target sample rate.
package wavedecode

import (
	"io"
	"os"

	"github.com/youpy/go-wav"

	"mcksamplerd/engine"
)

// Decoder implements engine.WaveDecoder.
type Decoder struct{}

// NewDecoder returns a Decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode reads path fully into float32 PCM, one []float32 per channel,
// resampling to targetSampleRate if it differs from the file's native
// rate and is positive. targetSampleRate <= 0 skips resampling and
// returns the file's native rate, used by package samplepack when only
// header metadata is needed.
func (d *Decoder) Decode(path string, targetSampleRate int) (engine.WaveInfo, [][]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return engine.WaveInfo{}, nil, err
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return engine.WaveInfo{}, nil, err
	}

	numChannels := int(format.NumChannels)
	channels := make([][]float32, numChannels)

	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return engine.WaveInfo{}, nil, err
		}
		for _, s := range samples {
			for ch := 0; ch < numChannels; ch++ {
				channels[ch] = append(channels[ch], float32(r.FloatValue(s, uint(ch))))
			}
		}
	}

	nativeRate := int(format.SampleRate)
	info := engine.WaveInfo{
		Valid:       true,
		NumChannels: numChannels,
		NumFrames:   len(channels[0]),
		SampleRate:  nativeRate,
	}

	if targetSampleRate <= 0 || targetSampleRate == nativeRate {
		return info, channels, nil
	}

	resampled := make([][]float32, numChannels)
	for ch := range channels {
		resampled[ch] = resampleLinear(channels[ch], nativeRate, targetSampleRate)
	}
	info.SampleRate = targetSampleRate
	info.NumFrames = len(resampled[0])
	return info, resampled, nil
}

// resampleLinear resamples src from srcRate to dstRate by linear
// interpolation between neighboring frames. Not band-limited: adequate
// for drum one-shots, not intended as a general-purpose resampler.
func resampleLinear(src []float32, srcRate, dstRate int) []float32 {
	if len(src) == 0 || srcRate <= 0 || dstRate <= 0 {
		return nil
	}
	ratio := float64(srcRate) / float64(dstRate)
	outLen := int(float64(len(src)) / ratio)
	out := make([]float32, outLen)
	for i := range out {
		srcPos := float64(i) * ratio
		i0 := int(srcPos)
		frac := srcPos - float64(i0)
		if i0 >= len(src)-1 {
			out[i] = src[len(src)-1]
			continue
		}
		out[i] = src[i0]*float32(1-frac) + src[i0+1]*float32(frac)
	}
	return out
}
