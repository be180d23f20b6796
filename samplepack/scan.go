// Package samplepack recursively discovers wave files under a sample pack
// root directory, the way the original engine's ScanSampleFolder does.
package samplepack

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"mcksamplerd/engine"
)

// Scanner implements engine.SampleScanner by walking root for .wav files
// and reading each one's header for channel/frame/rate metadata.
type Scanner struct {
	decoder engine.WaveDecoder
}

// NewScanner returns a Scanner that reads headers through decoder (only
// header fields are used; PCM data is decoded later, at pad-assign time).
func NewScanner(decoder engine.WaveDecoder) *Scanner {
	return &Scanner{decoder: decoder}
}

// Scan walks root, collecting every .wav file's relative path, stem name
// and decoded header info, sorted by relative path (matching the
// original's sort order so sample indices stay stable across rescans).
func (s *Scanner) Scan(root string) ([]engine.Sample, error) {
	var samples []engine.Sample

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".wav" {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		info, _, err := s.decoder.Decode(path, 0) // targetSampleRate 0: no resample; only the header fields are kept
		if err != nil {
			return nil // unreadable wave file: skip it rather than failing the whole scan
		}

		samples = append(samples, engine.Sample{
			Available:    true,
			Name:         strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)),
			RelativePath: rel,
			FullPath:     path,
			NumChannels:  info.NumChannels,
			NumFrames:    info.NumFrames,
			SampleRate:   info.SampleRate,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].RelativePath < samples[j].RelativePath
	})
	return samples, nil
}
