package engine

import "testing"

// TestSampleStoreStageThenCommit covers I1: until CommitPending is called,
// Live still returns the old (invalid) slot; after, the new slot is live.
func TestSampleStoreStageThenCommit(t *testing.T) {
	s := NewSampleStore()

	info, _ := s.Live(0)
	if info.Valid {
		t.Fatalf("fresh store should report invalid sample at pad 0")
	}

	pcm := [][]float32{{0.1, 0.2, 0.3}}
	s.Stage(0, WaveInfo{Valid: true, NumChannels: 1, NumFrames: 3, SampleRate: 48000}, pcm)

	info, _ = s.Live(0)
	if info.Valid {
		t.Fatalf("Live must not observe a staged sample before CommitPending")
	}

	s.CommitPending()

	info, got := s.Live(0)
	if !info.Valid || info.NumFrames != 3 {
		t.Fatalf("after commit: info = %+v, want valid 3-frame info", info)
	}
	if len(got[0]) != 3 || got[0][1] != 0.2 {
		t.Fatalf("after commit: pcm = %v, want %v", got, pcm)
	}
}

func TestSampleStoreIndependentPads(t *testing.T) {
	s := NewSampleStore()
	s.Stage(0, WaveInfo{Valid: true, NumFrames: 1}, [][]float32{{1}})
	s.CommitPending()

	info, _ := s.Live(1)
	if info.Valid {
		t.Fatalf("staging pad 0 must not affect pad 1")
	}
}

func TestSampleStoreRestage(t *testing.T) {
	s := NewSampleStore()
	s.Stage(2, WaveInfo{Valid: true, NumFrames: 1}, [][]float32{{1}})
	s.CommitPending()
	s.Stage(2, WaveInfo{Valid: true, NumFrames: 2}, [][]float32{{5, 6}})
	s.CommitPending()

	info, pcm := s.Live(2)
	if info.NumFrames != 2 || pcm[0][0] != 5 {
		t.Fatalf("restage: got info=%+v pcm=%v", info, pcm)
	}
}
