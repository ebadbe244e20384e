package pipeline

import (
	"testing"
	"time"
)

func TestExtractStats_EmptySnapshot(t *testing.T) {
	s := NewExtractStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 {
		t.Errorf("expected empty snapshot, got count %d", snap.Count)
	}
}

func TestExtractStats_Aggregates(t *testing.T) {
	s := NewExtractStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400} {
		s.Record(ms)
	}

	snap := s.Snapshot()
	if snap.Count != 4 {
		t.Fatalf("expected 4 samples, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 400 {
		t.Errorf("expected min 100 max 400, got %d and %d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 250 {
		t.Errorf("expected avg 250, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 250 {
		t.Errorf("expected p50 250, got %f", snap.P50Ms)
	}
}

func TestExtractStats_NegativeClampedToZero(t *testing.T) {
	s := NewExtractStats(time.Hour)
	s.Record(-5)
	snap := s.Snapshot()
	if snap.MinMs != 0 {
		t.Errorf("expected negative duration clamped to 0, got %d", snap.MinMs)
	}
}

func TestExtractStats_WindowPruning(t *testing.T) {
	s := NewExtractStats(30 * time.Millisecond)
	s.Record(100)
	time.Sleep(60 * time.Millisecond)
	s.Record(200)

	snap := s.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected old sample pruned, got %d samples", snap.Count)
	}
	if snap.MinMs != 200 {
		t.Errorf("expected surviving sample 200, got %d", snap.MinMs)
	}
}

func TestPercentile_Interpolation(t *testing.T) {
	values := []int64{10, 20, 30, 40}
	if got := percentile(values, 0); got != 10 {
		t.Errorf("expected p0 = 10, got %f", got)
	}
	if got := percentile(values, 100); got != 40 {
		t.Errorf("expected p100 = 40, got %f", got)
	}
	if got := percentile(values, 50); got != 25 {
		t.Errorf("expected p50 = 25, got %f", got)
	}
}
