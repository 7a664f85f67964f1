package observ

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	cur := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	idx := tm.Begin("load")
	tm.End(idx, "3 files")
	if err := tm.Measure("resolve", func() error { return nil }); err != nil {
		t.Fatalf("Measure: %v", err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("render+write", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Measure returned %v", err)
	}

	rep := tm.Report()
	if len(rep.Phases) != 3 {
		t.Fatalf("expected 3 phases, got %d", len(rep.Phases))
	}
	for _, p := range rep.Phases {
		if p.DurationMS != 2 {
			t.Errorf("phase %s = %v ms, want 2", p.Name, p.DurationMS)
		}
	}
	if rep.TotalMS != 6 {
		t.Errorf("total = %v ms, want 6", rep.TotalMS)
	}
	if rep.Phases[0].Note != "3 files" || rep.Phases[2].Note != "failed" {
		t.Errorf("notes = %q, %q", rep.Phases[0].Note, rep.Phases[2].Note)
	}

	sum := tm.Summary()
	for _, want := range []string{"timings:", "load", "// 3 files", "render+write", "total"} {
		if !strings.Contains(sum, want) {
			t.Errorf("summary missing %q:\n%s", want, sum)
		}
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "ignored")
	if len(tm.Phases()) != 0 {
		t.Fatal("End must not create phases")
	}
	if rep := tm.Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Errorf("empty timer report = %+v", rep)
	}
}
