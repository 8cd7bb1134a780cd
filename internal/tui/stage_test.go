package tui

import (
	"math"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/tempo/internal/timeline"
	"github.com/Mr-Dark-debug/tempo/internal/timeline/timelinetest"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestStageInterpolatesProgress(t *testing.T) {
	clock := timelinetest.NewManualClock()
	s := newStage(clock.Now)

	s.SetProgress(0, 0)
	s.SetProgress(100, 10*time.Second)

	clock.Advance(5 * time.Second)
	if got := s.snapshot().Percent; !approxEqual(got, 50) {
		t.Errorf("expected 50%% halfway, got %v", got)
	}

	// Freeze, then resume towards 100 over the remaining 5s.
	s.SetProgress(50, 0)
	s.SetProgress(100, 5*time.Second)
	clock.Advance(2500 * time.Millisecond)
	if got := s.snapshot().Percent; !approxEqual(got, 75) {
		t.Errorf("expected 75%%, got %v", got)
	}

	clock.Advance(time.Minute)
	if got := s.snapshot().Percent; !approxEqual(got, 100) {
		t.Errorf("expected 100%% after the transition, got %v", got)
	}
}

func TestStageRetargetStartsFromCurrentWidth(t *testing.T) {
	clock := timelinetest.NewManualClock()
	s := newStage(clock.Now)

	s.SetProgress(100, 10*time.Second)
	clock.Advance(3 * time.Second)
	s.SetProgress(0, 10*time.Second)

	if got := s.snapshot().Percent; !approxEqual(got, 30) {
		t.Errorf("expected retarget to start at 30%%, got %v", got)
	}
}

func TestStageRecordsContentAndSelectors(t *testing.T) {
	s := newStage(nil)
	if v := s.snapshot(); v.Shown || v.Active != -1 {
		t.Errorf("unexpected initial stage: %+v", v)
	}

	s.ShowStep(2, timeline.Step{Title: "Plan", Body: "Together"})
	s.SetActive(2)

	v := s.snapshot()
	if !v.Shown || v.Index != 2 || v.Active != 2 || v.Step.Title != "Plan" {
		t.Errorf("unexpected stage: %+v", v)
	}
}

func TestStageVisibleRatio(t *testing.T) {
	tests := []struct {
		height int
		want   float64
	}{
		{0, 0},
		{2, 0},
		{7, 0.5},
		{stageRows + headerRows + footerRows, 1},
		{100, 1},
	}
	for _, tt := range tests {
		if got := stageVisibleRatio(tt.height); !approxEqual(got, tt.want) {
			t.Errorf("stageVisibleRatio(%d) = %v, want %v", tt.height, got, tt.want)
		}
	}
}

func TestSelectorAt(t *testing.T) {
	cell := selectorWidth(42, 4) // 10 columns each

	tests := []struct {
		x      int
		want   int
		wantOK bool
	}{
		{0, 0, false},
		{1, 0, true},
		{cell, 0, true},
		{cell + 1, 1, true},
		{4*cell + 1, 0, false},
	}
	for _, tt := range tests {
		got, ok := selectorAt(tt.x, 42, 4)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("selectorAt(%d) = %d, %v; want %d, %v", tt.x, got, ok, tt.want, tt.wantOK)
		}
	}

	if _, ok := selectorAt(5, 42, 0); ok {
		t.Error("expected no selector without steps")
	}
}

func TestRenderBar(t *testing.T) {
	if got := renderBar(50, 0); got != "" {
		t.Errorf("expected empty bar for zero width, got %q", got)
	}
	// Out-of-range percentages are clamped rather than panicking.
	_ = renderBar(-20, 10)
	_ = renderBar(150, 10)
}

func TestStageNavFollowsStepCount(t *testing.T) {
	for n, want := range map[int]bool{1: false, 3: true} {
		s := newStage(nil)
		steps := make([]timeline.Step, n)
		c, err := timeline.New(timeline.Config{
			Steps:    steps,
			Interval: time.Second,
			Clock:    timelinetest.NewManualClock(),
		}, s.surfaces())
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if got := s.snapshot().Nav; got != want {
			t.Errorf("%d steps: nav enabled = %v, want %v", n, got, want)
		}
		c.Dispose()
	}
}
