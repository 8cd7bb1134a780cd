package tui

import (
	"sync"
	"time"

	"github.com/Mr-Dark-debug/tempo/internal/timeline"
	"github.com/Mr-Dark-debug/tempo/pkg/timeutil"
)

// stage is the render target of the controller. The controller writes
// into it from Update and from its timer goroutine; View reads a
// snapshot on every frame.
type stage struct {
	mu  sync.Mutex
	now func() time.Time

	index  int
	step   timeline.Step
	active int
	shown  bool
	nav    bool

	// Progress animates from 'from' to 'to' over 'transition', starting at 'start'.
	from       float64
	to         float64
	start      time.Time
	transition time.Duration
}

// stageView is what View needs from the stage for one frame.
type stageView struct {
	Index   int
	Step    timeline.Step
	Active  int
	Shown   bool
	Nav     bool
	Percent float64
}

func newStage(now func() time.Time) *stage {
	if now == nil {
		now = time.Now
	}
	return &stage{now: now, active: -1}
}

func (s *stage) surfaces() timeline.Surfaces {
	return timeline.Surfaces{Content: s, Progress: s, Selectors: s, Controls: s}
}

// ShowStep implements timeline.ContentRegion.
func (s *stage) ShowStep(index int, step timeline.Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = index
	s.step = step
	s.shown = true
}

// SetActive implements timeline.StepSelectors.
func (s *stage) SetActive(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = index
}

// SetEnabled implements timeline.NavControls.
func (s *stage) SetEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = enabled
}

// SetProgress implements timeline.ProgressIndicator. A new target
// starts animating from wherever the bar currently is.
func (s *stage) SetProgress(percent float64, transition time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.from = s.percentAt(now)
	s.to = percent
	s.start = now
	s.transition = transition
}

func (s *stage) percentAt(now time.Time) float64 {
	return timeutil.Lerp(s.from, s.to, s.start, now, s.transition)
}

func (s *stage) snapshot() stageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stageView{
		Index:   s.index,
		Step:    s.step,
		Active:  s.active,
		Shown:   s.shown,
		Nav:     s.nav,
		Percent: s.percentAt(s.now()),
	}
}
