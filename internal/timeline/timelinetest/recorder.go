package timelinetest

import (
	"sync"
	"time"

	"github.com/Mr-Dark-debug/tempo/internal/timeline"
)

// ProgressCall is one SetProgress invocation.
type ProgressCall struct {
	Percent    float64
	Transition time.Duration
}

// Recorder implements every timeline surface and keeps what it was told.
type Recorder struct {
	mu       sync.Mutex
	shown    []int
	step     timeline.Step
	active   int
	progress []ProgressCall
	enabled  *bool
}

// NewRecorder returns a Recorder with no active selector.
func NewRecorder() *Recorder {
	return &Recorder{active: -1}
}

// Surfaces wires the recorder into every surface slot.
func (r *Recorder) Surfaces() timeline.Surfaces {
	return timeline.Surfaces{Content: r, Progress: r, Selectors: r, Controls: r}
}

func (r *Recorder) ShowStep(index int, step timeline.Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, index)
	r.step = step
}

func (r *Recorder) SetProgress(percent float64, transition time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, ProgressCall{Percent: percent, Transition: transition})
}

func (r *Recorder) SetActive(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = index
}

func (r *Recorder) SetEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = &enabled
}

// ControlsEnabled reports the last SetEnabled value and whether it was
// ever called.
func (r *Recorder) ControlsEnabled() (enabled, set bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enabled == nil {
		return false, false
	}
	return *r.enabled, true
}

// Step returns the last step written to the content region.
func (r *Recorder) Step() timeline.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

// Shown returns every index written to the content region, in order.
func (r *Recorder) Shown() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.shown...)
}

// Active returns the active selector index, or -1 before any render.
func (r *Recorder) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// LastProgress returns the most recent SetProgress call.
func (r *Recorder) LastProgress() (ProgressCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.progress) == 0 {
		return ProgressCall{}, false
	}
	return r.progress[len(r.progress)-1], true
}

// Progress returns every SetProgress call, in order.
func (r *Recorder) Progress() []ProgressCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ProgressCall(nil), r.progress...)
}

// Reset forgets recorded calls but keeps the active index and step.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = nil
	r.progress = nil
}
