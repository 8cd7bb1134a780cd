// Package timeline drives a cyclic, timed sequence of steps.
//
// A Controller owns the step list, the selected index, a single one-shot
// autoplay timer and the elapsed-time bookkeeping that lets autoplay be
// paused and resumed without skipping or repeating step time. Rendering is
// delegated to optional Surfaces supplied by the host view.
package timeline

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/Mr-Dark-debug/tempo/pkg/timeutil"
)

const (
	// DefaultInterval is the autoplay duration per step.
	DefaultInterval = 12 * time.Second

	// DefaultVisibilityThreshold is the fraction of the host section that
	// must be in view for autoplay to run.
	DefaultVisibilityThreshold = 0.35
)

// Step is one stage of the timeline.
type Step struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// Phase is the coarse playback state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// ContentRegion receives the active step's heading and paragraph.
type ContentRegion interface {
	ShowStep(index int, step Step)
}

// ProgressIndicator receives a target width percentage and the duration
// over which to animate towards it. A zero transition means jump.
type ProgressIndicator interface {
	SetProgress(percent float64, transition time.Duration)
}

// StepSelectors marks exactly one selector as active.
type StepSelectors interface {
	SetActive(index int)
}

// NavControls are the prev/next buttons. They are disabled when there is
// only one step to move between.
type NavControls interface {
	SetEnabled(enabled bool)
}

// Surfaces are the render targets the controller writes into.
// Any of them may be nil.
type Surfaces struct {
	Content   ContentRegion
	Progress  ProgressIndicator
	Selectors StepSelectors
	Controls  NavControls
}

// Config configures a Controller.
type Config struct {
	Steps    []Step
	Interval time.Duration

	// RespectReducedMotion makes the controller honour PrefersReducedMotion.
	RespectReducedMotion bool
	// PrefersReducedMotion reports the host preference. It is read once, in New.
	PrefersReducedMotion func() bool

	// VisibilityThreshold is the minimum visible ratio for autoplay.
	// Zero selects DefaultVisibilityThreshold.
	VisibilityThreshold float64

	Clock  Clock
	Logger *log.Logger
}

// PlaybackState is a snapshot of the controller.
type PlaybackState struct {
	Index         int           `json:"index"`
	StepCount     int           `json:"step_count"`
	Running       bool          `json:"running"`
	Phase         Phase         `json:"phase"`
	Elapsed       time.Duration `json:"elapsed"`
	Interval      time.Duration `json:"interval"`
	Visible       bool          `json:"visible"`
	Hovered       bool          `json:"hovered"`
	Focused       bool          `json:"focused"`
	ReducedMotion bool          `json:"reduced_motion"`
}

// Controller is safe for concurrent use. Every entry point, including
// timer callbacks, runs to completion under one mutex. Surfaces are
// invoked with that mutex held and must not call back into the Controller.
type Controller struct {
	mu       sync.Mutex
	clock    Clock
	logger   *log.Logger
	surfaces Surfaces

	steps     []Step
	stepCount int
	interval  time.Duration
	threshold float64
	reduced   bool

	index     int
	running   bool
	phase     Phase
	elapsed   time.Duration
	startedAt time.Time

	// generation invalidates callbacks of cancelled timers that
	// were already dequeued by the runtime when Stop was called.
	timer      Timer
	generation uint64

	visible bool
	hovered bool
	focused bool

	subscriptions []func()
	disposed      bool
}

// New validates cfg and returns an idle controller at index 0.
// Nothing is rendered until Render or UserAdvance is called.
func New(cfg Config, surfaces Surfaces) (*Controller, error) {
	if len(cfg.Steps) == 0 {
		return nil, &ConfigError{Field: "steps", Reason: "at least one step is required"}
	}
	if cfg.Interval <= 0 {
		return nil, &ConfigError{Field: "interval", Reason: fmt.Sprintf("must be positive, got %s", cfg.Interval)}
	}

	threshold := cfg.VisibilityThreshold
	if threshold == 0 {
		threshold = DefaultVisibilityThreshold
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, &ConfigError{Field: "visibility threshold", Reason: fmt.Sprintf("must be within (0, 1], got %v", cfg.VisibilityThreshold)}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	reduced := cfg.RespectReducedMotion && cfg.PrefersReducedMotion != nil && cfg.PrefersReducedMotion()

	c := &Controller{
		clock:     clock,
		logger:    logger,
		surfaces:  surfaces,
		steps:     append([]Step(nil), cfg.Steps...),
		stepCount: len(cfg.Steps),
		interval:  cfg.Interval,
		threshold: threshold,
		reduced:   reduced,
		phase:     PhaseIdle,
	}

	if surfaces.Content == nil {
		logger.Printf("[DEBUG] timeline: no content region attached")
	}
	if surfaces.Progress == nil {
		logger.Printf("[DEBUG] timeline: no progress indicator attached")
	}
	if surfaces.Selectors == nil {
		logger.Printf("[DEBUG] timeline: no step selectors attached")
	}
	if surfaces.Controls == nil {
		logger.Printf("[DEBUG] timeline: no prev/next controls attached")
	} else {
		surfaces.Controls.SetEnabled(len(cfg.Steps) > 1)
	}
	if reduced {
		logger.Printf("[INFO] timeline: reduced motion requested, autoplay disabled")
	}

	return c, nil
}

// ────────────────────────────────────────────────────────────
// Navigation
// ────────────────────────────────────────────────────────────

// Render selects index (wrapped into range, negatives included) and
// writes it to the surfaces. Timing state is left to the caller.
func (c *Controller) Render(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.render(index)
}

// UserAdvance navigates explicitly to target. Elapsed time is reset and,
// if autoplay is running, a full interval is rescheduled from now.
func (c *Controller) UserAdvance(target int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.userAdvance(target)
}

// Next moves to the following step, wrapping at the end.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.userAdvance(c.index + 1)
}

// Prev moves to the preceding step, wrapping at the start.
func (c *Controller) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.userAdvance(c.index - 1)
}

func (c *Controller) render(index int) {
	n := len(c.steps)
	c.index = ((index % n) + n) % n

	if c.surfaces.Selectors != nil {
		c.surfaces.Selectors.SetActive(c.index)
	}
	if c.surfaces.Content != nil {
		c.surfaces.Content.ShowStep(c.index, c.steps[c.index])
	}
	if c.reduced {
		c.paint(100, 0)
	}
}

func (c *Controller) userAdvance(target int) {
	c.render(target)
	c.elapsed = 0

	if c.running {
		c.restartCycle()
		return
	}
	if c.reduced {
		c.paint(100, 0)
	} else {
		c.paint(0, 0)
	}
}

// restartCycle begins a full interval on the current step from now.
func (c *Controller) restartCycle() {
	c.startedAt = c.clock.Now()
	c.paint(0, 0)
	c.paint(100, c.interval)
	c.schedule(c.interval)
}

// ────────────────────────────────────────────────────────────
// Autoplay
// ────────────────────────────────────────────────────────────

// StartAutoplay resumes automatic advancement from the accumulated
// elapsed time. It is a no-op when already running or under reduced motion.
func (c *Controller) StartAutoplay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startAutoplay()
}

// StopAutoplay pauses automatic advancement, banking the time spent on
// the current step. It is a no-op when not running.
func (c *Controller) StopAutoplay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopAutoplay()
}

func (c *Controller) startAutoplay() {
	if c.disposed || c.reduced || c.running {
		return
	}

	c.running = true
	c.phase = PhaseRunning

	remaining := clampDuration(c.interval-c.elapsed, c.interval)
	c.startedAt = c.clock.Now()
	c.paint(timeutil.Percent(c.elapsed, c.interval), 0)
	c.paint(100, remaining)
	c.schedule(remaining)

	c.logger.Printf("[DEBUG] timeline: autoplay started at step %d/%d (%s remaining)",
		c.index+1, len(c.steps), timeutil.FormatDuration(remaining))
}

func (c *Controller) stopAutoplay() {
	if !c.running {
		return
	}

	c.running = false
	c.phase = PhasePaused
	c.cancelTimer()

	c.elapsed = clampDuration(c.elapsed+c.clock.Now().Sub(c.startedAt), c.interval)
	c.paint(timeutil.Percent(c.elapsed, c.interval), 0)

	c.logger.Printf("[DEBUG] timeline: autoplay paused at step %d/%d (%s elapsed)",
		c.index+1, len(c.steps), timeutil.FormatDuration(c.elapsed))
}

// schedule arms the single autoplay timer, replacing any pending one.
func (c *Controller) schedule(d time.Duration) {
	c.cancelTimer()
	gen := c.generation
	c.timer = c.clock.AfterFunc(d, func() { c.fire(gen) })
}

func (c *Controller) cancelTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
}

// fire is the timer callback: advance one step and start a new cycle.
func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disposed || !c.running || gen != c.generation {
		return
	}
	c.timer = nil

	c.render(c.index + 1)
	c.elapsed = 0
	c.restartCycle()
}

// ────────────────────────────────────────────────────────────
// Visibility, hover and focus
// ────────────────────────────────────────────────────────────

// SetVisibility reports the visible fraction of the host section.
func (c *Controller) SetVisibility(ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}

	c.visible = ratio >= c.threshold
	if c.visible {
		c.resumeIfIdle()
	} else {
		c.stopAutoplay()
	}
}

// PointerEnter pauses autoplay while the pointer hovers the component.
func (c *Controller) PointerEnter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.hovered = true
	c.stopAutoplay()
}

// PointerLeave resumes autoplay if the component is still in view.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.hovered = false
	c.resumeIfIdle()
}

// FocusIn pauses autoplay while keyboard focus is inside the component.
func (c *Controller) FocusIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.focused = true
	c.stopAutoplay()
}

// FocusOut resumes autoplay if the component is still in view.
func (c *Controller) FocusOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.focused = false
	c.resumeIfIdle()
}

// resumeIfIdle starts autoplay when visible and not held by the user.
func (c *Controller) resumeIfIdle() {
	if c.visible && !c.hovered && !c.focused {
		c.startAutoplay()
	}
}

// Handle dispatches a single host event.
func (c *Controller) Handle(ev Event) {
	switch ev.Kind {
	case EventVisibility:
		c.SetVisibility(ev.Ratio)
	case EventPointerEnter:
		c.PointerEnter()
	case EventPointerLeave:
		c.PointerLeave()
	case EventFocusIn:
		c.FocusIn()
	case EventFocusOut:
		c.FocusOut()
	case EventSelect:
		c.UserAdvance(ev.Index)
	case EventNext:
		c.Next()
	case EventPrev:
		c.Prev()
	default:
		c.logger.Printf("[WARN] timeline: ignoring unknown event kind %d", ev.Kind)
	}
}

// Attach subscribes the controller to src until Dispose is called.
func (c *Controller) Attach(src SignalSource) {
	if src == nil {
		return
	}
	cancel := src.Subscribe(c.Handle)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		cancel()
		return
	}
	c.subscriptions = append(c.subscriptions, cancel)
	c.mu.Unlock()
}

// ────────────────────────────────────────────────────────────
// Content replacement and lifecycle
// ────────────────────────────────────────────────────────────

// SetSteps swaps the step text, typically after a language change. The
// current index is re-rendered; running state and elapsed time are kept.
// A replacement whose length differs from the original is rejected with
// ErrIncompatibleSteps and changes nothing.
func (c *Controller) SetSteps(steps []Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return nil
	}

	if len(steps) == 0 || len(steps) != c.stepCount {
		c.logger.Printf("[WARN] timeline: ignoring replacement with %d steps, want %d", len(steps), c.stepCount)
		return ErrIncompatibleSteps
	}

	c.steps = append([]Step(nil), steps...)
	c.render(c.index)
	return nil
}

// Dispose pauses autoplay, banking elapsed time, cancels the timer and
// detaches every subscription. All later calls become no-ops.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.stopAutoplay()
	c.disposed = true
	c.cancelTimer()
	subs := c.subscriptions
	c.subscriptions = nil
	c.mu.Unlock()

	for _, cancel := range subs {
		cancel()
	}
}

// State returns a snapshot of the playback state.
func (c *Controller) State() PlaybackState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return PlaybackState{
		Index:         c.index,
		StepCount:     len(c.steps),
		Running:       c.running,
		Phase:         c.phase,
		Elapsed:       c.elapsed,
		Interval:      c.interval,
		Visible:       c.visible,
		Hovered:       c.hovered,
		Focused:       c.focused,
		ReducedMotion: c.reduced,
	}
}

// Steps returns a copy of the current step list.
func (c *Controller) Steps() []Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Step(nil), c.steps...)
}

// Position returns the live time spent on the current step, including
// the portion of a running cycle that has not been banked yet.
func (c *Controller) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position()
}

// Progress returns the live progress percentage of the current step.
func (c *Controller) Progress() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reduced {
		return 100
	}
	return timeutil.Percent(c.position(), c.interval)
}

func (c *Controller) position() time.Duration {
	if !c.running {
		return c.elapsed
	}
	return clampDuration(c.elapsed+c.clock.Now().Sub(c.startedAt), c.interval)
}

func (c *Controller) paint(percent float64, transition time.Duration) {
	if c.surfaces.Progress != nil {
		c.surfaces.Progress.SetProgress(percent, transition)
	}
}

// clampDuration restricts d to [0, hi].
func clampDuration(d, hi time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	if d > hi {
		return hi
	}
	return d
}
