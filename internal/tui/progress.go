package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/Mr-Dark-debug/tempo/internal/timeline"
	"github.com/Mr-Dark-debug/tempo/pkg/timeutil"
)

// renderBar draws a percent-filled bar of the given width.
func renderBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = math.Max(0, math.Min(100, percent))
	filled := int(math.Round(percent / 100 * float64(width)))

	return progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressTrackStyle.Render(strings.Repeat("░", width-filled))
}

// phaseLabel renders the coarse playback phase.
func phaseLabel(state timeline.PlaybackState) string {
	if state.ReducedMotion {
		return phaseIdleStyle.Render("reduced motion")
	}
	switch state.Phase {
	case timeline.PhaseRunning:
		return phaseRunningStyle.Render("▶ " + state.Phase.String())
	case timeline.PhasePaused:
		return phasePausedStyle.Render("‖ " + state.Phase.String())
	default:
		return phaseIdleStyle.Render(state.Phase.String())
	}
}

// renderProgress renders the bar and a caption with the step position,
// percentage and time left.
func renderProgress(m *Model, view stageView, state timeline.PlaybackState, width int) string {
	bar := renderBar(view.Percent, width)

	remaining := state.Interval - m.ctrl.Position()
	caption := fmt.Sprintf("%d/%d  %5.1f%%  %s left  ",
		state.Index+1, state.StepCount, view.Percent, timeutil.FormatCountdown(remaining))

	return bar + "\n" + dimStyle.Render(caption) + phaseLabel(state)
}

// renderProgressPanel wraps the progress bar in a styled panel.
func renderProgressPanel(m *Model, view stageView, state timeline.PlaybackState, width int) string {
	content := renderProgress(m, view, state, width-2)
	return panelStyle.Width(width).Height(progressRows - 1).Render(content)
}
