// Package timeutil provides duration formatting and progress arithmetic
// for Tempo.
//
// Playback time is kept as time.Duration throughout; this package turns
// it into the short strings shown in the TUI and in log lines.
package timeutil

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration for display.
// Examples: "450ms", "1.2s", "2m 15.3s"
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	seconds := float64(ms) / 1000.0
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := int(seconds / 60)
	remaining := seconds - float64(minutes*60)
	return fmt.Sprintf("%dm %.1fs", minutes, remaining)
}

// FormatCountdown formats the time left on a step as "M:SS", rounding
// up so a countdown never shows 0:00 while time remains.
func FormatCountdown(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Percent returns elapsed as a percentage of total, clamped to [0, 100].
// A non-positive total yields 100.
func Percent(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 100
	}
	p := float64(elapsed) / float64(total) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Lerp interpolates between from and to by the fraction of transition
// that has passed since start. A zero transition jumps straight to to.
func Lerp(from, to float64, start, now time.Time, transition time.Duration) float64 {
	if transition <= 0 {
		return to
	}
	f := float64(now.Sub(start)) / float64(transition)
	if f <= 0 {
		return from
	}
	if f >= 1 {
		return to
	}
	return from + (to-from)*f
}
