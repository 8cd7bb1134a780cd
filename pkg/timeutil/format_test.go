package timeutil

import (
	"math"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{450 * time.Millisecond, "450ms"},
		{1200 * time.Millisecond, "1.2s"},
		{12 * time.Second, "12.0s"},
		{135300 * time.Millisecond, "2m 15.3s"},
		{-time.Second, "0ms"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.in); got != c.want {
			t.Errorf("FormatDuration(%s) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	if got := FormatCountdown(7 * time.Second); got != "0:07" {
		t.Errorf("expected 0:07, got %s", got)
	}
	if got := FormatCountdown(6100 * time.Millisecond); got != "0:07" {
		t.Errorf("expected partial seconds to round up to 0:07, got %s", got)
	}
	if got := FormatCountdown(75 * time.Second); got != "1:15" {
		t.Errorf("expected 1:15, got %s", got)
	}
	if got := FormatCountdown(0); got != "0:00" {
		t.Errorf("expected 0:00, got %s", got)
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(5*time.Second, 12*time.Second); math.Abs(got-41.667) > 0.01 {
		t.Errorf("expected ≈41.67, got %.3f", got)
	}
	if got := Percent(20*time.Second, 12*time.Second); got != 100 {
		t.Errorf("expected clamp to 100, got %.3f", got)
	}
	if got := Percent(-time.Second, 12*time.Second); got != 0 {
		t.Errorf("expected clamp to 0, got %.3f", got)
	}
	if got := Percent(time.Second, 0); got != 100 {
		t.Errorf("expected 100 for zero total, got %.3f", got)
	}
}

func TestLerp(t *testing.T) {
	start := time.Unix(0, 0)

	if got := Lerp(40, 100, start, start.Add(3*time.Second), 6*time.Second); math.Abs(got-70) > 0.001 {
		t.Errorf("expected halfway value 70, got %.3f", got)
	}
	if got := Lerp(40, 100, start, start.Add(time.Minute), 6*time.Second); got != 100 {
		t.Errorf("expected end value after transition, got %.3f", got)
	}
	if got := Lerp(40, 100, start, start, 0); got != 100 {
		t.Errorf("expected jump for zero transition, got %.3f", got)
	}
}
