// Package geometry maps positions along a horizontal track to media time.
//
// All functions are pure. Degenerate inputs (zero-width track, unknown
// duration) resolve to 0 instead of failing.
package geometry

import (
	"fmt"
	"math"
)

// Rect is the horizontal extent of the track, in the host's pointer units
// (terminal columns for the TUI).
type Rect struct {
	Left  float64
	Width float64
}

// Degenerate reports whether the rect cannot be used for conversions.
func (r Rect) Degenerate() bool {
	return !(r.Width > 0) || math.IsInf(r.Width, 0)
}

// PixelToTime converts a pointer position to seconds along a track spanning
// the full duration. Positions outside the track clamp to its edges.
func PixelToTime(clientX float64, rect Rect, duration float64) float64 {
	if rect.Degenerate() || !validDuration(duration) || math.IsNaN(clientX) {
		return 0
	}
	return Clamp((clientX-rect.Left)/rect.Width, 0, 1) * duration
}

// TimeToFraction returns t as a fraction of duration in [0, 1].
func TimeToFraction(t, duration float64) float64 {
	if !validDuration(duration) || math.IsNaN(t) {
		return 0
	}
	return Clamp(t/duration, 0, 1)
}

// FractionToPixel places a [0, 1] fraction on the track.
func FractionToPixel(fraction float64, rect Rect) float64 {
	if rect.Degenerate() {
		return rect.Left
	}
	return rect.Left + Clamp(fraction, 0, 1)*rect.Width
}

// Clamp bounds v to [lo, hi]. When lo > hi the result is lo.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// FormatClock renders seconds as m:ss for display labels.
func FormatClock(seconds float64) string {
	if !(seconds > 0) || math.IsInf(seconds, 0) {
		return "0:00"
	}
	total := int64(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsInf(d, 0)
}
