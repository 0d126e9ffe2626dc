// Package bpm provides tempo arithmetic shared by the beatsync tools.
package bpm

import (
	"math"
	"time"

	"golang.org/x/exp/constraints"
)

// MSPerMinute is the number of milliseconds that contain BPM beats.
const MSPerMinute = 60000

// ToDuration converts bpm and pitch information into a one beat duration.
func ToDuration(bpm, pitch float64) time.Duration {
	bps := ((pitch / 100 * bpm) + bpm) / 60

	return time.Duration(float64(time.Second) / bps)
}

// BeatDuration is the duration of a single beat at the given tempo.
func BeatDuration(bpm float64) time.Duration {
	return ToDuration(bpm, 0)
}

// TargetDuration is the time in milliseconds that beats occupy at bpm. The
// inputs are not checked; a zero bpm yields an IEEE infinity or NaN.
func TargetDuration(bpm, beats float64) float64 {
	return (beats / bpm) * MSPerMinute
}

// SpeedMultiplier is the factor original must be played back at to last
// target. Values above 1 mean the original has to play faster.
func SpeedMultiplier(original, target float64) float64 {
	return original / target
}

// Double doubles the tempo, bounded by max.
func Double(bpm, max float64) float64 {
	return math.Min(max, bpm*2)
}

// Half halves the tempo (discarding fractions), bounded by min.
func Half(bpm, min float64) float64 {
	return math.Max(min, math.Floor(bpm/2))
}

// Clamp bounds v to the closed range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
