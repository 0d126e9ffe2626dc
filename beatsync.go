// Package beatsync computes how animation loops and clips must be sped up or
// slowed down so that a given number of beats lines up with a tempo.
package beatsync

import (
	"fmt"
	"math"

	"github.com/beatsync/beatsync/bpm"
	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
)

// Log specifies the logger that should be used for capturing information.
// May be disabled by replacing the handler with log15.DiscardHandler.
var Log = log15.New("module", "beatsync")

func init() {
	SetLogLevel(log15.LvlWarn)
}

// SetLogLevel configures the lowest level that will be written to stderr.
// Stdout is left alone as reports are written there.
func SetLogLevel(lvl log15.Lvl) {
	Log.SetHandler(log15.LvlFilterHandler(lvl, log15.StderrHandler))
}

// ReferenceBPM is the tempo the default samples are annotated against.
const ReferenceBPM = 120

// A Sample is a single tempo calculation input.
type Sample struct {
	BPM   float64
	Beats float64

	// OriginalDuration is the current length of the unit in milliseconds.
	OriginalDuration float64
}

// Result holds the values derived from a Sample.
type Result struct {
	Sample

	// TargetDuration is the time in milliseconds Beats occupy at BPM.
	TargetDuration float64

	// SpeedMultiplier is the factor OriginalDuration must be scaled by to
	// equal the TargetDuration.
	SpeedMultiplier float64
}

// IsFinite reports whether both derived values are finite numbers.
func (r Result) IsFinite() bool {
	return isFinite(r.TargetDuration) && isFinite(r.SpeedMultiplier)
}

// DefaultSamples is the fixed set of samples reported by bpm-report.
func DefaultSamples() [5]Sample {
	return [5]Sample{
		{BPM: 120, Beats: 2, OriginalDuration: 1000},
		{BPM: 60, Beats: 2, OriginalDuration: 1000},
		{BPM: 240, Beats: 2, OriginalDuration: 1000},
		{BPM: 120, Beats: 4, OriginalDuration: 1000},
		{BPM: 120, Beats: 1, OriginalDuration: 1000},
	}
}

// Calculate computes the target duration and speed multiplier of a sample.
// Inputs are not validated: a zero BPM or zero beat count carries IEEE
// infinities or NaN into the result. Use CalculateStrict to reject them.
func Calculate(s Sample) Result {
	target := bpm.TargetDuration(s.BPM, s.Beats)

	r := Result{
		Sample:          s,
		TargetDuration:  target,
		SpeedMultiplier: bpm.SpeedMultiplier(s.OriginalDuration, target),
	}

	if !r.IsFinite() {
		Log.Warn("Degenerate tempo sample", "bpm", s.BPM, "beats", s.Beats, "target", target)
	}

	return r
}

// CalculateStrict is Calculate with input validation. A non positive or non
// finite BPM or beat count is reported as an *InputError matching
// ErrInvalidInput.
func CalculateStrict(s Sample) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}

	return Calculate(s), nil
}

// Validate checks that the sample will produce finite results.
func (s Sample) Validate() error {
	if !isFinite(s.BPM) || s.BPM <= 0 {
		return &InputError{Field: "bpm", Value: s.BPM}
	}

	if !isFinite(s.Beats) || s.Beats <= 0 {
		return &InputError{Field: "beats", Value: s.Beats}
	}

	if !isFinite(s.OriginalDuration) {
		return &InputError{Field: "original duration", Value: s.OriginalDuration}
	}

	return nil
}

// CalculateAll runs Calculate over samples, preserving their order.
func CalculateAll(samples []Sample) []Result {
	results := make([]Result, 0, len(samples))

	for _, s := range samples {
		results = append(results, Calculate(s))
	}

	return results
}

// ExpectedLabel annotates a sample tempo relative to reference. It describes
// the fixed sample set only and is not derived from the speed multiplier.
func ExpectedLabel(tempo, reference float64) string {
	switch {
	case tempo == reference:
		return "1.0x"
	case tempo > reference:
		return "faster"
	default:
		return "slower"
	}
}

// ErrInvalidInput is matched by every *InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes a rejected calculator input.
type InputError struct {
	Field string
	Value float64
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, formatNumber(e.Value))
}

// Unwrap allows errors.Is(err, ErrInvalidInput).
func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
