package beatsync

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnderdetermined is returned by SolveTiming when it cannot derive the
// missing parameter.
var ErrUnderdetermined = errors.New("timing is underdetermined")

// TimingInput holds the four animation parameters. Any three of them
// determine the fourth, except BPM, which cannot be derived from frame
// counts alone.
type TimingInput struct {
	BPM           *float64
	Beats         *float64
	FramesPerBeat *float64
	TotalFrames   *int
}

// Timing describes how a beat synchronized animation should be exported.
type Timing struct {
	BPM           float64
	Beats         float64
	FramesPerBeat float64
	TotalFrames   int

	LoopSeconds float64
	LoopMS      float64
	FrameMS     float64
}

// SolveTiming fills in the missing animation parameter and derives the loop
// and per frame durations.
func SolveTiming(in TimingInput) (Timing, error) {
	provided := 0
	for _, ok := range []bool{in.BPM != nil, in.Beats != nil, in.FramesPerBeat != nil, in.TotalFrames != nil} {
		if ok {
			provided++
		}
	}

	if provided < 3 {
		return Timing{}, errors.Wrap(ErrUnderdetermined, "at least 3 of bpm, beats, frames per beat and total frames are required")
	}

	if in.BPM == nil {
		return Timing{}, errors.Wrap(ErrUnderdetermined, "bpm cannot be derived from frame counts")
	}

	t := Timing{BPM: *in.BPM}

	// frames is the exact frame count. TotalFrames only holds its whole part.
	var frames float64

	switch {
	case in.TotalFrames == nil:
		t.Beats, t.FramesPerBeat = *in.Beats, *in.FramesPerBeat
		frames = t.Beats * t.FramesPerBeat
	case in.FramesPerBeat == nil:
		t.Beats, frames = *in.Beats, float64(*in.TotalFrames)
		t.FramesPerBeat = frames / t.Beats
	case in.Beats == nil:
		t.FramesPerBeat, frames = *in.FramesPerBeat, float64(*in.TotalFrames)
		t.Beats = frames / t.FramesPerBeat
	default:
		t.Beats, t.FramesPerBeat, frames = *in.Beats, *in.FramesPerBeat, float64(*in.TotalFrames)
	}

	if _, err := CalculateStrict(Sample{BPM: t.BPM, Beats: t.Beats}); err != nil {
		return Timing{}, err
	}

	if !isFinite(frames) || frames <= 0 {
		return Timing{}, &InputError{Field: "total frames", Value: frames}
	}

	t.TotalFrames = int(frames)
	t.LoopSeconds = t.Beats / t.BPM * 60
	t.LoopMS = t.LoopSeconds * 1000
	t.FrameMS = t.LoopMS / frames

	return t, nil
}

// ReferenceScenarios are common dance loop setups, as BPM, beats and frames
// per beat.
func ReferenceScenarios() []TimingInput {
	scenarios := [][3]float64{
		{120, 2, 2},
		{120, 2, 4},
		{120, 4, 2},
		{120, 4, 4},
		{120, 4, 8},
		{140, 2, 2},
		{140, 4, 2},
		{100, 4, 3},
		{80, 4, 4},
	}

	inputs := make([]TimingInput, len(scenarios))
	for i, s := range scenarios {
		bpm, beats, fpb := s[0], s[1], s[2]
		inputs[i] = TimingInput{BPM: &bpm, Beats: &beats, FramesPerBeat: &fpb}
	}

	return inputs
}

// WriteTimingTable writes timings as a fixed width reference table.
func WriteTimingTable(w io.Writer, timings []Timing) error {
	bw := bufio.NewWriter(w)
	rule := strings.Repeat("=", 80)

	fmt.Fprintln(bw, rule)
	fmt.Fprintln(bw, "ANIMATION TIMING REFERENCE TABLE")
	fmt.Fprintln(bw, rule)
	fmt.Fprintf(bw, "%-6s %-12s %-12s %-12s %-18s\n", "BPM", "Beat Count", "Frames/Beat", "Total Frames", "Frame Duration (ms)")
	fmt.Fprintln(bw, strings.Repeat("-", 80))

	for _, t := range timings {
		fmt.Fprintf(bw, "%-6s %-12s %-12s %-12d %-18s\n",
			formatNumber(roundTo(t.BPM, 1)),
			formatNumber(roundTo(t.Beats, 1)),
			formatNumber(roundTo(t.FramesPerBeat, 2)),
			t.TotalFrames,
			formatNumber(roundTo(t.FrameMS, 1)))
	}

	return errors.Wrap(bw.Flush(), "failed to write timing table")
}

// WriteExportInstructions describes how to export frames for a timing.
func WriteExportInstructions(w io.Writer, t Timing) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "BPM: %s\n", formatNumber(roundTo(t.BPM, 1)))
	fmt.Fprintf(bw, "Beat Count: %s\n", formatNumber(roundTo(t.Beats, 1)))
	fmt.Fprintf(bw, "Frames Per Beat: %s\n", formatNumber(roundTo(t.FramesPerBeat, 2)))
	fmt.Fprintf(bw, "Total Frames: %d\n", t.TotalFrames)
	fmt.Fprintf(bw, "Loop Duration: %s seconds\n", formatNumber(roundTo(t.LoopSeconds, 2)))
	fmt.Fprintf(bw, "Frame Duration: %s ms per frame\n", formatNumber(roundTo(t.FrameMS, 1)))
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "- Create %d unique frames\n", t.TotalFrames)
	fmt.Fprintf(bw, "- Set each frame duration to %s ms\n", formatNumber(roundTo(t.FrameMS, 1)))
	fmt.Fprintf(bw, "- Name your file with a _%dB.gif suffix\n", int(t.Beats))
	fmt.Fprintf(bw, "- Expected BPM in the sync tool: %s\n", formatNumber(roundTo(t.BPM, 1)))

	return errors.Wrap(bw.Flush(), "failed to write export instructions")
}
