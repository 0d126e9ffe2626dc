package beatsync

import (
	"image/gif"
	"io"

	"github.com/pkg/errors"
)

// ErrNoFrames is returned when a GIF has nothing to retime.
var ErrNoFrames = errors.New("gif has no frames")

// GIF frame delays are stored in hundredths of a second.
const gifDelayUnitMS = 10

// RetimeFrames scales each frame delay (in milliseconds) by 1/speed, never
// going below minDelayMS. A speed that is not a positive finite number
// leaves the delays unchanged. delaysMS is not modified.
func RetimeFrames(delaysMS []int, speed float64, minDelayMS int) []int {
	out := make([]int, len(delaysMS))

	if !isFinite(speed) || speed <= 0 {
		copy(out, delaysMS)
		return out
	}

	for i, d := range delaysMS {
		out[i] = max(minDelayMS, int(float64(d)/speed))
	}

	return out
}

// LoopDuration sums frame delays in milliseconds, counting zero delays as
// defaultMS.
func LoopDuration(delaysMS []int, defaultMS int) int {
	total := 0

	for _, d := range delaysMS {
		if d <= 0 {
			d = defaultMS
		}
		total += d
	}

	return total
}

// RetimeGIF decodes an animated GIF from r, rescales its frame delays so
// that the full loop lasts beats at bpm, and encodes the result to w. The
// loop is set to repeat forever.
func RetimeGIF(r io.Reader, w io.Writer, bpm, beats float64, cfg Config) (Result, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to decode gif")
	}

	if len(g.Image) == 0 {
		return Result{}, ErrNoFrames
	}

	delays := make([]int, len(g.Delay))
	for i, d := range g.Delay {
		delays[i] = d * gifDelayUnitMS
	}

	sample := Sample{
		BPM:              bpm,
		Beats:            beats,
		OriginalDuration: float64(LoopDuration(delays, cfg.DefaultFrameMS)),
	}

	result, err := CalculateStrict(sample)
	if err != nil {
		return Result{}, err
	}

	// Zero delays play at the viewer default, retime them from that length
	for i, d := range delays {
		if d <= 0 {
			delays[i] = cfg.DefaultFrameMS
		}
	}

	retimed := RetimeFrames(delays, result.SpeedMultiplier, cfg.MinFrameDelayMS)
	minDelay := max(2, cfg.MinFrameDelayMS/gifDelayUnitMS)

	for i, d := range retimed {
		g.Delay[i] = max(minDelay, d/gifDelayUnitMS)
	}

	g.LoopCount = 0

	Log.Debug("Retimed gif",
		"frames", len(g.Image),
		"original", result.OriginalDuration,
		"target", result.TargetDuration,
		"speed", result.SpeedMultiplier)

	if err := gif.EncodeAll(w, g); err != nil {
		return Result{}, errors.Wrap(err, "failed to encode gif")
	}

	return result, nil
}
