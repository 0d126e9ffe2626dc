// Package click renders metronome click tracks as WAV audio, so the length
// of a beat synchronized loop can be auditioned.
package click

import (
	"io"
	"math"

	"github.com/beatsync/beatsync"
	"github.com/beatsync/beatsync/bpm"
	"github.com/pkg/errors"
	"github.com/youpy/go-wav"
)

var log = beatsync.Log.New("pkg", "click")

const (
	bitsPerSample = 16
	numChannels   = 1
	amplitude     = 0.8 * (1<<(bitsPerSample-1) - 1)
)

// Options configure a click track.
type Options struct {
	BPM   float64
	Beats float64

	// Accent marks every Nth beat, starting with the first, with a higher
	// pitched click. Zero disables accents.
	Accent int

	// SampleRate of the output in Hz.
	SampleRate int

	// ClickFreq is the pitch of an unaccented click in Hz.
	ClickFreq float64

	// ClickMS is the length of a single click.
	ClickMS float64
}

// DefaultOptions returns a 4/4 click track at the reference tempo.
func DefaultOptions() Options {
	return Options{
		BPM:        beatsync.ReferenceBPM,
		Beats:      4,
		Accent:     4,
		SampleRate: 44100,
		ClickFreq:  1000,
		ClickMS:    30,
	}
}

// Samples is the number of samples a click track spans. The track is
// exactly as long as the target duration of its beats.
func (o Options) Samples() int {
	ms := bpm.TargetDuration(o.BPM, o.Beats)
	return int(math.Round(ms * float64(o.SampleRate) / 1000))
}

func (o Options) validate() error {
	if _, err := beatsync.CalculateStrict(beatsync.Sample{BPM: o.BPM, Beats: o.Beats}); err != nil {
		return err
	}

	if o.SampleRate <= 0 {
		return &beatsync.InputError{Field: "sample rate", Value: float64(o.SampleRate)}
	}

	return nil
}

// Write renders the click track as a mono 16 bit PCM WAV to w, returning
// the number of samples written.
func Write(w io.Writer, o Options) (int, error) {
	if err := o.validate(); err != nil {
		return 0, err
	}

	n := o.Samples()
	samples := Render(o)

	wr := wav.NewWriter(w, uint32(n), numChannels, uint32(o.SampleRate), bitsPerSample)

	out := make([]wav.Sample, len(samples))
	for i, v := range samples {
		out[i] = wav.Sample{Values: [2]int{int(v * amplitude)}}
	}

	if err := wr.WriteSamples(out); err != nil {
		return 0, errors.Wrap(err, "failed to write click track")
	}

	log.Debug("Wrote click track", "bpm", o.BPM, "beats", o.Beats, "samples", n)

	return n, nil
}

// Render returns the click track as samples in [-1, 1]. Invalid options
// render nothing.
func Render(o Options) []float64 {
	if o.validate() != nil {
		return nil
	}

	n := o.Samples()
	out := make([]float64, n)

	beatSamples := bpm.BeatDuration(o.BPM).Seconds() * float64(o.SampleRate)
	clickLen := int(o.ClickMS / 1000 * float64(o.SampleRate))

	for beat := 0; float64(beat) < o.Beats; beat++ {
		start := int(math.Round(float64(beat) * beatSamples))

		freq := o.ClickFreq
		if o.Accent > 0 && beat%o.Accent == 0 {
			freq *= 2
		}

		for i := 0; i < clickLen && start+i < n; i++ {
			t := float64(i) / float64(o.SampleRate)
			decay := 1 - float64(i)/float64(clickLen)
			out[start+i] = math.Sin(2*math.Pi*freq*t) * decay
		}
	}

	return out
}
