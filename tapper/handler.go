// Package tapper provides tap tempo detection.
package tapper

import (
	"math"
	"sync"
	"time"

	"github.com/beatsync/beatsync"
	"github.com/beatsync/beatsync/bpm"
	"gonum.org/v1/gonum/stat"
)

var log = beatsync.Log.New("pkg", "tapper")

// HandlerFunc is called with the new tempo whenever it changes. It is called
// after the Handler is unlocked, so it may call back into the Handler.
type HandlerFunc func(bpm float64)

// Config specifies configuration for the Handler.
type Config struct {
	// Initial is the tempo reported before enough taps have been made.
	Initial float64

	// MinBPM and MaxBPM bound the detected tempo.
	MinBPM float64
	MaxBPM float64

	// MaxTaps is how many of the most recent taps are retained. Their
	// MaxTaps-1 intervals are averaged.
	MaxTaps int

	// MinGap is the shortest time between two taps. Closer taps are treated
	// as a double trigger and ignored.
	MinGap time.Duration

	// Stale specifies how long a tap is remembered. Pausing for longer than
	// this starts a new tempo measurement.
	Stale time.Duration
}

// DefaultConfig returns the configuration used by the sync tools.
func DefaultConfig() Config {
	return Config{
		Initial: beatsync.ReferenceBPM,
		MinBPM:  30,
		MaxBPM:  600,
		MaxTaps: 6,
		MinGap:  100 * time.Millisecond,
		Stale:   4 * time.Second,
	}
}

// NewHandler constructs a new Handler to detect tempo from taps
func NewHandler(config Config, fn HandlerFunc) *Handler {
	handler := Handler{
		config:  config,
		handler: fn,
		lock:    sync.Mutex{},
		bpm:     config.Initial,
		taps:    make([]time.Time, 0, config.MaxTaps),
	}

	return &handler
}

// Handler turns a sequence of taps into a tempo. The tempo is the mean
// interval of the retained taps, truncated to a whole BPM and bounded by
// the configured MinBPM and MaxBPM.
//
// Taps are retained according to the following rules:
//
// - Taps older than Stale are forgotten.
//
// - A tap arriving within MinGap of the last retained tap is ignored.
//
// - Only the last MaxTaps taps are retained.
//
// Handler is safe for concurrent use. When tempo changes race, the
// HandlerFunc may observe them out of order; BPM is always current.
type Handler struct {
	config  Config
	handler HandlerFunc

	lock sync.Mutex
	taps []time.Time
	bpm  float64
}

// Tap records a tap at the given time.
func (h *Handler) Tap(at time.Time) {
	if tempo, changed := h.tap(at); changed {
		h.report(tempo)
	}
}

func (h *Handler) tap(at time.Time) (float64, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.dropStale(at)

	if n := len(h.taps); n > 0 && at.Sub(h.taps[n-1]) < h.config.MinGap {
		log.Debug("Ignoring double tap", "gap", at.Sub(h.taps[n-1]))
		return h.bpm, false
	}

	h.taps = append(h.taps, at)

	if len(h.taps) > h.config.MaxTaps {
		h.taps = h.taps[len(h.taps)-h.config.MaxTaps:]
	}

	if len(h.taps) < 2 {
		return h.bpm, false
	}

	newBPM := h.detect()
	if newBPM == h.bpm {
		return h.bpm, false
	}

	h.bpm = newBPM
	log.Debug("Tempo detected", "bpm", newBPM, "taps", len(h.taps))

	return newBPM, true
}

// BPM returns the current tempo.
func (h *Handler) BPM() float64 {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.bpm
}

// Set overrides the current tempo, bounded by the configured MinBPM and
// MaxBPM. Retained taps are forgotten.
func (h *Handler) Set(tempo float64) {
	h.update(func(float64) float64 { return tempo })
}

// Nudge moves the current tempo by delta, bounded by the configured MinBPM
// and MaxBPM. Retained taps are forgotten.
func (h *Handler) Nudge(delta float64) {
	h.update(func(current float64) float64 { return current + delta })
}

// update replaces the tempo with fn applied to the current one.
func (h *Handler) update(fn func(float64) float64) {
	h.lock.Lock()

	h.taps = h.taps[:0]
	tempo := bpm.Clamp(fn(h.bpm), h.config.MinBPM, h.config.MaxBPM)
	changed := tempo != h.bpm
	h.bpm = tempo

	h.lock.Unlock()

	if changed {
		h.report(tempo)
	}
}

func (h *Handler) report(tempo float64) {
	if h.handler != nil {
		h.handler(tempo)
	}
}

// Taps returns how many taps are currently retained.
func (h *Handler) Taps() int {
	h.lock.Lock()
	defer h.lock.Unlock()

	return len(h.taps)
}

// Reset forgets all taps. The current tempo is kept.
func (h *Handler) Reset() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.taps = h.taps[:0]
}

// dropStale removes taps older than the configured Stale duration.
func (h *Handler) dropStale(now time.Time) {
	keep := 0

	for i, t := range h.taps {
		if now.Sub(t) < h.config.Stale {
			keep = i
			break
		}
		keep = i + 1
	}

	h.taps = append(h.taps[:0], h.taps[keep:]...)
}

// detect computes the tempo from the mean tap interval. Intervals are
// averaged in milliseconds, which keeps whole millisecond taps exact.
func (h *Handler) detect() float64 {
	intervals := make([]float64, 0, len(h.taps)-1)

	for i := 1; i < len(h.taps); i++ {
		intervals = append(intervals, float64(h.taps[i].Sub(h.taps[i-1]))/float64(time.Millisecond))
	}

	avg := stat.Mean(intervals, nil)
	tempo := math.Trunc(bpm.MSPerMinute / avg)

	return bpm.Clamp(tempo, h.config.MinBPM, h.config.MaxBPM)
}
