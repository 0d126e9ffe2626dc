package tapper

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func tapEvery(h *Handler, from time.Time, interval time.Duration, n int) time.Time {
	at := from
	for i := 0; i < n; i++ {
		h.Tap(at)
		at = at.Add(interval)
	}
	return at.Add(-interval)
}

func TestTapDetectsTempo(t *testing.T) {
	var reported []float64
	h := NewHandler(DefaultConfig(), func(bpm float64) {
		reported = append(reported, bpm)
	})

	assert.Equal(t, 120.0, h.BPM())

	h.Tap(start)
	assert.Equal(t, 120.0, h.BPM(), "a single tap does not change the tempo")

	tapEvery(h, start.Add(400*time.Millisecond), 400*time.Millisecond, 3)

	assert.Equal(t, 150.0, h.BPM())
	assert.Equal(t, []float64{150}, reported)
}

func TestTapTruncatesTempo(t *testing.T) {
	h := NewHandler(DefaultConfig(), nil)

	// 60 / 0.45 = 133.33
	tapEvery(h, start, 450*time.Millisecond, 4)

	assert.Equal(t, 133.0, h.BPM())
}

func TestTapAveragesIntervals(t *testing.T) {
	h := NewHandler(DefaultConfig(), nil)

	h.Tap(start)
	h.Tap(start.Add(400 * time.Millisecond))
	h.Tap(start.Add(1000 * time.Millisecond))

	// Mean interval of 500ms
	assert.Equal(t, 120.0, h.BPM())
}

func TestTapClampsTempo(t *testing.T) {
	h := NewHandler(DefaultConfig(), nil)

	tapEvery(h, start, 3*time.Second, 2)
	assert.Equal(t, 30.0, h.BPM())

	h.Reset()
	tapEvery(h, start.Add(time.Minute), 101*time.Millisecond, 3)
	assert.Equal(t, 594.0, h.BPM())

	config := DefaultConfig()
	config.MaxBPM = 300
	h = NewHandler(config, nil)
	tapEvery(h, start, 150*time.Millisecond, 3)
	assert.Equal(t, 300.0, h.BPM())
}

func TestTapIgnoresDoubleTaps(t *testing.T) {
	h := NewHandler(DefaultConfig(), nil)

	h.Tap(start)
	h.Tap(start.Add(50 * time.Millisecond))

	assert.Equal(t, 1, h.Taps())
	assert.Equal(t, 120.0, h.BPM())
}

func TestTapForgetsStaleTaps(t *testing.T) {
	h := NewHandler(DefaultConfig(), nil)

	last := tapEvery(h, start, 500*time.Millisecond, 3)
	assert.Equal(t, 3, h.Taps())

	// Pausing longer than Stale starts over
	h.Tap(last.Add(5 * time.Second))
	assert.Equal(t, 1, h.Taps())
	assert.Equal(t, 120.0, h.BPM())
}

func TestTapKeepsMaxTaps(t *testing.T) {
	config := DefaultConfig()
	config.MaxTaps = 3
	h := NewHandler(config, nil)

	// Slow taps followed by quick ones, only the quick ones are retained
	last := tapEvery(h, start, time.Second, 3)
	tapEvery(h, last.Add(250*time.Millisecond), 250*time.Millisecond, 3)

	assert.Equal(t, 3, h.Taps())
	assert.Equal(t, 240.0, h.BPM())
}

func TestReset(t *testing.T) {
	h := NewHandler(DefaultConfig(), nil)

	tapEvery(h, start, 400*time.Millisecond, 3)
	h.Reset()

	assert.Equal(t, 0, h.Taps())
	assert.Equal(t, 150.0, h.BPM(), "reset keeps the last tempo")
}

func TestTapConcurrent(t *testing.T) {
	h := NewHandler(DefaultConfig(), nil)

	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Tap(start.Add(time.Duration(i) * time.Second))
			h.BPM()
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, h.Taps(), DefaultConfig().MaxTaps)
}

func TestSet(t *testing.T) {
	var reported []float64
	h := NewHandler(DefaultConfig(), func(bpm float64) {
		reported = append(reported, bpm)
	})

	h.Tap(start)
	h.Set(140)
	assert.Equal(t, 140.0, h.BPM())
	assert.Equal(t, 0, h.Taps())

	h.Set(140)
	h.Set(1000)
	assert.Equal(t, 600.0, h.BPM())
	assert.Equal(t, []float64{140, 600}, reported)
}

func TestTapAveragesLastFiveIntervals(t *testing.T) {
	h := NewHandler(DefaultConfig(), nil)

	// A slow first interval followed by five 400ms ones
	h.Tap(start)
	tapEvery(h, start.Add(time.Second), 400*time.Millisecond, 6)

	assert.Equal(t, 6, h.Taps())
	assert.Equal(t, 150.0, h.BPM())
}

func TestNudge(t *testing.T) {
	var reported []float64
	h := NewHandler(DefaultConfig(), func(bpm float64) {
		reported = append(reported, bpm)
	})

	h.Nudge(1)
	h.Nudge(10)
	assert.Equal(t, 131.0, h.BPM())

	h.Set(595)
	h.Nudge(10)
	assert.Equal(t, 600.0, h.BPM())
	h.Nudge(10)
	h.Nudge(-1)
	assert.Equal(t, 599.0, h.BPM())

	h.Set(35)
	h.Nudge(-10)
	assert.Equal(t, 30.0, h.BPM())
	h.Nudge(-1)

	assert.Equal(t, []float64{121, 131, 595, 600, 599, 35, 30}, reported)

	h.Tap(start)
	h.Nudge(1)
	assert.Equal(t, 0, h.Taps(), "nudging forgets taps")
}

func TestHandlerFuncMayCallHandler(t *testing.T) {
	var h *Handler
	var seen []float64

	h = NewHandler(DefaultConfig(), func(float64) {
		seen = append(seen, h.BPM())
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		tapEvery(h, start, 400*time.Millisecond, 2)
		h.Nudge(10)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler callback deadlocked")
	}

	assert.Equal(t, []float64{150, 160}, seen)
}
