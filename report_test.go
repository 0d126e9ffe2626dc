package beatsync

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultReport = `Test 1:
  BPM: 120, Beats: 2, Original Duration: 1000ms
  Target Duration: 1000ms
  Speed Multiplier: 1.00x
  Expected: 1.0x

Test 2:
  BPM: 60, Beats: 2, Original Duration: 1000ms
  Target Duration: 2000ms
  Speed Multiplier: 0.50x
  Expected: slower

Test 3:
  BPM: 240, Beats: 2, Original Duration: 1000ms
  Target Duration: 500ms
  Speed Multiplier: 2.00x
  Expected: faster

Test 4:
  BPM: 120, Beats: 4, Original Duration: 1000ms
  Target Duration: 2000ms
  Speed Multiplier: 0.50x
  Expected: 1.0x

Test 5:
  BPM: 120, Beats: 1, Original Duration: 1000ms
  Target Duration: 500ms
  Speed Multiplier: 2.00x
  Expected: 1.0x

`

func TestWriteReportDefaultSamples(t *testing.T) {
	samples := DefaultSamples()

	buf := &bytes.Buffer{}
	require.NoError(t, WriteReport(buf, CalculateAll(samples[:]), ReferenceBPM))

	assert.Equal(t, defaultReport, buf.String())
}

func TestWriteReportDegenerate(t *testing.T) {
	results := CalculateAll([]Sample{
		{BPM: 120, Beats: 0, OriginalDuration: 1000},
		{BPM: 0, Beats: 0, OriginalDuration: 1000},
	})

	buf := &bytes.Buffer{}
	require.NoError(t, WriteReport(buf, results, ReferenceBPM))

	assert.Equal(t, `Test 1:
  BPM: 120, Beats: 0, Original Duration: 1000ms
  Target Duration: 0ms
  Speed Multiplier: Infinityx
  Expected: 1.0x

Test 2:
  BPM: 0, Beats: 0, Original Duration: 1000ms
  Target Duration: NaNms
  Speed Multiplier: NaNx
  Expected: slower

`, buf.String())
}

func TestWriteReportEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteReport(buf, nil, ReferenceBPM))
	assert.Empty(t, buf.String())
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{120, "120"},
		{0.5, "0.5"},
		{93.25, "93.25"},
		{-4, "-4"},
		{math.Copysign(0, -1), "0"},
		{1e21, "1e+21"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, formatNumber(tc.in))
	}
}

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		in     float64
		digits int
		want   string
	}{
		{1000, 0, "1000"},
		{1333.3333, 0, "1333"},
		{2.5, 0, "3"},
		{-2.5, 0, "-3"},
		{0.5, 0, "1"},
		{0.5, 2, "0.50"},
		{0.6666666, 2, "0.67"},
		// Exact binary halves round away from zero
		{1.125, 2, "1.13"},
		// These sit just below a half in binary
		{0.015, 2, "0.01"},
		{0.045, 2, "0.04"},
		{0.155, 2, "0.15"},
		{0.185, 2, "0.18"},
		{-0.001, 2, "-0.00"},
		{math.Copysign(0, -1), 2, "0.00"},
		{1e307, 2, "1e+307"},
		{math.Inf(1), 2, "Infinity"},
		{math.NaN(), 0, "NaN"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, formatFixed(tc.in, tc.digits), "formatFixed(%v, %d)", tc.in, tc.digits)
	}
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 166.7, roundTo(1250.0/7.5, 1))
	assert.Equal(t, 0.01, roundTo(0.015, 2))
	assert.Equal(t, 2.4, roundTo(4.0/100*60, 2))
	assert.Equal(t, 1e307, roundTo(1e307, 2))
}
