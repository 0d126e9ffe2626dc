package beatsync

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"

	"github.com/pkg/errors"
)

// WriteReport writes one human readable block per result, numbered from 1
// in the order given. The Expected line annotates each tempo against
// reference using ExpectedLabel.
func WriteReport(w io.Writer, results []Result, reference float64) error {
	bw := bufio.NewWriter(w)

	for i, r := range results {
		fmt.Fprintf(bw, "Test %d:\n", i+1)
		fmt.Fprintf(bw, "  BPM: %s, Beats: %s, Original Duration: %sms\n",
			formatNumber(r.BPM), formatNumber(r.Beats), formatNumber(r.OriginalDuration))
		fmt.Fprintf(bw, "  Target Duration: %sms\n", formatFixed(r.TargetDuration, 0))
		fmt.Fprintf(bw, "  Speed Multiplier: %sx\n", formatFixed(r.SpeedMultiplier, 2))
		fmt.Fprintf(bw, "  Expected: %s\n", ExpectedLabel(r.BPM, reference))
		fmt.Fprintln(bw)
	}

	return errors.Wrap(bw.Flush(), "failed to write report")
}

// Beyond this magnitude numbers are written in exponent form, as
// JavaScript's Number.prototype.toFixed does.
const maxFixedMagnitude = 1e21

// formatNumber renders v in its shortest form, so 120 prints as "120" and
// not "120.0".
func formatNumber(v float64) string {
	if s, ok := formatNonFinite(v); ok {
		return s
	}

	if math.Abs(v) >= maxFixedMagnitude {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	// Negative zero prints as "0"
	if v == 0 {
		v = 0
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatFixed renders v with exactly digits decimals, rounding the exact
// binary value of v. Exact halves round away from zero.
func formatFixed(v float64, digits int) string {
	if s, ok := formatNonFinite(v); ok {
		return s
	}

	if math.Abs(v) >= maxFixedMagnitude {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	return new(big.Rat).SetFloat64(v).FloatString(digits)
}

// roundTo rounds the exact value of v to digits decimals, halves to even.
func roundTo(v float64, digits int) float64 {
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', digits, 64), 64)
	return rounded
}

func formatNonFinite(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "NaN", true
	case math.IsInf(v, 1):
		return "Infinity", true
	case math.IsInf(v, -1):
		return "-Infinity", true
	}

	return "", false
}
