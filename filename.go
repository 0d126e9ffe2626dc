package beatsync

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// Loops are tagged with their beat count as in "frog_2B.gif".
var beatsSuffix = regexp.MustCompile(`(?i)_(\d+(?:\.\d+)?)B\.gif$`)

// BeatsFromFilename extracts the beat count from a "_<N>B.gif" suffix of
// the base name of path, returning fallback when there is none.
func BeatsFromFilename(path string, fallback float64) float64 {
	match := beatsSuffix.FindStringSubmatch(filepath.Base(path))
	if match == nil {
		return fallback
	}

	beats, err := strconv.ParseFloat(match[1], 64)
	if err != nil || beats <= 0 {
		return fallback
	}

	return beats
}

// SyncedFilename names a loop exported at the given tempo.
func SyncedFilename(bpm, beats float64) string {
	return fmt.Sprintf("synced_%sbpm_%sbeats.gif", formatNumber(bpm), formatNumber(beats))
}
