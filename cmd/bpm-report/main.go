package main

import (
	"os"

	"github.com/beatsync/beatsync"
)

func main() {
	samples := beatsync.DefaultSamples()
	results := beatsync.CalculateAll(samples[:])

	if err := beatsync.WriteReport(os.Stdout, results, beatsync.ReferenceBPM); err != nil {
		beatsync.Log.Error("Failed to write report", "err", err)
		os.Exit(1)
	}
}
