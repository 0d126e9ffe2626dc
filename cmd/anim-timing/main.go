package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/beatsync/beatsync"
)

func main() {
	var in beatsync.TimingInput

	flag.Func("bpm", "target playback `bpm`", floatFlag(&in.BPM))
	flag.Func("beats", "`beats` in the full loop", floatFlag(&in.Beats))
	flag.Func("fpb", "animation `frames` per beat", floatFlag(&in.FramesPerBeat))
	flag.Func("frames", "`total` frames in the animation", func(s string) error {
		var v int
		if _, err := fmt.Sscan(s, &v); err != nil {
			return err
		}
		in.TotalFrames = &v
		return nil
	})
	flag.Parse()

	if flag.NFlag() == 0 {
		if err := printTable(); err != nil {
			beatsync.Log.Error("Failed to print timing table", "err", err)
			os.Exit(1)
		}
		return
	}

	t, err := beatsync.SolveTiming(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if err := beatsync.WriteExportInstructions(os.Stdout, t); err != nil {
		beatsync.Log.Error("Failed to write export instructions", "err", err)
		os.Exit(1)
	}
}

func floatFlag(dst **float64) func(string) error {
	return func(s string) error {
		var v float64
		if _, err := fmt.Sscan(s, &v); err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func printTable() error {
	var timings []beatsync.Timing

	for _, scenario := range beatsync.ReferenceScenarios() {
		t, err := beatsync.SolveTiming(scenario)
		if err != nil {
			beatsync.Log.Warn("Skipping scenario", "err", err)
			continue
		}
		timings = append(timings, t)
	}

	return beatsync.WriteTimingTable(os.Stdout, timings)
}
