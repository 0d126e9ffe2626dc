package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/beatsync/beatsync"
	"github.com/inconshreveable/log15"
)

var (
	tempo      = flag.Float64("bpm", beatsync.ReferenceBPM, "target `bpm` of the loop")
	beats      = flag.Float64("beats", 0, "beats in the full loop (default: from the _<N>B.gif filename suffix)")
	out        = flag.String("out", "", "output `path` (default: synced_<bpm>bpm_<beats>beats.gif)")
	configPath = flag.String("config", "beatsync.json", "config file `path`")
	verbose    = flag.Bool("v", false, "log debug information")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <loop.gif>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verbose {
		beatsync.SetLogLevel(log15.LvlDebug)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := beatsync.LoadConfigFile(*configPath)
	if err != nil {
		beatsync.Log.Crit("Bad config", "err", err)
		os.Exit(1)
	}

	in := flag.Arg(0)

	loopBeats := *beats
	if loopBeats == 0 {
		loopBeats = beatsync.BeatsFromFilename(in, cfg.DefaultBeats)
	}

	if *tempo < cfg.MinBPM || *tempo > cfg.MaxBPM {
		beatsync.Log.Crit("Tempo out of range", "bpm", *tempo, "min", cfg.MinBPM, "max", cfg.MaxBPM)
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = beatsync.SyncedFilename(*tempo, loopBeats)
	}

	if err := retime(in, outPath, *tempo, loopBeats, cfg); err != nil {
		beatsync.Log.Crit("Failed to retime loop", "in", in, "err", err)
		os.Exit(1)
	}
}

func retime(inPath, outPath string, tempo, loopBeats float64, cfg beatsync.Config) error {
	src, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(outPath)
	if err != nil {
		return err
	}

	result, err := beatsync.RetimeGIF(src, dst, tempo, loopBeats, cfg)
	if err != nil {
		dst.Close()
		os.Remove(outPath)
		return err
	}

	if err := dst.Close(); err != nil {
		return err
	}

	fmt.Printf("%s -> %s\n", inPath, outPath)
	fmt.Printf("  Original Duration: %.0fms, Target Duration: %.0fms, Speed Multiplier: %.2fx\n",
		result.OriginalDuration, result.TargetDuration, result.SpeedMultiplier)

	return nil
}
