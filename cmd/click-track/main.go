package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/beatsync/beatsync"
	"github.com/beatsync/beatsync/click"
	"github.com/inconshreveable/log15"
)

func main() {
	opts := click.DefaultOptions()

	flag.Float64Var(&opts.BPM, "bpm", opts.BPM, "tempo of the click track")
	flag.Float64Var(&opts.Beats, "beats", opts.Beats, "number of beats to render")
	flag.IntVar(&opts.Accent, "accent", opts.Accent, "accent every `n`th beat, 0 disables")
	flag.IntVar(&opts.SampleRate, "rate", opts.SampleRate, "sample rate in Hz")
	out := flag.String("out", "click.wav", "output `path`")
	verbose := flag.Bool("v", false, "log debug information")
	flag.Parse()

	if *verbose {
		beatsync.SetLogLevel(log15.LvlDebug)
	}

	f, err := os.Create(*out)
	if err != nil {
		beatsync.Log.Crit("Cannot create output", "err", err)
		os.Exit(1)
	}
	defer f.Close()

	n, err := click.Write(f, opts)
	if err != nil {
		beatsync.Log.Crit("Failed to render click track", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d samples (%.0fms) to %s\n", n, float64(n)*1000/float64(opts.SampleRate), *out)
}
