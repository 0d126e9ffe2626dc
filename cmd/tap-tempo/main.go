package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/beatsync/beatsync"
	"github.com/beatsync/beatsync/bpm"
	"github.com/beatsync/beatsync/tapper"
	"github.com/inconshreveable/log15"
)

var (
	configPath = flag.String("config", "beatsync.json", "config file `path`")
	beats      = flag.Float64("beats", 0, "beats in the loop to report a target duration for (default from config)")
	verbose    = flag.Bool("v", false, "log debug information")
)

func main() {
	flag.Parse()

	if *verbose {
		beatsync.SetLogLevel(log15.LvlDebug)
	}

	cfg, err := beatsync.LoadConfigFile(*configPath)
	if err != nil {
		beatsync.Log.Crit("Bad config", "err", err)
		os.Exit(1)
	}

	loopBeats := *beats
	if loopBeats <= 0 {
		loopBeats = cfg.DefaultBeats
	}

	config := tapper.DefaultConfig()
	config.Initial = cfg.ReferenceBPM
	config.MinBPM = cfg.MinBPM
	config.MaxBPM = cfg.MaxBPM

	changed := func(tempo float64) {
		target := bpm.TargetDuration(tempo, loopBeats)
		fmt.Printf("BPM: %s (%s beats = %.0fms)\n", formatBPM(tempo), formatBPM(loopBeats), target)
	}

	h := tapper.NewHandler(config, changed)

	fmt.Println("Press enter on every beat. d doubles, h halves, r resets, q quits.")
	fmt.Println("+ and - nudge the tempo by 1 BPM, ++ and -- by 10.")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "":
			h.Tap(time.Now())
		case "d":
			h.Set(bpm.Double(h.BPM(), cfg.MaxBPM))
		case "h":
			h.Set(bpm.Half(h.BPM(), cfg.MinBPM))
		case "+":
			h.Nudge(1)
		case "-":
			h.Nudge(-1)
		case "++":
			h.Nudge(10)
		case "--":
			h.Nudge(-10)
		case "r":
			h.Reset()
		case "q":
			return
		}
	}
}

func formatBPM(v float64) string {
	return fmt.Sprintf("%g", v)
}
