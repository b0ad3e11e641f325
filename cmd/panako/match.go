package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"panako/audio"
	"panako/client"
	"panako/core"
	"panako/corpus"
	"panako/storage"
)

func runMatch(backend storage.Backend, cfg core.Config, path, remote string) {
	if remote != "" {
		results, err := client.New(remote).Match(path)
		if err != nil {
			color.Red("error: remote match failed: %v", err)
			os.Exit(1)
		}
		printResults(path, results)
		return
	}

	decoded, err := audio.Decode(path, cfg.SampleRate)
	if err != nil {
		color.Red("error: decode failed: %v", err)
		os.Exit(1)
	}

	fps := core.FingerprintSegment(core.Segment{
		StartTimeSecs: 0,
		EndTimeSecs:   float64(decoded.DurationMs) / 1000.0,
		Samples:       decoded.Samples,
	}, cfg)

	idx, err := corpus.LoadIndex(backend)
	if err != nil {
		color.Red("error: loading corpus: %v", err)
		os.Exit(1)
	}

	results := core.FilterOutput(core.Query(fps, idx, cfg))
	printResults(path, results)
}

func printResults(path string, results []core.QueryResult) {
	if len(results) == 0 {
		color.Yellow("no detections for %q", path)
		return
	}

	color.Green("%d detection(s) for %q:", len(results), path)
	for _, r := range results {
		fmt.Printf("\t- %s: [%.2fs-%.2fs] score=%d time_factor=%.3f frequency_factor=%.3f coverage=%.2f\n",
			r.RefID, r.QueryStartSecs, r.QueryStopSecs, r.Score, r.TimeFactor, r.FrequencyFactor, r.PercentSecondsWithMatch)
	}
}
