package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"panako/audio"
	"panako/core"
	"panako/corpus"
	"panako/storage"
)

// runMonitor processes a long recording in overlapping windows and
// reports either merged or per-segment detections, per the monitor
// policy flag described in spec.md §4.8/§9.
func runMonitor(backend storage.Backend, cfg core.Config, path string, merge bool) {
	decoded, err := audio.Decode(path, cfg.SampleRate)
	if err != nil {
		color.Red("error: decode failed: %v", err)
		os.Exit(1)
	}

	idx, err := corpus.LoadIndex(backend)
	if err != nil {
		color.Red("error: loading corpus: %v", err)
		os.Exit(1)
	}

	segments := core.Segments(decoded.Samples, cfg)
	color.Cyan("processing %q: %d segment(s)", path, len(segments))

	var all []core.QueryResult
	for _, seg := range segments {
		fps := core.FingerprintSegment(seg, cfg)
		segResults := core.Query(fps, idx, cfg)
		for i := range segResults {
			segResults[i].SegmentIndex = seg.Index
			segResults[i].HasSegmentIndex = true
		}
		all = append(all, segResults...)
	}

	if merge {
		all = core.Merge(all)
	}
	results := core.FilterOutput(all)

	if len(results) == 0 {
		color.Yellow("no detections for %q", path)
		return
	}

	color.Green("%d detection(s) for %q:", len(results), path)
	for _, r := range results {
		segment := ""
		if r.HasSegmentIndex {
			segment = fmt.Sprintf(" segment=%d", r.SegmentIndex)
		}
		fmt.Printf("\t- %s: [%.2fs-%.2fs]%s score=%d time_factor=%.3f frequency_factor=%.3f\n",
			r.RefID, r.QueryStartSecs, r.QueryStopSecs, segment, r.Score, r.TimeFactor, r.FrequencyFactor)
	}
}
