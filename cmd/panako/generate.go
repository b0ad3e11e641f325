package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"panako/apperr"
	"panako/audio"
	"panako/core"
	"panako/storage"
	"panako/util"
)

func runGenerate(backend storage.Backend, cfg core.Config, path, refID string, monitor bool) {
	if refID == "" {
		refID = util.RefIDFromPath(path)
	}

	decoded, err := audio.Decode(path, cfg.SampleRate)
	if err != nil {
		color.Red("error: decode failed: %v", err)
		os.Exit(1)
	}

	var segments []core.Segment
	if monitor {
		segments = core.Segments(decoded.Samples, cfg)
	} else {
		segments = []core.Segment{{
			Index:         0,
			StartTimeSecs: 0,
			EndTimeSecs:   float64(decoded.DurationMs) / 1000.0,
			Samples:       decoded.Samples,
		}}
	}

	var segRecords []storage.SegmentRecord
	total := 0
	for _, seg := range segments {
		fps := core.FingerprintSegment(seg, cfg)
		records := make([]storage.FingerprintRecord, len(fps))
		for i, fp := range fps {
			records[i] = storage.FingerprintRecord{Hash: fp.Hash, T1: fp.T1, F1: fp.F1, M1: fp.M1}
		}
		segRecords = append(segRecords, storage.SegmentRecord{
			SegmentID:     seg.Index,
			StartTimeSecs: seg.StartTimeSecs,
			EndTimeSecs:   seg.EndTimeSecs,
			Fingerprints:  records,
		})
		total += len(fps)
	}

	if total == 0 {
		color.Red("error: %v", apperr.ErrEmptyResult)
		os.Exit(1)
	}

	ref := storage.Reference{
		ID:      refID,
		Version: storage.FileFormatVersion,
		Metadata: storage.Metadata{
			OriginalPath: path,
			Filename:     filepath.Base(path),
			Algorithm:    "PANAKO",
			SampleRate:   cfg.SampleRate,
			DurationMs:   decoded.DurationMs,
			Channels:     decoded.Channels,
			CreatedAt:    time.Now(),
		},
		Segmentation: storage.Segmentation{
			Enabled:             monitor,
			SegmentDurationSecs: cfg.SegmentDurationSecs,
			OverlapDurationSecs: cfg.OverlapDurationSecs,
			NumSegments:         len(segments),
		},
		Segments: segRecords,
	}

	if err := backend.Put(ref); err != nil {
		color.Red("error: storing reference: %v", err)
		os.Exit(1)
	}

	color.Green("indexed %q as %q: %d fingerprints across %d segment(s)", path, refID, total, len(segments))
	fmt.Println()
}
