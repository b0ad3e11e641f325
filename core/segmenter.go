package core

// Segment is one window of a long input, carved for monitor mode.
type Segment struct {
	Index         int
	StartTimeSecs float64
	EndTimeSecs   float64
	Samples       []float64
}

// Segments splits samples (mono, at cfg.SampleRate) into overlapping
// windows per spec.md §4.7. If the input is no longer than
// SegmentDurationSecs, it returns a single segment covering the whole
// input — this is what keeps monitor mode idempotent with normal mode
// for short files.
func Segments(samples []float64, cfg Config) []Segment {
	totalSecs := float64(len(samples)) / float64(cfg.SampleRate)
	if totalSecs <= cfg.SegmentDurationSecs {
		return []Segment{{Index: 0, StartTimeSecs: 0, EndTimeSecs: totalSecs, Samples: samples}}
	}

	step := cfg.SegmentDurationSecs - cfg.OverlapDurationSecs

	var segments []Segment
	start := 0.0
	idx := 0
	for {
		end := start + cfg.SegmentDurationSecs
		if end > totalSecs {
			end = totalSecs
		}
		segments = append(segments, Segment{
			Index:         idx,
			StartTimeSecs: start,
			EndTimeSecs:   end,
			Samples:       sliceSeconds(samples, start, end, cfg.SampleRate),
		})

		residual := totalSecs - end
		if residual <= 0 {
			break
		}
		if residual < cfg.MinSegmentDurationSecs {
			last := &segments[len(segments)-1]
			last.EndTimeSecs = totalSecs
			last.Samples = sliceSeconds(samples, last.StartTimeSecs, totalSecs, cfg.SampleRate)
			break
		}

		start += step
		idx++
	}
	return segments
}

func sliceSeconds(samples []float64, startSecs, endSecs float64, sampleRate int) []float64 {
	start := int(startSecs * float64(sampleRate))
	end := int(endSecs * float64(sampleRate))
	if start < 0 {
		start = 0
	}
	if end > len(samples) {
		end = len(samples)
	}
	if start >= end {
		return nil
	}
	return samples[start:end]
}

// FingerprintSegment runs the full §4.1-§4.4 pipeline over one segment
// and shifts every event time onto the full-file timeline, so postings
// and query matches from different segments share one frame axis.
func FingerprintSegment(seg Segment, cfg Config) []Fingerprint {
	spec := ComputeSpectrogram(seg.Samples, cfg)
	points := ExtractEventPoints(spec, cfg)

	offsetFrames := int32(seg.StartTimeSecs / FrameSeconds)
	if offsetFrames != 0 {
		for i := range points {
			points[i].T += offsetFrames
		}
	}

	return GenerateFingerprints(points, cfg)
}
