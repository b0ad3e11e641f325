package core

import "sort"

// match is the internal candidate produced by looking up one query
// fingerprint's hash in the index (spec.md §3, "Match").
type match struct {
	RefID    string
	QueryT   int32
	RefT     int32
	QueryF1  int16
	RefF1    int16
}

// QueryResult is one ranked alignment hypothesis for a single reference.
type QueryResult struct {
	RefID                   string
	QueryStartSecs          float64
	QueryStopSecs           float64
	RefStartSecs            float64
	RefStopSecs             float64
	RefDurationMs           uint32
	HasRefDuration          bool
	Score                   int
	TimeFactor              float64
	FrequencyFactor         float64
	PercentSecondsWithMatch float64
	AbsoluteStart           float64
	AbsoluteEnd             float64
	HasAbsolute             bool
	SegmentIndex            int
	HasSegmentIndex         bool
}

// Query matches the fingerprints of a probe clip against idx and
// returns ranked QueryResults, highest score first (spec.md §4.6).
func Query(fps []Fingerprint, idx *Index, cfg Config) []QueryResult {
	byRef := make(map[string][]match)
	for _, fp := range fps {
		for _, p := range idx.Lookup(fp.Hash) {
			byRef[p.RefID] = append(byRef[p.RefID], match{
				RefID:   p.RefID,
				QueryT:  fp.T1,
				RefT:    p.T1,
				QueryF1: fp.F1,
				RefF1:   p.F1,
			})
		}
	}

	var results []QueryResult
	for refID, matches := range byRef {
		if len(matches) < cfg.MinAligned {
			continue
		}

		bestDelta, bestCount := votingDelta(matches)
		if bestCount < cfg.MinAligned {
			continue
		}

		aligned := filterAligned(matches, bestDelta, cfg.DeltaTolerance)
		if len(aligned) < cfg.MinAligned {
			continue
		}

		qr := buildQueryResult(refID, aligned, idx, cfg)
		results = append(results, qr)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

// votingDelta builds the delta-t histogram and returns the mode and its
// vote count. Ties go to whichever delta occurs first in matches, making
// the result deterministic for equal-iteration-order inputs.
func votingDelta(matches []match) (int32, int) {
	counts := make(map[int32]int, len(matches))
	for _, m := range matches {
		counts[m.RefT-m.QueryT]++
	}
	var bestDelta int32
	bestCount := -1
	for _, m := range matches {
		d := m.RefT - m.QueryT
		if c := counts[d]; c > bestCount {
			bestCount = c
			bestDelta = d
		}
	}
	return bestDelta, bestCount
}

func filterAligned(matches []match, bestDelta int32, tolerance int32) []match {
	var out []match
	for _, m := range matches {
		d := m.RefT - m.QueryT
		diff := d - bestDelta
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			out = append(out, m)
		}
	}
	return out
}

func buildQueryResult(refID string, aligned []match, idx *Index, cfg Config) QueryResult {
	qr := QueryResult{RefID: refID, Score: len(aligned)}

	minQT, maxQT := aligned[0].QueryT, aligned[0].QueryT
	minRT, maxRT := aligned[0].RefT, aligned[0].RefT
	for _, m := range aligned {
		if m.QueryT < minQT {
			minQT = m.QueryT
		}
		if m.QueryT > maxQT {
			maxQT = m.QueryT
		}
		if m.RefT < minRT {
			minRT = m.RefT
		}
		if m.RefT > maxRT {
			maxRT = m.RefT
		}
	}
	qr.QueryStartSecs = float64(minQT) * FrameSeconds
	qr.QueryStopSecs = float64(maxQT) * FrameSeconds
	qr.RefStartSecs = float64(minRT) * FrameSeconds
	qr.RefStopSecs = float64(maxRT) * FrameSeconds

	qr.TimeFactor = timeFactor(aligned, cfg)
	qr.FrequencyFactor = frequencyFactor(aligned)
	qr.PercentSecondsWithMatch = coverage(aligned, minQT, maxQT)

	if durationMs, ok := idx.Duration(refID); ok {
		qr.RefDurationMs = durationMs
		qr.HasRefDuration = true
		qr.AbsoluteStart = qr.QueryStartSecs - qr.RefStartSecs
		qr.AbsoluteEnd = qr.AbsoluteStart + float64(durationMs)/1000.0
		qr.HasAbsolute = true
	}

	return qr
}

// timeFactor is the OLS slope of ref_time regressed on query_time
// (spec.md §4.6 step 6). A singular design matrix (near-constant
// query_time) returns 1.0 rather than NaN or +/-Inf.
func timeFactor(aligned []match, cfg Config) float64 {
	n := float64(len(aligned))
	var sumX, sumY, sumXY, sumXX float64
	for _, m := range aligned {
		x, y := float64(m.QueryT), float64(m.RefT)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom < 1e-10 && denom > -1e-10 {
		return 1.0
	}
	slope := (n*sumXY - sumX*sumY) / denom
	if slope < cfg.MinTimeFactor {
		slope = cfg.MinTimeFactor
	}
	if slope > cfg.MaxTimeFactor {
		slope = cfg.MaxTimeFactor
	}
	return slope
}

// frequencyFactor is the median ratio of ref_f1/query_f1 across
// matches, restricted to positive bins and a plausible pitch range
// (spec.md §4.6 step 7).
func frequencyFactor(aligned []match) float64 {
	var ratios []float64
	for _, m := range aligned {
		if m.QueryF1 <= 0 || m.RefF1 <= 0 {
			continue
		}
		r := float64(m.RefF1) / float64(m.QueryF1)
		if r < 0.25 || r > 4.0 {
			continue
		}
		ratios = append(ratios, r)
	}
	if len(ratios) == 0 {
		return 1.0
	}
	sort.Float64s(ratios)
	mid := len(ratios) / 2
	if len(ratios)%2 == 1 {
		return ratios[mid]
	}
	return (ratios[mid-1] + ratios[mid]) / 2.0
}

// coverage is the fraction of distinct query-seconds within
// [minQT,maxQT] that have at least one aligned match (spec.md §4.6
// step 8).
func coverage(aligned []match, minQT, maxQT int32) float64 {
	hitSeconds := make(map[int64]struct{}, len(aligned))
	for _, m := range aligned {
		sec := int64(float64(m.QueryT) * FrameSeconds)
		hitSeconds[sec] = struct{}{}
	}
	span := float64(maxQT-minQT) * FrameSeconds
	total := int64(span)
	if span-float64(total) > 0 {
		total++
	}
	if total <= 0 {
		total = 1
	}
	return float64(len(hitSeconds)) / float64(total)
}
