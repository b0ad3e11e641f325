package core

import "sort"

// position returns the absolute-timeline position used for clustering:
// AbsoluteStart when known, else QueryStartSecs (spec.md §4.8).
func position(r QueryResult) float64 {
	if r.HasAbsolute {
		return r.AbsoluteStart
	}
	return r.QueryStartSecs
}

// Merge de-duplicates QueryResults gathered across overlapping monitor
// segments. Results are grouped by ref_id, then swept in ascending
// position order; anything within ref_duration_s/3 of the current
// cluster anchor is a duplicate, and only the highest-scoring member of
// each cluster survives (ties broken by earliest position). Results
// with no known ref_duration cannot have a cluster radius computed and
// are never merged with anything.
func Merge(results []QueryResult) []QueryResult {
	byRef := make(map[string][]QueryResult)
	for _, r := range results {
		byRef[r.RefID] = append(byRef[r.RefID], r)
	}

	var survivors []QueryResult
	for _, group := range byRef {
		sort.SliceStable(group, func(i, j int) bool { return position(group[i]) < position(group[j]) })

		i := 0
		for i < len(group) {
			if !group[i].HasRefDuration {
				survivors = append(survivors, group[i])
				i++
				continue
			}

			radius := float64(group[i].RefDurationMs) / 1000.0 / 3.0
			anchorPos := position(group[i])
			best := group[i]
			j := i + 1
			for j < len(group) && group[j].HasRefDuration {
				if position(group[j])-anchorPos >= radius {
					break
				}
				if group[j].Score > best.Score {
					best = group[j]
				}
				j++
			}
			survivors = append(survivors, best)
			i = j
		}
	}

	sort.SliceStable(survivors, func(i, j int) bool { return position(survivors[i]) < position(survivors[j]) })
	return survivors
}
