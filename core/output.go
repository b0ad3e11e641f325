package core

import "sort"

// MinDetectionOutputSecs is the output-boundary duration filter applied
// uniformly to every result path (spec.md §4.9, resolving the open
// question in §9 to "apply it everywhere").
const MinDetectionOutputSecs = 2.0

// FilterOutput drops results with no ref_id or a query window shorter
// than MinDetectionOutputSecs, then sorts ascending by query_start.
func FilterOutput(results []QueryResult) []QueryResult {
	out := results[:0:0]
	for _, r := range results {
		if r.RefID == "" {
			continue
		}
		if r.QueryStopSecs-r.QueryStartSecs < MinDetectionOutputSecs {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].QueryStartSecs < out[j].QueryStartSecs })
	return out
}
