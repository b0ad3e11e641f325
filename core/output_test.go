package core_test

import (
	"testing"

	"panako/core"
)

func TestFilterOutputDropsEmptyRefID(t *testing.T) {
	results := []core.QueryResult{
		{RefID: "", QueryStartSecs: 0, QueryStopSecs: 10},
		{RefID: "songA", QueryStartSecs: 0, QueryStopSecs: 10},
	}
	out := core.FilterOutput(results)
	if len(out) != 1 || out[0].RefID != "songA" {
		t.Fatalf("expected only songA to survive, got %+v", out)
	}
}

func TestFilterOutputDropsShortDetections(t *testing.T) {
	results := []core.QueryResult{
		{RefID: "songA", QueryStartSecs: 0, QueryStopSecs: 1.5},
		{RefID: "songB", QueryStartSecs: 0, QueryStopSecs: 2.0},
	}
	out := core.FilterOutput(results)
	if len(out) != 1 || out[0].RefID != "songB" {
		t.Fatalf("expected only songB (>=2s) to survive, got %+v", out)
	}
}

func TestFilterOutputSortsByQueryStart(t *testing.T) {
	results := []core.QueryResult{
		{RefID: "songA", QueryStartSecs: 10, QueryStopSecs: 20},
		{RefID: "songB", QueryStartSecs: 0, QueryStopSecs: 10},
	}
	out := core.FilterOutput(results)
	for i := 1; i < len(out); i++ {
		if out[i].QueryStartSecs < out[i-1].QueryStartSecs {
			t.Fatalf("output not sorted by query_start ascending")
		}
	}
}
