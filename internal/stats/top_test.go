package stats

import (
	"testing"

	"github.com/verte-zerg/typestats/internal/model"
)

func TestTopCharsByFrequency(t *testing.T) {
	aggs := []model.PatternAggregate{
		{Char: "b", Frequency: 3, Attempts: 1},
		{Char: "a", Frequency: 3, Attempts: 2},
		{Char: "", Frequency: 9, Attempts: 4},
		{Char: "c", Frequency: 1, Attempts: 1},
	}
	top := TopCharsByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(top))
	}
	if top[0] != "a" || top[1] != "b" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestSelectWeakChars(t *testing.T) {
	aggs := []model.PatternAggregate{
		{Char: "q", Frequency: 5, Attempts: 2},
		{Char: "z", Frequency: 2, Attempts: 2},
		{Char: "x", Frequency: 1, Attempts: 1},
	}
	weak := SelectWeakChars(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %d", len(weak))
	}
	if _, ok := weak['q']; !ok {
		t.Fatalf("expected q in weak set: %v", weak)
	}
	if _, ok := weak['z']; !ok {
		t.Fatalf("expected z in weak set: %v", weak)
	}
	if got := SelectWeakChars(nil, 3); len(got) != 0 {
		t.Fatalf("expected empty weak set, got %v", got)
	}
}
