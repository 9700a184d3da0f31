package stats

import (
	"github.com/verte-zerg/typestats/internal/model"
)

// SelectWeakChars picks the most frequently mistyped characters.
func SelectWeakChars(aggs []model.PatternAggregate, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	if len(aggs) == 0 {
		return weakSet
	}
	if top <= 0 || top > len(aggs) {
		top = len(aggs)
	}
	for _, ch := range TopCharsByFrequency(aggs, top) {
		runes := []rune(ch)
		if len(runes) > 0 {
			weakSet[runes[0]] = struct{}{}
		}
	}
	return weakSet
}
