package stats

import (
	"sort"

	"github.com/verte-zerg/typestats/internal/model"
)

// RankPatterns orders aggregates by error frequency, then by how many
// attempts they appeared in, then by character.
func RankPatterns(aggs []model.PatternAggregate) []model.PatternAggregate {
	ranked := make([]model.PatternAggregate, len(aggs))
	copy(ranked, aggs)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Frequency != ranked[j].Frequency {
			return ranked[i].Frequency > ranked[j].Frequency
		}
		if ranked[i].Attempts != ranked[j].Attempts {
			return ranked[i].Attempts > ranked[j].Attempts
		}
		return ranked[i].Char < ranked[j].Char
	})
	return ranked
}

// TopCharsByFrequency returns the top N expected characters by error
// frequency. Insertions without an expected character are skipped.
func TopCharsByFrequency(aggs []model.PatternAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	out := make([]string, 0, n)
	for _, agg := range RankPatterns(aggs) {
		if agg.Char == "" {
			continue
		}
		out = append(out, agg.Char)
		if len(out) == n {
			break
		}
	}
	return out
}
