package analysis

import (
	"sort"

	"github.com/verte-zerg/typestats/internal/model"
)

// Sentinel keys used while grouping alignment errors.
const (
	MissingKey = "_MISSING_"
	DeletedKey = "_DELETED_"
)

// MaxErrorPatterns caps the number of patterns in a report.
const MaxErrorPatterns = 10

// ErrorPatterns groups alignment errors by expected character and ranks the
// groups by frequency. Insertions, which have no expected character, are
// grouped under an empty Character. Equal frequencies keep first-seen order.
//
// Kind is the kind of the last error recorded for the character, not a
// majority vote.
func ErrorPatterns(errs []model.AlignmentError) []model.ErrorPattern {
	if len(errs) == 0 {
		return []model.ErrorPattern{}
	}
	index := map[string]int{}
	seen := map[string]map[string]struct{}{}
	var patterns []model.ErrorPattern
	for _, e := range errs {
		key := MissingKey
		if e.Expected != nil {
			key = string(*e.Expected)
		}
		idx, ok := index[key]
		if !ok {
			char := ""
			if e.Expected != nil {
				char = key
			}
			idx = len(patterns)
			index[key] = idx
			seen[key] = map[string]struct{}{}
			patterns = append(patterns, model.ErrorPattern{
				Character:      char,
				Positions:      []int{},
				CommonMistakes: []string{},
			})
		}
		p := &patterns[idx]
		p.Frequency++
		p.Positions = append(p.Positions, e.Position)
		p.Kind = e.Kind
		mistake := DeletedKey
		if e.Actual != nil {
			mistake = string(*e.Actual)
		}
		if _, dup := seen[key][mistake]; !dup {
			seen[key][mistake] = struct{}{}
			p.CommonMistakes = append(p.CommonMistakes, mistake)
		}
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Frequency > patterns[j].Frequency
	})
	if len(patterns) > MaxErrorPatterns {
		patterns = patterns[:MaxErrorPatterns]
	}
	return patterns
}
