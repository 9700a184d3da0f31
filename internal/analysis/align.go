// Package analysis computes typing statistics for completed attempts.
package analysis

import "github.com/verte-zerg/typestats/internal/model"

// Levenshtein returns the edit distance between target and input, counted
// in runes with unit cost for insertion, deletion and substitution.
func Levenshtein(target, input string) int {
	if target == input {
		return 0
	}
	return levenshteinRunes([]rune(target), []rune(input))
}

func levenshteinRunes(a, b []rune) int {
	n, m := len(a), len(b)
	if n == 0 {
		return m
	}
	if m == 0 {
		return n
	}
	cols := m + 1
	table := make([]int, (n+1)*cols)
	for i := 0; i <= n; i++ {
		table[i*cols] = i
	}
	for j := 0; j <= m; j++ {
		table[j] = j
	}
	for i := 1; i <= n; i++ {
		row := i * cols
		prev := row - cols
		for j := 1; j <= m; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			table[row+j] = min(
				table[prev+j]+1,
				table[row+j-1]+1,
				table[prev+j-1]+cost,
			)
		}
	}
	return table[n*cols+m]
}

// Align walks target and input left to right and reports the edits that
// turn target into input.
//
// This is a greedy resynchronization, not a DP backtrace: on a mismatch it
// looks ahead for the nearest point where the two cursors agree again and
// prefers skipping input (insertion) on ties. With many repeated characters
// it can report more errors than the edit distance.
func Align(target, input string) []model.AlignmentError {
	t := []rune(target)
	in := []rune(input)
	var errs []model.AlignmentError
	i, j := 0, 0
	for i < len(t) || j < len(in) {
		switch {
		case i >= len(t):
			errs = append(errs, insertion(in[j], i))
			j++
		case j >= len(in):
			errs = append(errs, deletion(t[i], i))
			i++
		case t[i] == in[j]:
			i++
			j++
		default:
			insDist := indexFrom(in, t[i], j+1) - j
			delDist := indexFrom(t, in[j], i+1) - i
			insOK := insDist > 0
			delOK := delDist > 0
			switch {
			case insOK && (!delOK || insDist <= delDist):
				errs = append(errs, insertion(in[j], i))
				j++
			case delOK:
				errs = append(errs, deletion(t[i], i))
				i++
			default:
				errs = append(errs, substitution(t[i], in[j], i))
				i++
				j++
			}
		}
	}
	return errs
}

// indexFrom returns the index of r in s at or after from, or -1.
func indexFrom(s []rune, r rune, from int) int {
	for k := from; k < len(s); k++ {
		if s[k] == r {
			return k
		}
	}
	return -1
}

func insertion(actual rune, pos int) model.AlignmentError {
	return model.AlignmentError{Actual: &actual, Position: pos, Kind: model.KindInsertion}
}

func deletion(expected rune, pos int) model.AlignmentError {
	return model.AlignmentError{Expected: &expected, Position: pos, Kind: model.KindDeletion}
}

func substitution(expected, actual rune, pos int) model.AlignmentError {
	return model.AlignmentError{Expected: &expected, Actual: &actual, Position: pos, Kind: model.KindSubstitution}
}
