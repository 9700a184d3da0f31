package analysis

import (
	"math"
	"strings"
)

// CharsPerWord is the standard word length used for WPM.
const CharsPerWord = 5

// NetWPM converts correctly typed characters into words per minute.
func NetWPM(correctChars int, minutes float64) int {
	return charsPerMinute(correctChars, minutes)
}

// GrossWPM converts every typed (non-backspace) character into words per
// minute, including characters that were later corrected.
func GrossWPM(typedChars int, minutes float64) int {
	return charsPerMinute(typedChars, minutes)
}

// WordWPM is the word-based variant: whole correct words per minute.
func WordWPM(correctWords int, minutes float64) int {
	if minutes <= 0 || correctWords <= 0 {
		return 0
	}
	return int(math.Round(float64(correctWords) / minutes))
}

// CorrectWords counts target words typed exactly at the same word index of
// input. Words are split on whitespace.
func CorrectWords(target, input string) int {
	want := strings.Fields(target)
	got := strings.Fields(input)
	n := 0
	for i := 0; i < min(len(want), len(got)); i++ {
		if want[i] == got[i] {
			n++
		}
	}
	return n
}

func charsPerMinute(chars int, minutes float64) int {
	if minutes <= 0 || chars <= 0 {
		return 0
	}
	return int(math.Round(float64(chars) / CharsPerWord / minutes))
}

// ElapsedMinutes converts an elapsed duration in milliseconds into minutes,
// clamped to floor so short attempts never divide by zero.
func ElapsedMinutes(elapsedMs int64, floor float64) float64 {
	return math.Max(floor, float64(elapsedMs)/60000.0)
}
