package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const wrongSpaceRune = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles every target rune by its typing state. Positions
// in corrected were fixed after a mistake and keep a distinct color.
func buildStyledRunes(targetRunes, inputRunes []rune, corrected map[int]struct{}, cursorIndex int) []styledRune {
	words := findWords(targetRunes)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		if i < len(inputRunes) {
			style, displayed = typedStyle(target, inputRunes[i], i, corrected)
		} else if target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		if i == cursorIndex && i >= len(inputRunes) {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

func typedStyle(target, typed rune, pos int, corrected map[int]struct{}) (lipgloss.Style, rune) {
	switch {
	case target == ' ' && typed != ' ':
		return incorrectStyle, wrongSpaceRune
	case typed != target:
		return incorrectStyle, target
	}
	if _, ok := corrected[pos]; ok {
		return correctedStyle, target
	}
	return correctStyle, target
}

type wordRange struct {
	start int
	end   int
}

// findWords returns the half-open rune ranges of space-separated words.
func findWords(targetRunes []rune) []wordRange {
	var words []wordRange
	inWord := false
	for i, r := range targetRunes {
		switch {
		case r != ' ' && !inWord:
			words = append(words, wordRange{start: i})
			inWord = true
		case r == ' ' && inWord:
			words[len(words)-1].end = i
			inWord = false
		}
	}
	if inWord {
		words[len(words)-1].end = len(targetRunes)
	}
	return words
}

// wordForCursor returns the word holding the cursor, or the next word when
// the cursor sits on a space. A finished text highlights nothing past the end.
func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 {
		return nil
	}
	if cursorIndex < 0 {
		return &words[0]
	}
	for i := range words {
		if cursorIndex < words[i].end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that keeps a line within
// width. Words longer than width are split hard.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	start, lineWidth, breakAt := 0, 0, -1
	for i := 0; i < len(runes); i++ {
		if lineWidth+runes[i].width > width && i > start {
			end, next := i, i
			if breakAt >= start {
				end, next = breakAt, breakAt+1
			}
			lines = append(lines, renderStyledRunes(runes[start:end]))
			start, breakAt = next, -1
			lineWidth = 0
			for j := start; j < i; j++ {
				lineWidth += runes[j].width
				if runes[j].isSpace {
					breakAt = j
				}
			}
		}
		lineWidth += runes[i].width
		if runes[i].isSpace {
			breakAt = i
		}
	}
	lines = append(lines, renderStyledRunes(runes[start:]))
	return strings.Join(lines, "\n")
}
