package stats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/term"

	"github.com/verte-zerg/typestats/internal/model"
)

const (
	colorReset = "\x1b[0m"
	colorRed   = "\x1b[31m"
	colorGreen = "\x1b[32m"

	defaultTerminalWidth = 80
)

// RenderAttempt prints one report: speed, accuracy, consistency, character
// classes and the top error patterns.
func RenderAttempt(w io.Writer, r model.StatisticsReport) error {
	rows := [][]string{
		{"WPM", fmt.Sprintf("%d", r.WPM)},
		{"Gross WPM", fmt.Sprintf("%d", r.GrossWPM)},
		{"Word WPM", fmt.Sprintf("%d", r.WordWPM)},
		{"Accuracy", fmt.Sprintf("%.2f%%", r.AccuracyPercent)},
		{"Char Accuracy", fmt.Sprintf("%.2f%%", r.CharacterAccuracyPercent)},
		{"Keypresses", fmt.Sprintf("%d/%d", r.CorrectKeypresses, r.TotalKeypresses)},
		{"Errors", fmt.Sprintf("%d", r.ErrorCount)},
		{"Consistency", fmt.Sprintf("%.2f", r.ConsistencyScore)},
		{"Characters", fmt.Sprintf("%d correct, %d incorrect, %d extra, %d missed",
			r.CharacterStats.Correct, r.CharacterStats.Incorrect, r.CharacterStats.Extra, r.CharacterStats.Missed)},
	}
	for _, line := range formatTable(nil, rows, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(r.ErrorPatterns) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return renderErrorPatterns(w, r.ErrorPatterns)
}

func renderErrorPatterns(w io.Writer, patterns []model.ErrorPattern) error {
	headers := []string{"Expected", "Count", "Typed", "Kind", "Positions"}
	rows := make([][]string, 0, len(patterns))
	for _, p := range patterns {
		rows = append(rows, PatternRow(p))
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PatternRow formats an error pattern as table cells.
func PatternRow(p model.ErrorPattern) []string {
	mistakes := make([]string, len(p.CommonMistakes))
	for i, m := range p.CommonMistakes {
		mistakes[i] = CharLabel(m)
	}
	positions := make([]string, len(p.Positions))
	for i, pos := range p.Positions {
		positions[i] = fmt.Sprintf("%d", pos)
	}
	return []string{
		CharLabel(p.Character),
		fmt.Sprintf("%d", p.Frequency),
		strings.Join(mistakes, " "),
		string(p.Kind),
		strings.Join(positions, ","),
	}
}

// RenderDiff prints a character-level diff of input against target.
// Without color, deletions are shown as [-x-] and insertions as {+x+}.
func RenderDiff(w io.Writer, target, input string, useColor bool) error {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(target, input, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			if useColor {
				b.WriteString(colorRed + d.Text + colorReset)
			} else {
				b.WriteString("[-" + d.Text + "-]")
			}
		case diffmatchpatch.DiffInsert:
			if useColor {
				b.WriteString(colorGreen + d.Text + colorReset)
			} else {
				b.WriteString("{+" + d.Text + "+}")
			}
		}
	}
	_, err := fmt.Fprintln(w, b.String())
	return err
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of w when it is a terminal, or 80.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return defaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}
