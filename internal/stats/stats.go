// Package stats renders attempt reports and practice history.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/typestats/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Totals summarizes a list of stored reports.
type Totals struct {
	Attempts       int
	AvgWPM         float64
	BestWPM        int
	AvgGrossWPM    float64
	AvgWordWPM     float64
	AvgAccuracy    float64
	AvgConsistency float64
	TotalErrors    int
}

// Summarize averages report summaries.
func Summarize(reports []model.ReportSummary) Totals {
	t := Totals{Attempts: len(reports)}
	if len(reports) == 0 {
		return t
	}
	for _, r := range reports {
		t.AvgWPM += float64(r.WPM)
		t.AvgGrossWPM += float64(r.GrossWPM)
		t.AvgWordWPM += float64(r.WordWPM)
		t.AvgAccuracy += r.AccuracyPercent
		t.AvgConsistency += r.ConsistencyScore
		t.TotalErrors += r.ErrorCount
		if r.WPM > t.BestWPM {
			t.BestWPM = r.WPM
		}
	}
	n := float64(len(reports))
	t.AvgWPM /= n
	t.AvgGrossWPM /= n
	t.AvgWordWPM /= n
	t.AvgAccuracy /= n
	t.AvgConsistency /= n
	return t
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(min(i+1, window))
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints averages over the stored reports.
func RenderSummary(w io.Writer, reports []model.ReportSummary) error {
	if len(reports) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	t := Summarize(reports)
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", t.Attempts),
		fmt.Sprintf("Avg WPM: %.2f (gross %.2f)", t.AvgWPM, t.AvgGrossWPM),
		fmt.Sprintf("Avg Word WPM: %.2f", t.AvgWordWPM),
		fmt.Sprintf("Best WPM: %d", t.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", t.AvgAccuracy),
		fmt.Sprintf("Avg Consistency: %.2f", t.AvgConsistency),
		fmt.Sprintf("Total Errors: %d", t.TotalErrors),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints sparkline learning curves for WPM, accuracy and
// consistency, keeping the most recent points that fit in width.
func RenderCurves(w io.Writer, reports []model.ReportSummary, window, width int) error {
	if len(reports) == 0 {
		return nil
	}
	wpms := make([]float64, len(reports))
	accs := make([]float64, len(reports))
	cons := make([]float64, len(reports))
	for i, r := range reports {
		wpms[i] = float64(r.WPM)
		accs[i] = r.AccuracyPercent
		cons[i] = r.ConsistencyScore
	}
	series := []struct {
		name   string
		values []float64
	}{
		{"WPM", MovingAverage(wpms, window)},
		{"Accuracy", MovingAverage(accs, window)},
		{"Consistency", MovingAverage(cons, window)},
	}

	if _, err := fmt.Fprintln(w, "Learning Curves"); err != nil {
		return err
	}
	const labelWidth = 12
	points := len(reports)
	if width > labelWidth+1 && points > width-labelWidth-1 {
		points = width - labelWidth - 1
	}
	rows := make([][]string, 0, len(series))
	for _, s := range series {
		values := s.values[len(s.values)-points:]
		last := values[len(values)-1]
		rows = append(rows, []string{s.name, Sparkline(values), fmt.Sprintf("%.1f", last)})
	}
	for _, line := range formatTable(nil, rows, map[int]bool{2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderPatternTable prints aggregated error patterns, most frequent first.
func RenderPatternTable(w io.Writer, aggs []model.PatternAggregate, top int) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No error patterns found.")
		return err
	}
	ranked := RankPatterns(aggs)
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	if _, err := fmt.Fprintln(w, "Error Patterns"); err != nil {
		return err
	}
	headers := []string{"Char", "Errors", "Attempts"}
	rows := make([][]string, 0, len(ranked))
	for _, agg := range ranked {
		rows = append(rows, []string{
			CharLabel(agg.Char),
			fmt.Sprintf("%d", agg.Frequency),
			fmt.Sprintf("%d", agg.Attempts),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CharLabel makes whitespace and sentinel characters readable.
func CharLabel(ch string) string {
	switch ch {
	case "":
		return "<extra>"
	case " ":
		return "<space>"
	case "\t":
		return "<tab>"
	case "\n":
		return "<enter>"
	case "_DELETED_":
		return "<none>"
	default:
		return ch
	}
}
