package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typestats/internal/model"
)

func summaries(wpms ...int) []model.ReportSummary {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	out := make([]model.ReportSummary, len(wpms))
	for i, wpm := range wpms {
		out[i] = model.ReportSummary{
			AttemptID:        string(rune('a' + i)),
			EndedAt:          base.Add(time.Duration(i) * time.Minute),
			WPM:              wpm,
			GrossWPM:         wpm + 10,
			WordWPM:          wpm - 4,
			AccuracyPercent:  90,
			ConsistencyScore: 70,
			ErrorCount:       2,
		}
	}
	return out
}

func TestSummarize(t *testing.T) {
	tot := Summarize(summaries(40, 60))
	assert.Equal(t, 2, tot.Attempts)
	assert.InDelta(t, 50.0, tot.AvgWPM, 1e-9)
	assert.InDelta(t, 60.0, tot.AvgGrossWPM, 1e-9)
	assert.InDelta(t, 46.0, tot.AvgWordWPM, 1e-9)
	assert.Equal(t, 60, tot.BestWPM)
	assert.Equal(t, 4, tot.TotalErrors)
	assert.InDelta(t, 90.0, tot.AvgAccuracy, 1e-9)

	assert.Equal(t, Totals{}, Summarize(nil))
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	assert.Equal(t, []float64{2, 3, 5, 7}, got)
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 1))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, " @", Sparkline([]float64{0, 9}))
	assert.Equal(t, "+++", Sparkline([]float64{3, 3, 3}))
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, nil))
	assert.Equal(t, "No attempts found.\n", buf.String())
}

func TestRenderCurvesTruncatesToWidth(t *testing.T) {
	var buf bytes.Buffer
	reports := summaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)
	require.NoError(t, RenderCurves(&buf, reports, 1, 17))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Learning Curves", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "WPM"))
	assert.True(t, strings.HasSuffix(lines[1], "100.0"))
	assert.Len(t, lines[1], len("Consistency")+1+4+1+len("100.0"))
}

func TestRenderPatternTable(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.PatternAggregate{
		{Char: " ", Frequency: 2, Attempts: 1},
		{Char: "e", Frequency: 5, Attempts: 3},
	}
	require.NoError(t, RenderPatternTable(&buf, aggs, 10))
	out := buf.String()
	assert.Contains(t, out, "Error Patterns")
	assert.Less(t, strings.Index(out, "e "), strings.Index(out, "<space>"))
}

func TestRenderAttempt(t *testing.T) {
	var buf bytes.Buffer
	r := model.StatisticsReport{
		WPM:                      42,
		GrossWPM:                 45,
		WordWPM:                  38,
		AccuracyPercent:          95.5,
		CharacterAccuracyPercent: 96,
		TotalKeypresses:          20,
		CorrectKeypresses:        19,
		ErrorCount:               1,
		ConsistencyScore:         88.12,
		ErrorPatterns: []model.ErrorPattern{
			{Character: "e", Frequency: 1, Positions: []int{1}, CommonMistakes: []string{"a"}, Kind: model.KindSubstitution},
		},
	}
	require.NoError(t, RenderAttempt(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "WPM           42")
	assert.Contains(t, out, "Word WPM      38")
	assert.Contains(t, out, "95.50%")
	assert.Contains(t, out, "19/20")
	assert.Contains(t, out, "88.12")
	assert.Contains(t, out, "substitution")
}

func TestPatternRowLabels(t *testing.T) {
	row := PatternRow(model.ErrorPattern{
		Character:      "",
		Frequency:      2,
		Positions:      []int{3, 7},
		CommonMistakes: []string{" ", "_DELETED_"},
		Kind:           model.KindInsertion,
	})
	assert.Equal(t, []string{"<extra>", "2", "<space> <none>", "insertion", "3,7"}, row)
}

func TestRenderDiffPlain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDiff(&buf, "hello", "hallo", false))
	out := buf.String()
	assert.Contains(t, out, "[-e-]")
	assert.Contains(t, out, "{+a+}")
	assert.True(t, strings.HasPrefix(out, "h"))
	assert.True(t, strings.HasSuffix(out, "llo\n"))
}

func TestRenderDiffIdentical(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDiff(&buf, "same text", "same text", true))
	assert.Equal(t, "same text\n", buf.String())
}

func TestTerminalHelpersOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, 80, TerminalWidth(&buf))
}
