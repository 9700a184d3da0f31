package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typestats/internal/model"
	"github.com/verte-zerg/typestats/internal/store"
)

func TestBuildHistory(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "typestats.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	ids := []string{"first", "second", "third"}
	for i, id := range ids {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		end := start.Add(30 * time.Second)
		a := model.CompletedAttempt{
			ID:         id,
			StartTime:  start,
			EndTime:    end,
			TargetText: "ab",
			UserInput:  "ax",
		}
		r := model.StatisticsReport{
			WPM:             40 + i,
			AccuracyPercent: 50,
			ErrorCount:      1,
			ErrorPatterns: []model.ErrorPattern{
				{Character: "b", Frequency: 1, Positions: []int{1}, CommonMistakes: []string{"x"}, Kind: model.KindSubstitution},
			},
		}
		if err := st.InsertReport(ctx, a, r); err != nil {
			t.Fatalf("insert report: %v", err)
		}
	}

	h, err := BuildHistory(ctx, st, model.StatsConfig{Last: 2, CurveWindow: 1})
	if err != nil {
		t.Fatalf("build history: %v", err)
	}
	if len(h.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(h.Reports))
	}
	if h.Reports[0].AttemptID != "second" || h.Reports[1].AttemptID != "third" {
		t.Fatalf("unexpected attempt ids: %+v", h.Reports)
	}
	if len(h.WindowAttemptIDs) != 1 || h.WindowAttemptIDs[0] != "third" {
		t.Fatalf("unexpected window ids: %v", h.WindowAttemptIDs)
	}
	if len(h.PatternsAll) != 1 || h.PatternsAll[0].Frequency != 2 || h.PatternsAll[0].Attempts != 2 {
		t.Fatalf("unexpected aggregates for all attempts: %+v", h.PatternsAll)
	}
	if len(h.PatternsWindow) != 1 || h.PatternsWindow[0].Frequency != 1 {
		t.Fatalf("unexpected aggregates for window: %+v", h.PatternsWindow)
	}
	if len(h.LatestPatterns) != 1 || len(h.LatestPatterns[0].Positions) != 1 || h.LatestPatterns[0].Positions[0] != 1 {
		t.Fatalf("unexpected latest patterns: %+v", h.LatestPatterns)
	}

	var buf bytes.Buffer
	if err := RenderHistory(&buf, h, 1, 80); err != nil {
		t.Fatalf("render history: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Latest Attempt") || !strings.Contains(out, "substitution") {
		t.Fatalf("missing latest attempt patterns:\n%s", out)
	}
}
