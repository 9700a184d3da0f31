package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/typestats/internal/model"
	"github.com/verte-zerg/typestats/internal/store"
)

// History contains precomputed data for history rendering.
type History struct {
	Reports          []model.ReportSummary
	WindowAttemptIDs []string
	PatternsAll      []model.PatternAggregate
	PatternsWindow   []model.PatternAggregate
	// LatestPatterns are the stored patterns of the most recent attempt.
	LatestPatterns []model.ErrorPattern
}

// BuildHistory loads and prepares stored reports for rendering.
func BuildHistory(ctx context.Context, st *store.Store, cfg model.StatsConfig) (History, error) {
	reports, err := st.ListReports(ctx, cfg)
	if err != nil {
		return History{}, err
	}
	if cfg.Last > 0 && len(reports) > cfg.Last {
		reports = reports[len(reports)-cfg.Last:]
	}

	windowIDs := lastAttemptIDs(reports, cfg.CurveWindow)
	patternsAll, err := st.ListPatternAggregates(ctx, attemptIDs(reports))
	if err != nil {
		return History{}, err
	}
	patternsWindow, err := st.ListPatternAggregates(ctx, windowIDs)
	if err != nil {
		return History{}, err
	}

	var latest []model.ErrorPattern
	if len(reports) > 0 {
		latest, err = st.ErrorPatterns(ctx, reports[len(reports)-1].AttemptID)
		if err != nil {
			return History{}, err
		}
	}

	return History{
		Reports:          reports,
		WindowAttemptIDs: windowIDs,
		PatternsAll:      patternsAll,
		PatternsWindow:   patternsWindow,
		LatestPatterns:   latest,
	}, nil
}

// RenderHistory prints the summary, curves, windowed error patterns and the
// mistakes of the latest attempt.
func RenderHistory(w io.Writer, h History, window, width int) error {
	if err := RenderSummary(w, h.Reports); err != nil {
		return err
	}
	if err := RenderCurves(w, h.Reports, window, width); err != nil {
		return err
	}
	if len(h.Reports) == 0 {
		return nil
	}
	if err := RenderPatternTable(w, h.PatternsWindow, 10); err != nil {
		return err
	}
	if len(h.LatestPatterns) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Latest Attempt"); err != nil {
		return err
	}
	return renderErrorPatterns(w, h.LatestPatterns)
}

func attemptIDs(reports []model.ReportSummary) []string {
	ids := make([]string, len(reports))
	for i, r := range reports {
		ids[i] = r.AttemptID
	}
	return ids
}

func lastAttemptIDs(reports []model.ReportSummary, window int) []string {
	if window <= 0 || len(reports) <= window {
		return attemptIDs(reports)
	}
	return attemptIDs(reports[len(reports)-window:])
}
