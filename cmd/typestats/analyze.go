package main

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/typestats/internal/analysis"
	"github.com/verte-zerg/typestats/internal/attempt"
	"github.com/verte-zerg/typestats/internal/config"
	"github.com/verte-zerg/typestats/internal/model"
	"github.com/verte-zerg/typestats/internal/stats"
	"github.com/verte-zerg/typestats/internal/store"
)

var (
	analyzeJSON   bool
	analyzeSave   bool
	analyzeStrict bool
	analyzeDiff   bool
)

type analyzed struct {
	path    string
	attempt model.CompletedAttempt
	report  model.StatisticsReport
	err     error
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze FILE...",
		Short: "Analyze recorded attempts (.json or .yaml)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "print reports as JSON, one document per file")
	cmd.Flags().BoolVar(&analyzeSave, "save", false, "store reports in the history database")
	cmd.Flags().BoolVar(&analyzeStrict, "strict", false, "reject attempts whose input differs from the keystroke replay")
	cmd.Flags().BoolVar(&analyzeDiff, "diff", false, "show a diff of typed input against the target")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(fileCfg.Log, zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
	defer syncLogger(logger)

	analyzer := analysis.NewAnalyzer(analyzerConfig(fileCfg.Analysis, analyzeStrict), logger)
	results, err := analyzeFiles(cmd.Context(), analyzer, args)
	if err != nil {
		return err
	}

	if analyzeSave {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer closeStore(st, logger)
		for _, res := range results {
			if res.err != nil {
				continue
			}
			if err := st.InsertReport(cmd.Context(), res.attempt, res.report); err != nil {
				return fmt.Errorf("failed to save %s: %w", res.path, err)
			}
			logger.Info("report saved", zap.String("path", res.path), zap.String("attempt_id", res.attempt.ID))
		}
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, res := range results {
		if res.err != nil {
			failed++
			logger.Error("analysis failed", zap.String("path", res.path), zap.Error(res.err))
			continue
		}
		if err := printAnalyzed(out, res, i > 0 && !analyzeJSON, len(results) > 1); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d attempts failed", failed, len(results))
	}
	return nil
}

// analyzeFiles loads and analyzes every path concurrently. Per-file
// failures are kept in the results; only cancellation aborts the batch.
func analyzeFiles(ctx context.Context, analyzer *analysis.Analyzer, paths []string) ([]analyzed, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]analyzed, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := analyzed{path: path}
			res.attempt, res.err = attempt.Load(path)
			if res.err == nil {
				res.report, res.err = analyzer.Analyze(res.attempt)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printAnalyzed(w io.Writer, res analyzed, separate, withHeader bool) error {
	if analyzeJSON {
		return attempt.EncodeReport(w, res.report)
	}
	if separate {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	if withHeader {
		if _, err := fmt.Fprintf(w, "== %s ==\n", res.path); err != nil {
			return err
		}
	}
	if err := stats.RenderAttempt(w, res.report); err != nil {
		return err
	}
	if !analyzeDiff {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return stats.RenderDiff(w, res.attempt.TargetText, res.attempt.UserInput, stats.IsTerminal(w))
}
