package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/typestats/internal/analysis"
	"github.com/verte-zerg/typestats/internal/config"
	"github.com/verte-zerg/typestats/internal/store"
	"github.com/verte-zerg/typestats/internal/watch"
)

var (
	watchExisting bool
	watchStrict   bool
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Analyze and store attempt files as they appear in DIR",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatchCmd,
	}
	cmd.Flags().BoolVar(&watchExisting, "existing", false, "also ingest files already in DIR")
	cmd.Flags().BoolVar(&watchStrict, "strict", false, "reject attempts whose input differs from the keystroke replay")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(fileCfg.Log, zapcore.Lock(zapcore.AddSync(cmd.ErrOrStderr())))
	defer syncLogger(logger)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st, logger)

	out := cmd.OutOrStdout()
	w, err := watch.New(args[0], watch.Options{
		Analyzer: analysis.NewAnalyzer(analyzerConfig(fileCfg.Analysis, watchStrict), logger),
		Store:    st,
		Logger:   logger,
		Existing: watchExisting,
		OnResult: func(res watch.Result) {
			r := res.Report
			if _, err := fmt.Fprintf(out, "%s: %d WPM, %.2f%% accuracy, consistency %.2f, %d errors\n",
				res.Path, r.WPM, r.AccuracyPercent, r.ConsistencyScore, r.ErrorCount); err != nil {
				logErrln(err)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", args[0], err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}
