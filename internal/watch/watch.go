// Package watch ingests attempt files dropped into a directory.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/verte-zerg/typestats/internal/analysis"
	"github.com/verte-zerg/typestats/internal/attempt"
	"github.com/verte-zerg/typestats/internal/model"
)

// DefaultDebounce is how long a file must stay unchanged before ingest.
const DefaultDebounce = 250 * time.Millisecond

// Saver stores analyzed attempts.
type Saver interface {
	InsertReport(ctx context.Context, a model.CompletedAttempt, r model.StatisticsReport) error
}

// Result is one ingested attempt file.
type Result struct {
	Path    string
	Attempt model.CompletedAttempt
	Report  model.StatisticsReport
}

// Options configures a Watcher.
type Options struct {
	Analyzer *analysis.Analyzer
	Store    Saver
	Logger   *zap.Logger
	OnResult func(Result)
	Debounce time.Duration
	// Existing ingests files already present when Run starts.
	Existing bool
}

// Watcher observes a directory and ingests attempt files as they settle.
type Watcher struct {
	dir      string
	analyzer *analysis.Analyzer
	store    Saver
	logger   *zap.Logger
	onResult func(Result)
	debounce time.Duration
	existing bool

	mu      sync.Mutex
	pending map[string]time.Time
	seen    map[string]fileStamp
}

type fileStamp struct {
	modTime time.Time
	size    int64
}

// New returns a Watcher for dir.
func New(dir string, opts Options) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	w := &Watcher{
		dir:      dir,
		analyzer: opts.Analyzer,
		store:    opts.Store,
		logger:   opts.Logger,
		onResult: opts.OnResult,
		debounce: opts.Debounce,
		existing: opts.Existing,
		pending:  map[string]time.Time{},
		seen:     map[string]fileStamp{},
	}
	if w.analyzer == nil {
		w.analyzer = analysis.NewAnalyzer(analysis.DefaultConfig(), w.logger)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	return w, nil
}

// Run watches the directory until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fsw.Close(); cerr != nil {
			w.logger.Debug("failed to close watcher", zap.Error(cerr))
		}
	}()
	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for attempts", zap.String("dir", w.dir))

	if w.existing {
		entries, err := os.ReadDir(w.dir)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, entry := range entries {
			if !entry.IsDir() {
				w.mark(filepath.Join(w.dir, entry.Name()), now.Add(-w.debounce))
			}
		}
	}

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.mark(event.Name, time.Now())
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		case now := <-ticker.C:
			for _, path := range w.settled(now) {
				w.process(ctx, path)
			}
		}
	}
}

// Ingest loads, analyzes and stores one attempt file.
func (w *Watcher) Ingest(ctx context.Context, path string) (Result, error) {
	a, err := attempt.Load(path)
	if err != nil {
		return Result{}, err
	}
	report, err := w.analyzer.Analyze(a)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	if w.store != nil {
		if err := w.store.InsertReport(ctx, a, report); err != nil {
			return Result{}, fmt.Errorf("failed to save %s: %w", path, err)
		}
	}
	return Result{Path: path, Attempt: a, Report: report}, nil
}

func (w *Watcher) mark(path string, at time.Time) {
	if _, err := attempt.FormatFor(path); err != nil {
		return
	}
	w.mu.Lock()
	w.pending[path] = at
	w.mu.Unlock()
}

func (w *Watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var ready []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

func (w *Watcher) process(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	stamp := fileStamp{modTime: info.ModTime(), size: info.Size()}
	w.mu.Lock()
	prev, ok := w.seen[path]
	w.seen[path] = stamp
	w.mu.Unlock()
	if ok && prev == stamp {
		return
	}

	res, err := w.Ingest(ctx, path)
	if err != nil {
		w.logger.Warn("skipping attempt file", zap.String("path", path), zap.Error(err))
		return
	}
	w.logger.Info("attempt ingested",
		zap.String("path", path),
		zap.String("attempt_id", res.Attempt.ID),
		zap.Int("wpm", res.Report.WPM),
	)
	if w.onResult != nil {
		w.onResult(res)
	}
}
