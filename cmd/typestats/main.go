// Package main provides the CLI entrypoint for typestats.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/typestats/internal/analysis"
	"github.com/verte-zerg/typestats/internal/config"
	"github.com/verte-zerg/typestats/internal/generator"
	"github.com/verte-zerg/typestats/internal/logging"
	"github.com/verte-zerg/typestats/internal/model"
	"github.com/verte-zerg/typestats/internal/stats"
	"github.com/verte-zerg/typestats/internal/store"
	"github.com/verte-zerg/typestats/internal/tui"
	"github.com/verte-zerg/typestats/internal/wordlist"
)

const (
	defaultWords       = 25
	defaultCaps        = 0.5
	defaultPunct       = 0.5
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
)

const defaultPunctSet = ".,!?;:\"'{}()[]-=/<>`"

var (
	logLevel string

	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
	practiceText       string
	practiceDuration   int
	practiceWordList   string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typestats",
		Short:         "Typing practice and performance analysis",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per text")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent attempts to compute weak chars")
	rootCmd.Flags().StringVar(&practiceText, "text", "", "practice a fixed text instead of generated words")
	rootCmd.Flags().IntVar(&practiceDuration, "duration", 0, "time limit in seconds (0 = until the text is done)")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "word list file (default: embedded English list)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)
	applyConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)

	cfg := model.Config{
		Words:          practiceWords,
		CapsPct:        practiceCaps,
		PunctPct:       practicePunct,
		PunctSet:       practicePunctSet,
		FocusWeak:      practiceFocusWeak,
		WeakTop:        practiceWeakTop,
		WeakFactor:     practiceWeakFactor,
		WeakWindow:     practiceWeakWindow,
		Text:           practiceText,
		DurationTarget: practiceDuration,
		WordListPath:   practiceWordList,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	// The TUI owns the terminal, so console logging is off while it runs.
	logger := newLogger(fileCfg.Log, zapcore.AddSync(io.Discard))
	defer syncLogger(logger)

	wordPath := cfg.WordListPath
	if wordPath == "" {
		wordPath = config.DefaultWordListPath()
	}
	words, source, err := wordlist.LoadOrDefault(wordPath)
	if err != nil {
		return err
	}
	logger.Debug("word list loaded", zap.String("source", source), zap.Int("words", len(words)))

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st, logger)

	weakSet := map[rune]struct{}{}
	if cfg.FocusWeak {
		aggs, err := st.GetWeakChars(context.Background(), cfg.WeakWindow)
		if err != nil {
			logger.Warn("failed to load weak chars", zap.Error(err))
		} else {
			weakSet = stats.SelectWeakChars(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logErrln("no stats available for weak-char focus yet; using normal generator")
			}
		}
	}

	m := tui.NewModel(tui.Options{
		Config:   cfg,
		Store:    st,
		Analyzer: analysis.NewAnalyzer(analyzerConfig(fileCfg.Analysis, false), logger),
		Gen:      generator.New(),
		Words:    words,
		WeakSet:  weakSet,
		Logger:   logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// applyConfig copies a config file value into target unless the flag was
// set on the command line.
func applyConfig[T any](cmd *cobra.Command, name string, target *T, value *T) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typestats configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# words = %d              # Words per text
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q          # Punctuation set
# focus-weak = false      # Bias practice toward weak characters
# weak-top = %d           # Number of weak characters to focus on
# weak-factor = %.1f      # Weight factor for weak characters
# weak-window = %d        # Number of recent attempts to compute weak chars
# duration = 0            # Time limit in seconds (0 = until the text is done)
# wordlist = %q

[analysis]
# min-minutes = %.2f      # Lower bound on elapsed minutes for WPM
# max-text-length = %d    # Longest accepted target or input, in characters
# verify-replay = false   # Reject attempts whose input differs from the keystroke replay

[log]
# level = "warn"          # debug, info, warn or error
# file = ""               # JSON log file, rotated by size
# max-size = 10           # MB per file
# max-backups = 3
# max-age = 28            # days
# compress = false
`,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		config.DefaultWordListPath(),
		analysis.DefaultMinMinutes,
		analysis.DefaultMaxTextLength,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 && cfg.Text == "" {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctSet == "" && cfg.PunctPct > 0 {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if cfg.DurationTarget < 0 {
		return fmt.Errorf("--duration must be >= 0")
	}
	return nil
}

func analyzerConfig(cfg config.AnalysisConfig, strict bool) analysis.Config {
	out := analysis.DefaultConfig()
	if cfg.MinMinutes != nil {
		out.MinMinutes = *cfg.MinMinutes
	}
	if cfg.MaxTextLength != nil {
		out.MaxTextLength = *cfg.MaxTextLength
	}
	if cfg.VerifyReplay != nil {
		out.VerifyReplay = *cfg.VerifyReplay
	}
	if strict {
		out.VerifyReplay = true
	}
	return out
}

func newLogger(cfg config.LogConfig, console zapcore.WriteSyncer) *zap.Logger {
	if logLevel != "" {
		cfg.Level = logLevel
	}
	return logging.NewWithWriter(cfg, console)
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		// Best-effort flush; stderr often rejects fsync.
		_ = err
	}
}

func closeStore(st *store.Store, logger *zap.Logger) {
	if err := st.Close(); err != nil {
		logger.Warn("failed to close db", zap.Error(err))
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
