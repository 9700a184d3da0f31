package analysis

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/verte-zerg/typestats/internal/model"
)

// Default analysis settings. DefaultMaxTextLength keeps the edit-distance
// table of one attempt near 32 MB.
const (
	DefaultMinMinutes    = 0.01
	DefaultMaxTextLength = 2000
)

// Config controls analysis limits.
type Config struct {
	// MinMinutes is the lower clamp for elapsed time.
	MinMinutes float64
	// MaxTextLength bounds target and input length in characters; 0 disables the check.
	MaxTextLength int
	// VerifyReplay rejects attempts whose input differs from the keystroke replay.
	VerifyReplay bool
}

// DefaultConfig returns the default analysis settings.
func DefaultConfig() Config {
	return Config{
		MinMinutes:    DefaultMinMinutes,
		MaxTextLength: DefaultMaxTextLength,
	}
}

// Analyzer turns completed attempts into statistics reports. It holds no
// per-attempt state and is safe for concurrent use.
type Analyzer struct {
	cfg    Config
	logger *zap.Logger
}

// NewAnalyzer returns an Analyzer. A nil logger disables logging.
func NewAnalyzer(cfg Config, logger *zap.Logger) *Analyzer {
	if cfg.MinMinutes <= 0 {
		cfg.MinMinutes = DefaultMinMinutes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// AnalyzeAttempt analyzes a with the default configuration.
func AnalyzeAttempt(a model.CompletedAttempt) (model.StatisticsReport, error) {
	return NewAnalyzer(DefaultConfig(), nil).Analyze(a)
}

// Analyze validates a and computes its full statistics report.
func (an *Analyzer) Analyze(a model.CompletedAttempt) (model.StatisticsReport, error) {
	if err := Validate(a, an.cfg); err != nil {
		return model.StatisticsReport{}, fmt.Errorf("failed to analyze attempt: %w", err)
	}

	acc := KeypressAccuracy(a.Keystrokes, a.TargetText)
	errorCount := Levenshtein(a.TargetText, a.UserInput)
	minutes := ElapsedMinutes(a.EndTime.Sub(a.StartTime).Milliseconds(), an.cfg.MinMinutes)
	correctChars := max(0, utf8.RuneCountInString(a.TargetText)-errorCount)
	charStats := CharacterStats(a.TargetText, a.UserInput)

	report := model.StatisticsReport{
		WPM:                      NetWPM(correctChars, minutes),
		GrossWPM:                 GrossWPM(acc.Total, minutes),
		WordWPM:                  WordWPM(CorrectWords(a.TargetText, a.UserInput), minutes),
		AccuracyPercent:          acc.Percent,
		CharacterAccuracyPercent: CharacterAccuracy(charStats),
		TotalKeypresses:          acc.Total,
		CorrectKeypresses:        acc.Correct,
		ErrorCount:               errorCount,
		ConsistencyScore:         Consistency(a.Keystrokes),
		ErrorPatterns:            ErrorPatterns(Align(a.TargetText, a.UserInput)),
		CharacterStats:           charStats,
	}

	an.logger.Debug("attempt analyzed",
		zap.String("attempt_id", a.ID),
		zap.Int("wpm", report.WPM),
		zap.Int("gross_wpm", report.GrossWPM),
		zap.Int("word_wpm", report.WordWPM),
		zap.Float64("accuracy", report.AccuracyPercent),
		zap.Int("errors", report.ErrorCount),
		zap.Float64("consistency", report.ConsistencyScore),
	)
	return report, nil
}
