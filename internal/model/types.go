// Package model defines shared data structures.
package model

import "time"

// KeyBackspace is the control token recorded for a backspace keystroke.
// Printable keys are always a single rune, so the token cannot collide.
const KeyBackspace = "Backspace"

// Keystroke is one recorded key event of an attempt.
type Keystroke struct {
	Key           string `json:"key" yaml:"key"`
	Timestamp     int64  `json:"timestamp" yaml:"timestamp"`
	TimeSinceLast int64  `json:"timeSinceLast" yaml:"timeSinceLast"`
}

// IsBackspace reports whether the keystroke is the backspace token.
func (k Keystroke) IsBackspace() bool {
	return k.Key == KeyBackspace
}

// CompletedAttempt is a finished typing attempt handed over for analysis.
// It must not be mutated once analysis starts.
type CompletedAttempt struct {
	ID         string      `json:"id" yaml:"id"`
	StartTime  time.Time   `json:"startTime" yaml:"startTime"`
	EndTime    time.Time   `json:"endTime" yaml:"endTime"`
	TargetText string      `json:"targetText" yaml:"targetText"`
	UserInput  string      `json:"userInput" yaml:"userInput"`
	Keystrokes []Keystroke `json:"keystrokes" yaml:"keystrokes"`
	// DurationTarget is the time limit in seconds; 0 means untimed.
	DurationTarget int `json:"durationTarget" yaml:"durationTarget"`
}

// ErrorKind classifies an alignment error.
type ErrorKind string

// Alignment error kinds.
const (
	KindSubstitution ErrorKind = "substitution"
	KindInsertion    ErrorKind = "insertion"
	KindDeletion     ErrorKind = "deletion"
)

// AlignmentError is one discrepancy between target and input.
// Expected is nil for insertions, Actual is nil for deletions.
type AlignmentError struct {
	Expected *rune     `json:"expectedChar,omitempty"`
	Actual   *rune     `json:"actualChar,omitempty"`
	Position int       `json:"position"`
	Kind     ErrorKind `json:"kind"`
}

// ErrorPattern aggregates alignment errors sharing an expected character.
type ErrorPattern struct {
	Character      string    `json:"character" yaml:"character"`
	Frequency      int       `json:"frequency" yaml:"frequency"`
	Positions      []int     `json:"positions" yaml:"positions"`
	CommonMistakes []string  `json:"commonMistakes" yaml:"commonMistakes"`
	Kind           ErrorKind `json:"kind" yaml:"kind"`
}

// CharacterStats counts final-string character classes.
type CharacterStats struct {
	Correct   int `json:"correct" yaml:"correct"`
	Incorrect int `json:"incorrect" yaml:"incorrect"`
	Extra     int `json:"extra" yaml:"extra"`
	Missed    int `json:"missed" yaml:"missed"`
}

// StatisticsReport is the analysis result for one attempt.
type StatisticsReport struct {
	WPM                      int            `json:"wpm" yaml:"wpm"`
	GrossWPM                 int            `json:"grossWpm" yaml:"grossWpm"`
	WordWPM                  int            `json:"wordWpm" yaml:"wordWpm"`
	AccuracyPercent          float64        `json:"accuracyPercent" yaml:"accuracyPercent"`
	CharacterAccuracyPercent float64        `json:"characterAccuracyPercent" yaml:"characterAccuracyPercent"`
	TotalKeypresses          int            `json:"totalKeypresses" yaml:"totalKeypresses"`
	CorrectKeypresses        int            `json:"correctKeypresses" yaml:"correctKeypresses"`
	ErrorCount               int            `json:"errorCount" yaml:"errorCount"`
	ConsistencyScore         float64        `json:"consistencyScore" yaml:"consistencyScore"`
	ErrorPatterns            []ErrorPattern `json:"errorPatterns" yaml:"errorPatterns"`
	CharacterStats           CharacterStats `json:"characterStats" yaml:"characterStats"`
}

// Config defines practice settings.
type Config struct {
	Words          int
	CapsPct        float64
	PunctPct       float64
	PunctSet       string
	FocusWeak      bool
	WeakTop        int
	WeakFactor     float64
	WeakWindow     int
	Text           string
	DurationTarget int
	WordListPath   string
}

// StatsConfig defines filters and options for history output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
}

// ReportSummary is the stored view of an analyzed attempt.
type ReportSummary struct {
	AttemptID        string
	EndedAt          time.Time
	DurationMs       int64
	WPM              int
	GrossWPM         int
	WordWPM          int
	AccuracyPercent  float64
	ConsistencyScore float64
	ErrorCount       int
}

// PatternAggregate sums stored error patterns for one expected character.
type PatternAggregate struct {
	Char      string
	Frequency int
	Attempts  int
}
