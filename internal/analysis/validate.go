package analysis

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/verte-zerg/typestats/internal/model"
)

// Contract violations reported by Validate.
var (
	ErrMissingTimes        = errors.New("attempt is missing start or end time")
	ErrNegativeDuration    = errors.New("attempt ends before it starts")
	ErrUnorderedKeystrokes = errors.New("keystrokes are not ordered by timestamp")
	ErrInvalidKey          = errors.New("keystroke key is neither a single character nor a control token")
	ErrInputTooLong        = errors.New("attempt text exceeds maximum length")
	ErrReplayMismatch      = errors.New("user input does not match keystroke replay")
)

// Validate checks the rules a CompletedAttempt must satisfy before it
// is analyzed.
func Validate(a model.CompletedAttempt, cfg Config) error {
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return fmt.Errorf("attempt %q: %w", a.ID, ErrMissingTimes)
	}
	if a.EndTime.Before(a.StartTime) {
		return fmt.Errorf("attempt %q: %w", a.ID, ErrNegativeDuration)
	}
	if cfg.MaxTextLength > 0 {
		if n := utf8.RuneCountInString(a.TargetText); n > cfg.MaxTextLength {
			return fmt.Errorf("attempt %q: target has %d characters (max %d): %w", a.ID, n, cfg.MaxTextLength, ErrInputTooLong)
		}
		if n := utf8.RuneCountInString(a.UserInput); n > cfg.MaxTextLength {
			return fmt.Errorf("attempt %q: input has %d characters (max %d): %w", a.ID, n, cfg.MaxTextLength, ErrInputTooLong)
		}
	}
	for i, k := range a.Keystrokes {
		if !k.IsBackspace() && utf8.RuneCountInString(k.Key) != 1 {
			return fmt.Errorf("attempt %q: keystroke %d key %q: %w", a.ID, i, k.Key, ErrInvalidKey)
		}
		if i > 0 && k.Timestamp < a.Keystrokes[i-1].Timestamp {
			return fmt.Errorf("attempt %q: keystroke %d at %d after %d: %w", a.ID, i, k.Timestamp, a.Keystrokes[i-1].Timestamp, ErrUnorderedKeystrokes)
		}
	}
	if cfg.VerifyReplay {
		if got := Replay(a.Keystrokes); got != a.UserInput {
			return fmt.Errorf("attempt %q: replay %q, input %q: %w", a.ID, got, a.UserInput, ErrReplayMismatch)
		}
	}
	return nil
}

// Replay rebuilds the typed string: printable keys append, backspace
// removes the last character.
func Replay(keys []model.Keystroke) string {
	out := make([]rune, 0, len(keys))
	for _, k := range keys {
		if k.IsBackspace() {
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			continue
		}
		out = append(out, []rune(k.Key)...)
	}
	return string(out)
}
