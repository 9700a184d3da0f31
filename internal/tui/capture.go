package tui

import (
	"time"

	"github.com/verte-zerg/typestats/internal/model"
)

// capture records the keystroke log of one attempt and keeps the visible
// input in sync with it.
type capture struct {
	target  []rune
	input   []rune
	keys    []model.Keystroke
	fixed   map[int]struct{}
	started time.Time
	lastMs  int64
}

func newCapture(target string) *capture {
	return &capture{
		target: []rune(target),
		fixed:  map[int]struct{}{},
	}
}

func (c *capture) isStarted() bool {
	return !c.started.IsZero()
}

func (c *capture) isComplete() bool {
	return len(c.target) > 0 && len(c.input) >= len(c.target)
}

// typeRune appends r at the cursor. It returns false when the target is
// already filled.
func (c *capture) typeRune(r rune, now time.Time) bool {
	if c.isComplete() {
		return false
	}
	pos := len(c.input)
	if r != c.target[pos] {
		c.fixed[pos] = struct{}{}
	}
	c.input = append(c.input, r)
	c.record(string(r), now)
	return true
}

// backspace removes the rune before the cursor. Backspace on empty input is
// still logged once the attempt has started.
func (c *capture) backspace(now time.Time) {
	if !c.isStarted() {
		return
	}
	if len(c.input) > 0 {
		c.input = c.input[:len(c.input)-1]
	}
	c.record(model.KeyBackspace, now)
}

func (c *capture) record(key string, now time.Time) {
	ms := now.UnixMilli()
	if !c.isStarted() {
		c.started = time.UnixMilli(ms)
		c.lastMs = ms
	}
	since := ms - c.lastMs
	if since < 0 {
		since = 0
		ms = c.lastMs
	}
	c.keys = append(c.keys, model.Keystroke{Key: key, Timestamp: ms, TimeSinceLast: since})
	c.lastMs = ms
}

// corrected reports positions that were mistyped at least once and now
// hold the expected rune.
func (c *capture) corrected() map[int]struct{} {
	out := map[int]struct{}{}
	for pos := range c.fixed {
		if pos < len(c.input) && c.input[pos] == c.target[pos] {
			out[pos] = struct{}{}
		}
	}
	return out
}
