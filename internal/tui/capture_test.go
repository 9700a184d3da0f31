package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typestats/internal/model"
)

func TestCaptureRecordsIntervals(t *testing.T) {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	c := newCapture("ab")

	require.True(t, c.typeRune('x', base))
	c.backspace(base.Add(150 * time.Millisecond))
	require.True(t, c.typeRune('a', base.Add(300*time.Millisecond)))
	require.True(t, c.typeRune('b', base.Add(420*time.Millisecond)))
	assert.False(t, c.typeRune('c', base.Add(500*time.Millisecond)))

	assert.True(t, c.isComplete())
	assert.Equal(t, "ab", string(c.input))
	assert.Equal(t, base, c.started)
	require.Len(t, c.keys, 4)
	assert.Equal(t, model.Keystroke{Key: "x", Timestamp: base.UnixMilli()}, c.keys[0])
	assert.Equal(t, model.KeyBackspace, c.keys[1].Key)
	assert.Equal(t, int64(150), c.keys[1].TimeSinceLast)
	assert.Equal(t, int64(120), c.keys[3].TimeSinceLast)
	assert.Equal(t, map[int]struct{}{0: {}}, c.corrected())
}

func TestCaptureIgnoresBackspaceBeforeStart(t *testing.T) {
	c := newCapture("ab")
	c.backspace(time.Now())
	assert.Empty(t, c.keys)
	assert.False(t, c.isStarted())
}

func TestCaptureClampsClockSkew(t *testing.T) {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	c := newCapture("abc")
	c.typeRune('a', base)
	c.typeRune('b', base.Add(-time.Second))
	assert.Equal(t, c.keys[0].Timestamp, c.keys[1].Timestamp)
	assert.Equal(t, int64(0), c.keys[1].TimeSinceLast)
}
