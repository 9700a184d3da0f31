package attempt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typestats/internal/model"
)

const sampleJSON = `{
  "id": "a-1",
  "startTime": "2026-03-01T12:00:00Z",
  "endTime": "2026-03-01T12:01:00Z",
  "targetText": "hi",
  "userInput": "hi",
  "durationTarget": 30,
  "keystrokes": [
    {"key": "h", "timestamp": 1772366400000, "timeSinceLast": 0},
    {"key": "x", "timestamp": 1772366400120, "timeSinceLast": 120},
    {"key": "Backspace", "timestamp": 1772366400300, "timeSinceLast": 180},
    {"key": "i", "timestamp": 1772366400400, "timeSinceLast": 100}
  ]
}`

const sampleYAML = `
startTime: 2026-03-01T12:00:00Z
endTime: 2026-03-01T12:00:30Z
targetText: "a b"
userInput: "a b"
keystrokes:
  - {key: "a", timestamp: 1000, timeSinceLast: 0}
  - {key: " ", timestamp: 1100, timeSinceLast: 100}
  - {key: "b", timestamp: 1200, timeSinceLast: 100}
`

func TestDecodeJSON(t *testing.T) {
	a, err := Decode(strings.NewReader(sampleJSON), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "a-1", a.ID)
	assert.Equal(t, time.Minute, a.EndTime.Sub(a.StartTime))
	assert.Equal(t, 30, a.DurationTarget)
	require.Len(t, a.Keystrokes, 4)
	assert.True(t, a.Keystrokes[2].IsBackspace())
	assert.Equal(t, int64(180), a.Keystrokes[2].TimeSinceLast)
}

func TestDecodeJSONSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing times", doc: `{"targetText": "a", "userInput": "a", "keystrokes": []}`},
		{name: "numeric key", doc: `{"startTime": "x", "endTime": "y", "targetText": "a", "userInput": "a", "keystrokes": [{"key": 1, "timestamp": 1}]}`},
		{name: "fractional timestamp", doc: `{"startTime": "x", "endTime": "y", "targetText": "a", "userInput": "a", "keystrokes": [{"key": "a", "timestamp": 1.5}]}`},
		{name: "unknown field", doc: `{"startTime": "x", "endTime": "y", "targetText": "a", "userInput": "a", "keystrokes": [], "wpm": 3}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc), FormatJSON)
			assert.ErrorContains(t, err, "invalid attempt")
		})
	}
}

func TestDecodeYAMLAssignsID(t *testing.T) {
	a, err := Decode(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)
	_, err = uuid.Parse(a.ID)
	assert.NoError(t, err)
	assert.Equal(t, "a b", a.TargetText)
	assert.Equal(t, 30*time.Second, a.EndTime.Sub(a.StartTime))
	require.Len(t, a.Keystrokes, 3)
	assert.Equal(t, " ", a.Keystrokes[1].Key)
}

func TestDecodeYAMLUnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader("targetText: a\nspeed: 3\n"), FormatYAML)
	assert.Error(t, err)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "one.json")
	yamlPath := filepath.Join(dir, "two.yml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))

	a, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "a-1", a.ID)

	b, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "a b", b.UserInput)

	_, err = Load(filepath.Join(dir, "three.txt"))
	assert.ErrorContains(t, err, "unsupported attempt file")
}

func TestLoadDerivesStableID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "two.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	first, err := Load(path)
	require.NoError(t, err)
	_, err = uuid.Parse(first.ID)
	require.NoError(t, err)

	edited := strings.Replace(sampleYAML, `userInput: "a b"`, `userInput: "a c"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))
	second, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "a c", second.UserInput)

	other := filepath.Join(dir, "three.yaml")
	require.NoError(t, os.WriteFile(other, []byte(sampleYAML), 0o644))
	third, err := Load(other)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestEncodeRoundTrip(t *testing.T) {
	a, err := Decode(strings.NewReader(sampleJSON), FormatJSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, a))
	back, err := Decode(&buf, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, a.Keystrokes, back.Keystrokes)
	assert.True(t, a.StartTime.Equal(back.StartTime))
}

func TestEncodeReport(t *testing.T) {
	var buf bytes.Buffer
	report := model.StatisticsReport{WPM: 42, GrossWPM: 50, ErrorPatterns: []model.ErrorPattern{}}
	require.NoError(t, EncodeReport(&buf, report))
	out := buf.String()
	assert.Contains(t, out, `"wpm": 42`)
	assert.Contains(t, out, `"grossWpm": 50`)
	assert.Contains(t, out, `"errorPatterns": []`)
}

func TestFromKeystrokes(t *testing.T) {
	start := time.UnixMilli(1000)
	keys := []model.Keystroke{
		{Key: "a", Timestamp: 1000},
		{Key: "x", Timestamp: 1200, TimeSinceLast: 200},
		{Key: model.KeyBackspace, Timestamp: 1300, TimeSinceLast: 100},
		{Key: "b", Timestamp: 1500, TimeSinceLast: 200},
	}
	a := FromKeystrokes("", "ab", start, keys, 0)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "ab", a.UserInput)
	assert.Equal(t, 500*time.Millisecond, a.EndTime.Sub(a.StartTime))

	empty := FromKeystrokes("id", "ab", start, nil, 15)
	assert.True(t, empty.EndTime.Equal(start))
	assert.Equal(t, 15, empty.DurationTarget)
}
