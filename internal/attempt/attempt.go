// Package attempt reads completed attempts from files and writes reports.
package attempt

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typestats/internal/analysis"
	"github.com/verte-zerg/typestats/internal/model"
)

// Format is an attempt file encoding.
type Format int

// Supported formats.
const (
	FormatJSON Format = iota
	FormatYAML
)

//go:embed attempt.schema.json
var schemaSource string

const schemaURL = "attempt.schema.json"

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary
	schema = jsonschema.MustCompileString(schemaURL, schemaSource)
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unsupported attempt file %q (want .json, .yaml or .yml)", path)
	}
}

// Load reads an attempt file, choosing the format from its extension. A
// missing id is derived from the absolute path, so reloading the same file
// yields the same id.
func Load(path string) (model.CompletedAttempt, error) {
	format, err := FormatFor(path)
	if err != nil {
		return model.CompletedAttempt{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return model.CompletedAttempt{}, fmt.Errorf("failed to open attempt: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only attempt file.
			_ = cerr
		}
	}()
	a, err := decode(file, format)
	if err != nil {
		return model.CompletedAttempt{}, fmt.Errorf("%s: %w", path, err)
	}
	if a.ID == "" {
		a.ID = PathID(path)
	}
	return a, nil
}

// PathID returns a name-based UUID for an attempt file.
func PathID(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(path))).String()
}

// Decode reads one attempt. JSON input is checked against the attempt
// schema before decoding. A missing id is replaced with a new UUID.
func Decode(r io.Reader, format Format) (model.CompletedAttempt, error) {
	a, err := decode(r, format)
	if err != nil {
		return model.CompletedAttempt{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return a, nil
}

func decode(r io.Reader, format Format) (model.CompletedAttempt, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.CompletedAttempt{}, fmt.Errorf("failed to read attempt: %w", err)
	}
	var a model.CompletedAttempt
	switch format {
	case FormatJSON:
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return model.CompletedAttempt{}, fmt.Errorf("failed to parse attempt: %w", err)
		}
		if err := schema.Validate(doc); err != nil {
			return model.CompletedAttempt{}, fmt.Errorf("invalid attempt: %w", err)
		}
		if err := json.Unmarshal(data, &a); err != nil {
			return model.CompletedAttempt{}, fmt.Errorf("failed to decode attempt: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&a); err != nil {
			return model.CompletedAttempt{}, fmt.Errorf("failed to decode attempt: %w", err)
		}
	default:
		return model.CompletedAttempt{}, fmt.Errorf("unknown attempt format %d", format)
	}
	return a, nil
}

// Encode writes an attempt as indented JSON.
func Encode(w io.Writer, a model.CompletedAttempt) error {
	return writeJSON(w, a)
}

// EncodeReport writes a report as indented JSON.
func EncodeReport(w io.Writer, report model.StatisticsReport) error {
	return writeJSON(w, report)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}

// FromKeystrokes assembles a completed attempt from a capture log. The
// input is the keystroke replay and the end time is the last keystroke.
func FromKeystrokes(id, target string, start time.Time, keys []model.Keystroke, durationTarget int) model.CompletedAttempt {
	if id == "" {
		id = uuid.NewString()
	}
	end := start
	if len(keys) > 0 {
		end = time.UnixMilli(keys[len(keys)-1].Timestamp)
		if end.Before(start) {
			end = start
		}
	}
	return model.CompletedAttempt{
		ID:             id,
		StartTime:      start,
		EndTime:        end,
		TargetText:     target,
		UserInput:      analysis.Replay(keys),
		Keystrokes:     keys,
		DurationTarget: durationTarget,
	}
}
