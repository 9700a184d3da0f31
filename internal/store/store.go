// Package store handles SQLite persistence of analyzed attempts.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/verte-zerg/typestats/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store wraps SQLite access for attempt reports.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			target_text TEXT NOT NULL,
			user_input TEXT NOT NULL,
			duration_target INTEGER NOT NULL,
			wpm INTEGER NOT NULL,
			gross_wpm INTEGER NOT NULL,
			word_wpm INTEGER NOT NULL DEFAULT 0,
			accuracy REAL NOT NULL,
			char_accuracy REAL NOT NULL,
			error_count INTEGER NOT NULL,
			consistency REAL NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			extra INTEGER NOT NULL,
			missed INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS attempt_error_patterns (
			attempt_id TEXT NOT NULL,
			char TEXT NOT NULL,
			frequency INTEGER NOT NULL,
			kind TEXT NOT NULL,
			mistakes TEXT NOT NULL,
			positions TEXT NOT NULL DEFAULT '[]',
			PRIMARY KEY (attempt_id, char)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ended_at ON attempts(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempt_error_patterns_char ON attempt_error_patterns(char);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	// Columns added after the first schema.
	if err := s.ensureColumn("attempts", "word_wpm", "INTEGER NOT NULL DEFAULT 0"); err != nil {
		return err
	}
	return s.ensureColumn("attempt_error_patterns", "positions", "TEXT NOT NULL DEFAULT '[]'")
}

func (s *Store) ensureColumn(table, column, decl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	found := false
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			_ = rows.Close()
			return err
		}
		if name == column {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if found {
		return nil
	}
	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

// InsertReport stores an analyzed attempt and its error patterns. Storing
// the same attempt id again replaces the previous rows.
func (s *Store) InsertReport(ctx context.Context, a model.CompletedAttempt, r model.StatisticsReport) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM attempt_error_patterns WHERE attempt_id = ?`, a.ID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO attempts (id, started_at, ended_at, target_text, user_input, duration_target, wpm, gross_wpm, word_wpm, accuracy, char_accuracy, error_count, consistency, correct, incorrect, extra, missed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.StartTime.UTC().Format(time.RFC3339Nano),
		a.EndTime.UTC().Format(time.RFC3339Nano),
		a.TargetText,
		a.UserInput,
		a.DurationTarget,
		r.WPM,
		r.GrossWPM,
		r.WordWPM,
		r.AccuracyPercent,
		r.CharacterAccuracyPercent,
		r.ErrorCount,
		r.ConsistencyScore,
		r.CharacterStats.Correct,
		r.CharacterStats.Incorrect,
		r.CharacterStats.Extra,
		r.CharacterStats.Missed,
	)
	if err != nil {
		return err
	}

	if len(r.ErrorPatterns) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO attempt_error_patterns (attempt_id, char, frequency, kind, mistakes, positions)
			 VALUES (?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, p := range r.ErrorPatterns {
			mistakes, merr := json.Marshal(p.CommonMistakes)
			if merr != nil {
				err = fmt.Errorf("failed to encode mistakes: %w", merr)
				return err
			}
			positions, perr := json.Marshal(p.Positions)
			if perr != nil {
				err = fmt.Errorf("failed to encode positions: %w", perr)
				return err
			}
			if _, err = stmt.ExecContext(ctx, a.ID, p.Character, p.Frequency, string(p.Kind), string(mistakes), string(positions)); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListReports returns stored report summaries ordered by end time.
func (s *Store) ListReports(ctx context.Context, cfg model.StatsConfig) ([]model.ReportSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, started_at, ended_at, wpm, gross_wpm, word_wpm, accuracy, consistency, error_count
		FROM attempts
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var reports []model.ReportSummary
	for rows.Next() {
		var sum model.ReportSummary
		var startedAt, endedAt string
		if err := rows.Scan(&sum.AttemptID, &startedAt, &endedAt, &sum.WPM, &sum.GrossWPM, &sum.WordWPM, &sum.AccuracyPercent, &sum.ConsistencyScore, &sum.ErrorCount); err != nil {
			return nil, err
		}
		started, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		ended, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		sum.EndedAt = ended
		sum.DurationMs = ended.Sub(started).Milliseconds()
		reports = append(reports, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// ListPatternAggregates sums error pattern frequency per expected character
// across the given attempts.
func (s *Store) ListPatternAggregates(ctx context.Context, attemptIDs []string) ([]model.PatternAggregate, error) {
	if len(attemptIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(attemptIDs))
	args := make([]any, len(attemptIDs))
	for i, id := range attemptIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT char, SUM(frequency) AS frequency, COUNT(DISTINCT attempt_id) AS attempts
		FROM attempt_error_patterns
		WHERE attempt_id IN (%s)
		GROUP BY char`, strings.Join(placeholders, ","))
	return s.queryAggregates(ctx, query, args...)
}

// GetWeakChars aggregates error patterns over the most recent attempts.
func (s *Store) GetWeakChars(ctx context.Context, window int) ([]model.PatternAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent AS (
		SELECT id FROM attempts
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT p.char, SUM(p.frequency) AS frequency, COUNT(DISTINCT p.attempt_id) AS attempts
	FROM attempt_error_patterns p
	JOIN recent r ON r.id = p.attempt_id
	WHERE p.char != ''
	GROUP BY p.char`
	return s.queryAggregates(ctx, query, window)
}

// ErrorPatterns returns the stored patterns of one attempt, most frequent first.
func (s *Store) ErrorPatterns(ctx context.Context, attemptID string) ([]model.ErrorPattern, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT char, frequency, kind, mistakes, positions FROM attempt_error_patterns
		 WHERE attempt_id = ?
		 ORDER BY frequency DESC, char ASC`, attemptID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var patterns []model.ErrorPattern
	for rows.Next() {
		var p model.ErrorPattern
		var kind, mistakes, positions string
		if err := rows.Scan(&p.Character, &p.Frequency, &kind, &mistakes, &positions); err != nil {
			return nil, err
		}
		p.Kind = model.ErrorKind(kind)
		if err := json.Unmarshal([]byte(mistakes), &p.CommonMistakes); err != nil {
			return nil, fmt.Errorf("failed to decode mistakes: %w", err)
		}
		if err := json.Unmarshal([]byte(positions), &p.Positions); err != nil {
			return nil, fmt.Errorf("failed to decode positions: %w", err)
		}
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

func (s *Store) queryAggregates(ctx context.Context, query string, args ...any) ([]model.PatternAggregate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.PatternAggregate
	for rows.Next() {
		var agg model.PatternAggregate
		if err := rows.Scan(&agg.Char, &agg.Frequency, &agg.Attempts); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
