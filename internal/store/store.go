// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/teeline/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const (
	upsertPileSQL = `INSERT INTO piles (profile, glyph, pile, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(profile, glyph) DO UPDATE SET pile = excluded.pile, updated_at = excluded.updated_at`
	insertAttemptSQL = `INSERT INTO attempts (profile, glyph, level, threshold, score, passed, points, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

// Store wraps SQLite access for piles and attempt history.
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
		`CREATE TABLE IF NOT EXISTS piles (
			profile TEXT NOT NULL,
			glyph TEXT NOT NULL,
			pile TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (profile, glyph)
		);`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			profile TEXT NOT NULL,
			glyph TEXT NOT NULL,
			level TEXT NOT NULL,
			threshold REAL NOT NULL,
			score REAL NOT NULL,
			passed INTEGER NOT NULL,
			points INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_profile_created ON attempts(profile, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_glyph ON attempts(glyph);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SetPile moves glyph into pile for profile. A glyph is in at most one pile;
// setting the pile it already belongs to changes nothing. It reports whether
// membership changed.
func (s *Store) SetPile(ctx context.Context, profile, glyph string, pile model.Pile) (bool, error) {
	var current string
	err := s.db.QueryRowContext(ctx,
		`SELECT pile FROM piles WHERE profile = ? AND glyph = ?`, profile, glyph).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return false, err
	case current == string(pile):
		return false, nil
	}
	_, err = s.db.ExecContext(ctx, upsertPileSQL,
		profile, glyph, string(pile), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return false, err
	}
	return true, nil
}

// Piles returns the glyphs in each pile for profile, sorted by glyph.
func (s *Store) Piles(ctx context.Context, profile string) (model.PileSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT glyph, pile FROM piles WHERE profile = ? ORDER BY glyph ASC`, profile)
	if err != nil {
		return model.PileSet{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var set model.PileSet
	for rows.Next() {
		var glyph, pile string
		if err := rows.Scan(&glyph, &pile); err != nil {
			return model.PileSet{}, err
		}
		switch model.Pile(pile) {
		case model.Mastered:
			set.Mastered = append(set.Mastered, glyph)
		case model.NeedsWork:
			set.NeedsWork = append(set.NeedsWork, glyph)
		}
	}
	if err := rows.Err(); err != nil {
		return model.PileSet{}, err
	}
	return set, nil
}

// RecordAttempt stores the attempt and moves its glyph to the matching pile
// in one transaction.
func (s *Store) RecordAttempt(ctx context.Context, a model.Attempt) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	passed := 0
	if a.Passed {
		passed = 1
	}
	res, err := tx.ExecContext(ctx, insertAttemptSQL,
		a.Profile, a.Glyph, a.Level, a.Threshold, a.Score, passed, a.Points,
		a.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = tx.ExecContext(ctx, upsertPileSQL,
		a.Profile, a.Glyph, string(model.PileFor(a.Passed)), a.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListAttempts returns attempts filtered by stats config, oldest first.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.Attempt, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Profile != "" {
		clauses = append(clauses, "profile = ?")
		args = append(args, cfg.Profile)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, profile, glyph, level, threshold, score, passed, points, created_at
		FROM attempts
		WHERE %s
		ORDER BY created_at ASC, id ASC`, strings.Join(clauses, " AND "))
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

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var passed int
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Profile, &a.Glyph, &a.Level, &a.Threshold, &a.Score, &passed, &a.Points, &createdAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		a.Passed = passed != 0
		a.CreatedAt = parsed
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(attempts) > cfg.Last {
		attempts = attempts[len(attempts)-cfg.Last:]
	}
	return attempts, nil
}

// GetGlyphAggregates aggregates the most recent window attempts per glyph.
func (s *Store) GetGlyphAggregates(ctx context.Context, window int, profile string) ([]model.GlyphAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent AS (
		SELECT glyph, score, passed FROM attempts
		WHERE (? = '' OR profile = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	)
	SELECT glyph, COUNT(*) AS attempts, SUM(passed) AS passed,
		SUM(score) AS score_sum, MAX(score) AS best_score
	FROM recent
	GROUP BY glyph
	ORDER BY glyph ASC`

	rows, err := s.db.QueryContext(ctx, query, profile, profile, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.GlyphAggregate
	for rows.Next() {
		var agg model.GlyphAggregate
		if err := rows.Scan(&agg.Glyph, &agg.Attempts, &agg.Passed, &agg.ScoreSum, &agg.BestScore); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
