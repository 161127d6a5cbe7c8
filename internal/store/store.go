// Package store keeps a history of finished duels in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Match is one finished duel.
type Match struct {
	ID         string    `json:"id"`
	Superstar0 string    `json:"superstar_0"`
	Superstar1 string    `json:"superstar_1"`
	Deck0      string    `json:"deck_0"`
	Deck1      string    `json:"deck_1"`
	Winner     int       `json:"winner"` // 0, 1, or -1 when nobody won
	Turns      int       `json:"turns"`
	Result     string    `json:"result"`
	FinishedAt time.Time `json:"finished_at"`
}

// WinnerName returns the winning superstar, or "" when nobody won.
func (m Match) WinnerName() string {
	switch m.Winner {
	case 0:
		return m.Superstar0
	case 1:
		return m.Superstar1
	default:
		return ""
	}
}

// Store is a SQLite-backed match history.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at dbPath. ":memory:" keeps
// the history in memory for the life of the process.
func Open(dbPath string, logger *zap.Logger) (*Store, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("match history opened", zap.String("path", dbPath))
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS matches (
    id TEXT PRIMARY KEY,
    superstar_0 TEXT NOT NULL,
    superstar_1 TEXT NOT NULL,
    deck_0 TEXT NOT NULL DEFAULT '',
    deck_1 TEXT NOT NULL DEFAULT '',
    winner INTEGER NOT NULL,
    turns INTEGER NOT NULL,
    result TEXT NOT NULL DEFAULT '',
    finished_at_ms INTEGER NOT NULL
)`)
	return err
}

// RecordMatch stores a finished duel. A zero FinishedAt is set to now.
func (s *Store) RecordMatch(ctx context.Context, m Match) error {
	if m.ID == "" {
		return fmt.Errorf("match has no id")
	}
	if m.FinishedAt.IsZero() {
		m.FinishedAt = time.Now()
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO matches (id, superstar_0, superstar_1, deck_0, deck_1, winner, turns, result, finished_at_ms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Superstar0, m.Superstar1, m.Deck0, m.Deck1, m.Winner, m.Turns, m.Result, m.FinishedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("record match %s: %w", m.ID, err)
	}
	s.logger.Info("match recorded",
		zap.String("match_id", m.ID),
		zap.String("winner", m.WinnerName()),
		zap.Int("turns", m.Turns),
	)
	return nil
}

// ListMatches returns up to limit matches, most recent first. limit <= 0 means all.
func (s *Store) ListMatches(ctx context.Context, limit int) ([]Match, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
SELECT id, superstar_0, superstar_1, deck_0, deck_1, winner, turns, result, finished_at_ms
FROM matches ORDER BY finished_at_ms DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var finishedMS int64
		if err := rows.Scan(&m.ID, &m.Superstar0, &m.Superstar1, &m.Deck0, &m.Deck1,
			&m.Winner, &m.Turns, &m.Result, &finishedMS); err != nil {
			return nil, err
		}
		m.FinishedAt = time.UnixMilli(finishedMS)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Stats counts wins per superstar across the whole history.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT CASE winner WHEN 0 THEN superstar_0 ELSE superstar_1 END AS name, COUNT(*)
FROM matches WHERE winner IN (0, 1) GROUP BY name`)
	if err != nil {
		return nil, fmt.Errorf("match stats: %w", err)
	}
	defer rows.Close()

	wins := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		wins[name] = n
	}
	return wins, rows.Err()
}
