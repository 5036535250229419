// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/coin-research/pkg/types"
)

// savedAtLayout is fixed-width so saved_at sorts lexically by time.
const savedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteSink stores runs in the research_runs table of a SQLite database.
type SQLiteSink struct {
	db *sql.DB

	// Now stamps records; defaults to time.Now.
	Now func() time.Time
}

// NewSQLiteSink opens or creates the database at path and its schema.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteSink{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteSink) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS research_runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			coin TEXT NOT NULL,
			coin_name TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			summary TEXT,
			bundle TEXT NOT NULL,
			post TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_research_runs_coin ON research_runs(coin, saved_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

func (s *SQLiteSink) Name() string { return "sqlite" }

// Save inserts one run and returns its generated ID.
func (s *SQLiteSink) Save(ctx context.Context, bundle types.ResearchBundle, post *types.GeneratedPost) (string, error) {
	bundleJSON, err := json.Marshal(bundle)
	if err != nil {
		return "", fmt.Errorf("marshaling bundle: %w", err)
	}
	var postJSON sql.NullString
	if post != nil {
		data, err := json.Marshal(post)
		if err != nil {
			return "", fmt.Errorf("marshaling post: %w", err)
		}
		postJSON = sql.NullString{String: string(data), Valid: true}
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	id := uuid.NewString()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO research_runs (id, coin, coin_name, saved_at, summary, bundle, post)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, coinKey(bundle.CoinName), bundle.CoinName, now.UTC().Format(savedAtLayout),
		bundle.Summary, string(bundleJSON), postJSON,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// Latest returns the most recently saved run for coin.
func (s *SQLiteSink) Latest(ctx context.Context, coin string) (Record, error) {
	var (
		rec        Record
		savedAt    string
		bundleJSON string
		postJSON   sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, coin_name, saved_at, bundle, post FROM research_runs
		 WHERE coin = ? ORDER BY saved_at DESC, rowid DESC LIMIT 1`,
		coinKey(coin),
	).Scan(&rec.ID, &rec.CoinName, &savedAt, &bundleJSON, &postJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("querying runs: %w", err)
	}

	if rec.SavedAt, err = time.Parse(savedAtLayout, savedAt); err != nil {
		return Record{}, fmt.Errorf("parsing saved_at: %w", err)
	}
	if err := json.Unmarshal([]byte(bundleJSON), &rec.Research); err != nil {
		return Record{}, fmt.Errorf("parsing bundle: %w", err)
	}
	if postJSON.Valid {
		var post types.GeneratedPost
		if err := json.Unmarshal([]byte(postJSON.String), &post); err != nil {
			return Record{}, fmt.Errorf("parsing post: %w", err)
		}
		rec.Post = &post
	}
	return rec, nil
}

// Count returns the number of stored runs for coin.
func (s *SQLiteSink) Count(ctx context.Context, coin string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM research_runs WHERE coin = ?`, coinKey(coin)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return n, nil
}

// Close releases the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
