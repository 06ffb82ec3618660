package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/sentiment/pkg/sentiment/internalerr"
	"github.com/cognicore/sentiment/pkg/sentiment/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates
// the schema if needed. The pragmas are part of the DSN so every pooled
// connection gets them.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// dsn builds a modernc connection string with WAL and a busy timeout.
// WAL lets /api/stats read while predictions are being written.
func dsn(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS predictions (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	processed TEXT NOT NULL,
	sentiment TEXT NOT NULL,
	confidence TEXT NOT NULL,
	dropped TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS predictions_sentiment ON predictions(sentiment);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// RecordPrediction inserts or replaces a prediction
func (s *sqliteStore) RecordPrediction(ctx context.Context, p store.Prediction) error {
	if p.ID == "" {
		return fmt.Errorf("%w: prediction without id", internalerr.ErrInvalidInput)
	}
	confJSON, err := json.Marshal(p.Confidence)
	if err != nil {
		return err
	}
	droppedJSON, err := json.Marshal(p.Dropped)
	if err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO predictions (id, text, processed, sentiment, confidence, dropped, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	text=excluded.text,
	processed=excluded.processed,
	sentiment=excluded.sentiment,
	confidence=excluded.confidence,
	dropped=excluded.dropped,
	created_at=excluded.created_at;
`, p.ID, p.Text, p.PreprocessedText, p.Sentiment, string(confJSON), string(droppedJSON),
		p.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// GetPrediction retrieves a prediction by ID
func (s *sqliteStore) GetPrediction(ctx context.Context, id string) (store.Prediction, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, text, processed, sentiment, confidence, dropped, created_at
FROM predictions WHERE id = ?`, id)
	p, err := scanPrediction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Prediction{}, fmt.Errorf("%w: prediction %s", internalerr.ErrNotFound, id)
	}
	return p, err
}

// Counts returns predictions per label
func (s *sqliteStore) Counts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sentiment, COUNT(*) FROM predictions GROUP BY sentiment`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var label string
		var n int64
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[label] = n
	}
	return counts, rows.Err()
}

// Recent returns the newest predictions first
func (s *sqliteStore) Recent(ctx context.Context, limit int) ([]store.Prediction, error) {
	if limit <= 0 {
		limit = store.DefaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, text, processed, sentiment, confidence, dropped, created_at
FROM predictions
ORDER BY id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPrediction(sc scanner) (store.Prediction, error) {
	var p store.Prediction
	var confJSON, createdAt string
	var droppedJSON sql.NullString
	if err := sc.Scan(&p.ID, &p.Text, &p.PreprocessedText, &p.Sentiment, &confJSON, &droppedJSON, &createdAt); err != nil {
		return store.Prediction{}, err
	}
	if err := json.Unmarshal([]byte(confJSON), &p.Confidence); err != nil {
		return store.Prediction{}, fmt.Errorf("prediction %s confidence: %w", p.ID, err)
	}
	if droppedJSON.Valid && droppedJSON.String != "" {
		if err := json.Unmarshal([]byte(droppedJSON.String), &p.Dropped); err != nil {
			return store.Prediction{}, fmt.Errorf("prediction %s dropped: %w", p.ID, err)
		}
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return store.Prediction{}, fmt.Errorf("prediction %s created_at: %w", p.ID, err)
	}
	p.CreatedAt = t
	return p, nil
}
