package record

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore keeps batch history in postgres via database/sql with the
// pgx driver.
type PostgresStore struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) ensureSchema() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("db is nil")
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS batch_records (
    id TEXT PRIMARY KEY,
    original_image TEXT NOT NULL,
    total INT NOT NULL,
    succeeded INT NOT NULL,
    failed INT NOT NULL,
    elapsed_ms BIGINT NOT NULL,
    outcomes JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_batch_records_created_at ON batch_records(created_at);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Save(ctx context.Context, rec BatchRecord) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("record id is required")
	}
	if err := s.ensureSchema(); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	outcomes := rec.Outcomes
	if len(outcomes) == 0 {
		outcomes = []byte("[]")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO batch_records (id, original_image, total, succeeded, failed, elapsed_ms, outcomes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING
`, rec.ID, rec.OriginalRef, rec.Total, rec.Succeeded, rec.Failed, rec.Elapsed.Milliseconds(), []byte(outcomes))
	return err
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]BatchRecord, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, original_image, total, succeeded, failed, elapsed_ms, outcomes, created_at
FROM batch_records
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]BatchRecord, 0, limit)
	for rows.Next() {
		var rec BatchRecord
		var elapsedMS int64
		var outcomes []byte
		if err := rows.Scan(&rec.ID, &rec.OriginalRef, &rec.Total, &rec.Succeeded, &rec.Failed, &elapsedMS, &outcomes, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		rec.Outcomes = outcomes
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
