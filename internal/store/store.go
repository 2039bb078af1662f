package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/quadrant-ai/quadrant/models"
)

// Store persists agent run history in Postgres.
type Store struct {
	DB *sql.DB
}

// New opens a Postgres connection for the given DSN and verifies it.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{DB: db}, nil
}

// NewWithDB wraps an existing connection, used by tests.
func NewWithDB(db *sql.DB) *Store { return &Store{DB: db} }

// SaveRun inserts one run record, assigning an ID when the caller left it
// empty, and returns the stored record.
func (s *Store) SaveRun(ctx context.Context, run models.Run) (models.Run, error) {
	if strings.TrimSpace(run.ID) == "" {
		run.ID = uuid.NewString()
	}

	row := s.DB.QueryRowContext(ctx, `
INSERT INTO runs (id, agent, input, output, success, error, duration_ms, tokens_used)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING created_at
`, run.ID, run.Agent, run.Input, run.Output, run.Success, nullableString(run.Error), run.DurationMS, run.TokensUsed)

	var createdAt time.Time
	if err := row.Scan(&createdAt); err != nil {
		return models.Run{}, err
	}
	run.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return run, nil
}

// ListRuns returns the most recent runs, optionally filtered by agent.
func (s *Store) ListRuns(ctx context.Context, agent string, limit int) ([]models.Run, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
SELECT id, agent, input, output, success, COALESCE(error,''), duration_ms, tokens_used, created_at
FROM runs`
	args := []interface{}{}
	if strings.TrimSpace(agent) != "" {
		query += ` WHERE agent = $1`
		args = append(args, agent)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// GetRun fetches one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (models.Run, error) {
	row := s.DB.QueryRowContext(ctx, `
SELECT id, agent, input, output, success, COALESCE(error,''), duration_ms, tokens_used, created_at
FROM runs WHERE id = $1
`, id)
	return scanRun(row)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (models.Run, error) {
	var run models.Run
	var createdAt time.Time
	if err := row.Scan(&run.ID, &run.Agent, &run.Input, &run.Output, &run.Success,
		&run.Error, &run.DurationMS, &run.TokensUsed, &createdAt); err != nil {
		return models.Run{}, err
	}
	run.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return run, nil
}

func nullableString(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
