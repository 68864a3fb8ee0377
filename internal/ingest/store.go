package ingest

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/overcoach/internal/db"
)

// ErrNotCached is returned by Store.Raw for documents never fetched.
var ErrNotCached = errors.New("document not cached")

// Kinds of cached OverFast payloads.
const (
	KindHero     = "hero"
	KindMap      = "map"
	KindGamemode = "gamemode"
)

// RunStatus is the state of an ingestion run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run records one ingestion run.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Status     RunStatus `json:"status"`
	Heroes     int       `json:"heroes"`
	Maps       int       `json:"maps"`
	Failures   int       `json:"failures"`
	Error      string    `json:"error,omitempty"`
}

// Store caches raw OverFast payloads and ingestion runs in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// StartRun inserts a new running ingestion run.
func (s *Store) StartRun(ctx context.Context) (*Run, error) {
	run := &Run{ID: uuid.New().String(), Status: RunRunning, StartedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingest_runs (id, started_at, status) VALUES (?, ?, ?)`,
		run.ID, run.StartedAt.Format(time.DateTime), string(run.Status))
	if err != nil {
		return nil, fmt.Errorf("inserting ingest run: %w", err)
	}
	return run, nil
}

// FinishRun records the outcome of run. A non-nil runErr marks it failed.
func (s *Store) FinishRun(ctx context.Context, run *Run, runErr error) error {
	run.Status = RunCompleted
	if runErr != nil {
		run.Status = RunFailed
		run.Error = runErr.Error()
	}
	run.FinishedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		UPDATE ingest_runs
		SET finished_at = ?, status = ?, heroes = ?, maps = ?, failures = ?, error = ?
		WHERE id = ?`,
		run.FinishedAt.Format(time.DateTime), string(run.Status), run.Heroes, run.Maps, run.Failures, run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("updating ingest run: %w", err)
	}
	return nil
}

// LatestRun returns the most recently started run, or nil if none exists.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, status, heroes, maps, failures, error
		FROM ingest_runs ORDER BY started_at DESC, rowid DESC LIMIT 1`)

	var (
		run             Run
		started, status string
		finished        sql.NullString
	)
	err := row.Scan(&run.ID, &started, &finished, &status, &run.Heroes, &run.Maps, &run.Failures, &run.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest run: %w", err)
	}
	run.Status = RunStatus(status)
	run.StartedAt = parseTime(started)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	return &run, nil
}

// SaveRaw upserts a raw payload and reports whether its content changed
// since the last fetch.
func (s *Store) SaveRaw(ctx context.Context, kind, key, name string, payload []byte, runID string) (bool, error) {
	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	var prev string
	err := s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM raw_documents WHERE kind = ? AND key = ?`, kind, key).Scan(&prev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("reading cached %s %s: %w", kind, key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO raw_documents (kind, key, name, payload, content_hash, run_id, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(kind, key) DO UPDATE SET
			name = excluded.name,
			payload = excluded.payload,
			content_hash = excluded.content_hash,
			run_id = excluded.run_id,
			fetched_at = excluded.fetched_at`,
		kind, key, name, string(payload), hash, runID)
	if err != nil {
		return false, fmt.Errorf("caching %s %s: %w", kind, key, err)
	}
	return prev != hash, nil
}

// Raw returns the cached payload for kind/key.
func (s *Store) Raw(ctx context.Context, kind, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM raw_documents WHERE kind = ? AND key = ?`, kind, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", ErrNotCached, kind, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached %s %s: %w", kind, key, err)
	}
	return []byte(payload), nil
}

// CountRaw returns how many payloads of kind are cached.
func (s *Store) CountRaw(ctx context.Context, kind string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM raw_documents WHERE kind = ?`, kind).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cached %s: %w", kind, err)
	}
	return n, nil
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
