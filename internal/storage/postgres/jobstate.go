package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JobStateRepository persists per-job last-fired timestamps so the
// scheduler can reconstruct each job's cadence across restarts. It
// implements scheduler.StateStore.
type JobStateRepository struct {
	db *pgxpool.Pool
}

// NewJobStateRepository creates a JobStateRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewJobStateRepository(db *pgxpool.Pool) *JobStateRepository {
	return &JobStateRepository{db: db}
}

// LastFired returns the persisted last-fired time for a job.
//
// Postcondition: Returns (time, true, nil) if a record exists,
// (zero, false, nil) if none does, or a non-nil error on query failure.
func (r *JobStateRepository) LastFired(ctx context.Context, jobID string) (time.Time, bool, error) {
	var t time.Time
	err := r.db.QueryRow(ctx,
		`SELECT last_fired FROM job_state WHERE job_id = $1`,
		jobID,
	).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("querying job state for %q: %w", jobID, err)
	}
	return t, true, nil
}

// SetLastFired upserts the last-fired time for a job.
func (r *JobStateRepository) SetLastFired(ctx context.Context, jobID string, t time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO job_state (job_id, last_fired)
		 VALUES ($1, $2)
		 ON CONFLICT (job_id) DO UPDATE SET last_fired = EXCLUDED.last_fired`,
		jobID, t,
	)
	if err != nil {
		return fmt.Errorf("upserting job state for %q: %w", jobID, err)
	}
	return nil
}
