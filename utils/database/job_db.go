package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sam-bot/model"

	"github.com/jmoiron/sqlx"
)

// UpsertJob stores a scheduled job, replacing any existing job with the
// same key.
func UpsertJob(db *sqlx.DB, job model.ScheduledJob) error {
	query := `INSERT OR REPLACE INTO scheduled_jobs (key, kind, payload, run_at)
	          VALUES (:key, :kind, :payload, :run_at)`
	if _, err := db.NamedExec(query, job); err != nil {
		return fmt.Errorf("failed to upsert job %s: %w", job.Key, err)
	}
	return nil
}

// DeleteJob removes a job by key. The boolean reports whether a job was
// actually removed; a missing key is not an error.
func DeleteJob(db *sqlx.DB, key string) (bool, error) {
	result, err := db.Exec(`DELETE FROM scheduled_jobs WHERE key = ?`, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete job %s: %w", key, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected for job %s: %w", key, err)
	}
	return rowsAffected > 0, nil
}

// GetJob returns the pending job with the given key, or nil if none exists.
func GetJob(db *sqlx.DB, key string) (*model.ScheduledJob, error) {
	var job model.ScheduledJob
	err := db.Get(&job, `SELECT * FROM scheduled_jobs WHERE key = ? LIMIT 1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", key, err)
	}
	return &job, nil
}

// GetDueJobs returns all jobs whose run time has passed.
func GetDueJobs(db *sqlx.DB, now time.Time) ([]model.ScheduledJob, error) {
	var jobs []model.ScheduledJob
	err := db.Select(&jobs, `SELECT * FROM scheduled_jobs WHERE run_at <= ? ORDER BY run_at`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due jobs: %w", err)
	}
	return jobs, nil
}
