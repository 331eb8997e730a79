// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a local audit trail of collector jobs in SQLite.
// The store supplements the job file: losing or skipping it never fails a
// scrape, so callers downgrade its errors to warnings.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/harvest/pkg/types"
)

// Store manages the job-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and bootstraps the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			job_id TEXT PRIMARY KEY,
			keyword TEXT NOT NULL,
			status TEXT NOT NULL,
			attempts INTEGER NOT NULL DEFAULT 0,
			item_count INTEGER NOT NULL DEFAULT 0,
			triggered_at TEXT NOT NULL,
			completed_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_triggered_at ON jobs(triggered_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordTrigger inserts a row for a freshly triggered job. Re-triggering
// the same job identifier replaces the old row.
func (s *Store) RecordTrigger(jobID, keyword string, at time.Time) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO jobs (job_id, keyword, status, triggered_at) VALUES (?, ?, ?, ?)`,
		jobID, keyword, string(types.JobTriggered), at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording trigger for %s: %w", jobID, err)
	}
	return nil
}

// MarkComplete records a successful poll outcome for jobID.
func (s *Store) MarkComplete(jobID string, attempts, itemCount int, at time.Time) error {
	return s.finish(jobID, types.JobComplete, attempts, itemCount, at)
}

// MarkTimeout records that polling for jobID gave up at the deadline.
func (s *Store) MarkTimeout(jobID string, attempts int, at time.Time) error {
	return s.finish(jobID, types.JobTimeout, attempts, 0, at)
}

func (s *Store) finish(jobID string, status types.JobStatus, attempts, itemCount int, at time.Time) error {
	res, err := s.db.Exec(
		`UPDATE jobs SET status = ?, attempts = ?, item_count = ?, completed_at = ? WHERE job_id = ?`,
		string(status), attempts, itemCount, at.UTC().Format(time.RFC3339), jobID,
	)
	if err != nil {
		return fmt.Errorf("updating job %s: %w", jobID, err)
	}

	// Polling a job this process never triggered is legitimate (the job ID
	// may come from the CLI argument), so insert a keyword-less row.
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		_, err = s.db.Exec(
			`INSERT INTO jobs (job_id, keyword, status, attempts, item_count, triggered_at, completed_at)
			 VALUES (?, '', ?, ?, ?, ?, ?)`,
			jobID, string(status), attempts, itemCount,
			at.UTC().Format(time.RFC3339), at.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting job %s: %w", jobID, err)
		}
	}
	return nil
}

// Recent returns up to limit jobs, most recently triggered first.
func (s *Store) Recent(limit int) ([]types.JobRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT job_id, keyword, status, attempts, item_count, triggered_at, completed_at
		 FROM jobs ORDER BY triggered_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var records []types.JobRecord
	for rows.Next() {
		var r types.JobRecord
		var status, triggeredAt string
		var completedAt sql.NullString
		if err := rows.Scan(&r.JobID, &r.Keyword, &status, &r.Attempts, &r.ItemCount, &triggeredAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		r.Status = types.JobStatus(status)
		if t, err := time.Parse(time.RFC3339, triggeredAt); err == nil {
			r.TriggeredAt = t
		}
		if completedAt.Valid {
			if t, err := time.Parse(time.RFC3339, completedAt.String); err == nil {
				r.CompletedAt = t
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
