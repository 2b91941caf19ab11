package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"slidecast/internal/config"
)

// Store manages render job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the job database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "jobs.db"))
}

// OpenPath opens the job database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// NewJob inserts a queued render job for a project.
func (s *Store) NewJob(ctx context.Context, project, manifestJSON string) (*Job, error) {
	now := timestamp()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO render_jobs (project, status, manifest_json, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		project, StatusQueued, manifestJSON, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns a single job.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, selectJobSQL+" WHERE id = ?", id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return job, err
}

// List returns jobs ordered newest first.
func (s *Store) List(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx, selectJobSQL+" ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// NextQueued claims the oldest queued job and marks it running. Returns
// ErrNotFound when the queue is drained.
func (s *Store) NextQueued(ctx context.Context) (*Job, error) {
	row := s.db.QueryRowContext(ctx, selectJobSQL+" WHERE status = ? ORDER BY id ASC LIMIT 1", StatusQueued)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.MarkRunning(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// MarkRunning transitions a queued job to running and stamps started_at.
func (s *Store) MarkRunning(ctx context.Context, job *Job) error {
	if job.Status.Terminal() {
		return ErrTerminal
	}
	now := time.Now().UTC()
	ts := now.Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`UPDATE render_jobs SET status = ?, started_at = ?, updated_at = ? WHERE id = ?`,
		StatusRunning, ts, ts, job.ID,
	)
	if err != nil {
		return fmt.Errorf("mark running: %w", err)
	}
	job.Status = StatusRunning
	job.StartedAt = &now
	job.UpdatedAt = now
	return nil
}

// UpdateProgress persists the job's progress fields.
func (s *Store) UpdateProgress(ctx context.Context, job *Job) error {
	now := timestamp()
	_, err := s.db.ExecContext(ctx,
		`UPDATE render_jobs SET progress = ?, progress_stage = ?, progress_message = ?, updated_at = ?
         WHERE id = ?`,
		job.Progress, job.ProgressStage, job.ProgressMessage, now, job.ID,
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// MarkSucceeded finalizes a job with its output artifacts.
func (s *Store) MarkSucceeded(ctx context.Context, job *Job) error {
	if job.Status.Terminal() {
		return ErrTerminal
	}
	now := time.Now().UTC()
	ts := now.Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`UPDATE render_jobs SET status = ?, progress = 100, video_path = ?, subtitle_path = ?,
            segment_count = ?, duration_ms = ?, finished_at = ?, updated_at = ?
         WHERE id = ?`,
		StatusSucceeded, job.VideoPath, job.SubtitlePath,
		job.SegmentCount, job.DurationMS, ts, ts, job.ID,
	)
	if err != nil {
		return fmt.Errorf("mark succeeded: %w", err)
	}
	job.Status = StatusSucceeded
	job.Progress = 100
	job.FinishedAt = &now
	job.UpdatedAt = now
	return nil
}

// MarkFailed finalizes a job with its first job-fatal cause.
func (s *Store) MarkFailed(ctx context.Context, job *Job, message string) error {
	if job.Status.Terminal() {
		return ErrTerminal
	}
	now := time.Now().UTC()
	ts := now.Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`UPDATE render_jobs SET status = ?, error_message = ?, finished_at = ?, updated_at = ?
         WHERE id = ?`,
		StatusFailed, message, ts, ts, job.ID,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	job.Status = StatusFailed
	job.ErrorMessage = message
	job.FinishedAt = &now
	job.UpdatedAt = now
	return nil
}

// Stats aggregates job counts per lifecycle state.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM render_jobs GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("job stats: %w", err)
	}
	defer rows.Close()

	var stats Stats
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		stats.Total += count
		switch status {
		case StatusQueued:
			stats.Queued = count
		case StatusRunning:
			stats.Running = count
		case StatusSucceeded:
			stats.Succeeded = count
		case StatusFailed:
			stats.Failed = count
		}
	}
	return stats, rows.Err()
}

// ClearTerminal removes succeeded and failed jobs, returning the count.
func (s *Store) ClearTerminal(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM render_jobs WHERE status IN (?, ?)`, StatusSucceeded, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear jobs: %w", err)
	}
	return res.RowsAffected()
}

const selectJobSQL = `SELECT id, project, status, manifest_json, progress, progress_stage,
    progress_message, video_path, subtitle_path, segment_count, duration_ms, error_message,
    created_at, updated_at, started_at, finished_at FROM render_jobs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var job Job
	var created, updated string
	var started, finished sql.NullString
	err := row.Scan(
		&job.ID, &job.Project, &job.Status, &job.ManifestJSON, &job.Progress,
		&job.ProgressStage, &job.ProgressMessage, &job.VideoPath, &job.SubtitlePath,
		&job.SegmentCount, &job.DurationMS, &job.ErrorMessage,
		&created, &updated, &started, &finished,
	)
	if err != nil {
		return nil, err
	}
	job.CreatedAt = parseTime(created)
	job.UpdatedAt = parseTime(updated)
	if started.Valid {
		t := parseTime(started.String)
		job.StartedAt = &t
	}
	if finished.Valid {
		t := parseTime(finished.String)
		job.FinishedAt = &t
	}
	return &job, nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
