package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
)

// SQLiteJobRepo implements JobRepo using a SQLite database.
type SQLiteJobRepo struct {
	db db.DBTX
}

// NewSQLiteJobRepo creates a new SQLiteJobRepo.
func NewSQLiteJobRepo(conn db.DBTX) *SQLiteJobRepo {
	return &SQLiteJobRepo{db: conn}
}

// jobTimeLayout is fixed width so that stored timestamps sort as text.
const jobTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const jobColumns = `id, task_name, params, status, error, created_at, started_at, finished_at`

func (r *SQLiteJobRepo) Create(ctx context.Context, j *domain.Job) error {
	params := j.Params
	if params == nil {
		params = map[string]string{}
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding job params: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID,
		j.TaskName,
		string(encoded),
		string(j.Status),
		j.Error,
		j.CreatedAt.UTC().Format(jobTimeLayout),
		nullableTimeToString(j.StartedAt, jobTimeLayout),
		nullableTimeToString(j.FinishedAt, jobTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

func (r *SQLiteJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return j, nil
}

func (r *SQLiteJobRepo) List(ctx context.Context, status *domain.JobStatus, limit int) ([]*domain.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	if status == nil {
		return r.query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT ?`, limit)
	}
	return r.query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = ? ORDER BY created_at DESC LIMIT ?`,
		string(*status), limit)
}

// ListPending returns pending jobs oldest first.
func (r *SQLiteJobRepo) ListPending(ctx context.Context, limit int) ([]*domain.Job, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = 'pending' ORDER BY created_at, id LIMIT ?`, limit)
}

func (r *SQLiteJobRepo) MarkRunning(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = 'running', started_at = ? WHERE id = ? AND status = 'pending'`,
		at.UTC().Format(jobTimeLayout), id)
	if err != nil {
		return false, fmt.Errorf("claiming job %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claiming job %s: %w", id, err)
	}
	return n == 1, nil
}

func (r *SQLiteJobRepo) MarkFinished(ctx context.Context, id string, status domain.JobStatus, errMsg string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(status), errMsg, at.UTC().Format(jobTimeLayout), id)
	if err != nil {
		return fmt.Errorf("finishing job %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteJobRepo) FailStale(ctx context.Context, startedBefore time.Time, errMsg string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = 'failed', error = ?, finished_at = ?
		 WHERE status = 'running' AND started_at < ?`,
		errMsg, at.UTC().Format(jobTimeLayout), startedBefore.UTC().Format(jobTimeLayout))
	if err != nil {
		return 0, fmt.Errorf("failing stale jobs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failing stale jobs: %w", err)
	}
	return n, nil
}

func (r *SQLiteJobRepo) query(ctx context.Context, query string, args ...any) ([]*domain.Job, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

func scanJob(s scanner) (*domain.Job, error) {
	var j domain.Job
	var params, status, createdAt string
	var startedAt, finishedAt sql.NullString

	if err := s.Scan(&j.ID, &j.TaskName, &params, &status, &j.Error, &createdAt, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	if err := json.Unmarshal([]byte(params), &j.Params); err != nil {
		return nil, fmt.Errorf("decoding params of job %s: %w", j.ID, err)
	}
	j.Status = domain.JobStatus(status)

	var err error
	if j.CreatedAt, err = time.Parse(jobTimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	j.StartedAt = parseNullableTime(startedAt, jobTimeLayout)
	j.FinishedAt = parseNullableTime(finishedAt, jobTimeLayout)
	return &j, nil
}
