// Package jobs is a small persisted task queue. Work is enqueued inside the
// caller's transaction and only becomes visible to the runner once that
// transaction commits.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/google/uuid"
)

// ErrUnknownTask is recorded on jobs whose task name has no handler.
var ErrUnknownTask = errors.New("unknown task")

// JobWriter is the slice of the job store the dispatcher needs.
type JobWriter interface {
	Create(ctx context.Context, j *domain.Job) error
}

type Dispatcher struct {
	store  JobWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewDispatcher returns a dispatcher writing through store. Pass a store
// bound to the current transaction.
func NewDispatcher(store JobWriter, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{store: store, logger: logger, now: time.Now}
}

// Schedule enqueues a pending job and returns its id.
func (d *Dispatcher) Schedule(ctx context.Context, taskName string, params map[string]string) (string, error) {
	if taskName == "" {
		return "", fmt.Errorf("scheduling job: %w: empty task name", domain.ErrValidation)
	}
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}

	job := &domain.Job{
		ID:        uuid.New().String(),
		TaskName:  taskName,
		Params:    copied,
		Status:    domain.JobPending,
		CreatedAt: d.now().UTC(),
	}
	if err := d.store.Create(ctx, job); err != nil {
		return "", fmt.Errorf("scheduling %s: %w", taskName, err)
	}
	jobsTotal.WithLabelValues(taskName, string(domain.JobPending)).Inc()
	d.logger.DebugContext(ctx, "job_scheduled", "job_id", job.ID, "task", taskName)
	return job.ID, nil
}
