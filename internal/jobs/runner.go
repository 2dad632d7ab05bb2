package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/repository"
	"github.com/alexanderramin/reviewagenda/internal/txscope"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize caps how many pending jobs one RunPending call claims.
	DefaultBatchSize = 100
	// DefaultStaleAfter is how long a job may stay running before the next
	// RunPending call gives up on it and records it as failed.
	DefaultStaleAfter = 15 * time.Minute
)

const staleJobError = "abandoned: job did not finish"

// Summary reports what one RunPending call did.
type Summary struct {
	Claimed   int
	Succeeded int
	Failed    int
}

type Runner struct {
	uow        db.UnitOfWork
	registry   *Registry
	workers    int
	batchSize  int
	staleAfter time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewRunner builds a runner executing at most workers jobs at a time.
func NewRunner(uow db.UnitOfWork, registry *Registry, workers int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		uow:        uow,
		registry:   registry,
		workers:    workers,
		batchSize:  DefaultBatchSize,
		staleAfter: DefaultStaleAfter,
		logger:     logger,
		now:        time.Now,
	}
}

// RunPending claims the pending jobs that exist now and runs them. Jobs
// enqueued while it runs are left for the next call. A failing job is marked
// failed with its error and does not stop the others; there is no retry.
// Jobs left running by an earlier call for longer than the stale window are
// marked failed before claiming.
//
// The returned error reports failures that could not be recorded; every
// claimed job is still attempted.
func (r *Runner) RunPending(ctx context.Context) (Summary, error) {
	claimed, err := r.claim(ctx)
	if err != nil {
		return Summary{}, err
	}

	var (
		mu         sync.Mutex
		summary    = Summary{Claimed: len(claimed)}
		recordErrs []error
	)

	var g errgroup.Group
	g.SetLimit(r.workers)
	for _, job := range claimed {
		g.Go(func() error {
			runErr := r.runOne(ctx, job)
			var recordErr error
			if runErr != nil {
				recordErr = r.markFailed(context.WithoutCancel(ctx), job, runErr)
			}
			mu.Lock()
			defer mu.Unlock()
			if runErr != nil {
				summary.Failed++
			} else {
				summary.Succeeded++
			}
			if recordErr != nil {
				recordErrs = append(recordErrs, recordErr)
			}
			return nil
		})
	}
	_ = g.Wait()
	return summary, errors.Join(recordErrs...)
}

func (r *Runner) claim(ctx context.Context) ([]*domain.Job, error) {
	var claimed []*domain.Job
	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteJobRepo(tx)
		now := r.now()
		stale, err := repo.FailStale(ctx, now.Add(-r.staleAfter), staleJobError, now)
		if err != nil {
			return err
		}
		if stale > 0 {
			r.logger.WarnContext(ctx, "stale_jobs_failed", "count", stale)
		}
		pending, err := repo.ListPending(ctx, r.batchSize)
		if err != nil {
			return err
		}
		for _, job := range pending {
			ok, err := repo.MarkRunning(ctx, job.ID, now)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			job.Status = domain.JobRunning
			job.StartedAt = &now
			claimed = append(claimed, job)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("claiming pending jobs: %w", err)
	}
	for _, job := range claimed {
		jobsTotal.WithLabelValues(job.TaskName, string(domain.JobRunning)).Inc()
	}
	return claimed, nil
}

// runOne executes the handler and records success in the same transaction,
// so the job's effects and its succeeded status commit together.
func (r *Runner) runOne(ctx context.Context, job *domain.Job) error {
	handler, ok := r.registry.Lookup(job.TaskName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, job.TaskName)
	}

	start := r.now()
	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := handler(ctx, tx, txscope.FromContext(ctx), job); err != nil {
			return err
		}
		return repository.NewSQLiteJobRepo(tx).MarkFinished(ctx, job.ID, domain.JobSucceeded, "", r.now())
	})
	if err != nil {
		return err
	}

	jobsTotal.WithLabelValues(job.TaskName, string(domain.JobSucceeded)).Inc()
	r.logger.InfoContext(ctx, "job_succeeded",
		"job_id", job.ID,
		"task", job.TaskName,
		"duration_ms", r.now().Sub(start).Milliseconds(),
	)
	return nil
}

func (r *Runner) markFailed(ctx context.Context, job *domain.Job, cause error) error {
	err := r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteJobRepo(tx).MarkFinished(ctx, job.ID, domain.JobFailed, cause.Error(), r.now())
	})
	if err != nil {
		return fmt.Errorf("recording failure of job %s: %w", job.ID, err)
	}
	jobsTotal.WithLabelValues(job.TaskName, string(domain.JobFailed)).Inc()
	r.logger.ErrorContext(ctx, "job_failed", "job_id", job.ID, "task", job.TaskName, "error", cause.Error())
	return nil
}
