package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/reviewagenda/internal/domain"
)

// ScheduleUpdate carries the scheduler-owned fields of one agenda item.
type ScheduleUpdate struct {
	ItemID    string
	Order     *int
	StartTime *string
	EndTime   *string
}

type AgendaRepo interface {
	Create(ctx context.Context, a *domain.Agenda) error
	GetByID(ctx context.Context, id string) (*domain.Agenda, error)
	GetMeetingTime(ctx context.Context, id string) (*string, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Agenda, error)
	Update(ctx context.Context, a *domain.Agenda) error
	DeactivatePast(ctx context.Context, today time.Time) (int64, error)
}

type AgendaItemRepo interface {
	Create(ctx context.Context, item *domain.AgendaItem) error
	GetByID(ctx context.Context, id string) (*domain.AgendaItem, error)
	// ListByAgenda returns items ascending by order, unscheduled items last.
	ListByAgenda(ctx context.Context, agendaID string) ([]*domain.AgendaItem, error)
	Update(ctx context.Context, item *domain.AgendaItem) error
	Delete(ctx context.Context, id string) error
	// SaveSchedule writes order and times for every update or fails with a
	// *domain.PersistenceError.
	SaveSchedule(ctx context.Context, updates []ScheduleUpdate) error
}

type DocumentRepo interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	LinkAgenda(ctx context.Context, documentID int64, agendaID string) error
	SetAgendas(ctx context.Context, d *domain.Document) error
}

type MoveRequestRepo interface {
	Create(ctx context.Context, m *domain.MoveRequest) error
	GetByID(ctx context.Context, id string) (*domain.MoveRequest, error)
	Delete(ctx context.Context, id string) error
}

type JobRepo interface {
	Create(ctx context.Context, j *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	// List returns jobs newest first; a nil status lists every job.
	List(ctx context.Context, status *domain.JobStatus, limit int) ([]*domain.Job, error)
	ListPending(ctx context.Context, limit int) ([]*domain.Job, error)
	// MarkRunning claims a pending job. It reports false if another runner
	// claimed it first.
	MarkRunning(ctx context.Context, id string, at time.Time) (bool, error)
	MarkFinished(ctx context.Context, id string, status domain.JobStatus, errMsg string, at time.Time) error
	// FailStale marks jobs still running since before startedBefore as failed.
	FailStale(ctx context.Context, startedBefore time.Time, errMsg string, at time.Time) (int64, error)
}
