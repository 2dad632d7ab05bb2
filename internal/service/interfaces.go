package service

import (
	"context"

	"github.com/alexanderramin/reviewagenda/internal/domain"
)

type AgendaService interface {
	Create(ctx context.Context, a *domain.Agenda) error
	GetByID(ctx context.Context, id string) (*domain.Agenda, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Agenda, error)
	// SetMeetingTime stores a new meeting time (nil or blank clears it) and
	// recomputes the agenda's item times in the same transaction.
	SetMeetingTime(ctx context.Context, id string, meetingTime *string) (*domain.Agenda, error)
	// CompressOrdering renumbers the scheduled items 1..n and returns how
	// many items changed.
	CompressOrdering(ctx context.Context, id string) (int, error)
	// ScheduleDeactivation enqueues the past-agenda deactivation job.
	ScheduleDeactivation(ctx context.Context) (string, error)
}

// CreateItemInput describes a new agenda item. Topic may be left empty when
// a document is linked; the document number is used instead.
type CreateItemInput struct {
	AgendaID    string `yaml:"-" validate:"required"`
	Topic       string `yaml:"topic" validate:"required_without=DocumentID,max=255"`
	DocumentID  *int64 `yaml:"document_id" validate:"omitempty,gt=0"`
	Order       *int   `yaml:"order" validate:"omitempty,gt=0"`
	DurationMin *int   `yaml:"duration_min" validate:"omitempty,gte=0"`
}

// ItemPatch lists the fields to change on an agenda item. A nil pointer
// leaves the field alone; the Clear flags set it to null.
type ItemPatch struct {
	Topic         *string `validate:"omitempty,min=1,max=255"`
	DocumentID    *int64  `validate:"omitempty,gt=0"`
	ClearDocument bool
	Order         *int `validate:"omitempty,gt=0"`
	ClearOrder    bool
	DurationMin   *int `validate:"omitempty,gte=0"`
	ClearDuration bool
}

type ItemService interface {
	Create(ctx context.Context, in CreateItemInput) (*domain.AgendaItem, error)
	// CreateBatch inserts all items with a single change notification, so
	// no reordering or time computation happens.
	CreateBatch(ctx context.Context, agendaID string, in []CreateItemInput) ([]*domain.AgendaItem, error)
	GetByID(ctx context.Context, id string) (*domain.AgendaItem, error)
	ListByAgenda(ctx context.Context, agendaID string) ([]*domain.AgendaItem, error)
	Update(ctx context.Context, id string, patch ItemPatch) (*domain.AgendaItem, error)
	Delete(ctx context.Context, id string) error
}

type DocumentService interface {
	Create(ctx context.Context, d *domain.Document) error
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
}

type MoveService interface {
	// MoveItem moves an item to another agenda and returns the item created
	// there. The source agenda is renumbered later by a background job.
	MoveItem(ctx context.Context, itemID, toAgendaID string) (*domain.AgendaItem, error)
}
