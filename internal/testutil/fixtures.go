package testutil

import (
	"time"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/google/uuid"
)

// Agenda options
type AgendaOption func(*domain.Agenda)

func WithMeetingTime(mt string) AgendaOption {
	return func(a *domain.Agenda) {
		a.MeetingTime = &mt
	}
}

func WithMeetingDate(d time.Time) AgendaOption {
	return func(a *domain.Agenda) {
		a.MeetingDate = &d
	}
}

func WithAgendaStatus(s domain.AgendaStatus) AgendaOption {
	return func(a *domain.Agenda) {
		a.Status = s
	}
}

func NewTestAgenda(name string, opts ...AgendaOption) *domain.Agenda {
	now := time.Now().UTC().Truncate(time.Second)
	a := &domain.Agenda{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.AgendaActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AgendaItem options
type ItemOption func(*domain.AgendaItem)

func WithOrder(order int) ItemOption {
	return func(i *domain.AgendaItem) {
		i.Order = &order
	}
}

func WithDuration(min int) ItemOption {
	return func(i *domain.AgendaItem) {
		i.DurationMin = &min
	}
}

func WithTimes(start, end string) ItemOption {
	return func(i *domain.AgendaItem) {
		i.StartTime = &start
		i.EndTime = &end
	}
}

func WithDocument(id int64) ItemOption {
	return func(i *domain.AgendaItem) {
		i.DocumentID = &id
	}
}

func WithProjectOwner(owner string) ItemOption {
	return func(i *domain.AgendaItem) {
		i.ProjectOwner = &owner
	}
}

func NewTestItem(agendaID, topic string, opts ...ItemOption) *domain.AgendaItem {
	now := time.Now().UTC().Truncate(time.Second)
	i := &domain.AgendaItem{
		ID:        uuid.New().String(),
		AgendaID:  agendaID,
		Topic:     topic,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Document options
type DocumentOption func(*domain.Document)

func WithProjectManager(pm string) DocumentOption {
	return func(d *domain.Document) {
		d.ProjectManager = &pm
	}
}

func WithAgendas(ids ...string) DocumentOption {
	return func(d *domain.Document) {
		d.AgendaIDs = append(d.AgendaIDs, ids...)
	}
}

func NewTestDocument(number, owner string, opts ...DocumentOption) *domain.Document {
	d := &domain.Document{Number: number, Owner: owner}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func NewTestJob(taskName string, params map[string]string) *domain.Job {
	return &domain.Job{
		ID:        uuid.New().String(),
		TaskName:  taskName,
		Params:    params,
		Status:    domain.JobPending,
		CreatedAt: time.Now().UTC(),
	}
}
