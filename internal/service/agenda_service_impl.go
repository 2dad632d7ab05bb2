package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/repository"
	"github.com/alexanderramin/reviewagenda/internal/scheduler"
	"github.com/alexanderramin/reviewagenda/internal/trigger"
	"github.com/alexanderramin/reviewagenda/internal/txscope"
	"github.com/google/uuid"
)

type agendaService struct {
	agendas  repository.AgendaRepo
	uow      db.UnitOfWork
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewAgendaService(agendas repository.AgendaRepo, uow db.UnitOfWork, logger *slog.Logger, observers ...UseCaseObserver) AgendaService {
	return &agendaService{
		agendas:  agendas,
		uow:      uow,
		logger:   loggerOrDiscard(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *agendaService) Create(ctx context.Context, a *domain.Agenda) error {
	if err := validateStruct(agendaInput{Name: a.Name, MeetingTime: a.MeetingTime}); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = domain.AgendaActive
	}
	a.MeetingTime = domain.BlankToNil(a.MeetingTime)
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.agendas.Create(ctx, a)
}

func (s *agendaService) GetByID(ctx context.Context, id string) (*domain.Agenda, error) {
	return s.agendas.GetByID(ctx, id)
}

func (s *agendaService) List(ctx context.Context, includeInactive bool) ([]*domain.Agenda, error) {
	return s.agendas.List(ctx, includeInactive)
}

func (s *agendaService) SetMeetingTime(ctx context.Context, id string, meetingTime *string) (agenda *domain.Agenda, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"agenda_id": id}
	defer func() { observe(ctx, s.observer, "set-meeting-time", startedAt, fields, err) }()

	if err = validateStruct(meetingTimeInput{MeetingTime: meetingTime}); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		h := newTxHost(tx, txscope.FromContext(ctx), s.logger)
		before, err := h.agendas.GetByID(ctx, id)
		if err != nil {
			return err
		}
		after := *before
		after.MeetingTime = domain.BlankToNil(meetingTime)
		after.UpdatedAt = time.Now().UTC()
		if err := h.updateAgenda(ctx, before, &after); err != nil {
			return err
		}
		agenda = &after
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("setting meeting time of agenda %s: %w", id, err)
	}
	return agenda, nil
}

func (s *agendaService) CompressOrdering(ctx context.Context, id string) (changed int, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"agenda_id": id}
	defer func() {
		fields["changed"] = changed
		observe(ctx, s.observer, "compress-ordering", startedAt, fields, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		h := newTxHost(tx, txscope.FromContext(ctx), s.logger)
		if _, err := h.agendas.GetByID(ctx, id); err != nil {
			return err
		}
		trigger.Suppress(h.scope)

		seq, err := scheduler.Load(ctx, h.store, id)
		if err != nil {
			return err
		}
		seq.Compress()
		changed = len(seq.Changed())
		return seq.SaveChanged(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("compressing agenda %s: %w", id, err)
	}
	return changed, nil
}

func (s *agendaService) ScheduleDeactivation(ctx context.Context) (string, error) {
	var jobID string
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		id, err := newTxHost(tx, txscope.FromContext(ctx), s.logger).dispatch.Schedule(ctx, domain.TaskAgendaDeactivation, nil)
		if err != nil {
			return err
		}
		jobID = id
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("scheduling agenda deactivation: %w", err)
	}
	return jobID, nil
}
