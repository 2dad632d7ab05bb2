package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/trigger"
	"github.com/alexanderramin/reviewagenda/internal/txscope"
	"github.com/google/uuid"
)

type moveService struct {
	uow      db.UnitOfWork
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewMoveService(uow db.UnitOfWork, logger *slog.Logger, observers ...UseCaseObserver) MoveService {
	return &moveService{
		uow:      uow,
		logger:   loggerOrDiscard(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

// MoveItem recreates the item on the destination agenda, where the usual
// insert handling applies, then deletes the original with the trigger
// suppressed. The source agenda's gap is closed by an agenda_item_recalc job
// that runs after this transaction commits.
func (s *moveService) MoveItem(ctx context.Context, itemID, toAgendaID string) (moved *domain.AgendaItem, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": itemID, "to_agenda_id": toAgendaID}
	defer func() { observe(ctx, s.observer, "move-item", startedAt, fields, err) }()

	if err = validateStruct(moveInput{ItemID: itemID, ToAgendaID: toAgendaID}); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		h := newTxHost(tx, txscope.FromContext(ctx), s.logger)

		src, err := h.items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		fromAgendaID := src.AgendaID
		fields["from_agenda_id"] = fromAgendaID
		if fromAgendaID == toAgendaID {
			return fmt.Errorf("%w: item %s is already on agenda %s", domain.ErrInvalidOperation, itemID, toAgendaID)
		}
		if _, err := h.agendas.GetByID(ctx, toAgendaID); err != nil {
			return err
		}
		fromMeetingTime, err := h.agendas.GetMeetingTime(ctx, fromAgendaID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		req := &domain.MoveRequest{ID: uuid.New().String(), ItemID: itemID, ToAgendaID: toAgendaID, CreatedAt: now}
		if err := h.moves.Create(ctx, req); err != nil {
			return err
		}

		dst := src.CopyForAgenda(toAgendaID, uuid.New().String(), now)
		if err := h.insertItem(ctx, dst); err != nil {
			return err
		}

		trigger.Suppress(h.scope)

		if src.DocumentID != nil {
			if err := relinkDocument(ctx, h, *src.DocumentID, fromAgendaID, toAgendaID); err != nil {
				return err
			}
		}
		if err := h.deleteItem(ctx, src); err != nil {
			return err
		}

		params := map[string]string{domain.ParamAgendaID: fromAgendaID}
		if fromMeetingTime != nil {
			params[domain.ParamAgendaMeetingTime] = *fromMeetingTime
		}
		jobID, err := h.dispatch.Schedule(ctx, domain.TaskAgendaItemRecalc, params)
		if err != nil {
			return err
		}
		fields["recalc_job_id"] = jobID

		if err := h.moves.Delete(ctx, req.ID); err != nil {
			return err
		}

		moved, err = h.items.GetByID(ctx, dst.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("moving agenda item %s: %w", itemID, err)
	}
	return moved, nil
}

// relinkDocument points the document's link for agenda from at agenda to.
// A document that was never linked to from simply gains the new link.
func relinkDocument(ctx context.Context, h *txHost, documentID int64, from, to string) error {
	doc, err := h.docs.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.ReplaceAgenda(from, to) {
		return h.docs.SetAgendas(ctx, doc)
	}
	return h.docs.LinkAgenda(ctx, doc.ID, to)
}
