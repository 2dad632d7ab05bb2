package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/repository"
	"github.com/alexanderramin/reviewagenda/internal/txscope"
	"github.com/google/uuid"
)

type itemService struct {
	items    repository.AgendaItemRepo
	uow      db.UnitOfWork
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewItemService(items repository.AgendaItemRepo, uow db.UnitOfWork, logger *slog.Logger, observers ...UseCaseObserver) ItemService {
	return &itemService{
		items:    items,
		uow:      uow,
		logger:   loggerOrDiscard(logger),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *itemService) Create(ctx context.Context, in CreateItemInput) (item *domain.AgendaItem, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"agenda_id": in.AgendaID}
	defer func() { observe(ctx, s.observer, "create-item", startedAt, fields, err) }()

	if err = validateStruct(in); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		h := newTxHost(tx, txscope.FromContext(ctx), s.logger)
		created, err := s.prepare(ctx, h, in)
		if err != nil {
			return err
		}
		if err := h.insertItem(ctx, created); err != nil {
			return err
		}
		item, err = h.items.GetByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating agenda item: %w", err)
	}
	fields["item_id"] = item.ID
	return item, nil
}

func (s *itemService) CreateBatch(ctx context.Context, agendaID string, in []CreateItemInput) (created []*domain.AgendaItem, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"agenda_id": agendaID, "count": len(in)}
	defer func() { observe(ctx, s.observer, "create-item-batch", startedAt, fields, err) }()

	inputs := make([]CreateItemInput, len(in))
	for i, input := range in {
		input.AgendaID = agendaID
		if err = validateStruct(input); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		inputs[i] = input
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		h := newTxHost(tx, txscope.FromContext(ctx), s.logger)
		batch := make([]*domain.AgendaItem, 0, len(inputs))
		for _, input := range inputs {
			item, err := s.prepare(ctx, h, input)
			if err != nil {
				return err
			}
			batch = append(batch, item)
		}
		if err := h.insertItems(ctx, batch); err != nil {
			return err
		}
		created = batch
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing agenda items: %w", err)
	}
	return created, nil
}

// prepare builds a new item and applies its linked document, if any.
func (s *itemService) prepare(ctx context.Context, h *txHost, in CreateItemInput) (*domain.AgendaItem, error) {
	if _, err := h.agendas.GetByID(ctx, in.AgendaID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	item := &domain.AgendaItem{
		ID:          uuid.New().String(),
		AgendaID:    in.AgendaID,
		Topic:       in.Topic,
		DocumentID:  in.DocumentID,
		Order:       domain.CloneInt(in.Order),
		DurationMin: domain.CloneInt(in.DurationMin),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.DocumentID != nil {
		if err := linkDocument(ctx, h, item, *in.DocumentID); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// linkDocument copies the document's number and owners onto item and records
// the document as scheduled on the item's agenda.
func linkDocument(ctx context.Context, h *txHost, item *domain.AgendaItem, documentID int64) error {
	doc, err := h.docs.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	item.DocumentID = &doc.ID
	item.ApplyDocument(doc)
	return h.docs.LinkAgenda(ctx, doc.ID, item.AgendaID)
}

func (s *itemService) GetByID(ctx context.Context, id string) (*domain.AgendaItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *itemService) ListByAgenda(ctx context.Context, agendaID string) ([]*domain.AgendaItem, error) {
	return s.items.ListByAgenda(ctx, agendaID)
}

func (s *itemService) Update(ctx context.Context, id string, patch ItemPatch) (item *domain.AgendaItem, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": id}
	defer func() { observe(ctx, s.observer, "update-item", startedAt, fields, err) }()

	if err = checkPatch(patch); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		h := newTxHost(tx, txscope.FromContext(ctx), s.logger)
		before, err := h.items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		after, err := s.applyPatch(ctx, h, before, patch)
		if err != nil {
			return err
		}
		if err := h.updateItem(ctx, before, after); err != nil {
			return err
		}
		item, err = h.items.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("updating agenda item %s: %w", id, err)
	}
	return item, nil
}

func (s *itemService) applyPatch(ctx context.Context, h *txHost, before *domain.AgendaItem, p ItemPatch) (*domain.AgendaItem, error) {
	after := *before
	after.Order = domain.CloneInt(before.Order)
	after.DurationMin = domain.CloneInt(before.DurationMin)

	if p.Topic != nil {
		after.Topic = *p.Topic
	}
	switch {
	case p.ClearOrder:
		after.Order = nil
	case p.Order != nil:
		after.Order = domain.IntPtr(*p.Order)
	}
	switch {
	case p.ClearDuration:
		after.DurationMin = nil
	case p.DurationMin != nil:
		after.DurationMin = domain.IntPtr(*p.DurationMin)
	}

	switch {
	case p.ClearDocument && before.DocumentID != nil:
		after.DocumentID = nil
		after.ApplyDocument(nil)
	case p.DocumentID != nil && (before.DocumentID == nil || *before.DocumentID != *p.DocumentID):
		if err := linkDocument(ctx, h, &after, *p.DocumentID); err != nil {
			return nil, err
		}
	}

	after.UpdatedAt = time.Now().UTC()
	return &after, nil
}

func (s *itemService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"item_id": id}
	defer func() { observe(ctx, s.observer, "delete-item", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		h := newTxHost(tx, txscope.FromContext(ctx), s.logger)
		item, err := h.items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		fields["agenda_id"] = item.AgendaID
		return h.deleteItem(ctx, item)
	})
	if err != nil {
		return fmt.Errorf("deleting agenda item %s: %w", id, err)
	}
	return nil
}
