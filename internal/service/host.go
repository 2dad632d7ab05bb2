package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/jobs"
	"github.com/alexanderramin/reviewagenda/internal/repository"
	"github.com/alexanderramin/reviewagenda/internal/scheduler"
	"github.com/alexanderramin/reviewagenda/internal/trigger"
	"github.com/alexanderramin/reviewagenda/internal/txscope"
)

// txHost is everything one business transaction works with: repositories
// bound to the transaction, the transaction's flag scope, and the coordinator
// that receives a notification after every agenda item write.
type txHost struct {
	agendas  *repository.SQLiteAgendaRepo
	items    *repository.SQLiteAgendaItemRepo
	docs     *repository.SQLiteDocumentRepo
	moves    *repository.SQLiteMoveRequestRepo
	scope    *txscope.Scope
	store    *hostItemStore
	coord    *trigger.Coordinator
	dispatch *jobs.Dispatcher
}

func newTxHost(tx db.DBTX, scope *txscope.Scope, logger *slog.Logger) *txHost {
	h := &txHost{
		agendas:  repository.NewSQLiteAgendaRepo(tx),
		items:    repository.NewSQLiteAgendaItemRepo(tx),
		docs:     repository.NewSQLiteDocumentRepo(tx),
		moves:    repository.NewSQLiteMoveRequestRepo(tx),
		scope:    scope,
		dispatch: jobs.NewDispatcher(repository.NewSQLiteJobRepo(tx), logger),
	}
	h.store = &hostItemStore{host: h, loaded: make(map[string]loadedItem)}
	h.coord = trigger.NewCoordinator(scope, h.store, h.agendas, logger)
	return h
}

func snapshotOf(item *domain.AgendaItem) *trigger.ItemSnapshot {
	return &trigger.ItemSnapshot{
		Order:       domain.CloneInt(item.Order),
		DurationMin: domain.CloneInt(item.DurationMin),
	}
}

func (h *txHost) notify(ctx context.Context, event trigger.Event, records ...trigger.ItemChange) error {
	_, err := h.coord.HandleItemChange(ctx, trigger.Notification{Event: event, Records: records})
	return err
}

func (h *txHost) insertItem(ctx context.Context, item *domain.AgendaItem) error {
	return h.insertItems(ctx, []*domain.AgendaItem{item})
}

// insertItems writes every item and then raises a single notification that
// carries one record per item.
func (h *txHost) insertItems(ctx context.Context, items []*domain.AgendaItem) error {
	records := make([]trigger.ItemChange, 0, len(items))
	for _, item := range items {
		if err := h.items.Create(ctx, item); err != nil {
			return err
		}
		records = append(records, trigger.ItemChange{
			AgendaID: item.AgendaID,
			ItemID:   item.ID,
			New:      snapshotOf(item),
		})
	}
	if len(records) == 0 {
		return nil
	}
	return h.notify(ctx, trigger.EventInsert, records...)
}

func (h *txHost) updateItem(ctx context.Context, before, after *domain.AgendaItem) error {
	if err := h.items.Update(ctx, after); err != nil {
		return err
	}
	return h.notify(ctx, trigger.EventUpdate, trigger.ItemChange{
		AgendaID: after.AgendaID,
		ItemID:   after.ID,
		Old:      snapshotOf(before),
		New:      snapshotOf(after),
	})
}

func (h *txHost) deleteItem(ctx context.Context, item *domain.AgendaItem) error {
	if err := h.items.Delete(ctx, item.ID); err != nil {
		return err
	}
	return h.notify(ctx, trigger.EventDelete, trigger.ItemChange{
		AgendaID: item.AgendaID,
		ItemID:   item.ID,
		Old:      snapshotOf(item),
	})
}

func (h *txHost) updateAgenda(ctx context.Context, before, after *domain.Agenda) error {
	if err := h.agendas.Update(ctx, after); err != nil {
		return err
	}
	_, err := h.coord.HandleAgendaChange(ctx, trigger.AgendaNotification{
		Records: []trigger.AgendaChange{{
			AgendaID:       after.ID,
			OldMeetingTime: domain.BlankToNil(before.MeetingTime),
			NewMeetingTime: domain.BlankToNil(after.MeetingTime),
		}},
	})
	return err
}

type loadedItem struct {
	agendaID string
	snapshot trigger.ItemSnapshot
}

// hostItemStore adapts the item repository to the scheduler. Like any other
// write, saving schedule changes raises an update notification per item; the
// coordinator sees its own flag and ignores them.
type hostItemStore struct {
	host   *txHost
	loaded map[string]loadedItem
}

func (s *hostItemStore) LoadItemsForAgenda(ctx context.Context, agendaID string) ([]*scheduler.Item, error) {
	rows, err := s.host.items.ListByAgenda(ctx, agendaID)
	if err != nil {
		return nil, err
	}
	items := make([]*scheduler.Item, 0, len(rows))
	for _, row := range rows {
		s.loaded[row.ID] = loadedItem{agendaID: row.AgendaID, snapshot: *snapshotOf(row)}
		items = append(items, scheduler.ItemFromDomain(row))
	}
	return items, nil
}

func (s *hostItemStore) SaveItems(ctx context.Context, items []*scheduler.Item) error {
	updates := make([]repository.ScheduleUpdate, 0, len(items))
	for _, it := range items {
		updates = append(updates, repository.ScheduleUpdate{
			ItemID:    it.ID(),
			Order:     it.OrderPtr(),
			StartTime: it.StartTime(),
			EndTime:   it.EndTime(),
		})
	}
	if err := s.host.items.SaveSchedule(ctx, updates); err != nil {
		return err
	}

	var errs []error
	for _, it := range items {
		prev := s.loaded[it.ID()]
		old := prev.snapshot
		errs = append(errs, s.host.notify(ctx, trigger.EventUpdate, trigger.ItemChange{
			AgendaID: prev.agendaID,
			ItemID:   it.ID(),
			Old:      &old,
			New:      &trigger.ItemSnapshot{Order: it.OrderPtr(), DurationMin: old.DurationMin},
		}))
	}
	return errors.Join(errs...)
}
