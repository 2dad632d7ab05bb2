package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/alexanderramin/reviewagenda/internal/meetingtime"
)

// ErrItemNotInSequence is returned when an anchor id is not part of the
// loaded agenda.
var ErrItemNotInSequence = errors.New("item not in agenda sequence")

// ItemStore is the data access the sequence needs. LoadItemsForAgenda must
// return items sorted ascending by order; SaveItems must be all-or-nothing.
type ItemStore interface {
	LoadItemsForAgenda(ctx context.Context, agendaID string) ([]*Item, error)
	SaveItems(ctx context.Context, items []*Item) error
}

// Sequence holds the items of one agenda for the duration of a single
// operation. Build a fresh one per operation; never reuse it after saving.
type Sequence struct {
	agendaID   string
	items      []*Item
	store      ItemStore
	timeFormat meetingtime.Format
}

// Load reads the agenda's items from store.
func Load(ctx context.Context, store ItemStore, agendaID string) (*Sequence, error) {
	items, err := store.LoadItemsForAgenda(ctx, agendaID)
	if err != nil {
		return nil, fmt.Errorf("loading items for agenda %s: %w", agendaID, err)
	}
	return &Sequence{agendaID: agendaID, items: items, store: store}, nil
}

// NewSequence wraps already-sorted items. A sequence built this way has no
// store and cannot be saved.
func NewSequence(agendaID string, items []*Item) *Sequence {
	return &Sequence{agendaID: agendaID, items: items}
}

func (s *Sequence) AgendaID() string { return s.agendaID }

// Items returns the items in their current sequence order.
func (s *Sequence) Items() []*Item {
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

// Changed returns the dirty items in sequence order.
func (s *Sequence) Changed() []*Item {
	var out []*Item
	for _, it := range s.items {
		if it.Dirty() {
			out = append(out, it)
		}
	}
	return out
}

func (s *Sequence) find(id string) *Item {
	for _, it := range s.items {
		if it.ID() == id {
			return it
		}
	}
	return nil
}

// ShiftDownAfter makes room for an item that has just taken its order value
// (inserted, or moved to a lower number): the contiguous run of items starting
// at that value is pushed one place later. The walk stops at the first gap.
func (s *Sequence) ShiftDownAfter(anchorID string) error {
	anchor := s.find(anchorID)
	if anchor == nil {
		return fmt.Errorf("shift down after %s: %w", anchorID, ErrItemNotInSequence)
	}
	cursor, ok := anchor.Order()
	if !ok {
		return nil
	}

	for _, it := range s.items {
		order, ok := it.Order()
		if !ok || it.SameAs(anchor) || order < cursor {
			continue
		}
		if order != cursor {
			break
		}
		it.SetOrder(cursor + 1)
		cursor++
	}
	return nil
}

// ShiftUpBefore is the mirror of ShiftDownAfter for an item that moved to a
// higher number: walking from the end, the contiguous run ending at the
// anchor's new value is pulled one place earlier.
func (s *Sequence) ShiftUpBefore(anchorID string) error {
	anchor := s.find(anchorID)
	if anchor == nil {
		return fmt.Errorf("shift up before %s: %w", anchorID, ErrItemNotInSequence)
	}
	cursor, ok := anchor.Order()
	if !ok {
		return nil
	}

	for i := len(s.items) - 1; i >= 0; i-- {
		it := s.items[i]
		order, ok := it.Order()
		if !ok || it.SameAs(anchor) || order > cursor {
			continue
		}
		if order != cursor {
			break
		}
		it.SetOrder(cursor - 1)
		cursor--
	}
	return nil
}

// Compress renumbers scheduled items 1..k, keeping their relative order.
// The sequence must already be sorted by order.
func (s *Sequence) Compress() {
	next := 1
	for _, it := range s.items {
		order, ok := it.Order()
		if !ok {
			continue
		}
		if order > next {
			it.SetOrder(next)
		}
		next++
	}
}

// UpdateStartEndTimes recomputes every item's start and end time from the
// meeting time and the durations, walking in order. Unscheduled items get no
// times. The first scheduled item without a duration stops the clock: it and
// every later item get no times.
func (s *Sequence) UpdateStartEndTimes(meetingTime *string) error {
	s.sortByOrder()

	if meetingTime == nil {
		for _, it := range s.items {
			it.clearTimes()
		}
		return nil
	}

	s.timeFormat = meetingtime.DetectFormat(*meetingTime)
	current, err := meetingtime.Parse(*meetingTime, s.timeFormat)
	if err != nil {
		return err
	}

	stopped := false
	for _, it := range s.items {
		if _, ok := it.Order(); !ok {
			it.clearTimes()
			continue
		}
		duration, ok := it.DurationMin()
		if !ok {
			stopped = true
		}
		if stopped {
			it.clearTimes()
			continue
		}

		start := meetingtime.FormatHours(current, s.timeFormat)
		current += float64(duration) / 60
		end := meetingtime.FormatHours(current, s.timeFormat)
		it.SetStartTime(&start)
		it.SetEndTime(&end)
	}
	return nil
}

// SaveChanged writes the dirty items in a single batch. Nothing is written
// when no item changed.
func (s *Sequence) SaveChanged(ctx context.Context) error {
	changed := s.Changed()
	if len(changed) == 0 {
		return nil
	}
	if s.store == nil {
		return fmt.Errorf("saving agenda %s: sequence has no store", s.agendaID)
	}
	return s.store.SaveItems(ctx, changed)
}

// sortByOrder stable-sorts ascending by order with unscheduled items last.
func (s *Sequence) sortByOrder() {
	sort.SliceStable(s.items, func(i, j int) bool {
		a, aok := s.items[i].Order()
		b, bok := s.items[j].Order()
		if aok != bok {
			return aok
		}
		return a < b
	})
}
