package scheduler

import "github.com/alexanderramin/reviewagenda/internal/domain"

// Item is the in-memory projection of one agenda item that the sequence
// algorithms mutate. Only order, start time and end time are writable; any
// change to them marks the item dirty.
type Item struct {
	id          string
	order       *int
	durationMin *int
	startTime   *string
	endTime     *string
	dirty       bool
}

// NewItem builds a clean projection. Pointer arguments are copied.
func NewItem(id string, order, durationMin *int, startTime, endTime *string) *Item {
	return &Item{
		id:          id,
		order:       domain.CloneInt(order),
		durationMin: domain.CloneInt(durationMin),
		startTime:   domain.CloneString(startTime),
		endTime:     domain.CloneString(endTime),
	}
}

// ItemFromDomain projects a persisted agenda item.
func ItemFromDomain(ai *domain.AgendaItem) *Item {
	return NewItem(ai.ID, ai.Order, ai.DurationMin, ai.StartTime, ai.EndTime)
}

func (it *Item) ID() string { return it.id }

// Order returns the order key and whether the item is scheduled at all.
func (it *Item) Order() (int, bool) {
	if it.order == nil {
		return 0, false
	}
	return *it.order, true
}

// DurationMin returns the duration and whether it is known.
func (it *Item) DurationMin() (int, bool) {
	if it.durationMin == nil {
		return 0, false
	}
	return *it.durationMin, true
}

func (it *Item) OrderPtr() *int { return domain.CloneInt(it.order) }
func (it *Item) StartTime() *string { return domain.CloneString(it.startTime) }
func (it *Item) EndTime() *string { return domain.CloneString(it.endTime) }
func (it *Item) Dirty() bool { return it.dirty }
func (it *Item) SameAs(other *Item) bool { return other != nil && it.id == other.id }

// SetOrder assigns a new order key. Orders only ever move between non-nil
// values inside the engine.
func (it *Item) SetOrder(order int) {
	if it.order != nil && *it.order == order {
		return
	}
	it.order = &order
	it.dirty = true
}

func (it *Item) SetStartTime(t *string) {
	if domain.StringPtrEqual(it.startTime, t) {
		return
	}
	it.startTime = domain.CloneString(t)
	it.dirty = true
}

func (it *Item) SetEndTime(t *string) {
	if domain.StringPtrEqual(it.endTime, t) {
		return
	}
	it.endTime = domain.CloneString(t)
	it.dirty = true
}

func (it *Item) clearTimes() {
	it.SetStartTime(nil)
	it.SetEndTime(nil)
}
