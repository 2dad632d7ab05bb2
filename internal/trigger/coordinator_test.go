package trigger

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/meetingtime"
	"github.com/alexanderramin/reviewagenda/internal/scheduler"
	"github.com/alexanderramin/reviewagenda/internal/txscope"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	order    *int
	duration *int
	start    *string
	end      *string
}

// memStore is an in-memory agenda with one meeting time. When coord is set,
// every saved item fires an update notification back into it, the way the
// service host does.
type memStore struct {
	meetingTime *string
	ids         []string
	rows        map[string]*row
	saves       int
	saveErr     error
	coord       *Coordinator
	nested      []Outcome
}

func newMemStore(meetingTime *string) *memStore {
	return &memStore{meetingTime: meetingTime, rows: map[string]*row{}}
}

func (m *memStore) add(id string, order, duration *int) {
	m.ids = append(m.ids, id)
	m.rows[id] = &row{order: order, duration: duration}
}

func (m *memStore) GetMeetingTime(ctx context.Context, agendaID string) (*string, error) {
	return m.meetingTime, nil
}

func (m *memStore) LoadItemsForAgenda(ctx context.Context, agendaID string) ([]*scheduler.Item, error) {
	ids := append([]string(nil), m.ids...)
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := m.rows[ids[i]].order, m.rows[ids[j]].order
		if (a == nil) != (b == nil) {
			return a != nil
		}
		return a != nil && *a < *b
	})
	out := make([]*scheduler.Item, 0, len(ids))
	for _, id := range ids {
		r := m.rows[id]
		out = append(out, scheduler.NewItem(id, r.order, r.duration, r.start, r.end))
	}
	return out, nil
}

func (m *memStore) SaveItems(ctx context.Context, items []*scheduler.Item) error {
	if m.saveErr != nil {
		return &domain.PersistenceError{Op: "agenda items", Err: m.saveErr}
	}
	m.saves++
	for _, it := range items {
		r := m.rows[it.ID()]
		old := ItemSnapshot{Order: r.order, DurationMin: r.duration}
		r.order = it.OrderPtr()
		r.start = it.StartTime()
		r.end = it.EndTime()
		if m.coord != nil {
			outcome, err := m.coord.HandleItemChange(ctx, Notification{
				Event: EventUpdate,
				Records: []ItemChange{{
					AgendaID: "agenda-1",
					ItemID:   it.ID(),
					Old:      &old,
					New:      &ItemSnapshot{Order: r.order, DurationMin: r.duration},
				}},
			})
			if err != nil {
				return err
			}
			m.nested = append(m.nested, outcome)
		}
	}
	return nil
}

func (m *memStore) order(id string) *int { return m.rows[id].order }

func ip(v int) *int { return &v }

func sp(s string) *string { return &s }

func newCoordinator(store *memStore) *Coordinator {
	c := NewCoordinator(txscope.New(), store, store, nil)
	store.coord = c
	return c
}

func insertOf(id string, order, duration *int) Notification {
	return Notification{Event: EventInsert, Records: []ItemChange{{
		AgendaID: "agenda-1", ItemID: id,
		New: &ItemSnapshot{Order: order, DurationMin: duration},
	}}}
}

func updateOf(id string, old, updated ItemSnapshot) Notification {
	return Notification{Event: EventUpdate, Records: []ItemChange{{
		AgendaID: "agenda-1", ItemID: id, Old: &old, New: &updated,
	}}}
}

func TestHandleItemChange_InsertShiftsAndTimes(t *testing.T) {
	store := newMemStore(sp("9:00 AM"))
	store.add("a", ip(1), ip(30))
	store.add("b", ip(2), ip(15))
	store.add("new", ip(2), ip(10))
	c := newCoordinator(store)

	outcome, err := c.HandleItemChange(context.Background(), insertOf("new", ip(2), ip(10)))

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, 3, *store.order("b"))
	assert.Equal(t, "9:30", *store.rows["new"].start)
	assert.Equal(t, "9:40", *store.rows["b"].start)
	assert.Equal(t, 1, store.saves, "one batch save")
}

func TestHandleItemChange_ReentrancyAppliesOnce(t *testing.T) {
	store := newMemStore(sp("9:00 AM"))
	store.add("a", ip(1), ip(30))
	store.add("b", ip(2), ip(30))
	store.add("c", ip(3), ip(30))
	store.add("new", ip(1), ip(30))
	c := newCoordinator(store)

	before := testutil.ToFloat64(outcomesTotal.WithLabelValues(handlerItem, string(OutcomeApplied)))

	outcome, err := c.HandleItemChange(context.Background(), insertOf("new", ip(1), ip(30)))

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	require.Len(t, store.nested, 4, "every saved item re-fires a notification")
	for _, o := range store.nested {
		assert.Equal(t, OutcomeSuppressed, o)
	}
	after := testutil.ToFloat64(outcomesTotal.WithLabelValues(handlerItem, string(OutcomeApplied)))
	assert.Equal(t, 1.0, after-before)
}

func TestHandleItemChange_OrderDecreasedShiftsDown(t *testing.T) {
	store := newMemStore(nil)
	store.add("a", ip(1), nil)
	store.add("b", ip(2), nil)
	store.add("c", ip(3), nil)
	store.add("d", ip(4), nil)
	// d moved from 4 to 2
	store.rows["d"].order = ip(2)
	c := newCoordinator(store)

	outcome, err := c.HandleItemChange(context.Background(),
		updateOf("d", ItemSnapshot{Order: ip(4)}, ItemSnapshot{Order: ip(2)}))

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, 1, *store.order("a"))
	assert.Equal(t, 2, *store.order("d"))
	assert.Equal(t, 3, *store.order("b"))
	assert.Equal(t, 4, *store.order("c"))
}

func TestHandleItemChange_OrderIncreasedShiftsUp(t *testing.T) {
	store := newMemStore(nil)
	store.add("a", ip(1), nil)
	store.add("b", ip(2), nil)
	store.add("c", ip(3), nil)
	store.add("d", ip(4), nil)
	// a moved from 1 to 3
	store.rows["a"].order = ip(3)
	c := newCoordinator(store)

	outcome, err := c.HandleItemChange(context.Background(),
		updateOf("a", ItemSnapshot{Order: ip(1)}, ItemSnapshot{Order: ip(3)}))

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, 1, *store.order("b"))
	assert.Equal(t, 2, *store.order("c"))
	assert.Equal(t, 3, *store.order("a"))
	assert.Equal(t, 4, *store.order("d"))
}

func TestHandleItemChange_RemovedFromScheduleRecomputes(t *testing.T) {
	store := newMemStore(sp("13:00"))
	store.add("a", ip(1), ip(60))
	store.add("b", nil, ip(30))
	store.add("c", ip(3), ip(30))
	store.rows["b"].start, store.rows["b"].end = sp("14:00"), sp("14:30")
	c := newCoordinator(store)

	outcome, err := c.HandleItemChange(context.Background(),
		updateOf("b", ItemSnapshot{Order: ip(2), DurationMin: ip(30)}, ItemSnapshot{DurationMin: ip(30)}))

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Nil(t, store.rows["b"].start, "unscheduled item loses its times")
	assert.Equal(t, "14:00", *store.rows["c"].start)
	assert.Nil(t, store.order("b"))
}

func TestHandleItemChange_RemovedWithoutDurationIsNoop(t *testing.T) {
	store := newMemStore(sp("13:00"))
	store.add("a", nil, nil)
	c := newCoordinator(store)

	outcome, err := c.HandleItemChange(context.Background(),
		updateOf("a", ItemSnapshot{Order: ip(1)}, ItemSnapshot{}))

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)
	assert.Zero(t, store.saves)
}

func TestHandleItemChange_DurationChangeRecomputes(t *testing.T) {
	store := newMemStore(sp("9:00 AM"))
	store.add("a", ip(1), ip(45))
	store.add("b", ip(2), ip(15))
	c := newCoordinator(store)

	outcome, err := c.HandleItemChange(context.Background(),
		updateOf("a", ItemSnapshot{Order: ip(1), DurationMin: ip(30)}, ItemSnapshot{Order: ip(1), DurationMin: ip(45)}))

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, "9:45", *store.rows["b"].start)
	assert.Equal(t, "10:00", *store.rows["b"].end)
}

func TestHandleItemChange_DurationClearedInvalidatesForward(t *testing.T) {
	store := newMemStore(sp("9:00 AM"))
	store.add("a", ip(1), nil)
	store.add("b", ip(2), ip(15))
	store.rows["a"].start, store.rows["a"].end = sp("9:00"), sp("9:30")
	store.rows["b"].start, store.rows["b"].end = sp("9:30"), sp("9:45")
	c := newCoordinator(store)

	_, err := c.HandleItemChange(context.Background(),
		updateOf("a", ItemSnapshot{Order: ip(1), DurationMin: ip(30)}, ItemSnapshot{Order: ip(1)}))

	require.NoError(t, err)
	assert.Nil(t, store.rows["a"].start)
	assert.Nil(t, store.rows["b"].start)
	assert.Nil(t, store.rows["b"].end)
}

func TestHandleItemChange_DurationChangeWithoutMeetingTime(t *testing.T) {
	store := newMemStore(nil)
	store.add("a", ip(1), ip(45))
	c := newCoordinator(store)

	outcome, err := c.HandleItemChange(context.Background(),
		updateOf("a", ItemSnapshot{Order: ip(1), DurationMin: ip(30)}, ItemSnapshot{Order: ip(1), DurationMin: ip(45)}))

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)
	assert.Zero(t, store.saves)
}

func TestHandleItemChange_InsertWithoutMeetingTimeStillSavesOrders(t *testing.T) {
	store := newMemStore(nil)
	store.add("a", ip(1), ip(10))
	store.add("new", ip(1), ip(10))
	c := newCoordinator(store)

	outcome, err := c.HandleItemChange(context.Background(), insertOf("new", ip(1), ip(10)))

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, 2, *store.order("a"))
	assert.Nil(t, store.rows["a"].start)
}

func TestHandleItemChange_TopicOnlyUpdateIsNoop(t *testing.T) {
	store := newMemStore(sp("9:00 AM"))
	store.add("a", ip(1), ip(10))
	c := newCoordinator(store)

	outcome, err := c.HandleItemChange(context.Background(),
		updateOf("a", ItemSnapshot{Order: ip(1), DurationMin: ip(10)}, ItemSnapshot{Order: ip(1), DurationMin: ip(10)}))

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)
}

func TestHandleItemChange_DeleteOfUnscheduledTimedItem(t *testing.T) {
	store := newMemStore(sp("9:00 AM"))
	store.add("a", ip(1), ip(10))
	c := newCoordinator(store)

	outcome, err := c.HandleItemChange(context.Background(), Notification{
		Event: EventDelete,
		Records: []ItemChange{{
			AgendaID: "agenda-1", ItemID: "gone",
			Old: &ItemSnapshot{DurationMin: ip(20)},
		}},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, "9:00", *store.rows["a"].start)
}

func TestHandleItemChange_BatchIgnoredButClaimsFlag(t *testing.T) {
	store := newMemStore(sp("9:00 AM"))
	store.add("a", ip(1), ip(10))
	store.add("b", ip(1), ip(10))
	c := newCoordinator(store)

	batch := Notification{Event: EventInsert, Records: []ItemChange{
		insertOf("a", ip(1), ip(10)).Records[0],
		insertOf("b", ip(1), ip(10)).Records[0],
	}}
	outcome, err := c.HandleItemChange(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnoredBatch, outcome)

	outcome, err = c.HandleItemChange(context.Background(), insertOf("b", ip(1), ip(10)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuppressed, outcome)
	assert.Zero(t, store.saves)
}

func TestHandleItemChange_SuppressedByCaller(t *testing.T) {
	store := newMemStore(sp("9:00 AM"))
	store.add("a", ip(1), ip(10))
	scope := txscope.New()
	c := NewCoordinator(scope, store, store, nil)
	Suppress(scope)

	outcome, err := c.HandleItemChange(context.Background(), insertOf("a", ip(1), ip(10)))

	require.NoError(t, err)
	assert.Equal(t, OutcomeSuppressed, outcome)
}

func TestHandleItemChange_ExplicitFalseFlagStillSuppresses(t *testing.T) {
	store := newMemStore(nil)
	scope := txscope.New()
	scope.Set(ReentrancyKey, false)
	c := NewCoordinator(scope, store, store, nil)

	outcome, err := c.HandleItemChange(context.Background(), insertOf("a", ip(1), nil))

	require.NoError(t, err)
	assert.Equal(t, OutcomeSuppressed, outcome)
}

func TestHandleItemChange_MalformedMeetingTimeFails(t *testing.T) {
	store := newMemStore(sp("soon"))
	store.add("a", ip(1), ip(10))
	store.add("new", ip(1), ip(10))
	c := newCoordinator(store)

	_, err := c.HandleItemChange(context.Background(), insertOf("new", ip(1), ip(10)))

	require.Error(t, err)
	var fe *meetingtime.FormatError
	assert.True(t, errors.As(err, &fe))
	assert.Zero(t, store.saves, "nothing is written when the recompute fails")
}

func TestHandleItemChange_PersistenceErrorSurfaces(t *testing.T) {
	store := newMemStore(nil)
	store.add("a", ip(1), nil)
	store.add("new", ip(1), nil)
	store.saveErr = errors.New("constraint failed")
	c := newCoordinator(store)

	_, err := c.HandleItemChange(context.Background(), insertOf("new", ip(1), nil))

	var pe *domain.PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Error(), "constraint failed")
}

func TestHandleAgendaChange_MeetingTimeSet(t *testing.T) {
	store := newMemStore(nil)
	store.add("a", ip(1), ip(20))
	store.add("b", ip(2), ip(20))
	c := newCoordinator(store)

	outcome, err := c.HandleAgendaChange(context.Background(), AgendaNotification{
		Records: []AgendaChange{{AgendaID: "agenda-1", NewMeetingTime: sp("2:00 PM")}},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, "2:00", *store.rows["a"].start)
	assert.Equal(t, "2:20", *store.rows["b"].start)
	for _, o := range store.nested {
		assert.Equal(t, OutcomeSuppressed, o)
	}
}

func TestHandleAgendaChange_MeetingTimeCleared(t *testing.T) {
	store := newMemStore(nil)
	store.add("a", ip(1), ip(20))
	store.rows["a"].start, store.rows["a"].end = sp("2:00"), sp("2:20")
	c := newCoordinator(store)

	outcome, err := c.HandleAgendaChange(context.Background(), AgendaNotification{
		Records: []AgendaChange{{AgendaID: "agenda-1", OldMeetingTime: sp("2:00 PM")}},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Nil(t, store.rows["a"].start)
	assert.Nil(t, store.rows["a"].end)
}

func TestHandleAgendaChange_UnchangedIsNoop(t *testing.T) {
	store := newMemStore(sp("9:00 AM"))
	c := newCoordinator(store)

	outcome, err := c.HandleAgendaChange(context.Background(), AgendaNotification{
		Records: []AgendaChange{{AgendaID: "agenda-1", OldMeetingTime: sp("9:00 AM"), NewMeetingTime: sp("9:00 AM")}},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)
}

func TestHandleAgendaChange_RunsEvenWhenSuppressed(t *testing.T) {
	store := newMemStore(nil)
	store.add("a", ip(1), ip(20))
	scope := txscope.New()
	Suppress(scope)
	c := NewCoordinator(scope, store, store, nil)

	outcome, err := c.HandleAgendaChange(context.Background(), AgendaNotification{
		Records: []AgendaChange{{AgendaID: "agenda-1", NewMeetingTime: sp("08:00")}},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, "8:00", *store.rows["a"].start)
}

func TestHandleAgendaChange_BatchIgnored(t *testing.T) {
	store := newMemStore(nil)
	c := newCoordinator(store)

	outcome, err := c.HandleAgendaChange(context.Background(), AgendaNotification{
		Records: []AgendaChange{{AgendaID: "x"}, {AgendaID: "y"}},
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnoredBatch, outcome)
}
