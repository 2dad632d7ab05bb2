package trigger

// Event names the kind of write that produced a notification.
type Event string

const (
	EventInsert Event = "insert"
	EventUpdate Event = "update"
	EventDelete Event = "delete"
)

// ItemSnapshot is the part of an agenda item the coordinator reacts to.
type ItemSnapshot struct {
	Order       *int
	DurationMin *int
}

// ItemChange is one record of a notification. Old is nil for inserts and New
// is nil for deletes.
type ItemChange struct {
	AgendaID string
	ItemID   string
	Old      *ItemSnapshot
	New      *ItemSnapshot
}

// Notification is what the host emits after a write to agenda items.
type Notification struct {
	Event   Event
	Records []ItemChange
}

// AgendaChange carries the meeting time before and after an agenda update.
type AgendaChange struct {
	AgendaID       string
	OldMeetingTime *string
	NewMeetingTime *string
}

type AgendaNotification struct {
	Records []AgendaChange
}

// Outcome reports what a handler did with a notification.
type Outcome string

const (
	OutcomeSuppressed   Outcome = "suppressed"
	OutcomeIgnoredBatch Outcome = "ignored_batch"
	OutcomeNoop         Outcome = "noop"
	OutcomeApplied      Outcome = "applied"
)

func (c ItemChange) orders() (old, updated *int) {
	if c.Old != nil {
		old = c.Old.Order
	}
	if c.New != nil {
		updated = c.New.Order
	}
	return old, updated
}

func (c ItemChange) durations() (old, updated *int) {
	if c.Old != nil {
		old = c.Old.DurationMin
	}
	if c.New != nil {
		updated = c.New.DurationMin
	}
	return old, updated
}
