// Package trigger reacts to agenda and agenda item writes by keeping the item
// sequence ordered and its start/end times current.
//
// Every write made while handling a notification re-enters the coordinator
// through the host. A per-transaction flag makes sure only the first
// notification of a transaction is acted on.
package trigger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/scheduler"
)

// ReentrancyKey is the flag that marks a transaction as already handled.
const ReentrancyKey = "semaphore"

// FlagStore holds flags for the lifetime of one transaction.
type FlagStore interface {
	Get(key string) (value bool, ok bool)
	Set(key string, value bool)
}

// AgendaReader looks up the meeting time of an agenda.
type AgendaReader interface {
	GetMeetingTime(ctx context.Context, agendaID string) (*string, error)
}

// Suppress marks the transaction as handled, so item notifications raised by
// the caller's own writes are ignored.
func Suppress(flags FlagStore) {
	flags.Set(ReentrancyKey, true)
}

// IsSuppressed reports whether the reentrancy flag has been set at all.
func IsSuppressed(flags FlagStore) bool {
	_, ok := flags.Get(ReentrancyKey)
	return ok
}

type Coordinator struct {
	flags   FlagStore
	items   scheduler.ItemStore
	agendas AgendaReader
	logger  *slog.Logger
}

// NewCoordinator wires a coordinator to one transaction's flag store and
// data access. A nil logger discards output.
func NewCoordinator(flags FlagStore, items scheduler.ItemStore, agendas AgendaReader, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{flags: flags, items: items, agendas: agendas, logger: logger}
}

// HandleItemChange applies the ordering and timing consequences of a single
// agenda item write. The flag is claimed before the batch check, so a batch
// notification also silences the rest of its transaction.
func (c *Coordinator) HandleItemChange(ctx context.Context, n Notification) (Outcome, error) {
	if IsSuppressed(c.flags) {
		return c.finish(ctx, handlerItem, OutcomeSuppressed, "", nil)
	}
	Suppress(c.flags)

	if len(n.Records) != 1 {
		return c.finish(ctx, handlerItem, OutcomeIgnoredBatch, "", nil)
	}

	change := n.Records[0]
	outcome, err := c.dispatch(ctx, change)
	return c.finish(ctx, handlerItem, outcome, change.AgendaID, err)
}

func (c *Coordinator) dispatch(ctx context.Context, change ItemChange) (Outcome, error) {
	oldOrder, newOrder := change.orders()
	oldDur, newDur := change.durations()

	switch {
	case oldOrder == nil && newOrder != nil:
		return c.reorder(ctx, change, (*scheduler.Sequence).ShiftDownAfter)

	case oldOrder != nil && newOrder != nil && *newOrder != *oldOrder:
		if *newOrder < *oldOrder {
			return c.reorder(ctx, change, (*scheduler.Sequence).ShiftDownAfter)
		}
		return c.reorder(ctx, change, (*scheduler.Sequence).ShiftUpBefore)

	case oldOrder != nil && newOrder == nil:
		if oldDur == nil {
			return OutcomeNoop, nil
		}
		return c.recompute(ctx, change.AgendaID)

	case !domain.IntPtrEqual(oldDur, newDur):
		// Order is unchanged here: both nil or equal.
		return c.recompute(ctx, change.AgendaID)
	}
	return OutcomeNoop, nil
}

func (c *Coordinator) reorder(ctx context.Context, change ItemChange, shift func(*scheduler.Sequence, string) error) (Outcome, error) {
	seq, err := scheduler.Load(ctx, c.items, change.AgendaID)
	if err != nil {
		return "", err
	}
	if err := shift(seq, change.ItemID); err != nil {
		return "", err
	}

	meetingTime, err := c.agendas.GetMeetingTime(ctx, change.AgendaID)
	if err != nil {
		return "", fmt.Errorf("reading meeting time of agenda %s: %w", change.AgendaID, err)
	}
	if meetingTime != nil {
		if err := seq.UpdateStartEndTimes(meetingTime); err != nil {
			return "", fmt.Errorf("recomputing times for agenda %s: %w", change.AgendaID, err)
		}
	}

	if err := seq.SaveChanged(ctx); err != nil {
		return "", err
	}
	return OutcomeApplied, nil
}

// recompute refreshes start/end times only. Without a meeting time there is
// nothing to compute and nothing is written.
func (c *Coordinator) recompute(ctx context.Context, agendaID string) (Outcome, error) {
	meetingTime, err := c.agendas.GetMeetingTime(ctx, agendaID)
	if err != nil {
		return "", fmt.Errorf("reading meeting time of agenda %s: %w", agendaID, err)
	}
	if meetingTime == nil {
		return OutcomeNoop, nil
	}

	seq, err := scheduler.Load(ctx, c.items, agendaID)
	if err != nil {
		return "", err
	}
	if err := seq.UpdateStartEndTimes(meetingTime); err != nil {
		return "", fmt.Errorf("recomputing times for agenda %s: %w", agendaID, err)
	}
	if err := seq.SaveChanged(ctx); err != nil {
		return "", err
	}
	return OutcomeApplied, nil
}

// HandleAgendaChange recomputes item times when an agenda's meeting time was
// set, cleared or changed. It runs regardless of the reentrancy flag but sets
// it, so the item writes it causes are not handled again.
func (c *Coordinator) HandleAgendaChange(ctx context.Context, n AgendaNotification) (Outcome, error) {
	if len(n.Records) != 1 {
		return c.finish(ctx, handlerAgenda, OutcomeIgnoredBatch, "", nil)
	}
	change := n.Records[0]
	if !domain.MeetingTimeChanged(change.OldMeetingTime, change.NewMeetingTime) {
		return c.finish(ctx, handlerAgenda, OutcomeNoop, change.AgendaID, nil)
	}
	Suppress(c.flags)

	outcome, err := c.retime(ctx, change.AgendaID, change.NewMeetingTime)
	return c.finish(ctx, handlerAgenda, outcome, change.AgendaID, err)
}

func (c *Coordinator) retime(ctx context.Context, agendaID string, meetingTime *string) (Outcome, error) {
	seq, err := scheduler.Load(ctx, c.items, agendaID)
	if err != nil {
		return "", err
	}
	if err := seq.UpdateStartEndTimes(meetingTime); err != nil {
		return "", fmt.Errorf("recomputing times for agenda %s: %w", agendaID, err)
	}
	if err := seq.SaveChanged(ctx); err != nil {
		return "", err
	}
	return OutcomeApplied, nil
}

func (c *Coordinator) finish(ctx context.Context, handler string, outcome Outcome, agendaID string, err error) (Outcome, error) {
	if err != nil {
		outcomesTotal.WithLabelValues(handler, "failed").Inc()
		c.logger.ErrorContext(ctx, "trigger_failed", "handler", handler, "agenda_id", agendaID, "error", err.Error())
		return "", err
	}
	outcomesTotal.WithLabelValues(handler, string(outcome)).Inc()
	c.logger.DebugContext(ctx, "trigger_outcome", "handler", handler, "outcome", string(outcome), "agenda_id", agendaID)
	return outcome, nil
}
