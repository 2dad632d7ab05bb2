package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/jobs"
	"github.com/alexanderramin/reviewagenda/internal/repository"
	"github.com/alexanderramin/reviewagenda/internal/scheduler"
	"github.com/alexanderramin/reviewagenda/internal/trigger"
	"github.com/alexanderramin/reviewagenda/internal/txscope"
)

// RegisterJobHandlers binds every background task this package schedules.
func RegisterJobHandlers(reg *jobs.Registry, logger *slog.Logger) {
	logger = loggerOrDiscard(logger)
	reg.Register(domain.TaskAgendaItemRecalc, recalcHandler(logger))
	reg.Register(domain.TaskAgendaDeactivation, deactivationHandler(logger, time.Now))
}

// recalcHandler renumbers an agenda's items and recomputes their times with
// the meeting time captured when the job was scheduled.
func recalcHandler(logger *slog.Logger) jobs.Handler {
	return func(ctx context.Context, tx db.DBTX, scope *txscope.Scope, job *domain.Job) error {
		agendaID := job.Params[domain.ParamAgendaID]
		if agendaID == "" {
			return fmt.Errorf("%w: job %s has no %s", domain.ErrValidation, job.ID, domain.ParamAgendaID)
		}
		var meetingTime *string
		if v, ok := job.Params[domain.ParamAgendaMeetingTime]; ok {
			meetingTime = domain.BlankToNil(&v)
		}

		h := newTxHost(tx, scope, logger)
		trigger.Suppress(h.scope)

		seq, err := scheduler.Load(ctx, h.store, agendaID)
		if err != nil {
			return err
		}
		seq.Compress()
		if err := seq.UpdateStartEndTimes(meetingTime); err != nil {
			return fmt.Errorf("recomputing times for agenda %s: %w", agendaID, err)
		}
		changed := len(seq.Changed())
		if err := seq.SaveChanged(ctx); err != nil {
			return err
		}
		logger.InfoContext(ctx, "agenda_recalculated", "agenda_id", agendaID, "changed", changed)
		return nil
	}
}

func deactivationHandler(logger *slog.Logger, now func() time.Time) jobs.Handler {
	return func(ctx context.Context, tx db.DBTX, _ *txscope.Scope, _ *domain.Job) error {
		n, err := repository.NewSQLiteAgendaRepo(tx).DeactivatePast(ctx, now().UTC())
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "past_agendas_deactivated", "count", n)
		return nil
	}
}
