package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/repository"
	"github.com/alexanderramin/reviewagenda/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveService_CreatesThenDefers(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	source, a, b, c := seedScheduled(t, env)
	dest := env.seedAgenda(t, "Afternoon board", testutil.WithMeetingTime("1:00 PM"))
	x := env.addItem(t, dest.ID, "X", 1, 20)

	moved, err := env.moveSvc.MoveItem(ctx, b.ID, dest.ID)
	require.NoError(t, err)

	// Destination: the copy is unscheduled and carries B's fields.
	assert.NotEqual(t, b.ID, moved.ID)
	assert.Equal(t, dest.ID, moved.AgendaID)
	assert.Equal(t, "B", moved.Topic)
	assert.Nil(t, moved.Order)
	assert.Equal(t, 15, *moved.DurationMin)
	requireTimes(t, env.item(t, x.ID), "1:00", "1:20")

	// Source: the original is gone and the gap is still there.
	_, err = env.items.GetByID(ctx, b.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, map[string]int{"A": 1, "C": 3}, env.itemOrders(t, source.ID))
	requireTimes(t, env.item(t, c.ID), "9:45", "9:55")

	pending := env.pendingJobs(t)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.TaskAgendaItemRecalc, pending[0].TaskName)
	assert.Equal(t, map[string]string{
		domain.ParamAgendaID:          source.ID,
		domain.ParamAgendaMeetingTime: "9:00 AM",
	}, pending[0].Params)
	assert.Zero(t, env.countRows(t, "move_requests"), "move request is removed")

	summary := env.runJobs(t)
	assert.Equal(t, 1, summary.Succeeded)

	assert.Equal(t, map[string]int{"A": 1, "C": 2}, env.itemOrders(t, source.ID))
	requireTimes(t, env.item(t, a.ID), "9:00", "9:30")
	requireTimes(t, env.item(t, c.ID), "9:30", "9:40")
}

func TestMoveService_SourceWithoutMeetingTime(t *testing.T) {
	env := setupEnv(t)
	source := env.seedAgenda(t, "No time yet")
	a := env.addItem(t, source.ID, "A", 1, 10)
	env.addItem(t, source.ID, "B", 2, 10)
	dest := env.seedAgenda(t, "Other")

	_, err := env.moveSvc.MoveItem(context.Background(), a.ID, dest.ID)
	require.NoError(t, err)

	pending := env.pendingJobs(t)
	require.Len(t, pending, 1)
	assert.Equal(t, map[string]string{domain.ParamAgendaID: source.ID}, pending[0].Params)

	env.runJobs(t)
	assert.Equal(t, map[string]int{"B": 1}, env.itemOrders(t, source.ID))
}

func TestMoveService_SameAgendaRejected(t *testing.T) {
	env := setupEnv(t)
	source, _, b, _ := seedScheduled(t, env)

	_, err := env.moveSvc.MoveItem(context.Background(), b.ID, source.ID)
	require.ErrorIs(t, err, domain.ErrInvalidOperation)

	assert.Equal(t, source.ID, env.item(t, b.ID).AgendaID)
	assert.Empty(t, env.pendingJobs(t))
	assert.Zero(t, env.countRows(t, "move_requests"))
}

func TestMoveService_Validation(t *testing.T) {
	env := setupEnv(t)
	_, err := env.moveSvc.MoveItem(context.Background(), "", "dest")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMoveService_UnknownDestination(t *testing.T) {
	env := setupEnv(t)
	_, _, b, _ := seedScheduled(t, env)

	_, err := env.moveSvc.MoveItem(context.Background(), b.ID, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, env.pendingJobs(t))
}

func TestMoveService_RelinksDocument(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	source := env.seedAgenda(t, "Source")
	dest := env.seedAgenda(t, "Dest")

	doc := testutil.NewTestDocument("DOC-9", "frank")
	require.NoError(t, env.docSvc.Create(ctx, doc))
	item, err := env.itemSvc.Create(ctx, CreateItemInput{AgendaID: source.ID, DocumentID: &doc.ID})
	require.NoError(t, err)

	moved, err := env.moveSvc.MoveItem(ctx, item.ID, dest.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, *moved.DocumentID)
	assert.Equal(t, "DOC-9", moved.Topic)

	linked, err := env.docSvc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{dest.ID}, linked.AgendaIDs)
}

func TestMoveService_FailureRollsBackEverything(t *testing.T) {
	database := testutil.NewTestDB(t)
	env := newTestEnv(database, testutil.NewTestUoW(database))
	source := env.seedAgenda(t, "Source")
	a := env.addItem(t, source.ID, "A", 1, 10)
	dest := env.seedAgenda(t, "Dest")

	// Writes in order: move request, copy, delete of the original, job.
	errBoom := errors.New("disk full")
	failing := newTestEnv(database, &testutil.FailOnNthExecUoW{DB: database, FailOn: 4, Err: errBoom})

	_, err := failing.moveSvc.MoveItem(context.Background(), a.ID, dest.ID)
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, source.ID, env.item(t, a.ID).AgendaID)
	assert.Empty(t, env.itemOrders(t, dest.ID))
	assert.Empty(t, env.pendingJobs(t))
	assert.Zero(t, env.countRows(t, "move_requests"))
}
