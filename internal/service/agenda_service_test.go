package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/meetingtime"
	"github.com/alexanderramin/reviewagenda/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgendaService_Create(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	blank := "  "
	a := &domain.Agenda{Name: "Safety Review Board", MeetingTime: &blank}
	require.NoError(t, env.agendaSvc.Create(ctx, a))

	assert.NotEmpty(t, a.ID, "UUID should be generated")
	assert.Equal(t, domain.AgendaActive, a.Status, "status should default to active")
	assert.Nil(t, a.MeetingTime, "blank meeting time is stored as null")

	fetched, err := env.agendaSvc.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Safety Review Board", fetched.Name)
}

func TestAgendaService_Create_Rejects(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		agenda *domain.Agenda
	}{
		{"missing name", &domain.Agenda{}},
		{"bad meeting time", &domain.Agenda{Name: "x", MeetingTime: domain.StringPtr("noon")}},
		{"hour out of range", &domain.Agenda{Name: "x", MeetingTime: domain.StringPtr("24:00")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := env.agendaSvc.Create(ctx, tc.agenda)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestAgendaService_SetMeetingTime_RecomputesItems(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	agenda := env.seedAgenda(t, "CMC review")
	a := env.addItem(t, agenda.ID, "A", 1, 30)
	b := env.addItem(t, agenda.ID, "B", 2, 15)
	requireNoTimes(t, env.item(t, a.ID))

	updated, err := env.agendaSvc.SetMeetingTime(ctx, agenda.ID, domain.StringPtr("13:30"))
	require.NoError(t, err)
	require.NotNil(t, updated.MeetingTime)
	assert.Equal(t, "13:30", *updated.MeetingTime)

	requireTimes(t, env.item(t, a.ID), "13:30", "14:00")
	requireTimes(t, env.item(t, b.ID), "14:00", "14:15")

	_, err = env.agendaSvc.SetMeetingTime(ctx, agenda.ID, nil)
	require.NoError(t, err)
	requireNoTimes(t, env.item(t, a.ID))
	requireNoTimes(t, env.item(t, b.ID))
}

func TestAgendaService_SetMeetingTime_TwelveHourOutputHasNoSuffix(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	agenda := env.seedAgenda(t, "Labeling")
	a := env.addItem(t, agenda.ID, "A", 1, 45)

	_, err := env.agendaSvc.SetMeetingTime(ctx, agenda.ID, domain.StringPtr("12:30 PM ET"))
	require.NoError(t, err)
	requireTimes(t, env.item(t, a.ID), "12:30", "1:15")
}

func TestAgendaService_SetMeetingTime_ZoneLabelWithAMPM(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	agenda := env.seedAgenda(t, "Labeling")
	a := env.addItem(t, agenda.ID, "A", 1, 30)

	_, err := env.agendaSvc.SetMeetingTime(ctx, agenda.ID, domain.StringPtr("14:00 AMT"))
	require.NoError(t, err)
	requireTimes(t, env.item(t, a.ID), "2:00", "2:30")

	_, err = env.agendaSvc.SetMeetingTime(ctx, agenda.ID, domain.StringPtr("10:30 PMDT"))
	require.NoError(t, err)
	requireTimes(t, env.item(t, a.ID), "10:30", "11:00")
}

func TestAgendaService_SetMeetingTime_InvalidRejected(t *testing.T) {
	env := setupEnv(t)
	agenda := env.seedAgenda(t, "Board", testutil.WithMeetingTime("9:00 AM"))

	_, err := env.agendaSvc.SetMeetingTime(context.Background(), agenda.ID, domain.StringPtr("25:00"))
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := env.agendas.GetByID(context.Background(), agenda.ID)
	require.NoError(t, err)
	assert.Equal(t, "9:00 AM", *got.MeetingTime)
}

func TestAgendaService_SetMeetingTime_UnparsableRollsBack(t *testing.T) {
	env := setupEnv(t)
	agenda := env.seedAgenda(t, "Board", testutil.WithMeetingTime("9:00 AM"))
	a := env.addItem(t, agenda.ID, "A", 1, 30)

	// Passes the field rule but the minutes run into the marker.
	_, err := env.agendaSvc.SetMeetingTime(context.Background(), agenda.ID, domain.StringPtr("10:00PM"))
	require.Error(t, err)
	var formatErr *meetingtime.FormatError
	assert.True(t, errors.As(err, &formatErr), "want FormatError, got %v", err)

	got, err := env.agendas.GetByID(context.Background(), agenda.ID)
	require.NoError(t, err)
	assert.Equal(t, "9:00 AM", *got.MeetingTime, "meeting time change rolled back")
	requireTimes(t, env.item(t, a.ID), "9:00", "9:30")
}

func TestAgendaService_SetMeetingTime_UnknownAgenda(t *testing.T) {
	env := setupEnv(t)
	_, err := env.agendaSvc.SetMeetingTime(context.Background(), "missing", domain.StringPtr("9:00 AM"))
	assert.Error(t, err)
}

func TestAgendaService_CompressOrdering(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	agenda := env.seedAgenda(t, "Gaps", testutil.WithMeetingTime("9:00 AM"))
	env.seedItem(t, agenda.ID, "A", testutil.WithOrder(2), testutil.WithDuration(10))
	env.seedItem(t, agenda.ID, "B", testutil.WithOrder(5), testutil.WithDuration(10))
	env.seedItem(t, agenda.ID, "C", testutil.WithOrder(9), testutil.WithDuration(10))
	loose := env.seedItem(t, agenda.ID, "D", testutil.WithDuration(10))

	appliedBefore := triggerCount(t, "item", "applied")

	changed, err := env.agendaSvc.CompressOrdering(ctx, agenda.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, changed)
	assert.Equal(t, map[string]int{"A": 1, "B": 2, "C": 3, "D": 0}, env.itemOrders(t, agenda.ID))
	assert.Nil(t, env.item(t, loose.ID).Order)
	assert.Equal(t, appliedBefore, triggerCount(t, "item", "applied"), "compress does not trigger reordering")

	again, err := env.agendaSvc.CompressOrdering(ctx, agenda.ID)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestAgendaService_CompressOrdering_UnknownAgenda(t *testing.T) {
	env := setupEnv(t)
	_, err := env.agendaSvc.CompressOrdering(context.Background(), "missing")
	assert.Error(t, err)
}

func TestAgendaService_ListFiltersInactive(t *testing.T) {
	env := setupEnv(t)
	env.seedAgenda(t, "Open")
	env.seedAgenda(t, "Closed", testutil.WithAgendaStatus(domain.AgendaInactive))

	active, err := env.agendaSvc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := env.agendaSvc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAgendaService_ScheduleDeactivation(t *testing.T) {
	env := setupEnv(t)

	id, err := env.agendaSvc.ScheduleDeactivation(context.Background())
	require.NoError(t, err)

	pending := env.pendingJobs(t)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)
	assert.Equal(t, domain.TaskAgendaDeactivation, pending[0].TaskName)
}
