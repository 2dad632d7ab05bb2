package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
	"github.com/alexanderramin/reviewagenda/internal/jobs"
	"github.com/alexanderramin/reviewagenda/internal/repository"
	"github.com/alexanderramin/reviewagenda/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db      *sql.DB
	uow     db.UnitOfWork
	agendas repository.AgendaRepo
	items   repository.AgendaItemRepo
	docs    repository.DocumentRepo
	jobs    repository.JobRepo

	agendaSvc AgendaService
	itemSvc   ItemService
	docSvc    DocumentService
	moveSvc   MoveService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	return newTestEnv(database, uow)
}

func newTestEnv(database *sql.DB, uow db.UnitOfWork) *testEnv {
	env := &testEnv{
		db:      database,
		uow:     uow,
		agendas: repository.NewSQLiteAgendaRepo(database),
		items:   repository.NewSQLiteAgendaItemRepo(database),
		docs:    repository.NewSQLiteDocumentRepo(database),
		jobs:    repository.NewSQLiteJobRepo(database),
	}
	env.agendaSvc = NewAgendaService(env.agendas, uow, nil)
	env.itemSvc = NewItemService(env.items, uow, nil)
	env.docSvc = NewDocumentService(env.docs)
	env.moveSvc = NewMoveService(uow, nil)
	return env
}

func (e *testEnv) seedAgenda(t *testing.T, name string, opts ...testutil.AgendaOption) *domain.Agenda {
	t.Helper()
	a := testutil.NewTestAgenda(name, opts...)
	require.NoError(t, e.agendas.Create(context.Background(), a))
	return a
}

// seedItem writes a row directly, bypassing change handling.
func (e *testEnv) seedItem(t *testing.T, agendaID, topic string, opts ...testutil.ItemOption) *domain.AgendaItem {
	t.Helper()
	item := testutil.NewTestItem(agendaID, topic, opts...)
	require.NoError(t, e.items.Create(context.Background(), item))
	return item
}

// addItem creates an item through the service, so ordering and times are
// maintained.
func (e *testEnv) addItem(t *testing.T, agendaID, topic string, order, duration int) *domain.AgendaItem {
	t.Helper()
	item, err := e.itemSvc.Create(context.Background(), CreateItemInput{
		AgendaID:    agendaID,
		Topic:       topic,
		Order:       domain.IntPtr(order),
		DurationMin: domain.IntPtr(duration),
	})
	require.NoError(t, err)
	return item
}

func (e *testEnv) item(t *testing.T, id string) *domain.AgendaItem {
	t.Helper()
	item, err := e.items.GetByID(context.Background(), id)
	require.NoError(t, err)
	return item
}

func (e *testEnv) pendingJobs(t *testing.T) []*domain.Job {
	t.Helper()
	pending, err := e.jobs.ListPending(context.Background(), 100)
	require.NoError(t, err)
	return pending
}

func (e *testEnv) runJobs(t *testing.T) jobs.Summary {
	t.Helper()
	reg := jobs.NewRegistry()
	RegisterJobHandlers(reg, nil)
	summary, err := jobs.NewRunner(e.uow, reg, 2, nil).RunPending(context.Background())
	require.NoError(t, err)
	return summary
}

func (e *testEnv) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// itemOrders maps topic to order for every item of the agenda; unscheduled
// items map to 0.
func (e *testEnv) itemOrders(t *testing.T, agendaID string) map[string]int {
	t.Helper()
	items, err := e.items.ListByAgenda(context.Background(), agendaID)
	require.NoError(t, err)
	out := make(map[string]int, len(items))
	for _, it := range items {
		out[it.Topic] = domain.IntFromPtrWithDefault(0, it.Order)
	}
	return out
}

func requireTimes(t *testing.T, item *domain.AgendaItem, start, end string) {
	t.Helper()
	require.NotNil(t, item.StartTime, "%s start time", item.Topic)
	require.NotNil(t, item.EndTime, "%s end time", item.Topic)
	require.Equal(t, start, *item.StartTime, "%s start time", item.Topic)
	require.Equal(t, end, *item.EndTime, "%s end time", item.Topic)
}

func requireNoTimes(t *testing.T, item *domain.AgendaItem) {
	t.Helper()
	require.Nil(t, item.StartTime, "%s start time", item.Topic)
	require.Nil(t, item.EndTime, "%s end time", item.Topic)
}

// triggerCount reads the coordinator's outcome counter from the default
// registry.
func triggerCount(t *testing.T, handler, outcome string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "reviewagenda_trigger_outcomes_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["handler"] == handler && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
