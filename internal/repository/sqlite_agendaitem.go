package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
)

// SQLiteAgendaItemRepo implements AgendaItemRepo using a SQLite database.
type SQLiteAgendaItemRepo struct {
	db db.DBTX
}

// NewSQLiteAgendaItemRepo creates a new SQLiteAgendaItemRepo.
func NewSQLiteAgendaItemRepo(conn db.DBTX) *SQLiteAgendaItemRepo {
	return &SQLiteAgendaItemRepo{db: conn}
}

const agendaItemColumns = `id, agenda_id, topic, document_id, order_index, duration_min,
	start_time, end_time, project_owner, document_owner, created_at, updated_at`

func (r *SQLiteAgendaItemRepo) Create(ctx context.Context, item *domain.AgendaItem) error {
	query := `INSERT INTO agenda_items (` + agendaItemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.AgendaID,
		item.Topic,
		nullableInt64ToValue(item.DocumentID),
		nullableIntToValue(item.Order),
		nullableIntToValue(item.DurationMin),
		nullableStringToValue(item.StartTime),
		nullableStringToValue(item.EndTime),
		nullableStringToValue(item.ProjectOwner),
		nullableStringToValue(item.DocumentOwner),
		item.CreatedAt.UTC().Format(time.RFC3339),
		item.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting agenda item: %w", err)
	}
	return nil
}

func (r *SQLiteAgendaItemRepo) GetByID(ctx context.Context, id string) (*domain.AgendaItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+agendaItemColumns+` FROM agenda_items WHERE id = ?`, id)
	item, err := scanAgendaItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agenda item %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (r *SQLiteAgendaItemRepo) ListByAgenda(ctx context.Context, agendaID string) ([]*domain.AgendaItem, error) {
	query := `SELECT ` + agendaItemColumns + ` FROM agenda_items WHERE agenda_id = ?
		ORDER BY order_index IS NULL, order_index, created_at, id`
	rows, err := r.db.QueryContext(ctx, query, agendaID)
	if err != nil {
		return nil, fmt.Errorf("listing agenda items: %w", err)
	}
	defer rows.Close()

	var items []*domain.AgendaItem
	for rows.Next() {
		item, err := scanAgendaItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating agenda items: %w", err)
	}
	return items, nil
}

func (r *SQLiteAgendaItemRepo) Update(ctx context.Context, item *domain.AgendaItem) error {
	query := `UPDATE agenda_items SET topic = ?, document_id = ?, order_index = ?, duration_min = ?,
		start_time = ?, end_time = ?, project_owner = ?, document_owner = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		item.Topic,
		nullableInt64ToValue(item.DocumentID),
		nullableIntToValue(item.Order),
		nullableIntToValue(item.DurationMin),
		nullableStringToValue(item.StartTime),
		nullableStringToValue(item.EndTime),
		nullableStringToValue(item.ProjectOwner),
		nullableStringToValue(item.DocumentOwner),
		item.UpdatedAt.UTC().Format(time.RFC3339),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating agenda item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("agenda item %s: %w", item.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteAgendaItemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM agenda_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting agenda item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("agenda item %s: %w", id, ErrNotFound)
	}
	return nil
}

// SaveSchedule writes the updates one row at a time. Callers run it inside a
// transaction; on error the batch is reported as a whole and the caller rolls
// back.
func (r *SQLiteAgendaItemRepo) SaveSchedule(ctx context.Context, updates []ScheduleUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	now := nowUTC()
	query := `UPDATE agenda_items SET order_index = ?, start_time = ?, end_time = ?, updated_at = ? WHERE id = ?`
	for _, u := range updates {
		res, err := r.db.ExecContext(ctx, query,
			nullableIntToValue(u.Order),
			nullableStringToValue(u.StartTime),
			nullableStringToValue(u.EndTime),
			now,
			u.ItemID,
		)
		if err != nil {
			return &domain.PersistenceError{Op: fmt.Sprintf("schedule of %d agenda items", len(updates)), Err: err}
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return &domain.PersistenceError{
				Op:  fmt.Sprintf("schedule of %d agenda items", len(updates)),
				Err: fmt.Errorf("agenda item %s: %w", u.ItemID, ErrNotFound),
			}
		}
	}
	return nil
}

func scanAgendaItem(s scanner) (*domain.AgendaItem, error) {
	var item domain.AgendaItem
	var documentID, order, duration sql.NullInt64
	var start, end, projectOwner, documentOwner sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(
		&item.ID, &item.AgendaID, &item.Topic, &documentID, &order, &duration,
		&start, &end, &projectOwner, &documentOwner, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning agenda item: %w", err)
	}

	item.DocumentID = nullInt64Ptr(documentID)
	item.Order = nullIntPtr(order)
	item.DurationMin = nullIntPtr(duration)
	item.StartTime = nullStringPtr(start)
	item.EndTime = nullStringPtr(end)
	item.ProjectOwner = nullStringPtr(projectOwner)
	item.DocumentOwner = nullStringPtr(documentOwner)

	var perr error
	if item.CreatedAt, perr = time.Parse(time.RFC3339, createdAt); perr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", perr)
	}
	if item.UpdatedAt, perr = time.Parse(time.RFC3339, updatedAt); perr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", perr)
	}
	return &item, nil
}
