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

type SQLiteMoveRequestRepo struct {
	db db.DBTX
}

func NewSQLiteMoveRequestRepo(conn db.DBTX) *SQLiteMoveRequestRepo {
	return &SQLiteMoveRequestRepo{db: conn}
}

func (r *SQLiteMoveRequestRepo) Create(ctx context.Context, m *domain.MoveRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO move_requests (id, item_id, to_agenda_id, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.ItemID, m.ToAgendaID, m.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting move request: %w", err)
	}
	return nil
}

func (r *SQLiteMoveRequestRepo) GetByID(ctx context.Context, id string) (*domain.MoveRequest, error) {
	var m domain.MoveRequest
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, item_id, to_agenda_id, created_at FROM move_requests WHERE id = ?`, id).
		Scan(&m.ID, &m.ItemID, &m.ToAgendaID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("move request %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning move request: %w", err)
	}
	if m.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &m, nil
}

func (r *SQLiteMoveRequestRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM move_requests WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting move request: %w", err)
	}
	return nil
}
