package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/reviewagenda/internal/db"
	"github.com/alexanderramin/reviewagenda/internal/domain"
)

// SQLiteDocumentRepo implements DocumentRepo using a SQLite database.
type SQLiteDocumentRepo struct {
	db db.DBTX
}

// NewSQLiteDocumentRepo creates a new SQLiteDocumentRepo.
func NewSQLiteDocumentRepo(conn db.DBTX) *SQLiteDocumentRepo {
	return &SQLiteDocumentRepo{db: conn}
}

// Create inserts the document and its agenda links and sets d.ID.
func (r *SQLiteDocumentRepo) Create(ctx context.Context, d *domain.Document) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (number, owner, project_manager, created_at) VALUES (?, ?, ?, ?)`,
		d.Number, d.Owner, nullableStringToValue(d.ProjectManager), nowUTC())
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading document id: %w", err)
	}
	d.ID = id

	for _, agendaID := range d.AgendaIDs {
		if err := r.LinkAgenda(ctx, id, agendaID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteDocumentRepo) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	var d domain.Document
	var pm sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, number, owner, project_manager FROM documents WHERE id = ?`, id).
		Scan(&d.ID, &d.Number, &d.Owner, &pm)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	d.ProjectManager = nullStringPtr(pm)

	agendaIDs, err := r.listAgendaIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	d.AgendaIDs = agendaIDs
	return &d, nil
}

// LinkAgenda records that the document is scheduled on agendaID. Linking twice
// is harmless.
func (r *SQLiteDocumentRepo) LinkAgenda(ctx context.Context, documentID int64, agendaID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO document_agendas (document_id, agenda_id) VALUES (?, ?)`,
		documentID, agendaID)
	if err != nil {
		return fmt.Errorf("linking document %d to agenda %s: %w", documentID, agendaID, err)
	}
	return nil
}

// SetAgendas replaces the stored agenda links with d.AgendaIDs.
func (r *SQLiteDocumentRepo) SetAgendas(ctx context.Context, d *domain.Document) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM document_agendas WHERE document_id = ?`, d.ID); err != nil {
		return fmt.Errorf("clearing agenda links of document %d: %w", d.ID, err)
	}
	for _, agendaID := range d.AgendaIDs {
		if err := r.LinkAgenda(ctx, d.ID, agendaID); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteDocumentRepo) listAgendaIDs(ctx context.Context, documentID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT agenda_id FROM document_agendas WHERE document_id = ? ORDER BY agenda_id`, documentID)
	if err != nil {
		return nil, fmt.Errorf("listing agenda links: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning agenda link: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating agenda links: %w", err)
	}
	return ids, nil
}
