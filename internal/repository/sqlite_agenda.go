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

// SQLiteAgendaRepo implements AgendaRepo using a SQLite database.
type SQLiteAgendaRepo struct {
	db db.DBTX
}

// NewSQLiteAgendaRepo creates a new SQLiteAgendaRepo.
func NewSQLiteAgendaRepo(conn db.DBTX) *SQLiteAgendaRepo {
	return &SQLiteAgendaRepo{db: conn}
}

const agendaColumns = `id, name, meeting_date, meeting_time, status, created_at, updated_at`

func (r *SQLiteAgendaRepo) Create(ctx context.Context, a *domain.Agenda) error {
	query := `INSERT INTO agendas (` + agendaColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Name,
		nullableTimeToString(a.MeetingDate, dateLayout),
		nullableStringToValue(domain.BlankToNil(a.MeetingTime)),
		string(a.Status),
		a.CreatedAt.UTC().Format(time.RFC3339),
		a.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting agenda: %w", err)
	}
	return nil
}

func (r *SQLiteAgendaRepo) GetByID(ctx context.Context, id string) (*domain.Agenda, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+agendaColumns+` FROM agendas WHERE id = ?`, id)
	a, err := scanAgenda(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agenda %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

// GetMeetingTime returns the agenda's meeting time, nil when none is set.
func (r *SQLiteAgendaRepo) GetMeetingTime(ctx context.Context, id string) (*string, error) {
	var mt sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT meeting_time FROM agendas WHERE id = ?`, id).Scan(&mt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("agenda %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("reading meeting time: %w", err)
	}
	return domain.BlankToNil(nullStringPtr(mt)), nil
}

func (r *SQLiteAgendaRepo) List(ctx context.Context, includeInactive bool) ([]*domain.Agenda, error) {
	query := `SELECT ` + agendaColumns + ` FROM agendas WHERE status = 'active'
		ORDER BY meeting_date IS NULL, meeting_date, name`
	if includeInactive {
		query = `SELECT ` + agendaColumns + ` FROM agendas
			ORDER BY meeting_date IS NULL, meeting_date, name`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing agendas: %w", err)
	}
	defer rows.Close()

	var agendas []*domain.Agenda
	for rows.Next() {
		a, err := scanAgenda(rows)
		if err != nil {
			return nil, err
		}
		agendas = append(agendas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating agendas: %w", err)
	}
	return agendas, nil
}

func (r *SQLiteAgendaRepo) Update(ctx context.Context, a *domain.Agenda) error {
	query := `UPDATE agendas SET name = ?, meeting_date = ?, meeting_time = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.Name,
		nullableTimeToString(a.MeetingDate, dateLayout),
		nullableStringToValue(domain.BlankToNil(a.MeetingTime)),
		string(a.Status),
		a.UpdatedAt.UTC().Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating agenda: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("agenda %s: %w", a.ID, ErrNotFound)
	}
	return nil
}

// DeactivatePast marks active agendas whose meeting date is before today as
// inactive and returns how many changed.
func (r *SQLiteAgendaRepo) DeactivatePast(ctx context.Context, today time.Time) (int64, error) {
	query := `UPDATE agendas SET status = 'inactive', updated_at = ?
		WHERE status = 'active' AND meeting_date IS NOT NULL AND meeting_date < ?`
	res, err := r.db.ExecContext(ctx, query, nowUTC(), today.Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("deactivating past agendas: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deactivated agendas: %w", err)
	}
	return n, nil
}

func scanAgenda(s scanner) (*domain.Agenda, error) {
	var a domain.Agenda
	var meetingDate, meetingTime sql.NullString
	var status, createdAt, updatedAt string

	if err := s.Scan(&a.ID, &a.Name, &meetingDate, &meetingTime, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning agenda: %w", err)
	}

	a.MeetingDate = parseNullableTime(meetingDate, dateLayout)
	a.MeetingTime = nullStringPtr(meetingTime)
	a.Status = domain.AgendaStatus(status)

	var err error
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &a, nil
}
