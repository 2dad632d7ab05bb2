package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBlankMeetingTimes(db); err != nil {
		return fmt.Errorf("normalising blank meeting times: %w", err)
	}
	if err := migrateBackfillDocumentAgendas(db); err != nil {
		return fmt.Errorf("backfilling document agenda links: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS agendas (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		meeting_date TEXT,
		meeting_time TEXT,
		status       TEXT NOT NULL DEFAULT 'active'
		             CHECK(status IN ('active','inactive')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_agendas_status ON agendas(status, meeting_date)`,

	`CREATE TABLE IF NOT EXISTS documents (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		number          TEXT NOT NULL UNIQUE,
		owner           TEXT NOT NULL,
		project_manager TEXT,
		created_at      TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS agenda_items (
		id            TEXT PRIMARY KEY,
		agenda_id     TEXT NOT NULL REFERENCES agendas(id) ON DELETE CASCADE,
		topic         TEXT NOT NULL DEFAULT '',
		document_id   INTEGER REFERENCES documents(id) ON DELETE SET NULL,
		order_index   INTEGER,
		duration_min  INTEGER CHECK(duration_min IS NULL OR duration_min >= 0),
		start_time    TEXT,
		end_time      TEXT,
		project_owner TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_agenda_items_agenda ON agenda_items(agenda_id, order_index)`,

	`CREATE TABLE IF NOT EXISTS document_agendas (
		document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		agenda_id   TEXT NOT NULL REFERENCES agendas(id) ON DELETE CASCADE,
		PRIMARY KEY (document_id, agenda_id)
	)`,

	// Move requests are transient input records and reference nothing: the
	// source item is deleted before the request itself.
	`CREATE TABLE IF NOT EXISTS move_requests (
		id           TEXT PRIMARY KEY,
		item_id      TEXT NOT NULL,
		to_agenda_id TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS jobs (
		id          TEXT PRIMARY KEY,
		task_name   TEXT NOT NULL,
		params      TEXT NOT NULL DEFAULT '{}',
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK(status IN ('pending','running','succeeded','failed')),
		error       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		started_at  TEXT,
		finished_at TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status, created_at)`,

	// Document owner was split from project owner after the first release.
	`ALTER TABLE agenda_items ADD COLUMN document_owner TEXT`,
}

// migrateBlankMeetingTimes turns whitespace-only meeting times into NULL so
// that "no meeting time" has a single representation.
func migrateBlankMeetingTimes(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(),
		`UPDATE agendas SET meeting_time = NULL WHERE meeting_time IS NOT NULL AND trim(meeting_time) = ''`)
	return err
}

// migrateBackfillDocumentAgendas links documents to every agenda that already
// carries one of their items. Idempotent.
func migrateBackfillDocumentAgendas(db *sql.DB) error {
	ctx := context.Background()

	var missing int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM agenda_items ai
		WHERE ai.document_id IS NOT NULL
		  AND NOT EXISTS (
		      SELECT 1 FROM document_agendas da
		      WHERE da.document_id = ai.document_id AND da.agenda_id = ai.agenda_id)`).Scan(&missing)
	if err != nil {
		return fmt.Errorf("checking document links: %w", err)
	}
	if missing == 0 {
		return nil
	}

	_, err = db.ExecContext(ctx, `
		INSERT OR IGNORE INTO document_agendas (document_id, agenda_id)
		SELECT DISTINCT document_id, agenda_id FROM agenda_items
		WHERE document_id IS NOT NULL`)
	if err != nil {
		return fmt.Errorf("inserting document links: %w", err)
	}
	return nil
}
