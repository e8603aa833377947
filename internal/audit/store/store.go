package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rooterworks/rmetrack/internal/audit"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the audit table when it does not exist yet. The table
// is append-only; nothing in the app updates or deletes entries.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS audit_entries (
			id UUID PRIMARY KEY,
			work_order_id TEXT NOT NULL,
			action TEXT NOT NULL,
			actor_name TEXT NOT NULL,
			actor_email TEXT NOT NULL,
			failure TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating audit table: %w", err)
	}

	return nil
}

func (s *Store) Record(ctx context.Context, e audit.Entry) error {
	query := `
		INSERT INTO audit_entries (id, work_order_id, action, actor_name, actor_email, failure, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := s.db.ExecContext(ctx, query,
		e.ID, e.WorkOrderID, e.Action, e.ActorName, e.ActorEmail, e.Failure, e.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return nil
}

// Recent returns the newest entries for a work order, newest first.
func (s *Store) Recent(ctx context.Context, workOrderID string, limit int) ([]audit.Entry, error) {
	query := `
		SELECT id, work_order_id, action, actor_name, actor_email, failure, created_at
		FROM audit_entries
		WHERE work_order_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, workOrderID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry

	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.WorkOrderID, &e.Action, &e.ActorName, &e.ActorEmail, &e.Failure, &e.CreatedAt); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
