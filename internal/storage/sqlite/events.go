package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/settleroom/settleroom/internal/ledger"
	"github.com/settleroom/settleroom/internal/models"
)

// CreateEvent persists an event with its member roster.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO events (id, name, version, created_at) VALUES (?, ?, 0, ?)",
		event.ID, event.Name, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	for _, m := range event.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO event_members (event_id, user_id, role, position) VALUES (?, ?, ?, ?)",
			event.ID, m.UserID, string(m.Role), m.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetEvent retrieves an event with its roster in position order.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, version, created_at FROM events WHERE id = ?",
		eventID,
	).Scan(&event.ID, &event.Name, &event.Version, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: event %s", ledger.ErrNotFound, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, role, position FROM event_members WHERE event_id = ? ORDER BY position",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get event members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.EventMember
		if err := rows.Scan(&m.UserID, (*string)(&m.Role), &m.Position); err != nil {
			return nil, fmt.Errorf("failed to scan event member: %w", err)
		}
		event.Members = append(event.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event members: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an event. Rooms detach via ON DELETE SET NULL;
// their ledger state is never touched.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: event %s", ledger.ErrNotFound, eventID)
	}
	return nil
}
