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

// bumpEventVersion increments the mutation counter of the event a room
// belongs to, inside the caller's transaction. No-op for detached rooms.
func bumpEventVersion(ctx context.Context, tx *sql.Tx, eventID string) error {
	if eventID == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, "UPDATE events SET version = version + 1 WHERE id = ?", eventID); err != nil {
		return fmt.Errorf("failed to bump event version: %w", err)
	}
	return nil
}

// CreateRoom persists a room and its shares in one transaction.
func (s *SQLiteStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	if room.CreatedAt == 0 {
		room.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if room.Name == "" {
		names, err := s.participantNames(ctx, tx, room)
		if err != nil {
			return err
		}
		room.Name = generateRoomName(names)
	}

	var eventID interface{}
	if room.EventID != "" {
		eventID = room.EventID
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO rooms (id, name, total_amount, split_type, creator_id, event_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		room.ID, room.Name, room.TotalAmount, string(room.SplitType), room.CreatorID, eventID, room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}

	for i := range room.Shares {
		share := &room.Shares[i]
		share.RoomID = room.ID
		_, err = tx.ExecContext(ctx,
			"INSERT INTO shares (room_id, user_id, amount_owed, amount_paid, is_creator) VALUES (?, ?, ?, ?, ?)",
			share.RoomID, share.UserID, share.AmountOwed, share.AmountPaid, share.IsCreator,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}

	if err := bumpEventVersion(ctx, tx, room.EventID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// participantNames resolves display names of the room's non-creator
// share holders, in share order.
func (s *SQLiteStore) participantNames(ctx context.Context, tx *sql.Tx, room *models.Room) ([]string, error) {
	var names []string
	for _, share := range room.Shares {
		if share.IsCreator {
			continue
		}
		var name string
		err := tx.QueryRowContext(ctx, "SELECT display_name FROM users WHERE id = ?", share.UserID).Scan(&name)
		if err == sql.ErrNoRows {
			name = share.UserID
		} else if err != nil {
			return nil, fmt.Errorf("failed to resolve participant name: %w", err)
		}
		names = append(names, name)
	}
	return names, nil
}

// GetRoom retrieves a room by ID, including all shares.
func (s *SQLiteStore) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room := &models.Room{}
	var eventID sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, total_amount, split_type, creator_id, event_id, created_at FROM rooms WHERE id = ?",
		roomID,
	).Scan(&room.ID, &room.Name, &room.TotalAmount, (*string)(&room.SplitType), &room.CreatorID, &eventID, &room.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: room %s", ledger.ErrNotFound, roomID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if eventID.Valid {
		room.EventID = eventID.String
	}

	if room.Shares, err = s.roomShares(ctx, roomID); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *SQLiteStore) roomShares(ctx context.Context, roomID string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT room_id, user_id, amount_owed, amount_paid, is_creator FROM shares WHERE room_id = ? ORDER BY is_creator DESC, user_id",
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var share models.Share
		if err := rows.Scan(&share.RoomID, &share.UserID, &share.AmountOwed, &share.AmountPaid, &share.IsCreator); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

// ListRoomsByUser retrieves every room the user holds a share in.
func (s *SQLiteStore) ListRoomsByUser(ctx context.Context, userID string) ([]*models.Room, error) {
	return s.listRooms(ctx,
		`SELECT r.id FROM rooms r JOIN shares sh ON sh.room_id = r.id
		 WHERE sh.user_id = ? ORDER BY r.created_at DESC`, userID)
}

// ListRoomsByEvent retrieves every room attached to the event.
func (s *SQLiteStore) ListRoomsByEvent(ctx context.Context, eventID string) ([]*models.Room, error) {
	return s.listRooms(ctx,
		"SELECT id FROM rooms WHERE event_id = ? ORDER BY created_at DESC", eventID)
}

func (s *SQLiteStore) listRooms(ctx context.Context, query string, arg string) ([]*models.Room, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan room id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	rooms := make([]*models.Room, 0, len(ids))
	for _, id := range ids {
		room, err := s.GetRoom(ctx, id)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// SetSharePaid overwrites a share's paid amount (creator override).
func (s *SQLiteStore) SetSharePaid(ctx context.Context, roomID, userID string, amountPaid float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE shares SET amount_paid = ? WHERE room_id = ? AND user_id = ?",
		amountPaid, roomID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update share: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: no share for user %s in room %s", ledger.ErrNotFound, userID, roomID)
	}

	var eventID sql.NullString
	if err := tx.QueryRowContext(ctx, "SELECT event_id FROM rooms WHERE id = ?", roomID).Scan(&eventID); err != nil {
		return fmt.Errorf("failed to get room event: %w", err)
	}
	if err := bumpEventVersion(ctx, tx, eventID.String); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
