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

const settlementColumns = "id, room_id, payer_id, amount, method, proof, note, status, created_at, resolved_at"

// CreateSettlement persists a new pending settlement.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}
	settlement.Status = models.SettlementPending

	var proof, note interface{}
	if settlement.Proof != "" {
		proof = settlement.Proof
	}
	if settlement.Note != "" {
		note = settlement.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, room_id, payer_id, amount, method, proof, note, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.RoomID, settlement.PayerID, settlement.Amount,
		settlement.Method, proof, note, string(settlement.Status), settlement.CreatedAt,
	)
	if isUniqueViolation(err) {
		// Lost the race against another pending submission.
		return fmt.Errorf("%w: payer %s already has a pending settlement in room %s",
			ledger.ErrConflict, settlement.PayerID, settlement.RoomID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

func scanSettlement(row interface {
	Scan(dest ...interface{}) error
}) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var proof, note sql.NullString
	var resolvedAt sql.NullInt64

	err := row.Scan(&settlement.ID, &settlement.RoomID, &settlement.PayerID, &settlement.Amount,
		&settlement.Method, &proof, &note, (*string)(&settlement.Status), &settlement.CreatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}

	if proof.Valid {
		settlement.Proof = proof.String
	}
	if note.Valid {
		settlement.Note = note.String
	}
	if resolvedAt.Valid {
		settlement.ResolvedAt = resolvedAt.Int64
	}
	return settlement, nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := scanSettlement(s.db.QueryRowContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE id = ?", settlementID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: settlement %s", ledger.ErrNotFound, settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlementsByRoom retrieves all settlements for a room.
func (s *SQLiteStore) ListSettlementsByRoom(ctx context.Context, roomID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE room_id = ? ORDER BY created_at DESC, id",
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// GetPendingSettlement returns the payer's pending settlement in the
// room, or (nil, nil) when there is none.
func (s *SQLiteStore) GetPendingSettlement(ctx context.Context, roomID, payerID string) (*models.Settlement, error) {
	settlement, err := scanSettlement(s.db.QueryRowContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE room_id = ? AND payer_id = ? AND status = 'pending'",
		roomID, payerID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending settlement: %w", err)
	}
	return settlement, nil
}

// ResolveSettlement transitions a pending settlement to its terminal
// state. The status-guarded UPDATE is the optimistic check-and-set
// that makes resolution exactly-once: of two concurrent resolvers only
// one sees RowsAffected == 1, and the share increment commits with the
// status flip or not at all.
func (s *SQLiteStore) ResolveSettlement(ctx context.Context, settlementID string, approved bool) (*models.Settlement, error) {
	status := models.SettlementRejected
	if approved {
		status = models.SettlementApproved
	}
	resolvedAt := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE settlements SET status = ?, resolved_at = ? WHERE id = ? AND status = 'pending'",
		string(status), resolvedAt, settlementID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check resolve result: %w", err)
	}
	if n == 0 {
		// Either the settlement doesn't exist or it is already terminal.
		var existing string
		err := tx.QueryRowContext(ctx, "SELECT status FROM settlements WHERE id = ?", settlementID).Scan(&existing)
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: settlement %s", ledger.ErrNotFound, settlementID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check settlement status: %w", err)
		}
		return nil, fmt.Errorf("%w: settlement %s already %s", ledger.ErrConflict, settlementID, existing)
	}

	settlement, err := scanSettlement(tx.QueryRowContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE id = ?", settlementID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload settlement: %w", err)
	}

	if approved {
		_, err = tx.ExecContext(ctx,
			"UPDATE shares SET amount_paid = amount_paid + ? WHERE room_id = ? AND user_id = ?",
			settlement.Amount, settlement.RoomID, settlement.PayerID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to apply settlement to share: %w", err)
		}
	}

	var eventID sql.NullString
	if err := tx.QueryRowContext(ctx, "SELECT event_id FROM rooms WHERE id = ?", settlement.RoomID).Scan(&eventID); err != nil {
		return nil, fmt.Errorf("failed to get room event: %w", err)
	}
	if err := bumpEventVersion(ctx, tx, eventID.String); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return settlement, nil
}
