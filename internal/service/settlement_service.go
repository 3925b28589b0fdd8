package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/settleroom/settleroom/internal/ledger"
	"github.com/settleroom/settleroom/internal/metrics"
	"github.com/settleroom/settleroom/internal/models"
	"github.com/settleroom/settleroom/internal/notify"
	"github.com/settleroom/settleroom/internal/storage"
)

// notifyTimeout bounds the fire-and-forget publish after resolution.
const notifyTimeout = 5 * time.Second

// SettlementService runs the submit/approve/reject workflow.
type SettlementService struct {
	store    storage.Store
	notifier notify.Notifier
	tol      float64
}

// NewSettlementService creates a SettlementService. notifier may not
// be nil; use notify.LogNotifier when no dispatcher is configured.
func NewSettlementService(store storage.Store, notifier notify.Notifier, tol float64) *SettlementService {
	return &SettlementService{store: store, notifier: notifier, tol: tol}
}

// SubmitInput are the payer-supplied fields for a new settlement.
type SubmitInput struct {
	Amount float64
	Method string
	Proof  string
	Note   string
}

// Submit files a payment claim by the caller against their share in
// the room. The caller must be a non-creator participant with an
// outstanding balance and no other pending settlement in the room.
// Partial amounts are allowed.
func (s *SettlementService) Submit(ctx context.Context, payerID, roomID string, in SubmitInput) (*models.Settlement, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("%w: settlement amount must be positive", ledger.ErrValidation)
	}
	if in.Method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ledger.ErrValidation)
	}

	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	share := room.ShareOf(payerID)
	if share == nil {
		return nil, fmt.Errorf("%w: you are not a participant of this room", ledger.ErrUnauthorized)
	}
	if share.IsCreator {
		return nil, fmt.Errorf("%w: the room creator has nothing to settle", ledger.ErrValidation)
	}

	outstanding := share.Outstanding()
	if outstanding <= s.tol {
		return nil, fmt.Errorf("%w: share is already settled", ledger.ErrValidation)
	}
	if in.Amount > outstanding+s.tol {
		return nil, fmt.Errorf("%w: amount %.2f exceeds outstanding balance %.2f", ledger.ErrValidation, in.Amount, outstanding)
	}

	if existing, err := s.store.GetPendingSettlement(ctx, roomID, payerID); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: a settlement is already pending for this room", ledger.ErrConflict)
	}

	settlement := &models.Settlement{
		RoomID:  roomID,
		PayerID: payerID,
		Amount:  in.Amount,
		Method:  in.Method,
		Proof:   in.Proof,
		Note:    in.Note,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("Submit settlement failed", "room_id", roomID, "payer_id", payerID, "error", err)
		return nil, err
	}

	slog.Info("settlement submitted",
		"settlement_id", settlement.ID,
		"room_id", roomID,
		"payer_id", payerID,
		"amount", in.Amount,
		"method", in.Method,
	)
	return settlement, nil
}

// Resolve approves or rejects a pending settlement. Only the room's
// creator may resolve. Approval atomically increments the payer's paid
// amount; a settlement that is no longer pending fails with a conflict
// and applies nothing, so resolution is exactly-once.
func (s *SettlementService) Resolve(ctx context.Context, callerID, settlementID string, approved bool) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	room, err := s.store.GetRoom(ctx, settlement.RoomID)
	if err != nil {
		return nil, err
	}
	if room.CreatorID != callerID {
		return nil, fmt.Errorf("%w: only the room creator can resolve settlements", ledger.ErrUnauthorized)
	}

	resolved, err := s.store.ResolveSettlement(ctx, settlementID, approved)
	if err != nil {
		slog.Warn("Resolve settlement failed", "settlement_id", settlementID, "error", err)
		return nil, err
	}

	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	metrics.SettlementsResolved.WithLabelValues(outcome).Inc()
	slog.Info("settlement resolved",
		"settlement_id", settlementID,
		"room_id", resolved.RoomID,
		"payer_id", resolved.PayerID,
		"outcome", outcome,
	)

	// Fire-and-forget: the ledger write above is committed; a failed
	// publish is logged and dropped.
	go func(res notify.Resolution) {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.SettlementResolved(ctx, res); err != nil {
			slog.Warn("settlement notification failed", "settlement_id", res.SettlementID, "error", err)
		}
	}(notify.Resolution{
		SettlementID: resolved.ID,
		RoomID:       resolved.RoomID,
		PayerID:      resolved.PayerID,
		CreatorID:    room.CreatorID,
		Amount:       resolved.Amount,
		Approved:     approved,
		ResolvedAt:   resolved.ResolvedAt,
	})

	return resolved, nil
}

// ListByRoom returns the room's settlements, newest first. The caller
// must hold a share in the room.
func (s *SettlementService) ListByRoom(ctx context.Context, callerID, roomID string) ([]*models.Settlement, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.ShareOf(callerID) == nil {
		return nil, fmt.Errorf("%w: you are not a participant of this room", ledger.ErrUnauthorized)
	}
	return s.store.ListSettlementsByRoom(ctx, roomID)
}
