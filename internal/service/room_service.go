// Package service implements the ledger operations behind the API:
// room creation and overrides, the settlement approval workflow, and
// event-wide balance aggregation. Services validate, authorize, call
// the pure math in internal/ledger, and persist through storage.Store.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/settleroom/settleroom/internal/ledger"
	"github.com/settleroom/settleroom/internal/models"
	"github.com/settleroom/settleroom/internal/storage"
)

// RoomService owns room lifecycle and the creator's mark-paid override.
type RoomService struct {
	store storage.Store
	tol   float64
}

// NewRoomService creates a RoomService with the given storage backend
// and money tolerance.
func NewRoomService(store storage.Store, tol float64) *RoomService {
	return &RoomService{store: store, tol: tol}
}

// CreateRoomInput are the caller-supplied fields for a new room.
type CreateRoomInput struct {
	Name           string
	TotalAmount    float64
	SplitType      models.SplitType
	ParticipantIDs []string
	CustomAmounts  []float64
	EventID        string
}

// CreateRoom creates a room with its shares fixed per the split type.
// The caller becomes the creator (owed 0). When an event is given, the
// creator and every participant must be on its roster.
func (s *RoomService) CreateRoom(ctx context.Context, creatorID string, in CreateRoomInput) (*models.Room, error) {
	missing, err := s.store.MissingUsers(ctx, in.ParticipantIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: unknown participants %v", ledger.ErrNotFound, missing)
	}

	if in.EventID != "" {
		event, err := s.store.GetEvent(ctx, in.EventID)
		if err != nil {
			return nil, err
		}
		if event.MemberOf(creatorID) == nil {
			return nil, fmt.Errorf("%w: creator is not a member of event %s", ledger.ErrUnauthorized, in.EventID)
		}
		// Event balances aggregate over the roster only; a share held
		// by an outsider would make the event's nets stop summing to
		// zero.
		var outsiders []string
		for _, id := range in.ParticipantIDs {
			if event.MemberOf(id) == nil {
				outsiders = append(outsiders, id)
			}
		}
		if len(outsiders) > 0 {
			return nil, fmt.Errorf("%w: participants %v are not members of event %s", ledger.ErrValidation, outsiders, in.EventID)
		}
	}

	shares, err := ledger.ComputeShares("", in.TotalAmount, in.SplitType, creatorID, in.ParticipantIDs, in.CustomAmounts, s.tol)
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		Name:        in.Name,
		TotalAmount: in.TotalAmount,
		SplitType:   in.SplitType,
		CreatorID:   creatorID,
		EventID:     in.EventID,
		Shares:      shares,
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		slog.Error("CreateRoom failed", "creator_id", creatorID, "error", err)
		return nil, err
	}

	slog.Info("room created",
		"room_id", room.ID,
		"creator_id", creatorID,
		"total", room.TotalAmount,
		"split_type", room.SplitType,
		"participants", len(in.ParticipantIDs),
	)
	return room, nil
}

// MarkParticipantPayment is the creator's out-of-band override: it sets
// a participant's paid amount to their full owed amount or back to
// zero, without creating or touching any settlement record.
func (s *RoomService) MarkParticipantPayment(ctx context.Context, callerID, roomID, userID string, paid bool) (*models.Room, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.CreatorID != callerID {
		return nil, fmt.Errorf("%w: only the room creator can mark payments", ledger.ErrUnauthorized)
	}

	share := room.ShareOf(userID)
	if share == nil {
		return nil, fmt.Errorf("%w: no share for user %s in room %s", ledger.ErrNotFound, userID, roomID)
	}
	if share.IsCreator {
		return nil, fmt.Errorf("%w: the creator's share carries no debt", ledger.ErrValidation)
	}

	amountPaid := 0.0
	if paid {
		amountPaid = share.AmountOwed
	}
	if err := s.store.SetSharePaid(ctx, roomID, userID, amountPaid); err != nil {
		slog.Error("MarkParticipantPayment failed", "room_id", roomID, "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("participant payment marked",
		"room_id", roomID,
		"user_id", userID,
		"paid", paid,
	)
	return s.store.GetRoom(ctx, roomID)
}

// RoomSummary is a room with its derived state: the settled flag and
// any outstanding pending settlement per participant.
type RoomSummary struct {
	Room      *models.Room
	IsSettled bool
	// Pending maps payer ID to their pending settlement, if any.
	Pending map[string]*models.Settlement
}

// GetRoomSummary returns the room with all shares, the settled flag,
// and pending settlements. Read-only. The caller must hold a share.
func (s *RoomService) GetRoomSummary(ctx context.Context, callerID, roomID string) (*RoomSummary, error) {
	room, err := s.store.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.ShareOf(callerID) == nil {
		return nil, fmt.Errorf("%w: you are not a participant of this room", ledger.ErrUnauthorized)
	}

	if err := ledger.CheckConservation(room, s.tol); err != nil {
		slog.Error("room conservation violated", "room_id", roomID, "error", err)
		return nil, err
	}

	pending := make(map[string]*models.Settlement)
	settlements, err := s.store.ListSettlementsByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	for _, st := range settlements {
		if st.Status == models.SettlementPending {
			pending[st.PayerID] = st
		}
	}

	return &RoomSummary{
		Room:      room,
		IsSettled: ledger.IsSettled(room.Shares, s.tol),
		Pending:   pending,
	}, nil
}

// ListRooms returns every room the caller holds a share in.
func (s *RoomService) ListRooms(ctx context.Context, callerID string) ([]*models.Room, error) {
	return s.store.ListRoomsByUser(ctx, callerID)
}
