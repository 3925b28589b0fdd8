package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/settleroom/settleroom/internal/cache"
	"github.com/settleroom/settleroom/internal/ledger"
	"github.com/settleroom/settleroom/internal/models"
	"github.com/settleroom/settleroom/internal/storage"
)

// EventService owns event lifecycle and the cross-room balance reads.
type EventService struct {
	store storage.Store
	cache *cache.Cache // nil-safe; nil means no caching
	tol   float64
}

// NewEventService creates an EventService. balanceCache may be nil.
func NewEventService(store storage.Store, balanceCache *cache.Cache, tol float64) *EventService {
	return &EventService{store: store, cache: balanceCache, tol: tol}
}

// CreateEvent creates an event with the caller as owner and the given
// users as members. Roster order is creation order and is the stable
// tie-break for simplification.
func (s *EventService) CreateEvent(ctx context.Context, ownerID, name string, memberIDs []string) (*models.Event, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", ledger.ErrValidation)
	}

	seen := map[string]bool{ownerID: true}
	members := []models.EventMember{{UserID: ownerID, Role: models.RoleOwner, Position: 0}}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, models.EventMember{
			UserID:   id,
			Role:     models.RoleMember,
			Position: len(members),
		})
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	missing, err := s.store.MissingUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: unknown members %v", ledger.ErrNotFound, missing)
	}

	event := &models.Event{Name: name, Members: members}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("CreateEvent failed", "owner_id", ownerID, "error", err)
		return nil, err
	}

	slog.Info("event created", "event_id", event.ID, "owner_id", ownerID, "members", len(members))
	return event, nil
}

// GetEvent returns the event with its roster and attached rooms.
// The caller must be a member.
func (s *EventService) GetEvent(ctx context.Context, callerID, eventID string) (*models.Event, []*models.Room, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if event.MemberOf(callerID) == nil {
		return nil, nil, fmt.Errorf("%w: you are not a member of this event", ledger.ErrUnauthorized)
	}

	rooms, err := s.store.ListRoomsByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	return event, rooms, nil
}

// DeleteEvent removes an event. Owner only. Attached rooms detach;
// their ledger state is never altered.
func (s *EventService) DeleteEvent(ctx context.Context, callerID, eventID string) error {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	member := event.MemberOf(callerID)
	if member == nil || member.Role != models.RoleOwner {
		return fmt.Errorf("%w: only the event owner can delete the event", ledger.ErrUnauthorized)
	}

	if err := s.store.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	slog.Info("event deleted", "event_id", eventID, "owner_id", callerID)
	return nil
}

// BalanceSnapshot is the aggregator output: one balance per roster
// member, tagged with the event version it was computed at.
type BalanceSnapshot struct {
	EventID  string                 `json:"event_id"`
	Version  int64                  `json:"version"`
	Balances []ledger.MemberBalance `json:"balances"`
}

// Balances computes one net balance per event member across all of the
// event's rooms. Pure read; snapshots are cached keyed by the event's
// mutation version, so any committed room change yields a new key.
func (s *EventService) Balances(ctx context.Context, callerID, eventID string) (*BalanceSnapshot, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.MemberOf(callerID) == nil {
		return nil, fmt.Errorf("%w: you are not a member of this event", ledger.ErrUnauthorized)
	}

	key := fmt.Sprintf("balances:%s:v%d", event.ID, event.Version)
	var snapshot BalanceSnapshot
	if hit, err := s.cache.Get(ctx, key, &snapshot); err != nil {
		slog.Warn("balance cache read failed", "event_id", eventID, "error", err)
	} else if hit {
		return &snapshot, nil
	}

	rooms, err := s.store.ListRoomsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if err := ledger.CheckConservation(room, s.tol); err != nil {
			slog.Error("room conservation violated", "room_id", room.ID, "error", err)
			return nil, err
		}
	}

	snapshot = BalanceSnapshot{
		EventID:  event.ID,
		Version:  event.Version,
		Balances: ledger.ComputeEventBalances(rooms, event.MemberIDs()),
	}
	if err := s.cache.Set(ctx, key, &snapshot); err != nil {
		slog.Warn("balance cache write failed", "event_id", eventID, "error", err)
	}
	return &snapshot, nil
}

// Transfers reduces the event's balances to a simplified settlement
// plan. Read-only and recomputed on demand, never persisted.
func (s *EventService) Transfers(ctx context.Context, callerID, eventID string) (*BalanceSnapshot, []ledger.Transfer, error) {
	snapshot, err := s.Balances(ctx, callerID, eventID)
	if err != nil {
		return nil, nil, err
	}

	transfers, err := ledger.Simplify(snapshot.Balances, s.tol)
	if err != nil {
		slog.Error("simplify failed", "event_id", eventID, "error", err)
		return nil, nil, err
	}
	return snapshot, transfers, nil
}
