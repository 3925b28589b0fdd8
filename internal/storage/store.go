// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/settleroom/settleroom/internal/models"
)

// Store defines the persistence operations for users, rooms,
// settlements, and events. This abstraction allows swapping storage
// backends without changing the service layer.
//
// Every mutating method executes as a single atomic transaction; on
// error no partial state is left behind. Methods return errors
// classifiable with errors.Is against the ledger error kinds.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	// Returns (nil, nil) when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// MissingUsers returns the subset of ids with no user record.
	MissingUsers(ctx context.Context, ids []string) ([]string, error)

	// CreateRoom persists a room together with its shares and, when the
	// room is attached to an event, bumps the event version — all in
	// one transaction. Populates room.ID, room.CreatedAt, and a
	// generated name when empty.
	CreateRoom(ctx context.Context, room *models.Room) error

	// GetRoom retrieves a room with all its shares.
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)

	// ListRoomsByUser retrieves every room in which the user holds a
	// share, newest first.
	ListRoomsByUser(ctx context.Context, userID string) ([]*models.Room, error)

	// ListRoomsByEvent retrieves every room attached to the event.
	ListRoomsByEvent(ctx context.Context, eventID string) ([]*models.Room, error)

	// SetSharePaid overwrites a share's paid amount (creator override)
	// and bumps the room's event version in the same transaction.
	SetSharePaid(ctx context.Context, roomID, userID string, amountPaid float64) error

	// CreateSettlement persists a new pending settlement. A second
	// pending settlement for the same room and payer fails with a
	// conflict.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByRoom retrieves all settlements for a room,
	// newest first.
	ListSettlementsByRoom(ctx context.Context, roomID string) ([]*models.Settlement, error)

	// GetPendingSettlement returns the payer's pending settlement in
	// the room, or (nil, nil) when there is none.
	GetPendingSettlement(ctx context.Context, roomID, payerID string) (*models.Settlement, error)

	// ResolveSettlement transitions a pending settlement to approved or
	// rejected. The transition is status-guarded: it succeeds only if
	// the settlement is still pending, otherwise it fails with a
	// conflict and applies nothing. On approval the payer's share is
	// incremented by the settlement amount in the same transaction.
	// Returns the resolved settlement.
	ResolveSettlement(ctx context.Context, settlementID string, approved bool) (*models.Settlement, error)

	// CreateEvent persists an event with its member roster.
	// Populates event.ID and event.CreatedAt.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event with its roster in position order.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// DeleteEvent removes an event. Attached rooms are detached, their
	// ledger state untouched.
	DeleteEvent(ctx context.Context, eventID string) error

	// Close releases any resources held by the store.
	Close() error
}
