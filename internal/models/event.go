package models

// EventRole is a member's role within an event.
type EventRole string

const (
	// RoleOwner can delete the event. There is exactly one owner.
	RoleOwner EventRole = "owner"

	// RoleMember can attach rooms and read balances.
	RoleMember EventRole = "member"
)

// Event is a named collection of rooms sharing a member roster. It
// carries no financial state of its own; all amounts live in its rooms.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Name is the display name (e.g. "Ski Trip 2026").
	Name string

	// Members is the roster, ordered by join position. Position is the
	// deterministic tie-break key for debt simplification.
	Members []EventMember

	// Version counts ledger mutations across the event's rooms.
	// Bumped inside the same transaction as the mutation; used to key
	// cached balance snapshots.
	Version int64

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// EventMember is one user's membership in an event.
type EventMember struct {
	// UserID identifies the member.
	UserID string

	// Role is owner or member.
	Role EventRole

	// Position is the stable roster index, assigned at creation.
	Position int
}

// MemberOf returns the membership record for userID, or nil.
func (e *Event) MemberOf(userID string) *EventMember {
	for i := range e.Members {
		if e.Members[i].UserID == userID {
			return &e.Members[i]
		}
	}
	return nil
}

// MemberIDs returns the roster's user IDs in position order.
func (e *Event) MemberIDs() []string {
	ids := make([]string, len(e.Members))
	for i, m := range e.Members {
		ids[i] = m.UserID
	}
	return ids
}
