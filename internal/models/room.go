package models

// SplitType determines how a room's total is divided among participants.
type SplitType string

const (
	// SplitEqual charges each of the k participants total/(k+1); the
	// creator counts as one of the k+1 shares but is charged nothing.
	SplitEqual SplitType = "equal"

	// SplitCustom charges each participant an explicit amount. The sum
	// may not exceed the total; any remainder is absorbed by the creator.
	SplitCustom SplitType = "custom"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	return t == SplitEqual || t == SplitCustom
}

// Room represents a single shared expense: a creator who fronted the
// money, a total amount, and one share per participant.
type Room struct {
	// ID is the unique identifier for the room (UUID format).
	ID string

	// Name is the human-readable name for the room.
	// Auto-generated from the participant list when empty.
	Name string

	// TotalAmount is the full expense amount the creator fronted.
	TotalAmount float64

	// SplitType is how the total was divided at creation.
	SplitType SplitType

	// CreatorID is the user who created the room and fronted the money.
	CreatorID string

	// EventID is the event this room belongs to, or empty.
	// Set at creation time only.
	EventID string

	// Shares are the participant shares, creator's included.
	// Fixed at creation; only AmountPaid mutates afterwards.
	Shares []Share

	// CreatedAt is the Unix timestamp when the room was created.
	CreatedAt int64
}

// Share tracks one person's portion of a room's total.
type Share struct {
	// RoomID is the room this share belongs to.
	RoomID string

	// UserID identifies the share holder.
	UserID string

	// AmountOwed is this person's portion of the total.
	// Always 0 for the creator.
	AmountOwed float64

	// AmountPaid is how much of AmountOwed has been paid so far.
	// Mutated only by an approved settlement or a creator override.
	AmountPaid float64

	// IsCreator marks the room creator's own share.
	IsCreator bool
}

// Outstanding returns the unpaid remainder of the share.
func (s Share) Outstanding() float64 {
	return s.AmountOwed - s.AmountPaid
}

// ShareOf returns the share held by userID, or nil.
func (r *Room) ShareOf(userID string) *Share {
	for i := range r.Shares {
		if r.Shares[i].UserID == userID {
			return &r.Shares[i]
		}
	}
	return nil
}
