package models

// SettlementStatus is the state of a settlement in the approval workflow.
type SettlementStatus string

const (
	// SettlementPending awaits the room creator's decision.
	SettlementPending SettlementStatus = "pending"

	// SettlementApproved is terminal; the payer's AmountPaid was
	// incremented by the settlement amount when this state was entered.
	SettlementApproved SettlementStatus = "approved"

	// SettlementRejected is terminal; no ledger mutation occurred.
	// The payer may submit a new settlement.
	SettlementRejected SettlementStatus = "rejected"
)

// Resolved reports whether the status is terminal.
func (s SettlementStatus) Resolved() bool {
	return s == SettlementApproved || s == SettlementRejected
}

// Settlement represents a payer's claim of having paid (part of) their
// share, subject to approval by the room's creator. A participant may
// hold at most one pending settlement per room.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// RoomID is the room this settlement applies to.
	RoomID string

	// PayerID is the non-creator participant claiming payment.
	PayerID string

	// Amount is the claimed payment amount. Partial payments are allowed.
	Amount float64

	// Method is how the payment was made (e.g. "cash", "venmo").
	// Free-form, non-empty.
	Method string

	// Proof is an optional reference to proof of payment
	// (receipt URL, transaction ID).
	Proof string

	// Note is an optional message to the creator.
	Note string

	// Status is the workflow state. Approved and rejected are terminal.
	Status SettlementStatus

	// CreatedAt is the Unix timestamp when the settlement was submitted.
	CreatedAt int64

	// ResolvedAt is the Unix timestamp of approval/rejection, 0 while pending.
	ResolvedAt int64
}
