package ledger

import "errors"

// Error kinds surfaced by the ledger, services, and storage. Callers
// classify with errors.Is; the HTTP layer maps each kind to a status.
var (
	// ErrValidation covers malformed input: non-positive totals, empty
	// participant lists, custom amounts that don't fit the total.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when a non-creator invokes a
	// creator-only operation, or a non-member reads event state.
	ErrUnauthorized = errors.New("not allowed")

	// ErrNotFound is returned for unknown rooms, settlements, events,
	// users, or participants.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned for a duplicate pending settlement, or
	// for resolving a settlement that is no longer pending.
	ErrConflict = errors.New("conflict")

	// ErrArithmetic indicates inconsistent ledger data: share sums that
	// drift from the room total, or event net balances that don't sum
	// to zero within tolerance.
	ErrArithmetic = errors.New("inconsistent ledger arithmetic")
)
