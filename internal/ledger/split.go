// Package ledger implements the pure debt math: share computation at
// room creation, per-room settled state, event-wide balance
// aggregation, and greedy debt simplification.
//
// All money is float64 with an explicit epsilon, matching the rest of
// the system. The epsilon is absolute (it does not scale with amount).
package ledger

import (
	"fmt"
	"math"

	"github.com/settleroom/settleroom/internal/models"
)

// DefaultTolerance is the absolute amount below which two money values
// are considered equal. Overridable via SETTLE_TOLERANCE config.
const DefaultTolerance = 0.01

// ComputeShares builds the share set for a new room.
//
// The creator is never a debtor: their share is recorded at owed 0.
// Equal split charges each of the k participants total/(k+1), so the
// rounding remainder implicitly falls on the creator. Custom split
// charges the given amounts; any gap between their sum and the total
// is absorbed by the creator.
func ComputeShares(roomID string, total float64, split models.SplitType, creatorID string, participantIDs []string, customAmounts []float64, tol float64) ([]models.Share, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive, got %.2f", ErrValidation, total)
	}
	if len(participantIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", ErrValidation)
	}
	if !split.Valid() {
		return nil, fmt.Errorf("%w: unknown split type %q", ErrValidation, split)
	}

	seen := make(map[string]bool, len(participantIDs)+1)
	seen[creatorID] = true
	for _, id := range participantIDs {
		if id == creatorID {
			return nil, fmt.Errorf("%w: creator cannot be listed as a participant", ErrValidation)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate participant %s", ErrValidation, id)
		}
		seen[id] = true
	}

	var owed []float64
	switch split {
	case models.SplitEqual:
		per := total / float64(len(participantIDs)+1)
		owed = make([]float64, len(participantIDs))
		for i := range owed {
			owed[i] = per
		}
	case models.SplitCustom:
		if len(customAmounts) != len(participantIDs) {
			return nil, fmt.Errorf("%w: custom amounts length %d does not match %d participants",
				ErrValidation, len(customAmounts), len(participantIDs))
		}
		sum := 0.0
		for i, amt := range customAmounts {
			if amt <= 0 {
				return nil, fmt.Errorf("%w: custom amount for %s must be positive", ErrValidation, participantIDs[i])
			}
			sum += amt
		}
		if sum > total+tol {
			return nil, fmt.Errorf("%w: custom amounts sum %.2f exceeds total %.2f", ErrValidation, sum, total)
		}
		owed = customAmounts
	}

	shares := make([]models.Share, 0, len(participantIDs)+1)
	shares = append(shares, models.Share{
		RoomID:    roomID,
		UserID:    creatorID,
		IsCreator: true,
	})
	for i, id := range participantIDs {
		shares = append(shares, models.Share{
			RoomID:     roomID,
			UserID:     id,
			AmountOwed: owed[i],
		})
	}
	return shares, nil
}

// IsSettled reports whether every non-creator share is paid up within
// tolerance.
func IsSettled(shares []models.Share, tol float64) bool {
	for _, s := range shares {
		if s.IsCreator {
			continue
		}
		if s.Outstanding() > tol {
			return false
		}
	}
	return true
}

// CheckConservation verifies that the non-creator owed amounts fit the
// room total within tolerance. Equal splits reserve the creator's
// implicit portion, so the sum is compared against total minus that
// portion; custom splits only require the sum not to exceed the total.
func CheckConservation(room *models.Room, tol float64) error {
	sum := 0.0
	k := 0
	for _, s := range room.Shares {
		if s.IsCreator {
			continue
		}
		sum += s.AmountOwed
		k++
	}
	switch room.SplitType {
	case models.SplitEqual:
		want := room.TotalAmount * float64(k) / float64(k+1)
		if math.Abs(sum-want) > tol {
			return fmt.Errorf("%w: room %s owes sum %.2f, want %.2f", ErrArithmetic, room.ID, sum, want)
		}
	default:
		if sum > room.TotalAmount+tol {
			return fmt.Errorf("%w: room %s owes sum %.2f exceeds total %.2f", ErrArithmetic, room.ID, sum, room.TotalAmount)
		}
	}
	return nil
}
