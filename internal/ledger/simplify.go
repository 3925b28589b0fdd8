package ledger

import (
	"fmt"
	"math"
	"sort"
)

// Transfer is one payment in a simplified settlement plan. Ephemeral:
// always recomputed from current room state, never persisted.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Simplify collapses net balances into a short list of transfers that
// settles the whole event.
//
// Greedy min-cash-flow heuristic: debtors and creditors are each
// sorted by amount descending (roster order breaks ties, so identical
// input yields identical output) and matched with two cursors, each
// transfer moving min(debtor remaining, creditor remaining). At most
// n-1 transfers result for n members with nonzero net. This is not
// guaranteed globally minimal; the exact minimum-transaction
// decomposition is NP-hard and deliberately not attempted.
//
// The balances must sum to zero within tolerance; a violation means
// the upstream rooms are inconsistent and is reported as ErrArithmetic
// rather than producing an unbalanced plan.
func Simplify(balances []MemberBalance, tol float64) ([]Transfer, error) {
	sum := 0.0
	for _, b := range balances {
		sum += b.Net
	}
	if math.Abs(sum) > tol {
		return nil, fmt.Errorf("%w: net balances sum to %.4f, want 0", ErrArithmetic, sum)
	}

	type cursor struct {
		userID    string
		remaining float64
	}
	var debtors, creditors []cursor
	for _, b := range balances { // roster order
		switch {
		case b.Net < -tol:
			debtors = append(debtors, cursor{b.UserID, -b.Net})
		case b.Net > tol:
			creditors = append(creditors, cursor{b.UserID, b.Net})
		}
	}

	// Stable sort keeps roster order among equal amounts.
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].remaining > debtors[j].remaining })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].remaining > creditors[j].remaining })

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].remaining
		if creditors[j].remaining < amount {
			amount = creditors[j].remaining
		}

		if amount > tol {
			transfers = append(transfers, Transfer{
				From:   debtors[i].userID,
				To:     creditors[j].userID,
				Amount: amount,
			})
		}

		debtors[i].remaining -= amount
		creditors[j].remaining -= amount

		if debtors[i].remaining <= tol {
			i++
		}
		if creditors[j].remaining <= tol {
			j++
		}
	}

	return transfers, nil
}
