package ledger

import "github.com/settleroom/settleroom/internal/models"

// MemberBalance is one event member's aggregate position across all of
// the event's rooms.
type MemberBalance struct {
	// UserID identifies the member.
	UserID string `json:"user_id"`

	// OwedOut is what this member still owes to room creators.
	OwedOut float64 `json:"owed_out"`

	// OwedIn is what others still owe this member for rooms they created.
	OwedIn float64 `json:"owed_in"`

	// Net is OwedIn - OwedOut. Positive = creditor, negative = debtor.
	Net float64 `json:"net"`
}

// ComputeEventBalances reduces an event's rooms to one net balance per
// roster member. Only outstanding (owed minus paid, floored at zero)
// amounts count; fully or over-paid shares contribute nothing.
//
// The returned slice follows roster order, which downstream
// simplification uses as its deterministic tie-break.
func ComputeEventBalances(rooms []*models.Room, memberIDs []string) []MemberBalance {
	byID := make(map[string]*MemberBalance, len(memberIDs))
	out := make([]MemberBalance, len(memberIDs))
	for i, id := range memberIDs {
		out[i] = MemberBalance{UserID: id}
		byID[id] = &out[i]
	}

	for _, room := range rooms {
		creator := byID[room.CreatorID]
		for _, share := range room.Shares {
			if share.IsCreator {
				continue
			}
			outstanding := share.Outstanding()
			if outstanding <= 0 {
				continue
			}
			if debtor := byID[share.UserID]; debtor != nil {
				debtor.OwedOut += outstanding
			}
			if creator != nil {
				creator.OwedIn += outstanding
			}
		}
	}

	for i := range out {
		out[i].Net = out[i].OwedIn - out[i].OwedOut
	}
	return out
}
