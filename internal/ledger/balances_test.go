package ledger

import (
	"math"
	"testing"

	"github.com/settleroom/settleroom/internal/models"
)

func room(id, creator string, shares ...models.Share) *models.Room {
	all := append([]models.Share{{RoomID: id, UserID: creator, IsCreator: true}}, shares...)
	return &models.Room{ID: id, CreatorID: creator, Shares: all}
}

func TestComputeEventBalances(t *testing.T) {
	// Two rooms: u1 created room1 where u2 owes 20; u2 created room2
	// where u1 owes 15. net[u1] = 15 - 20 = -5, net[u2] = +5.
	rooms := []*models.Room{
		room("room1", "u1", models.Share{RoomID: "room1", UserID: "u2", AmountOwed: 20.0}),
		room("room2", "u2", models.Share{RoomID: "room2", UserID: "u1", AmountOwed: 15.0}),
	}

	balances := ComputeEventBalances(rooms, []string{"u1", "u2"})
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}

	u1, u2 := balances[0], balances[1]
	if u1.UserID != "u1" || u2.UserID != "u2" {
		t.Fatalf("balances out of roster order: %v", balances)
	}
	if math.Abs(u1.Net-(-5.0)) > 0.01 {
		t.Errorf("u1 net = %v, want -5", u1.Net)
	}
	if math.Abs(u1.OwedOut-20.0) > 0.01 || math.Abs(u1.OwedIn-15.0) > 0.01 {
		t.Errorf("u1 owed_out/owed_in = %v/%v, want 20/15", u1.OwedOut, u1.OwedIn)
	}
	if math.Abs(u2.Net-5.0) > 0.01 {
		t.Errorf("u2 net = %v, want 5", u2.Net)
	}
}

func TestComputeEventBalances_PaidSharesExcluded(t *testing.T) {
	rooms := []*models.Room{
		room("room1", "u1",
			models.Share{RoomID: "room1", UserID: "u2", AmountOwed: 20.0, AmountPaid: 20.0},
			models.Share{RoomID: "room1", UserID: "u3", AmountOwed: 20.0, AmountPaid: 5.0},
		),
	}

	balances := ComputeEventBalances(rooms, []string{"u1", "u2", "u3"})
	if balances[0].OwedIn != 15.0 {
		t.Errorf("u1 owed_in = %v, want 15 (only u3's outstanding)", balances[0].OwedIn)
	}
	if balances[1].OwedOut != 0 {
		t.Errorf("u2 owed_out = %v, want 0 (fully paid)", balances[1].OwedOut)
	}
	if balances[2].OwedOut != 15.0 {
		t.Errorf("u3 owed_out = %v, want 15", balances[2].OwedOut)
	}
}

func TestComputeEventBalances_OverpaidFloorsAtZero(t *testing.T) {
	// A creator override can leave amount_paid above amount_owed; the
	// excess must not turn the share into a credit.
	rooms := []*models.Room{
		room("room1", "u1",
			models.Share{RoomID: "room1", UserID: "u2", AmountOwed: 10.0, AmountPaid: 12.0},
		),
	}
	balances := ComputeEventBalances(rooms, []string{"u1", "u2"})
	if balances[0].OwedIn != 0 || balances[1].OwedOut != 0 {
		t.Errorf("overpaid share leaked into balances: %+v", balances)
	}
}
