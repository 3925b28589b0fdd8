package ledger

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestSimplify_SingleTransfer(t *testing.T) {
	balances := []MemberBalance{
		{UserID: "u1", Net: -5.0},
		{UserID: "u2", Net: 5.0},
	}

	transfers, err := Simplify(balances, DefaultTolerance)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}
	if len(transfers) != 1 {
		t.Fatalf("expected 1 transfer, got %d", len(transfers))
	}
	got := transfers[0]
	if got.From != "u1" || got.To != "u2" || math.Abs(got.Amount-5.0) > 0.01 {
		t.Errorf("transfer = %+v, want u1 -> u2 for 5", got)
	}
}

func TestSimplify_Conservation(t *testing.T) {
	balances := []MemberBalance{
		{UserID: "a", Net: -40.0},
		{UserID: "b", Net: -10.0},
		{UserID: "c", Net: 30.0},
		{UserID: "d", Net: 20.0},
	}

	transfers, err := Simplify(balances, DefaultTolerance)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}

	// Every debtor pays out exactly its debt; every creditor receives
	// exactly its credit.
	paid := make(map[string]float64)
	received := make(map[string]float64)
	for _, tr := range transfers {
		if tr.Amount <= 0 {
			t.Errorf("non-positive transfer amount: %+v", tr)
		}
		paid[tr.From] += tr.Amount
		received[tr.To] += tr.Amount
	}
	for _, b := range balances {
		if b.Net < 0 && math.Abs(paid[b.UserID]-(-b.Net)) > 0.01 {
			t.Errorf("%s pays %v, want %v", b.UserID, paid[b.UserID], -b.Net)
		}
		if b.Net > 0 && math.Abs(received[b.UserID]-b.Net) > 0.01 {
			t.Errorf("%s receives %v, want %v", b.UserID, received[b.UserID], b.Net)
		}
	}

	// n members with nonzero net settle in at most n-1 transfers.
	if len(transfers) > 3 {
		t.Errorf("got %d transfers for 4 members, want <= 3", len(transfers))
	}
}

func TestSimplify_Deterministic(t *testing.T) {
	// Equal amounts everywhere: only the roster-order tie-break decides
	// who pays whom. Two runs must agree exactly.
	balances := []MemberBalance{
		{UserID: "a", Net: -10.0},
		{UserID: "b", Net: -10.0},
		{UserID: "c", Net: 10.0},
		{UserID: "d", Net: 10.0},
	}

	first, err := Simplify(balances, DefaultTolerance)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}
	second, err := Simplify(balances, DefaultTolerance)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("simplify not deterministic:\n first = %+v\nsecond = %+v", first, second)
	}

	// Tie-break is roster position: a (earlier) pays c (earlier).
	if first[0].From != "a" || first[0].To != "c" {
		t.Errorf("first transfer = %+v, want a -> c", first[0])
	}
}

func TestSimplify_NearZeroNetsIgnored(t *testing.T) {
	balances := []MemberBalance{
		{UserID: "a", Net: -0.005},
		{UserID: "b", Net: 0.005},
	}
	transfers, err := Simplify(balances, DefaultTolerance)
	if err != nil {
		t.Fatalf("Simplify failed: %v", err)
	}
	if len(transfers) != 0 {
		t.Errorf("expected no transfers for sub-tolerance nets, got %+v", transfers)
	}
}

func TestSimplify_UnbalancedInput(t *testing.T) {
	balances := []MemberBalance{
		{UserID: "a", Net: -10.0},
		{UserID: "b", Net: 7.0},
	}
	_, err := Simplify(balances, DefaultTolerance)
	if !errors.Is(err, ErrArithmetic) {
		t.Fatalf("Simplify error = %v, want ErrArithmetic", err)
	}
}
