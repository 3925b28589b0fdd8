package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/settleroom/settleroom/internal/ledger"
	"github.com/settleroom/settleroom/internal/models"
)

func submitTestRoom(t *testing.T, rooms *RoomService, total float64, participants ...string) *models.Room {
	t.Helper()
	room, err := rooms.CreateRoom(context.Background(), "alice", CreateRoomInput{
		TotalAmount:    total,
		SplitType:      models.SplitEqual,
		ParticipantIDs: participants,
	})
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	return room
}

func TestSubmitSettlement(t *testing.T) {
	rooms, settlements, _, _ := newTestServices(t)
	ctx := context.Background()
	room := submitTestRoom(t, rooms, 90, "bob", "carol")

	settlement, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{
		Amount: 30,
		Method: "venmo",
		Proof:  "txn-123",
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if settlement.Status != models.SettlementPending {
		t.Errorf("status = %s, want pending", settlement.Status)
	}
	if settlement.ID == "" || settlement.CreatedAt == 0 {
		t.Error("settlement missing ID or CreatedAt")
	}
}

func TestSubmitSettlementValidation(t *testing.T) {
	rooms, settlements, _, _ := newTestServices(t)
	ctx := context.Background()
	room := submitTestRoom(t, rooms, 90, "bob", "carol")

	tests := []struct {
		name    string
		payer   string
		input   SubmitInput
		wantErr error
	}{
		{"zero amount", "bob", SubmitInput{Amount: 0, Method: "cash"}, ledger.ErrValidation},
		{"missing method", "bob", SubmitInput{Amount: 10}, ledger.ErrValidation},
		{"amount exceeds outstanding", "bob", SubmitInput{Amount: 31, Method: "cash"}, ledger.ErrValidation},
		{"creator submits", "alice", SubmitInput{Amount: 10, Method: "cash"}, ledger.ErrValidation},
		{"outsider submits", "dave", SubmitInput{Amount: 10, Method: "cash"}, ledger.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := settlements.Submit(ctx, tt.payer, room.ID, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Submit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitSecondPendingConflicts(t *testing.T) {
	rooms, settlements, _, _ := newTestServices(t)
	ctx := context.Background()
	room := submitTestRoom(t, rooms, 90, "bob", "carol")

	if _, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 10, Method: "cash"}); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 5, Method: "cash"}); !errors.Is(err, ledger.ErrConflict) {
		t.Errorf("second Submit() error = %v, want ErrConflict", err)
	}

	// A different payer in the same room is fine.
	if _, err := settlements.Submit(ctx, "carol", room.ID, SubmitInput{Amount: 10, Method: "cash"}); err != nil {
		t.Errorf("Submit() by second payer error = %v", err)
	}
}

func TestSubmitAfterSettled(t *testing.T) {
	rooms, settlements, _, _ := newTestServices(t)
	ctx := context.Background()
	room := submitTestRoom(t, rooms, 90, "bob", "carol")

	if _, err := rooms.MarkParticipantPayment(ctx, "alice", room.ID, "bob", true); err != nil {
		t.Fatalf("MarkParticipantPayment() error = %v", err)
	}
	if _, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 10, Method: "cash"}); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("Submit() on settled share error = %v, want ErrValidation", err)
	}
}

func TestResolveApprove(t *testing.T) {
	rooms, settlements, _, notifier := newTestServices(t)
	ctx := context.Background()
	room := submitTestRoom(t, rooms, 90, "bob", "carol")

	settlement, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 30, Method: "cash"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	resolved, err := settlements.Resolve(ctx, "alice", settlement.ID, true)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Status != models.SettlementApproved {
		t.Errorf("status = %s, want approved", resolved.Status)
	}

	summary, err := rooms.GetRoomSummary(ctx, "alice", room.ID)
	if err != nil {
		t.Fatalf("GetRoomSummary() error = %v", err)
	}
	if got := summary.Room.ShareOf("bob").AmountPaid; math.Abs(got-30) > 1e-9 {
		t.Errorf("bob paid %.2f after approval, want 30.00", got)
	}

	res := notifier.wait(t)
	if res.SettlementID != settlement.ID || !res.Approved {
		t.Errorf("notification = %+v, want approved %s", res, settlement.ID)
	}
}

func TestResolveReject(t *testing.T) {
	rooms, settlements, _, notifier := newTestServices(t)
	ctx := context.Background()
	room := submitTestRoom(t, rooms, 90, "bob", "carol")

	settlement, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 30, Method: "cash"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	resolved, err := settlements.Resolve(ctx, "alice", settlement.ID, false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Status != models.SettlementRejected {
		t.Errorf("status = %s, want rejected", resolved.Status)
	}

	summary, _ := rooms.GetRoomSummary(ctx, "alice", room.ID)
	if got := summary.Room.ShareOf("bob").AmountPaid; got != 0 {
		t.Errorf("bob paid %.2f after rejection, want 0", got)
	}

	if res := notifier.wait(t); res.Approved {
		t.Error("notification reports approved for a rejection")
	}

	// The payer may try again after a rejection.
	if _, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 30, Method: "cash"}); err != nil {
		t.Errorf("Submit() after rejection error = %v", err)
	}
}

func TestResolveExactlyOnce(t *testing.T) {
	rooms, settlements, _, _ := newTestServices(t)
	ctx := context.Background()
	room := submitTestRoom(t, rooms, 90, "bob", "carol")

	settlement, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 30, Method: "cash"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := settlements.Resolve(ctx, "alice", settlement.ID, true); err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}

	if _, err := settlements.Resolve(ctx, "alice", settlement.ID, true); !errors.Is(err, ledger.ErrConflict) {
		t.Errorf("second Resolve() error = %v, want ErrConflict", err)
	}

	summary, _ := rooms.GetRoomSummary(ctx, "alice", room.ID)
	if got := summary.Room.ShareOf("bob").AmountPaid; math.Abs(got-30) > 1e-9 {
		t.Errorf("bob paid %.2f after double resolve, want 30.00", got)
	}
}

func TestResolveCreatorOnly(t *testing.T) {
	rooms, settlements, _, _ := newTestServices(t)
	ctx := context.Background()
	room := submitTestRoom(t, rooms, 90, "bob", "carol")

	settlement, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 30, Method: "cash"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	for _, caller := range []string{"bob", "carol", "dave"} {
		if _, err := settlements.Resolve(ctx, caller, settlement.ID, true); !errors.Is(err, ledger.ErrUnauthorized) {
			t.Errorf("Resolve() by %s error = %v, want ErrUnauthorized", caller, err)
		}
	}
}

func TestPartialSettlements(t *testing.T) {
	rooms, settlements, _, _ := newTestServices(t)
	ctx := context.Background()
	room := submitTestRoom(t, rooms, 90, "bob", "carol")

	// Two partial payments cover bob's 30 share.
	for _, amount := range []float64{20, 10} {
		settlement, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: amount, Method: "cash"})
		if err != nil {
			t.Fatalf("Submit(%.0f) error = %v", amount, err)
		}
		if _, err := settlements.Resolve(ctx, "alice", settlement.ID, true); err != nil {
			t.Fatalf("Resolve(%.0f) error = %v", amount, err)
		}
	}

	summary, err := rooms.GetRoomSummary(ctx, "alice", room.ID)
	if err != nil {
		t.Fatalf("GetRoomSummary() error = %v", err)
	}
	share := summary.Room.ShareOf("bob")
	if math.Abs(share.Outstanding()) > ledger.DefaultTolerance {
		t.Errorf("bob outstanding = %.2f after full partial payments, want 0", share.Outstanding())
	}

	if _, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 1, Method: "cash"}); !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("Submit() on cleared share error = %v, want ErrValidation", err)
	}
}

func TestListByRoom(t *testing.T) {
	rooms, settlements, _, _ := newTestServices(t)
	ctx := context.Background()
	room := submitTestRoom(t, rooms, 90, "bob", "carol")

	first, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 10, Method: "cash"})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := settlements.Resolve(ctx, "alice", first.ID, false); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, err := settlements.Submit(ctx, "bob", room.ID, SubmitInput{Amount: 20, Method: "venmo"}); err != nil {
		t.Fatalf("second Submit() error = %v", err)
	}

	list, err := settlements.ListByRoom(ctx, "carol", room.ID)
	if err != nil {
		t.Fatalf("ListByRoom() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("ListByRoom() = %d settlements, want 2", len(list))
	}

	if _, err := settlements.ListByRoom(ctx, "dave", room.ID); !errors.Is(err, ledger.ErrUnauthorized) {
		t.Errorf("outsider ListByRoom() error = %v, want ErrUnauthorized", err)
	}
}
