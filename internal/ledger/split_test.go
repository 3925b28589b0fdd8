package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/settleroom/settleroom/internal/models"
)

func TestComputeShares(t *testing.T) {
	tests := []struct {
		name          string
		total         float64
		split         models.SplitType
		creator       string
		participants  []string
		customAmounts []float64
		wantErr       error
		validateFunc  func(t *testing.T, shares []models.Share)
	}{
		{
			name:         "equal split charges total over k+1",
			total:        90.0,
			split:        models.SplitEqual,
			creator:      "creator",
			participants: []string{"alice", "bob"},
			validateFunc: func(t *testing.T, shares []models.Share) {
				// Dinner scenario: total 90, creator + 2 participants,
				// each participant owes 90/3 = 30.
				if len(shares) != 3 {
					t.Fatalf("expected 3 shares, got %d", len(shares))
				}
				for _, s := range shares {
					if s.IsCreator {
						if s.AmountOwed != 0 {
							t.Errorf("creator owed = %v, want 0", s.AmountOwed)
						}
						continue
					}
					if math.Abs(s.AmountOwed-30.0) > 0.01 {
						t.Errorf("%s owed = %v, want 30.0", s.UserID, s.AmountOwed)
					}
				}
			},
		},
		{
			name:          "custom split charges listed amounts",
			total:         100.0,
			split:         models.SplitCustom,
			creator:       "creator",
			participants:  []string{"alice", "bob"},
			customAmounts: []float64{60.0, 25.0},
			validateFunc: func(t *testing.T, shares []models.Share) {
				// Remainder 15 is absorbed by the creator, never charged.
				want := map[string]float64{"creator": 0, "alice": 60.0, "bob": 25.0}
				for _, s := range shares {
					if math.Abs(s.AmountOwed-want[s.UserID]) > 0.01 {
						t.Errorf("%s owed = %v, want %v", s.UserID, s.AmountOwed, want[s.UserID])
					}
				}
			},
		},
		{
			name:         "zero total",
			total:        0,
			split:        models.SplitEqual,
			creator:      "creator",
			participants: []string{"alice"},
			wantErr:      ErrValidation,
		},
		{
			name:         "negative total",
			total:        -10.0,
			split:        models.SplitEqual,
			creator:      "creator",
			participants: []string{"alice"},
			wantErr:      ErrValidation,
		},
		{
			name:         "empty participant list",
			total:        50.0,
			split:        models.SplitEqual,
			creator:      "creator",
			participants: []string{},
			wantErr:      ErrValidation,
		},
		{
			name:         "creator listed as participant",
			total:        50.0,
			split:        models.SplitEqual,
			creator:      "creator",
			participants: []string{"creator", "alice"},
			wantErr:      ErrValidation,
		},
		{
			name:         "duplicate participant",
			total:        50.0,
			split:        models.SplitEqual,
			creator:      "creator",
			participants: []string{"alice", "alice"},
			wantErr:      ErrValidation,
		},
		{
			name:          "custom amounts exceed total",
			total:         50.0,
			split:         models.SplitCustom,
			creator:       "creator",
			participants:  []string{"alice", "bob"},
			customAmounts: []float64{40.0, 20.0},
			wantErr:       ErrValidation,
		},
		{
			name:          "custom amounts length mismatch",
			total:         50.0,
			split:         models.SplitCustom,
			creator:       "creator",
			participants:  []string{"alice", "bob"},
			customAmounts: []float64{50.0},
			wantErr:       ErrValidation,
		},
		{
			name:          "non-positive custom amount",
			total:         50.0,
			split:         models.SplitCustom,
			creator:       "creator",
			participants:  []string{"alice", "bob"},
			customAmounts: []float64{50.0, -5.0},
			wantErr:       ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := ComputeShares("room-1", tt.total, tt.split, tt.creator, tt.participants, tt.customAmounts, DefaultTolerance)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ComputeShares() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputeShares() unexpected error: %v", err)
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, shares)
			}
		})
	}
}

func TestComputeShares_EqualConservation(t *testing.T) {
	// Awkward divisions: the participants' owed sum must stay within
	// tolerance of total*k/(k+1) for any roster size.
	totals := []float64{100.0, 99.99, 33.34, 7.77}
	for _, total := range totals {
		for k := 1; k <= 7; k++ {
			participants := make([]string, k)
			for i := range participants {
				participants[i] = string(rune('a' + i))
			}
			shares, err := ComputeShares("r", total, models.SplitEqual, "creator", participants, nil, DefaultTolerance)
			if err != nil {
				t.Fatalf("ComputeShares(total=%v, k=%d) failed: %v", total, k, err)
			}
			sum := 0.0
			for _, s := range shares {
				sum += s.AmountOwed
			}
			want := total * float64(k) / float64(k+1)
			if math.Abs(sum-want) > 0.01 {
				t.Errorf("total=%v k=%d: owed sum = %v, want %v", total, k, sum, want)
			}
		}
	}
}

func TestIsSettled(t *testing.T) {
	shares := []models.Share{
		{UserID: "creator", IsCreator: true},
		{UserID: "alice", AmountOwed: 30.0, AmountPaid: 30.0},
		{UserID: "bob", AmountOwed: 30.0, AmountPaid: 10.0},
	}
	if IsSettled(shares, DefaultTolerance) {
		t.Error("room with outstanding share reported settled")
	}

	shares[2].AmountPaid = 29.995 // within tolerance
	if !IsSettled(shares, DefaultTolerance) {
		t.Error("room settled within tolerance reported unsettled")
	}

	if !IsSettled([]models.Share{{UserID: "creator", IsCreator: true}}, DefaultTolerance) {
		t.Error("creator-only room should be settled")
	}
}
