package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateCurrency(t *testing.T) {
	t.Parallel()

	if err := ValidateCurrency("inr"); err != nil {
		t.Fatalf("expected uppercase conversion to succeed, got %v", err)
	}

	if err := ValidateCurrency("XYZ"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	if err := ValidateAmount(decimal.NewFromFloat(45.99)); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	tooLarge, _ := decimal.NewFromString("1000000000001")
	if err := ValidateAmount(tooLarge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateDraft(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", MaxNoteLength+1)
	lunch := "Lunch"

	tests := []struct {
		name    string
		draft   DraftTransaction
		wantErr error
	}{
		{
			name:  "valid draft",
			draft: DraftTransaction{Amount: decimal.NewFromInt(10), Note: &lunch, Date: time.Now()},
		},
		{
			name:    "zero amount",
			draft:   DraftTransaction{Amount: decimal.Zero, Date: time.Now()},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "note too long",
			draft:   DraftTransaction{Amount: decimal.NewFromInt(1), Note: &long, Date: time.Now()},
			wantErr: ErrNoteTooLong,
		},
		{
			name:    "missing date",
			draft:   DraftTransaction{Amount: decimal.NewFromInt(1)},
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraft(tt.draft)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDraftKey(t *testing.T) {
	t.Parallel()

	note := "  Lunch "
	d := DraftTransaction{
		Amount:    decimal.RequireFromString("45.989"),
		Date:      time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC),
		Note:      &note,
		IsExpense: true,
	}

	key := d.Key()
	if key.Amount != "45.99" || key.Day != "2024-01-05" || key.Note != "lunch" || !key.IsExpense {
		t.Fatalf("unexpected key %+v", key)
	}

	d.Note = nil
	if d.Key().Note != "" {
		t.Fatalf("expected empty note in key, got %q", d.Key().Note)
	}
}
