package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/draftledger/internal/usecase"
)

// DraftRequest is one reviewed draft in a confirm request.
type DraftRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	IsExpense    bool            `json:"is_expense"`
	Note         *string         `json:"note,omitempty"`
	CategoryHint *string         `json:"category_hint,omitempty"`
	Date         string          `json:"date"`
}

// ConfirmImportRequest represents a request to confirm a pending import.
// Omitting drafts confirms the stored drafts as extracted.
type ConfirmImportRequest struct {
	Drafts *[]DraftRequest `json:"drafts,omitempty"`
}

var draftDateLayouts = []string{time.RFC3339, "2006-01-02"}

// ToUseCaseInput converts to use case input.
func (r *ConfirmImportRequest) ToUseCaseInput() (usecase.ConfirmInput, error) {
	if r.Drafts == nil {
		return usecase.ConfirmInput{}, nil
	}

	drafts := make([]usecase.DraftInput, 0, len(*r.Drafts))
	for i, d := range *r.Drafts {
		date, err := parseDraftDate(d.Date)
		if err != nil {
			return usecase.ConfirmInput{}, fmt.Errorf("draft %d: %w", i, err)
		}

		drafts = append(drafts, usecase.DraftInput{
			Amount:       d.Amount,
			IsExpense:    d.IsExpense,
			Note:         d.Note,
			CategoryHint: d.CategoryHint,
			Date:         date,
		})
	}

	return usecase.ConfirmInput{Drafts: drafts}, nil
}

func parseDraftDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	for _, layout := range draftDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
