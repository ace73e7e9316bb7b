package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DraftTransaction is an extracted, not yet persisted transaction candidate.
type DraftTransaction struct {
	Date         time.Time
	Note         *string
	CategoryHint *string
	Amount       decimal.Decimal
	Chunk        int
	IsExpense    bool
	DateInferred bool
}

// CanonicalKey identifies drafts that describe the same real-world transaction.
// Time of day and category are intentionally not part of the key.
type CanonicalKey struct {
	Amount    string
	Day       string
	Note      string
	IsExpense bool
}

// Key returns the canonical dedup key of the draft.
func (d DraftTransaction) Key() CanonicalKey {
	note := ""
	if d.Note != nil {
		note = strings.ToLower(strings.TrimSpace(*d.Note))
	}

	return CanonicalKey{
		Amount:    d.Amount.Round(2).StringFixed(2),
		Day:       d.Date.Format("2006-01-02"),
		Note:      note,
		IsExpense: d.IsExpense,
	}
}

// NoteText returns the note or an empty string.
func (d DraftTransaction) NoteText() string {
	if d.Note == nil {
		return ""
	}
	return *d.Note
}

// RawRecord is a loosely-typed record decoded from inference output.
type RawRecord map[string]any
