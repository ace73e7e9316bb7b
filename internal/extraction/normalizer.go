package extraction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/draftledger/internal/domain"
)

// Normalizer maps decoded raw records onto the canonical draft schema.
type Normalizer struct {
	now func() time.Time
	loc *time.Location
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithClock sets the clock used for the default date.
func WithClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// WithLocation sets the location for dates that carry no zone.
func WithLocation(loc *time.Location) NormalizerOption {
	return func(n *Normalizer) {
		if loc != nil {
			n.loc = loc
		}
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		now: time.Now,
		loc: time.UTC,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Normalize converts one record into a draft. It returns false when no
// positive amount can be recovered; the record is then discarded.
func (n *Normalizer) Normalize(record domain.RawRecord) (domain.DraftTransaction, bool) {
	amount, ok := normalizeAmount(record)
	if !ok {
		return domain.DraftTransaction{}, false
	}

	draft := domain.DraftTransaction{
		Amount:       amount,
		Note:         firstString(record, noteFields),
		CategoryHint: firstString(record, categoryFields),
	}
	draft.IsExpense = normalizeDirection(record, draft.NoteText())

	if date, ok := n.normalizeDate(record); ok {
		draft.Date = date
	} else {
		draft.Date = n.now()
		draft.DateInferred = true
	}

	return draft, true
}

// NormalizeAll normalizes every record of one chunk, dropping discarded ones.
// It returns the drafts and the number of discarded records.
func (n *Normalizer) NormalizeAll(records []domain.RawRecord, chunk int) ([]domain.DraftTransaction, int) {
	drafts := make([]domain.DraftTransaction, 0, len(records))
	for _, r := range records {
		d, ok := n.Normalize(r)
		if !ok {
			continue
		}
		d.Chunk = chunk
		drafts = append(drafts, d)
	}
	return drafts, len(records) - len(drafts)
}

func normalizeAmount(record domain.RawRecord) (decimal.Decimal, bool) {
	for _, f := range amountFields {
		v, present := record[f.name]
		if !present {
			continue
		}
		if d, ok := f.coerce(v); ok && d.IsPositive() {
			return d, true
		}
	}
	return decimal.Zero, false
}

// normalizeDirection defaults to expense when nothing matches. Most imported
// receipts are expenses; changing the default is a product decision.
func normalizeDirection(record domain.RawRecord, note string) bool {
	for _, f := range directionFields {
		if v, present := record[f.name]; present {
			if b, ok := f.coerce(v); ok {
				return b
			}
		}
	}

	for _, name := range typeFields {
		if s, ok := coerceString(record[name]); ok {
			if isExpense, matched := classify(s); matched {
				return isExpense
			}
		}
	}

	if isExpense, matched := classify(note); matched {
		return isExpense
	}

	return true
}

func (n *Normalizer) normalizeDate(record domain.RawRecord) (time.Time, bool) {
	for _, name := range dateFields {
		s, ok := coerceString(record[name])
		if !ok {
			continue
		}
		if t, ok := parseDate(s, n.loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstString(record domain.RawRecord, names []string) *string {
	for _, name := range names {
		if s, ok := coerceString(record[name]); ok {
			return &s
		}
	}
	return nil
}
