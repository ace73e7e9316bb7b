package extraction

import "github.com/iho/draftledger/internal/domain"

// Dedupe collapses drafts that share a canonical key, keeping the first
// occurrence and preserving order. It returns the kept drafts and how many
// were collapsed.
//
// Two distinct transactions with the same day, amount, note and direction
// collapse into one. The key deliberately ignores time of day and category.
func Dedupe(drafts []domain.DraftTransaction) ([]domain.DraftTransaction, int) {
	seen := make(map[domain.CanonicalKey]struct{}, len(drafts))
	kept := make([]domain.DraftTransaction, 0, len(drafts))

	for _, d := range drafts {
		key := d.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, d)
	}

	return kept, len(drafts) - len(kept)
}
