package domain

import "time"

// ImportStatus is the confirmation state of an import session.
type ImportStatus string

const (
	ImportPending   ImportStatus = "pending"
	ImportConfirmed ImportStatus = "confirmed"
	ImportCancelled ImportStatus = "cancelled"
)

// ImportOutcome summarises what extraction produced.
type ImportOutcome string

const (
	// OutcomeDraftsFound means at least one draft survived dedup.
	OutcomeDraftsFound ImportOutcome = "drafts_found"
	// OutcomeNoTransactions means extraction ran but nothing usable came out.
	OutcomeNoTransactions ImportOutcome = "no_transactions"
	// OutcomeParseFailed means every responding unit returned unparseable text.
	// Diagnostics carry the raw responses.
	OutcomeParseFailed ImportOutcome = "parse_failed"
)

// ExtractionStats counts what happened to each stage of an extraction run.
type ExtractionStats struct {
	Chunks         int
	FailedChunks   int
	UnparsedChunks int
	Decoded        int
	Normalized     int
	Collapsed      int
}

// ImportSession holds extracted drafts while they wait at the confirmation gate.
type ImportSession struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Receipt     *Image
	ID          string
	AccountID   string
	Currency    string
	Status      ImportStatus
	Outcome     ImportOutcome
	Drafts      []DraftTransaction
	Diagnostics []string
	Stats       ExtractionStats
}

// IsPending reports whether the session can still be confirmed or cancelled.
func (s *ImportSession) IsPending() bool {
	return s.Status == ImportPending
}

// CommitRecord is the per-draft result of a commit.
type CommitRecord struct {
	TransactionID string
	Error         string
	Index         int
}

// CommitSummary reports how many confirmed drafts were persisted.
type CommitSummary struct {
	ImportID        string
	Records         []CommitRecord
	Submitted       int
	Created         int
	Failed          int
	ReceiptAttached bool
}

// Partial reports whether some but not all drafts were created.
func (s CommitSummary) Partial() bool {
	return s.Created > 0 && s.Created < s.Submitted
}
