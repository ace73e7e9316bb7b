package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/draftledger/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DraftResponse represents a draft transaction in API responses.
type DraftResponse struct {
	Amount       decimal.Decimal `json:"amount"`
	IsExpense    bool            `json:"is_expense"`
	Note         *string         `json:"note,omitempty"`
	CategoryHint *string         `json:"category_hint,omitempty"`
	Date         time.Time       `json:"date"`
	DateInferred bool            `json:"date_inferred"`
	Chunk        int             `json:"chunk"`
}

// StatsResponse reports extraction counters.
type StatsResponse struct {
	Chunks         int `json:"chunks"`
	FailedChunks   int `json:"failed_chunks"`
	UnparsedChunks int `json:"unparsed_chunks"`
	Decoded        int `json:"decoded"`
	Normalized     int `json:"normalized"`
	Collapsed      int `json:"collapsed"`
}

// ImportResponse represents an import session in API responses.
type ImportResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Currency    string          `json:"currency"`
	Status      string          `json:"status"`
	Outcome     string          `json:"outcome"`
	Drafts      []DraftResponse `json:"drafts"`
	Diagnostics []string        `json:"diagnostics,omitempty"`
	Stats       StatsResponse   `json:"stats"`
	HasReceipt  bool            `json:"has_receipt"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ImportFromDomain converts a domain import session to response.
func ImportFromDomain(s *domain.ImportSession) *ImportResponse {
	drafts := make([]DraftResponse, len(s.Drafts))
	for i, d := range s.Drafts {
		drafts[i] = DraftResponse{
			Amount:       d.Amount,
			IsExpense:    d.IsExpense,
			Note:         d.Note,
			CategoryHint: d.CategoryHint,
			Date:         d.Date,
			DateInferred: d.DateInferred,
			Chunk:        d.Chunk,
		}
	}

	return &ImportResponse{
		ID:          s.ID,
		AccountID:   s.AccountID,
		Currency:    s.Currency,
		Status:      string(s.Status),
		Outcome:     string(s.Outcome),
		Drafts:      drafts,
		Diagnostics: s.Diagnostics,
		Stats: StatsResponse{
			Chunks:         s.Stats.Chunks,
			FailedChunks:   s.Stats.FailedChunks,
			UnparsedChunks: s.Stats.UnparsedChunks,
			Decoded:        s.Stats.Decoded,
			Normalized:     s.Stats.Normalized,
			Collapsed:      s.Stats.Collapsed,
		},
		HasReceipt: s.Receipt != nil,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// CommitRecordResponse is the per-draft result of a commit.
type CommitRecordResponse struct {
	Index         int    `json:"index"`
	TransactionID string `json:"transaction_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

// CommitSummaryResponse represents the result of confirming an import.
type CommitSummaryResponse struct {
	ImportID        string                 `json:"import_id"`
	Submitted       int                    `json:"submitted"`
	Created         int                    `json:"created"`
	Failed          int                    `json:"failed"`
	Partial         bool                   `json:"partial"`
	ReceiptAttached bool                   `json:"receipt_attached"`
	Records         []CommitRecordResponse `json:"records"`
}

// CommitSummaryFromDomain converts a domain commit summary to response.
func CommitSummaryFromDomain(s *domain.CommitSummary) *CommitSummaryResponse {
	records := make([]CommitRecordResponse, len(s.Records))
	for i, r := range s.Records {
		records[i] = CommitRecordResponse{
			Index:         r.Index,
			TransactionID: r.TransactionID,
			Error:         r.Error,
		}
	}

	return &CommitSummaryResponse{
		ImportID:        s.ImportID,
		Submitted:       s.Submitted,
		Created:         s.Created,
		Failed:          s.Failed,
		Partial:         s.Partial(),
		ReceiptAttached: s.ReceiptAttached,
		Records:         records,
	}
}
