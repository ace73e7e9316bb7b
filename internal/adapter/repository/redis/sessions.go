package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/iho/draftledger/internal/domain"
)

// ImportSessionStore implements usecase.ImportSessionRepository using Redis.
// Sessions expire after ttl; an expired session reads as not found.
type ImportSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewImportSessionStore creates a new ImportSessionStore.
func NewImportSessionStore(client *redis.Client, ttl time.Duration) *ImportSessionStore {
	return &ImportSessionStore{
		client: client,
		prefix: "import:",
		ttl:    ttl,
	}
}

// Save writes the session and refreshes its TTL.
func (s *ImportSessionStore) Save(ctx context.Context, session *domain.ImportSession) error {
	data, err := json.Marshal(toSessionRecord(session))
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, s.prefix+session.ID, data, s.ttl).Err()
}

// Get reads a session by ID.
func (s *ImportSessionStore) Get(ctx context.Context, id string) (*domain.ImportSession, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrImportNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return rec.toDomain(), nil
}

type sessionRecord struct {
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Receipt     *imageRecord  `json:"receipt,omitempty"`
	ID          string        `json:"id"`
	AccountID   string        `json:"account_id"`
	Currency    string        `json:"currency"`
	Status      string        `json:"status"`
	Outcome     string        `json:"outcome"`
	Drafts      []draftRecord `json:"drafts"`
	Diagnostics []string      `json:"diagnostics,omitempty"`
	Stats       statsRecord   `json:"stats"`
}

type imageRecord struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

type draftRecord struct {
	Date         time.Time       `json:"date"`
	Note         *string         `json:"note,omitempty"`
	CategoryHint *string         `json:"category_hint,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Chunk        int             `json:"chunk"`
	IsExpense    bool            `json:"is_expense"`
	DateInferred bool            `json:"date_inferred"`
}

type statsRecord struct {
	Chunks         int `json:"chunks"`
	FailedChunks   int `json:"failed_chunks"`
	UnparsedChunks int `json:"unparsed_chunks"`
	Decoded        int `json:"decoded"`
	Normalized     int `json:"normalized"`
	Collapsed      int `json:"collapsed"`
}

func toSessionRecord(s *domain.ImportSession) sessionRecord {
	rec := sessionRecord{
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		ID:          s.ID,
		AccountID:   s.AccountID,
		Currency:    s.Currency,
		Status:      string(s.Status),
		Outcome:     string(s.Outcome),
		Diagnostics: s.Diagnostics,
		Drafts:      make([]draftRecord, 0, len(s.Drafts)),
		Stats:       statsRecord(s.Stats),
	}
	if s.Receipt != nil {
		rec.Receipt = &imageRecord{
			Filename: s.Receipt.Filename,
			MIMEType: s.Receipt.MIMEType,
			Data:     s.Receipt.Data,
		}
	}
	for _, d := range s.Drafts {
		rec.Drafts = append(rec.Drafts, draftRecord(d))
	}
	return rec
}

func (r sessionRecord) toDomain() *domain.ImportSession {
	s := &domain.ImportSession{
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		ID:          r.ID,
		AccountID:   r.AccountID,
		Currency:    r.Currency,
		Status:      domain.ImportStatus(r.Status),
		Outcome:     domain.ImportOutcome(r.Outcome),
		Diagnostics: r.Diagnostics,
		Drafts:      make([]domain.DraftTransaction, 0, len(r.Drafts)),
		Stats:       domain.ExtractionStats(r.Stats),
	}
	if r.Receipt != nil {
		s.Receipt = &domain.Image{
			Filename: r.Receipt.Filename,
			MIMEType: r.Receipt.MIMEType,
			Data:     r.Receipt.Data,
		}
	}
	for _, d := range r.Drafts {
		s.Drafts = append(s.Drafts, domain.DraftTransaction(d))
	}
	return s
}
