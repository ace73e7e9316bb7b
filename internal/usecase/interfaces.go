package usecase

import (
	"context"
	"time"

	"github.com/iho/draftledger/internal/domain"
)

// InferenceClient extracts transaction-like text from one unit of a document.
// The returned text is free-form and is not trusted to be valid JSON.
type InferenceClient interface {
	ExtractFromText(ctx context.Context, text, currencyHint string) (string, error)
	ExtractFromImage(ctx context.Context, image domain.Image, currencyHint string) (string, error)
}

// ImportSessionRepository stores pending import sessions between extraction and confirmation.
type ImportSessionRepository interface {
	Save(ctx context.Context, session *domain.ImportSession) error
	Get(ctx context.Context, id string) (*domain.ImportSession, error)
}

// TransactionRepository defines data access for persisted transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	SetReceiptURI(ctx context.Context, id, uri string) error
}

// CategoryRepository resolves category hints.
type CategoryRepository interface {
	// FindByNameContains returns the best case-insensitive substring match,
	// or nil when nothing matches.
	FindByNameContains(ctx context.Context, fragment string) (*domain.Category, error)
}

// ReceiptStore attaches a receipt image to a persisted transaction and
// returns the receipt URI.
type ReceiptStore interface {
	AttachReceipt(ctx context.Context, transactionID string, image domain.Image) (string, error)
}

// Retrier re-runs an operation on transient failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	// Get returns (value, found, error).
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Observer receives pipeline events for metrics.
type Observer interface {
	InferenceStarted(kind string)
	InferenceFinished(kind string, d time.Duration, err error)
	ChunkParsed(strategy string)
	DraftsDiscarded(n int)
	DraftsCollapsed(n int)
	ImportExtracted(outcome domain.ImportOutcome)
	DraftCommitted(err error)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) InferenceStarted(string)                        {}
func (NopObserver) InferenceFinished(string, time.Duration, error) {}
func (NopObserver) ChunkParsed(string)                             {}
func (NopObserver) DraftsDiscarded(int)                            {}
func (NopObserver) DraftsCollapsed(int)                            {}
func (NopObserver) ImportExtracted(domain.ImportOutcome)           {}
func (NopObserver) DraftCommitted(error)                           {}
