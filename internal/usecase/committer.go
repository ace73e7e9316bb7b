package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/draftledger/internal/domain"
)

// CommitInput is a confirmed batch of drafts.
type CommitInput struct {
	// Receipt is set only when the import came from exactly one image.
	Receipt   *domain.Image
	AccountID string
	ImportID  string
	Drafts    []domain.DraftTransaction
}

// Committer persists confirmed drafts one at a time.
type Committer struct {
	txnRepo      TransactionRepository
	categoryRepo CategoryRepository
	receipts     ReceiptStore
	retrier      Retrier
	idGen        IDGenerator
	observer     Observer
	logger       zerolog.Logger
	now          func() time.Time
}

// NewCommitter creates a new Committer. receipts may be nil when receipt storage is disabled.
func NewCommitter(
	txnRepo TransactionRepository,
	categoryRepo CategoryRepository,
	receipts ReceiptStore,
	retrier Retrier,
	idGen IDGenerator,
	observer Observer,
	logger zerolog.Logger,
) *Committer {
	if observer == nil {
		observer = NopObserver{}
	}

	return &Committer{
		txnRepo:      txnRepo,
		categoryRepo: categoryRepo,
		receipts:     receipts,
		retrier:      retrier,
		idGen:        idGen,
		observer:     observer,
		logger:       logger.With().Str("component", "committer").Logger(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Commit creates one transaction per draft. A failed draft is recorded and
// does not undo drafts that were already created.
func (c *Committer) Commit(ctx context.Context, input CommitInput) domain.CommitSummary {
	summary := domain.CommitSummary{
		ImportID:  input.ImportID,
		Submitted: len(input.Drafts),
		Records:   make([]domain.CommitRecord, 0, len(input.Drafts)),
	}

	var created []string
	for i, draft := range input.Drafts {
		id, err := c.commitOne(ctx, input, draft)
		c.observer.DraftCommitted(err)

		record := domain.CommitRecord{Index: i, TransactionID: id}
		if err != nil {
			c.logger.Error().
				Err(err).
				Str("import_id", input.ImportID).
				Int("draft", i).
				Msg("failed to create transaction")
			record.Error = err.Error()
			summary.Failed++
		} else {
			summary.Created++
			created = append(created, id)
		}
		summary.Records = append(summary.Records, record)
	}

	if input.Receipt != nil && c.receipts != nil && summary.Submitted == 1 && len(created) == 1 {
		if _, err := c.receipts.AttachReceipt(ctx, created[0], *input.Receipt); err != nil {
			c.logger.Error().
				Err(err).
				Str("transaction_id", created[0]).
				Msg("failed to attach receipt")
		} else {
			summary.ReceiptAttached = true
		}
	}

	return summary
}

func (c *Committer) commitOne(ctx context.Context, input CommitInput, draft domain.DraftTransaction) (string, error) {
	categoryID, err := c.resolveCategory(ctx, draft.CategoryHint)
	if err != nil {
		return "", err
	}

	txn := &domain.Transaction{
		ID:         c.idGen.Generate(),
		AccountID:  input.AccountID,
		ImportID:   input.ImportID,
		Amount:     draft.Amount,
		IsExpense:  draft.IsExpense,
		Note:       draft.Note,
		CategoryID: categoryID,
		Date:       draft.Date,
		CreatedAt:  c.now(),
	}

	create := func() error {
		return c.txnRepo.Create(ctx, txn)
	}
	if c.retrier != nil {
		err = c.retrier.Retry(ctx, create)
	} else {
		err = create()
	}
	if err != nil {
		return "", err
	}

	return txn.ID, nil
}

func (c *Committer) resolveCategory(ctx context.Context, hint *string) (string, error) {
	if hint == nil || strings.TrimSpace(*hint) == "" {
		return domain.UncategorizedCategoryID, nil
	}

	category, err := c.categoryRepo.FindByNameContains(ctx, strings.TrimSpace(*hint))
	if err != nil {
		return "", err
	}
	if category == nil {
		return domain.UncategorizedCategoryID, nil
	}

	return category.ID, nil
}
