package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/draftledger/internal/domain"
	"github.com/iho/draftledger/internal/infrastructure/postgres/generated"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create persists a transaction.
func (r *TransactionRepository) Create(ctx context.Context, txn *domain.Transaction) error {
	_, err := r.queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:         txn.ID,
		AccountID:  txn.AccountID,
		Amount:     decimalToNumeric(txn.Amount),
		IsExpense:  txn.IsExpense,
		Note:       stringPtrToText(txn.Note),
		CategoryID: txn.CategoryID,
		OccurredAt: timeToPgTimestamptz(txn.Date),
		ReceiptUri: stringPtrToText(txn.ReceiptURI),
		ImportID:   stringToText(txn.ImportID),
		CreatedAt:  timeToPgTimestamptz(txn.CreatedAt),
	})

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return rowToTransaction(row), nil
}

// SetReceiptURI records the stored receipt of a transaction.
func (r *TransactionRepository) SetReceiptURI(ctx context.Context, id, uri string) error {
	n, err := r.queries.SetTransactionReceiptURI(ctx, generated.SetTransactionReceiptURIParams{
		ID:         id,
		ReceiptUri: stringToText(uri),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:         row.ID,
		AccountID:  row.AccountID,
		Amount:     numericToDecimal(row.Amount),
		IsExpense:  row.IsExpense,
		Note:       textToStringPtr(row.Note),
		CategoryID: row.CategoryID,
		Date:       row.OccurredAt.Time,
		ReceiptURI: textToStringPtr(row.ReceiptUri),
		ImportID:   row.ImportID.String,
		CreatedAt:  row.CreatedAt.Time,
	}
}
