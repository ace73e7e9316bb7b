package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// UncategorizedCategoryID is used when a category hint matches nothing.
const UncategorizedCategoryID = "uncategorized"

// Transaction is a persisted ledger transaction created from a confirmed draft.
type Transaction struct {
	CreatedAt  time.Time
	Date       time.Time
	Note       *string
	ReceiptURI *string
	ID         string
	AccountID  string
	CategoryID string
	ImportID   string
	Amount     decimal.Decimal
	IsExpense  bool
}

// Category is a ledger category that hints are matched against.
type Category struct {
	ID   string
	Name string
}
