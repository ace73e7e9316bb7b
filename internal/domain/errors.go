package domain

import "errors"

var (
	// Document errors
	ErrInvalidChunkSize    = errors.New("chunk size must be positive")
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrEmptyDocument       = errors.New("document contains no extractable content")

	// Draft errors
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrAccountRequired = errors.New("account id is required")
	ErrNoDrafts        = errors.New("no drafts to confirm")

	// Import errors
	ErrImportNotFound   = errors.New("import not found")
	ErrImportNotPending = errors.New("import is not pending confirmation")

	// Inference errors
	ErrInferenceFailed = errors.New("inference call failed")
	ErrEmptyResponse   = errors.New("inference returned an empty response")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
)
