package usecase

import "time"

const (
	// MaxConcurrentInferenceCalls is the hard cap on inference calls in flight for one import.
	// Configuration may lower it but never raise it.
	MaxConcurrentInferenceCalls = 3

	// DefaultInferenceTimeout bounds a single inference unit, retries included
	DefaultInferenceTimeout = 60 * time.Second

	// MaxDiagnosticBytes truncates each raw response kept for a parse_failed import
	MaxDiagnosticBytes = 4 << 10

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
