package inference

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/draftledger/internal/domain"
)

// Retrier implements usecase.Retrier for inference calls with exponential backoff.
// Empty responses and context errors are never retried.
type Retrier struct {
	logger          zerolog.Logger
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewRetrier creates a Retrier allowing up to maxRetries extra attempts.
// With maxRetries <= 0 every call is tried exactly once.
func NewRetrier(maxRetries int, logger zerolog.Logger) *Retrier {
	return &Retrier{
		logger:          logger.With().Str("component", "inference_retrier").Logger(),
		maxRetries:      maxRetries,
		initialInterval: 500 * time.Millisecond,
		maxInterval:     5 * time.Second,
	}
}

// Retry executes operation, retrying transient failures.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	if r.maxRetries <= 0 {
		return operation()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = 0

	attempt := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		if !isRetryable(err) {
			return backoff.Permanent(err)
		}

		attempt++
		r.logger.Warn().Err(err).Int("retry", attempt).Msg("inference call failed, retrying")
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.maxRetries)), ctx))
}

func isRetryable(err error) bool {
	switch {
	case errors.Is(err, domain.ErrEmptyResponse),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
