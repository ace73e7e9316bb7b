// Package inference holds decorators around usecase.InferenceClient.
package inference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/draftledger/internal/domain"
	"github.com/iho/draftledger/internal/usecase"
)

// CachingClient serves repeated inference requests from a cache.
// Cache failures are logged and never fail a call.
type CachingClient struct {
	next   usecase.InferenceClient
	cache  usecase.Cache
	logger zerolog.Logger
	ttl    time.Duration
}

// NewCachingClient wraps next with a response cache.
func NewCachingClient(next usecase.InferenceClient, cache usecase.Cache, ttl time.Duration, logger zerolog.Logger) *CachingClient {
	return &CachingClient{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With().Str("component", "inference_cache").Logger(),
	}
}

// ExtractFromText implements usecase.InferenceClient.
func (c *CachingClient) ExtractFromText(ctx context.Context, text, currencyHint string) (string, error) {
	key := cacheKey(domain.DocumentText, currencyHint, []byte(text))
	return c.cached(ctx, key, func() (string, error) {
		return c.next.ExtractFromText(ctx, text, currencyHint)
	})
}

// ExtractFromImage implements usecase.InferenceClient.
func (c *CachingClient) ExtractFromImage(ctx context.Context, image domain.Image, currencyHint string) (string, error) {
	key := cacheKey(domain.DocumentImage, currencyHint, image.Data)
	return c.cached(ctx, key, func() (string, error) {
		return c.next.ExtractFromImage(ctx, image, currencyHint)
	})
}

func (c *CachingClient) cached(ctx context.Context, key string, call func() (string, error)) (string, error) {
	if raw, found, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn().Err(err).Msg("response cache read failed")
	} else if found {
		return raw, nil
	}

	raw, err := call()
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(raw) != "" {
		if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
			c.logger.Warn().Err(err).Msg("response cache write failed")
		}
	}

	return raw, nil
}

func cacheKey(kind domain.DocumentKind, currency string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToUpper(currency)))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
