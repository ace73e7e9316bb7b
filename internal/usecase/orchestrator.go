package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/draftledger/internal/domain"
)

// ChunkResult is the outcome of one inference unit. Exactly one of Raw or Err is meaningful.
type ChunkResult struct {
	Err   error
	Raw   string
	Chunk domain.Chunk
}

// OrchestratorConfig tunes the fan-out.
type OrchestratorConfig struct {
	Timeout     time.Duration
	Concurrency int
}

// Orchestrator fans chunks out to the inference client with bounded concurrency.
type Orchestrator struct {
	client      InferenceClient
	retrier     Retrier
	observer    Observer
	logger      zerolog.Logger
	timeout     time.Duration
	concurrency int
}

// NewOrchestrator creates a new Orchestrator. A nil retrier means every unit is tried once.
func NewOrchestrator(
	client InferenceClient,
	retrier Retrier,
	observer Observer,
	logger zerolog.Logger,
	cfg OrchestratorConfig,
) *Orchestrator {
	concurrency := cfg.Concurrency
	if concurrency <= 0 || concurrency > MaxConcurrentInferenceCalls {
		concurrency = MaxConcurrentInferenceCalls
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultInferenceTimeout
	}

	if observer == nil {
		observer = NopObserver{}
	}

	return &Orchestrator{
		client:      client,
		retrier:     retrier,
		observer:    observer,
		logger:      logger.With().Str("component", "orchestrator").Logger(),
		timeout:     timeout,
		concurrency: concurrency,
	}
}

// Concurrency returns the effective bound on calls in flight.
func (o *Orchestrator) Concurrency() int {
	return o.concurrency
}

type positionedResult struct {
	result ChunkResult
	pos    int
}

// Run sends every chunk to the inference client and returns one result per chunk,
// in chunk order. A failed unit never aborts the batch; Run returns only after
// every unit has finished.
func (o *Orchestrator) Run(ctx context.Context, chunks []domain.Chunk, currency string) []ChunkResult {
	results := make([]ChunkResult, len(chunks))
	if len(chunks) == 0 {
		return results
	}

	out := make(chan positionedResult)
	done := make(chan struct{})

	// Single writer to results.
	go func() {
		defer close(done)
		for r := range out {
			results[r.pos] = r.result
		}
	}()

	var g errgroup.Group
	g.SetLimit(o.concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			out <- positionedResult{pos: i, result: o.call(ctx, chunk, currency)}
			return nil
		})
	}

	_ = g.Wait()
	close(out)
	<-done

	return results
}

func (o *Orchestrator) call(ctx context.Context, chunk domain.Chunk, currency string) ChunkResult {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	kind := chunk.Kind()
	o.observer.InferenceStarted(kind)
	start := time.Now()

	var raw string
	operation := func() error {
		var err error
		raw, err = o.invoke(ctx, chunk, currency)
		return err
	}

	var err error
	if o.retrier != nil {
		err = o.retrier.Retry(ctx, operation)
	} else {
		err = operation()
	}

	o.observer.InferenceFinished(kind, time.Since(start), err)

	if err != nil {
		o.logger.Warn().
			Err(err).
			Int("chunk", chunk.Index).
			Str("kind", kind).
			Msg("inference unit failed")
		return ChunkResult{Chunk: chunk, Err: fmt.Errorf("%w: %w", domain.ErrInferenceFailed, err)}
	}

	return ChunkResult{Chunk: chunk, Raw: raw}
}

func (o *Orchestrator) invoke(ctx context.Context, chunk domain.Chunk, currency string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		raw string
		err error
	)
	if chunk.IsImage() {
		raw, err = o.client.ExtractFromImage(ctx, *chunk.Image, currency)
	} else {
		raw, err = o.client.ExtractFromText(ctx, chunk.Text, currency)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(raw) == "" {
		return "", domain.ErrEmptyResponse
	}

	return raw, nil
}
