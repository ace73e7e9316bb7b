package usecase_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/draftledger/internal/domain"
	"github.com/iho/draftledger/internal/usecase"
)

func textChunks(n int) []domain.Chunk {
	chunks := make([]domain.Chunk, n)
	for i := range chunks {
		chunks[i] = domain.Chunk{Index: i, Text: "chunk-" + strconv.Itoa(i)}
	}
	return chunks
}

func TestOrchestrator_BoundsConcurrency(t *testing.T) {
	client := &fakeInference{
		delay:     20 * time.Millisecond,
		responses: map[string]string{},
	}
	chunks := textChunks(10)
	for _, c := range chunks {
		client.responses[c.Text] = "[]"
	}

	o := usecase.NewOrchestrator(client, nil, nil, zerolog.Nop(), usecase.OrchestratorConfig{Concurrency: 3})
	results := o.Run(context.Background(), chunks, "INR")

	require.Len(t, results, 10)
	assert.Equal(t, 10, client.calls)
	assert.LessOrEqual(t, client.peak(), usecase.MaxConcurrentInferenceCalls)
	assert.GreaterOrEqual(t, client.peak(), 1)
	for i, r := range results {
		assert.Equal(t, i, r.Chunk.Index, "results are in chunk order")
		assert.NoError(t, r.Err)
	}
}

func TestOrchestrator_ConcurrencyIsClamped(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{name: "above cap", requested: 10, want: 3},
		{name: "unset", requested: 0, want: 3},
		{name: "lowered", requested: 1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := usecase.NewOrchestrator(&fakeInference{}, nil, nil, zerolog.Nop(), usecase.OrchestratorConfig{Concurrency: tt.requested})
			assert.Equal(t, tt.want, o.Concurrency())
		})
	}
}

func TestOrchestrator_SerialWhenLimitedToOne(t *testing.T) {
	client := &fakeInference{delay: 5 * time.Millisecond}
	o := usecase.NewOrchestrator(client, nil, nil, zerolog.Nop(), usecase.OrchestratorConfig{Concurrency: 1})

	o.Run(context.Background(), textChunks(5), "INR")

	assert.Equal(t, 1, client.peak())
}

func TestOrchestrator_FailuresArePerUnit(t *testing.T) {
	chunks := textChunks(4)
	client := &fakeInference{
		responses: map[string]string{
			chunks[0].Text: `[{"amount": 1}]`,
			chunks[2].Text: "   ",
			chunks[3].Text: `[{"amount": 3}]`,
		},
		failures: map[string]error{
			chunks[1].Text: errUpstream,
		},
	}

	o := usecase.NewOrchestrator(client, nil, nil, zerolog.Nop(), usecase.OrchestratorConfig{})
	results := o.Run(context.Background(), chunks, "INR")

	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, `[{"amount": 1}]`, results[0].Raw)

	assert.ErrorIs(t, results[1].Err, domain.ErrInferenceFailed)
	assert.ErrorIs(t, results[1].Err, errUpstream)

	assert.ErrorIs(t, results[2].Err, domain.ErrEmptyResponse)

	assert.NoError(t, results[3].Err)
}

func TestOrchestrator_TimeoutIsPerUnit(t *testing.T) {
	client := &fakeInference{delay: time.Second}
	o := usecase.NewOrchestrator(client, nil, nil, zerolog.Nop(), usecase.OrchestratorConfig{Timeout: 10 * time.Millisecond})

	start := time.Now()
	results := o.Run(context.Background(), textChunks(3), "INR")

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
	}
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeInference{}
	o := usecase.NewOrchestrator(client, nil, nil, zerolog.Nop(), usecase.OrchestratorConfig{})
	results := o.Run(ctx, textChunks(5), "INR")

	require.Len(t, results, 5)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Zero(t, client.calls, "no call is issued after cancellation")
}

func TestOrchestrator_ImageChunk(t *testing.T) {
	client := &fakeInference{image: `[{"amount": "12.00"}]`}
	o := usecase.NewOrchestrator(client, nil, nil, zerolog.Nop(), usecase.OrchestratorConfig{})

	img := &domain.Image{Filename: "r.jpg", MIMEType: "image/jpeg", Data: []byte{0xff}}
	results := o.Run(context.Background(), []domain.Chunk{{Index: 0, Image: img}}, "INR")

	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, client.image, results[0].Raw)
}

// twiceRetrier runs the operation at most twice.
type twiceRetrier struct{ attempts int }

func (r *twiceRetrier) Retry(_ context.Context, op func() error) error {
	var err error
	for i := 0; i < 2; i++ {
		r.attempts++
		if err = op(); err == nil {
			return nil
		}
	}
	return err
}

type flakyInference struct {
	fakeInference
	failFirst int
}

func (f *flakyInference) ExtractFromText(ctx context.Context, text, currency string) (string, error) {
	f.mu.Lock()
	attempt := f.calls
	f.mu.Unlock()
	if attempt < f.failFirst {
		f.mu.Lock()
		f.calls++
		f.mu.Unlock()
		return "", errors.New("transient")
	}
	return f.fakeInference.ExtractFromText(ctx, text, currency)
}

func TestOrchestrator_Retries(t *testing.T) {
	client := &flakyInference{
		fakeInference: fakeInference{responses: map[string]string{"chunk-0": "[]"}},
		failFirst:     1,
	}
	retrier := &twiceRetrier{}

	o := usecase.NewOrchestrator(client, retrier, nil, zerolog.Nop(), usecase.OrchestratorConfig{})
	results := o.Run(context.Background(), textChunks(1), "INR")

	require.NoError(t, results[0].Err)
	assert.Equal(t, "[]", results[0].Raw)
	assert.Equal(t, 2, retrier.attempts)
}

func TestOrchestrator_NoChunks(t *testing.T) {
	o := usecase.NewOrchestrator(&fakeInference{}, nil, nil, zerolog.Nop(), usecase.OrchestratorConfig{})
	assert.Empty(t, o.Run(context.Background(), nil, "INR"))
}
