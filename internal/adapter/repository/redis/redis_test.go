package redis

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/draftledger/internal/domain"
)

func TestResponseCache(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewResponseCache(client)
	ctx := context.Background()

	_, found, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "abc", `[{"amount":1}]`, time.Minute))
	assert.True(t, mr.Exists("inference:abc"))

	val, found, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"amount":1}]`, val)

	mr.FastForward(2 * time.Minute)
	_, found, err = cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResponseCache_ConnectionError(t *testing.T) {
	client, mr := newTestRedisClient(t)
	mr.Close()

	_, _, err := NewResponseCache(client).Get(context.Background(), "abc")
	assert.Error(t, err)
}

func TestIdempotencyStore_CheckAndSetExisting(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, store.prefix+"key", "cached", time.Minute).Err())

	exists, resp, err := store.CheckAndSet(ctx, "key", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "cached", string(resp))
}

func TestIdempotencyStore_CheckAndSetLocksNewKey(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "pending", nil, time.Minute)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, resp)

	val, err := mr.Get(store.prefix + "pending")
	require.NoError(t, err)
	assert.Equal(t, ProcessingMarker, val)

	exists, resp, err = store.CheckAndSet(ctx, "pending", nil, time.Minute)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, ProcessingMarker, string(resp))
}

func TestIdempotencyStore_UpdateAndRelease(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, "complete", []byte("done"), time.Minute))
	val, err := mr.Get(store.prefix + "complete")
	require.NoError(t, err)
	assert.Equal(t, "done", val)
	assert.Greater(t, mr.TTL(store.prefix+"complete"), time.Duration(0))

	require.NoError(t, store.Release(ctx, "complete"))
	assert.False(t, mr.Exists(store.prefix+"complete"))
}

func TestImportSessionStore_RoundTrip(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewImportSessionStore(client, time.Hour)
	ctx := context.Background()

	note := "Lunch"
	created := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	session := &domain.ImportSession{
		ID:        "imp-1",
		AccountID: "acc-1",
		Currency:  "INR",
		Status:    domain.ImportPending,
		Outcome:   domain.OutcomeDraftsFound,
		CreatedAt: created,
		UpdatedAt: created,
		Receipt:   &domain.Image{Filename: "r.jpg", MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}},
		Drafts: []domain.DraftTransaction{
			{Amount: decimal.RequireFromString("45.99"), Date: created, Note: &note, IsExpense: true, Chunk: 2},
			{Amount: decimal.NewFromInt(1200), Date: created, DateInferred: true},
		},
		Diagnostics: []string{"garbage"},
		Stats:       domain.ExtractionStats{Chunks: 3, FailedChunks: 1, Decoded: 3, Normalized: 3, Collapsed: 1},
	}

	require.NoError(t, store.Save(ctx, session))
	assert.Equal(t, time.Hour, mr.TTL("import:imp-1"))

	got, err := store.Get(ctx, "imp-1")
	require.NoError(t, err)

	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.Status, got.Status)
	assert.Equal(t, session.Outcome, got.Outcome)
	assert.Equal(t, session.Stats, got.Stats)
	assert.Equal(t, session.Diagnostics, got.Diagnostics)
	assert.True(t, got.CreatedAt.Equal(created))
	require.NotNil(t, got.Receipt)
	assert.Equal(t, session.Receipt.Data, got.Receipt.Data)

	require.Len(t, got.Drafts, 2)
	assert.True(t, got.Drafts[0].Amount.Equal(session.Drafts[0].Amount))
	assert.Equal(t, "Lunch", got.Drafts[0].NoteText())
	assert.Equal(t, 2, got.Drafts[0].Chunk)
	assert.True(t, got.Drafts[0].IsExpense)
	assert.True(t, got.Drafts[1].DateInferred)
	assert.Nil(t, got.Drafts[1].Note)
	assert.Equal(t, session.Drafts[0].Key(), got.Drafts[0].Key())
}

func TestImportSessionStore_NotFoundAndExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewImportSessionStore(client, time.Minute)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrImportNotFound)

	require.NoError(t, store.Save(ctx, &domain.ImportSession{ID: "imp-2", Status: domain.ImportPending}))
	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, "imp-2")
	assert.ErrorIs(t, err, domain.ErrImportNotFound)
}

func TestImportSessionStore_CorruptPayload(t *testing.T) {
	client, mr := newTestRedisClient(t)

	require.NoError(t, mr.Set("import:bad", "{not json"))

	_, err := NewImportSessionStore(client, time.Minute).Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrImportNotFound)
}
