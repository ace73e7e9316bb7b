package storage

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/draftledger/internal/domain"
	"github.com/iho/draftledger/internal/usecase/mocks"
)

func TestReceiptObjectName(t *testing.T) {
	tests := []struct {
		mime, filename, want string
	}{
		{mime: "image/jpeg", filename: "IMG_1.JPG", want: "receipts/txn-1.jpg"},
		{mime: "image/png", filename: "", want: "receipts/txn-1.png"},
		{mime: "application/octet-stream", filename: "scan.HEIC", want: "receipts/txn-1.heic"},
		{mime: "", filename: "noext", want: "receipts/txn-1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, receiptObjectName("txn-1", tt.mime, tt.filename))
	}
}

func TestFileBlobStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileBlobStore(filepath.Join(dir, "receipts-root"))
	require.NoError(t, err)

	uri, err := store.Put(context.Background(), "receipts/txn-1.jpg", "image/jpeg", []byte{1, 2, 3})
	require.NoError(t, err)

	u, err := url.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "file", u.Scheme)

	data, err := os.ReadFile(filepath.FromSlash(u.Path))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	entries, err := os.ReadDir(filepath.Join(dir, "receipts-root", "receipts"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestFileBlobStore_CancelledContext(t *testing.T) {
	store, err := NewFileBlobStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Put(ctx, "receipts/x.png", "image/png", []byte{1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReceiptStore_AttachReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	txnRepo := mocks.NewMockTransactionRepository(ctrl)

	store, err := NewFileBlobStore(t.TempDir())
	require.NoError(t, err)

	var linked string
	txnRepo.EXPECT().SetReceiptURI(gomock.Any(), "txn-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, uri string) error {
			linked = uri
			return nil
		})

	rs := NewReceiptStore(store, txnRepo)
	uri, err := rs.AttachReceipt(context.Background(), "txn-1", domain.Image{Filename: "r.png", MIMEType: "image/png", Data: []byte{9}})
	require.NoError(t, err)

	assert.Equal(t, linked, uri)
	assert.Contains(t, uri, "receipts/txn-1.png")
}

func TestReceiptStore_LinkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	txnRepo := mocks.NewMockTransactionRepository(ctrl)
	txnRepo.EXPECT().SetReceiptURI(gomock.Any(), "txn-1", gomock.Any()).Return(domain.ErrTransactionNotFound)

	store, err := NewFileBlobStore(t.TempDir())
	require.NoError(t, err)

	_, err = NewReceiptStore(store, txnRepo).AttachReceipt(context.Background(), "txn-1", domain.Image{MIMEType: "image/png", Data: []byte{9}})
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

type failingBlobs struct{}

func (failingBlobs) Put(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("bucket unavailable")
}

func TestReceiptStore_PutFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	txnRepo := mocks.NewMockTransactionRepository(ctrl)

	_, err := NewReceiptStore(failingBlobs{}, txnRepo).AttachReceipt(context.Background(), "txn-1", domain.Image{Data: []byte{1}})
	assert.ErrorContains(t, err, "bucket unavailable")
}
