package storage

import (
	"context"
	"fmt"

	"github.com/iho/draftledger/internal/domain"
)

// receiptLinker records a receipt URI on a transaction.
type receiptLinker interface {
	SetReceiptURI(ctx context.Context, id, uri string) error
}

// ReceiptStore implements usecase.ReceiptStore on top of a BlobStore.
type ReceiptStore struct {
	blobs  BlobStore
	linker receiptLinker
}

// NewReceiptStore creates a new ReceiptStore.
func NewReceiptStore(blobs BlobStore, linker receiptLinker) *ReceiptStore {
	return &ReceiptStore{blobs: blobs, linker: linker}
}

// AttachReceipt uploads the image and links it to the transaction.
func (s *ReceiptStore) AttachReceipt(ctx context.Context, transactionID string, image domain.Image) (string, error) {
	name := receiptObjectName(transactionID, image.MIMEType, image.Filename)

	uri, err := s.blobs.Put(ctx, name, image.MIMEType, image.Data)
	if err != nil {
		return "", fmt.Errorf("store receipt: %w", err)
	}

	if err := s.linker.SetReceiptURI(ctx, transactionID, uri); err != nil {
		return "", fmt.Errorf("link receipt: %w", err)
	}

	return uri, nil
}
