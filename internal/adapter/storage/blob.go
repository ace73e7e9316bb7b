// Package storage stores receipt images and links them to transactions.
package storage

import (
	"context"
	"path"
	"strings"
)

// BlobStore writes an object and returns its URI.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// receiptObjectName returns receipts/<id><ext>, taking the extension from the
// MIME type and then from the original filename.
func receiptObjectName(transactionID, mimeType, filename string) string {
	ext, ok := mimeExtensions[strings.ToLower(mimeType)]
	if !ok {
		ext = strings.ToLower(path.Ext(filename))
	}
	return path.Join("receipts", transactionID+ext)
}
