// Package document turns uploaded files into documents ready for segmentation.
package document

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/iho/draftledger/internal/domain"
)

// Upload is a file as received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type format int

const (
	formatUnknown format = iota
	formatText
	formatXLSX
	formatPDF
	formatImage
)

var extensionFormats = map[string]format{
	".txt":  formatText,
	".csv":  formatText,
	".tsv":  formatText,
	".json": formatText,
	".xlsx": formatXLSX,
	".pdf":  formatPDF,
	".jpg":  formatImage,
	".jpeg": formatImage,
	".png":  formatImage,
	".webp": formatImage,
	".heic": formatImage,
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
}

var contentTypeFormats = map[string]format{
	"text/plain":       formatText,
	"text/csv":         formatText,
	"application/json": formatText,
	"application/pdf":  formatPDF,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": formatXLSX,
	"image/jpeg": formatImage,
	"image/png":  formatImage,
	"image/webp": formatImage,
	"image/heic": formatImage,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader converts uploads into domain documents.
type Loader struct {
	pdf    *PDFExtractor
	logger zerolog.Logger
}

// NewLoader creates a new Loader.
func NewLoader(pdf *PDFExtractor, logger zerolog.Logger) *Loader {
	return &Loader{
		pdf:    pdf,
		logger: logger.With().Str("component", "document_loader").Logger(),
	}
}

// Load detects the upload format and extracts its content.
func (l *Loader) Load(ctx context.Context, up Upload) (domain.Document, error) {
	if len(up.Data) == 0 {
		return domain.Document{}, domain.ErrEmptyDocument
	}

	f := detect(up)
	l.logger.Debug().
		Str("filename", up.Filename).
		Str("content_type", up.ContentType).
		Int("bytes", len(up.Data)).
		Msg("loading document")

	switch f {
	case formatText:
		data := bytes.TrimPrefix(up.Data, utf8BOM)
		if !utf8.Valid(data) {
			return domain.Document{}, fmt.Errorf("%w: text is not valid UTF-8", domain.ErrUnsupportedDocument)
		}
		return textDocument(up.Filename, string(data)), nil

	case formatXLSX:
		text, err := spreadsheetText(up.Data)
		if err != nil {
			return domain.Document{}, err
		}
		return textDocument(up.Filename, text), nil

	case formatPDF:
		if l.pdf == nil {
			return domain.Document{}, fmt.Errorf("%w: pdf extraction is not configured", domain.ErrUnsupportedDocument)
		}
		text, err := l.pdf.Extract(ctx, up.Data)
		if err != nil {
			return domain.Document{}, err
		}
		return textDocument(up.Filename, text), nil

	case formatImage:
		return domain.Document{
			Kind:     domain.DocumentImage,
			Filename: up.Filename,
			Image: &domain.Image{
				Filename: up.Filename,
				MIMEType: imageMIMEType(up),
				Data:     up.Data,
			},
		}, nil
	}

	return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedDocument, up.Filename)
}

func textDocument(filename, text string) domain.Document {
	return domain.Document{Kind: domain.DocumentText, Filename: filename, Text: text}
}

// detect prefers the file extension and falls back to the declared content type.
func detect(up Upload) format {
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(up.Filename))]; ok {
		return f
	}
	if f, ok := contentTypeFormats[baseContentType(up.ContentType)]; ok {
		return f
	}
	return formatUnknown
}

func imageMIMEType(up Upload) string {
	if t, ok := imageTypes[strings.ToLower(filepath.Ext(up.Filename))]; ok {
		return t
	}
	return baseContentType(up.ContentType)
}

func baseContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
