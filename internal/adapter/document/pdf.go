package document

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/iho/draftledger/internal/domain"
)

// DefaultPDFToText is the pdftotext binary looked up on PATH.
const DefaultPDFToText = "pdftotext"

// PDFExtractor extracts the text layer of a PDF with pdftotext.
type PDFExtractor struct {
	runner Runner
	bin    string
}

// NewPDFExtractor creates a new PDFExtractor.
func NewPDFExtractor(runner Runner, bin string) *PDFExtractor {
	if bin == "" {
		bin = DefaultPDFToText
	}
	return &PDFExtractor{runner: runner, bin: bin}
}

// Extract returns the layout-preserving text of the PDF. A PDF without a
// text layer, such as a scan, yields ErrEmptyDocument.
func (p *PDFExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "draftledger-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp pdf: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp pdf: %w", err)
	}

	stdout, stderr, err := p.runner.Run(ctx, p.bin, "-layout", "-enc", "UTF-8", "-eol", "unix", tmp.Name(), "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext: %v: %s", domain.ErrUnsupportedDocument, err, strings.TrimSpace(string(stderr)))
	}

	text := string(stdout)
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyDocument
	}

	return text, nil
}
