package extraction

import (
	"fmt"

	"github.com/iho/draftledger/internal/domain"
)

// Segment splits text into consecutive, non-overlapping chunks of at most
// chunkSize characters. The last chunk may be shorter. Empty text or a
// non-positive chunkSize yields no chunks.
func Segment(text string, chunkSize int) []string {
	if chunkSize <= 0 || text == "" {
		return []string{}
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+chunkSize-1)/chunkSize)
	for start := 0; start < len(runes); start += chunkSize {
		end := min(start+chunkSize, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}

// SegmentImage returns the image as the single unit of work. Images are never split.
func SegmentImage(img domain.Image) []domain.Image {
	return []domain.Image{img}
}

// Chunks converts a loaded document into indexed work units.
func Chunks(doc domain.Document, chunkSize int) ([]domain.Chunk, error) {
	if doc.Kind == domain.DocumentImage {
		if doc.Image == nil {
			return nil, fmt.Errorf("image document without content: %w", domain.ErrEmptyDocument)
		}

		images := SegmentImage(*doc.Image)
		chunks := make([]domain.Chunk, 0, len(images))
		for i := range images {
			chunks = append(chunks, domain.Chunk{Index: i, Image: &images[i]})
		}
		return chunks, nil
	}

	if chunkSize <= 0 {
		return nil, fmt.Errorf("segment %q: %w", doc.Filename, domain.ErrInvalidChunkSize)
	}

	parts := Segment(doc.Text, chunkSize)
	chunks := make([]domain.Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, domain.Chunk{Index: i, Text: part})
	}

	return chunks, nil
}
