package extraction

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/draftledger/internal/domain"
)

func TestSegment(t *testing.T) {
	texts := []string{
		"a",
		"hello world",
		strings.Repeat("x", 100),
		"₹1,234.50 paid at café, ₹99 refund",
		strings.Repeat("line 1\nline 2\n", 37),
	}
	sizes := []int{1, 3, 7, 10, 64, 1000}

	for _, text := range texts {
		for _, size := range sizes {
			chunks := Segment(text, size)
			length := utf8.RuneCountInString(text)

			assert.Len(t, chunks, (length+size-1)/size, "text=%q size=%d", text, size)
			assert.Equal(t, text, strings.Join(chunks, ""))
			for _, c := range chunks {
				assert.LessOrEqual(t, utf8.RuneCountInString(c), size)
				assert.True(t, utf8.ValidString(c))
			}
		}
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	assert.Empty(t, Segment("", 10))
	assert.Empty(t, Segment("abc", 0))
	assert.Empty(t, Segment("abc", -1))
}

func TestChunks(t *testing.T) {
	t.Run("text document", func(t *testing.T) {
		chunks, err := Chunks(domain.Document{Kind: domain.DocumentText, Text: "abcdefg"}, 3)
		require.NoError(t, err)
		require.Len(t, chunks, 3)
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			assert.False(t, c.IsImage())
		}
		assert.Equal(t, "g", chunks[2].Text)
	})

	t.Run("empty text yields no work", func(t *testing.T) {
		chunks, err := Chunks(domain.Document{Kind: domain.DocumentText}, 3)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("invalid chunk size", func(t *testing.T) {
		_, err := Chunks(domain.Document{Kind: domain.DocumentText, Text: "abc"}, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidChunkSize)
	})

	t.Run("image is never split", func(t *testing.T) {
		img := &domain.Image{MIMEType: "image/png", Data: []byte{1, 2, 3}}
		chunks, err := Chunks(domain.Document{Kind: domain.DocumentImage, Image: img}, 1)
		require.NoError(t, err)
		require.Len(t, chunks, 1)
		assert.True(t, chunks[0].IsImage())
		assert.Equal(t, img.Data, chunks[0].Image.Data)
	})
}
