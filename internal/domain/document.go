package domain

// DocumentKind distinguishes text documents from single images.
type DocumentKind string

const (
	DocumentText  DocumentKind = "text"
	DocumentImage DocumentKind = "image"
)

// Image is binary image content with its media type.
type Image struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Document is a loaded source document ready for segmentation.
type Document struct {
	Image    *Image
	Kind     DocumentKind
	Filename string
	Text     string
}

// Chunk is one bounded unit of extraction work. Its only identity is Index,
// the ordinal position in the source document.
type Chunk struct {
	Image *Image
	Text  string
	Index int
}

// IsImage reports whether the chunk carries an image rather than text.
func (c Chunk) IsImage() bool {
	return c.Image != nil
}

// Kind returns "image" or "text" for logging and metrics.
func (c Chunk) Kind() string {
	if c.IsImage() {
		return string(DocumentImage)
	}
	return string(DocumentText)
}
