package kb

// Chunk is one unit of knowledge-base text produced by ingestion.
type Chunk struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ScoredChunk pairs a chunk with its similarity score for one query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// SourceRef is the truncated excerpt returned to API clients.
type SourceRef struct {
	ContentPreview string            `json:"content_preview"`
	Metadata       map[string]string `json:"metadata"`
}

// previewLimit bounds the excerpt length shown to clients.
const previewLimit = 200

// NewSourceRef builds a SourceRef from a chunk, truncating the preview
// to 200 characters. Truncation is rune-aware so Cyrillic text is not
// cut mid-character.
func NewSourceRef(c Chunk) SourceRef {
	preview := c.Text
	if runes := []rune(preview); len(runes) > previewLimit {
		preview = string(runes[:previewLimit]) + "..."
	}
	meta := c.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	return SourceRef{ContentPreview: preview, Metadata: meta}
}
