package ingest

import (
	"strings"
)

// Chunker splits document text into overlapping pieces bounded by a
// character budget. Splitting prefers paragraph breaks, then line breaks,
// then sentence ends, then spaces, so chunks keep semantic boundaries
// where the text allows it.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given character budget and
// overlap. Invalid values fall back to the defaults used at ingestion
// (1000/100).
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 100
		if overlap >= size {
			overlap = size / 10
		}
	}
	return &Chunker{size: size, overlap: overlap}
}

var separators = []string{"\n\n", "\n", ". ", " "}

// Chunk splits text into rune-bounded pieces of at most the configured
// size, with the configured overlap carried between consecutive chunks.
// Empty and whitespace-only input yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = c.splitPoint(runes, start, end)
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}

		if end == len(runes) {
			break
		}
		next := end - c.overlap
		if next <= start {
			// Guarantee forward progress on separator-dense text.
			next = end
		}
		start = next
	}
	return chunks
}

// splitPoint finds the latest preferred separator in the window, falling
// back to a hard cut at the character budget. Separators in the first half
// of the window are ignored so overlap stepping never produces tiny
// fragments.
func (c *Chunker) splitPoint(runes []rune, start, limit int) int {
	window := string(runes[start:limit])
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx+len(sep) > len(window)/2 {
			return start + len([]rune(window[:idx+len(sep)]))
		}
	}
	return limit
}
