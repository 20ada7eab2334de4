package ingest

import (
	"strings"
	"testing"
)

func TestChunkEmptyInput(t *testing.T) {
	c := NewChunker(100, 10)
	if chunks := c.Chunk(""); chunks != nil {
		t.Fatalf("expected no chunks for empty input, got %v", chunks)
	}
	if chunks := c.Chunk("   \n\t  "); chunks != nil {
		t.Fatalf("expected no chunks for whitespace input, got %v", chunks)
	}
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	c := NewChunker(100, 10)
	chunks := c.Chunk("Short serve drill description.")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "Short serve drill description." {
		t.Fatalf("unexpected chunk: %q", chunks[0])
	}
}

func TestChunkRespectsSizeBudget(t *testing.T) {
	c := NewChunker(50, 10)
	text := strings.Repeat("The libero digs the ball. ", 20)

	chunks := c.Chunk(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := len([]rune(chunk)); n > 50 {
			t.Fatalf("chunk %d exceeds budget: %d runes", i, n)
		}
	}
}

func TestChunkPrefersParagraphBreaks(t *testing.T) {
	c := NewChunker(40, 5)
	text := "First paragraph about blocking.\n\nSecond paragraph about setting tempo."

	chunks := c.Chunk(text)
	if len(chunks) < 2 {
		t.Fatalf("expected split at paragraph break, got %d chunks", len(chunks))
	}
	if !strings.HasPrefix(chunks[0], "First paragraph") {
		t.Fatalf("unexpected first chunk: %q", chunks[0])
	}
}

func TestChunkOverlapCarriesText(t *testing.T) {
	c := NewChunker(30, 10)
	text := strings.Repeat("abcdefghij", 10) // no separators, hard cuts

	chunks := c.Chunk(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// With hard cuts every chunk after the first starts with the tail of
	// the previous one.
	prev := []rune(chunks[0])
	next := []rune(chunks[1])
	tail := string(prev[len(prev)-10:])
	if !strings.HasPrefix(string(next), tail) {
		t.Fatalf("expected overlap %q at start of %q", tail, chunks[1])
	}
}

func TestChunkCyrillicBoundaries(t *testing.T) {
	c := NewChunker(20, 5)
	text := strings.Repeat("подача и приём мяча ", 10)

	for i, chunk := range c.Chunk(text) {
		if !strings.ContainsAny(chunk, "подачиёмяч") {
			continue
		}
		if n := len([]rune(chunk)); n > 20 {
			t.Fatalf("chunk %d exceeds rune budget: %d", i, n)
		}
	}
}

func TestChunkAllTagsMetadata(t *testing.T) {
	docs := []Document{
		{Name: "drills.txt", Content: "Serve drill one."},
		{Name: "tactics.md", Content: "Rotation tactics."},
	}

	chunks := ChunkAll(docs, NewChunker(100, 10))
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Metadata["source"] != "drills.txt" || chunks[0].Metadata["chunk"] != "0" {
		t.Fatalf("unexpected metadata: %v", chunks[0].Metadata)
	}
}
