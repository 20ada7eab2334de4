// Package index holds the pre-built similarity index over knowledge-base
// chunks. The artifact is produced by cmd/ingest and is read-only for the
// lifetime of the serving process; refreshing the knowledge base means
// re-running ingestion and restarting the service.
package index

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/volleykb/assistant/backend/internal/model/kb"
)

// Index maps embedding vectors to their source chunks. Vectors and Chunks
// are parallel slices. Vectors are stored L2-normalized so similarity is a
// plain dot product.
type Index struct {
	Dimension int
	Vectors   [][]float64
	Chunks    []kb.Chunk
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.Chunks) }

// Add appends a chunk with its vector, normalizing the vector in place.
func (ix *Index) Add(chunk kb.Chunk, vector []float64) error {
	if ix.Dimension == 0 {
		ix.Dimension = len(vector)
	}
	if len(vector) != ix.Dimension {
		return fmt.Errorf("vector dimension mismatch: got %d want %d", len(vector), ix.Dimension)
	}
	Normalize(vector)
	ix.Vectors = append(ix.Vectors, vector)
	ix.Chunks = append(ix.Chunks, chunk)
	return nil
}

// Search returns the topK chunks nearest to the query vector by cosine
// similarity. The query is normalized before scoring. Results are ordered
// by descending score.
func (ix *Index) Search(vector []float64, topK int) []kb.ScoredChunk {
	if topK <= 0 || ix.Len() == 0 {
		return nil
	}
	query := make([]float64, len(vector))
	copy(query, vector)
	Normalize(query)

	scored := make([]kb.ScoredChunk, ix.Len())
	for i, v := range ix.Vectors {
		scored[i] = kb.ScoredChunk{Chunk: ix.Chunks[i], Score: dot(v, query)}
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if topK > len(scored) {
		topK = len(scored)
	}
	return scored[:topK]
}

// WriteFile gob-encodes the index to path.
func (ix *Index) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(ix); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return nil
}

// ReadFile decodes an index previously written by WriteFile.
func ReadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ix Index
	if err := gob.NewDecoder(f).Decode(&ix); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", path, err)
	}
	return &ix, nil
}

// Normalize scales v to unit length in place. Zero vectors are left as-is.
func Normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
