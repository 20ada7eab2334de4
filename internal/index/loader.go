package index

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/volleykb/assistant/backend/internal/log"
)

// ErrUnavailable signals that the index artifact does not exist yet, i.e.
// ingestion has not run. Callers distinguish it from corrupt-artifact
// failures: the health check reports service-unavailable, the answer
// pipeline degrades to a "not initialized" reply.
var ErrUnavailable = errors.New("knowledge base index not built")

// Loader deserializes the index on first use and caches the result.
// Failures are not cached: while the artifact is missing every call
// re-checks the path, so a service started before ingestion recovers as
// soon as cmd/ingest writes the artifact, without a restart.
type Loader struct {
	path   string
	logger log.Logger

	mu sync.Mutex
	ix *Index
}

// NewLoader creates a loader for the artifact at path.
func NewLoader(path string, logger log.Logger) *Loader {
	return &Loader{path: path, logger: logger}
}

// Load returns the cached index, deserializing it on the first successful
// call. Concurrent first callers share a single load. A missing artifact
// yields ErrUnavailable and is probed again on the next call.
func (l *Loader) Load() (*Index, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ix != nil {
		return l.ix, nil
	}

	if _, statErr := os.Stat(l.path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (run cmd/ingest first)", ErrUnavailable, l.path)
		}
		return nil, fmt.Errorf("stat index %s: %w", l.path, statErr)
	}

	l.logger.Info("loading knowledge base index", "path", l.path)
	ix, err := ReadFile(l.path)
	if err != nil {
		l.logger.Error("failed to load index", "path", l.path, "error", err)
		return nil, err
	}
	l.ix = ix
	l.logger.Info("knowledge base index loaded", "chunks", ix.Len(), "dimension", ix.Dimension)
	return l.ix, nil
}
