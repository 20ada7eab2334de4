// Command ingest builds the knowledge-base index artifact. It loads the
// documents from DATA_DIR, chunks them, embeds every chunk and writes the
// finished index to INDEX_FILE. The serving process reads the artifact
// read-only; refreshing the knowledge base means re-running this command
// and restarting the service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/volleykb/assistant/backend/internal/config"
	"github.com/volleykb/assistant/backend/internal/embedding"
	"github.com/volleykb/assistant/backend/internal/index"
	"github.com/volleykb/assistant/backend/internal/ingest"
	"github.com/volleykb/assistant/backend/internal/log"
)

// embedBatchSize bounds how many chunks go to the embeddings API per call.
const embedBatchSize = 64

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(log.Config{})

	if err := godotenv.Load(); err != nil {
		logger.Warn("failed to load .env file, continuing with system environment", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	docs, err := ingest.LoadDir(cfg.RAG.DataDir, logger)
	if err != nil {
		return err
	}
	logger.Info("documents loaded", "count", len(docs), "dir", cfg.RAG.DataDir)

	chunker := ingest.NewChunker(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	chunks := ingest.ChunkAll(docs, chunker)
	logger.Info("documents chunked", "chunks", len(chunks))

	embedder, err := embedding.NewClient(ctx, cfg.Embedding)
	if err != nil {
		return err
	}

	ix := &index.Index{}
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		for i, c := range batch {
			if err := ix.Add(c, vectors[i]); err != nil {
				return err
			}
		}
		logger.Info("embedded batch", "done", end, "total", len(chunks))
	}

	if err := ix.WriteFile(cfg.RAG.IndexFile); err != nil {
		return err
	}
	logger.Info("index written", "path", cfg.RAG.IndexFile, "chunks", ix.Len(), "dimension", ix.Dimension)
	return nil
}
