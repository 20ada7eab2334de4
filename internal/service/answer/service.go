// Package answer composes retrieval, prompt templating and generation into
// one request/response cycle. The pipeline never returns an error to its
// callers: every failure mode becomes a clearly-labeled degraded Result
// with confidence 0.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/volleykb/assistant/backend/internal/config"
	"github.com/volleykb/assistant/backend/internal/embedding"
	"github.com/volleykb/assistant/backend/internal/index"
	"github.com/volleykb/assistant/backend/internal/log"
	"github.com/volleykb/assistant/backend/internal/model/kb"
	"github.com/volleykb/assistant/backend/internal/provider"
)

// Canned answers for the degraded paths.
const (
	msgEmptyQuestion  = "Please provide a valid question."
	msgNotInitialized = "Knowledge base not initialized. Please run the ingestion process first."
)

// maxSources caps how many chunk previews a Result carries, independent of
// the configured retrieval K.
const maxSources = 3

// Result is the outcome of one answer cycle. Confidence is a retrieval-
// count heuristic (retrieved/K, capped at 1), not a calibrated probability
// and not an output-quality signal.
type Result struct {
	Question   string
	Answer     string
	Sources    []kb.SourceRef
	Confidence float64
}

// Service holds the long-lived answer pipeline state: the index loader,
// the embedder and the provider capability. All three are constructed once
// and shared by concurrent requests without synchronization; the index is
// read-only after load and the other two are stateless.
type Service struct {
	cfg       config.RAGConfig
	loader    *index.Loader
	embedder  embedding.Embedder
	generator provider.Generator
	logger    log.Logger
}

// NewService wires the pipeline.
func NewService(cfg config.RAGConfig, loader *index.Loader, embedder embedding.Embedder, generator provider.Generator, logger log.Logger) *Service {
	return &Service{
		cfg:       cfg,
		loader:    loader,
		embedder:  embedder,
		generator: generator,
		logger:    logger,
	}
}

// Answer runs the full cycle for one question. It always returns a Result:
// an uninitialized knowledge base, a retrieval failure or a provider error
// all surface as degraded results, never as errors. There is no retry
// around generation; one failed call is one degraded Result.
func (s *Service) Answer(ctx context.Context, question string) Result {
	if strings.TrimSpace(question) == "" {
		// Local validation short-circuit: no retrieval, no generation.
		return Result{Question: question, Answer: msgEmptyQuestion, Sources: []kb.SourceRef{}}
	}

	ix, err := s.loader.Load()
	if err != nil {
		if errors.Is(err, index.ErrUnavailable) {
			s.logger.Warn("answer requested before ingestion", "error", err)
			return s.degraded(question, msgNotInitialized)
		}
		s.logger.Error("index load failed", "error", err)
		return s.degraded(question, errorAnswer(err))
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		s.logger.Error("question embedding failed", "error", err)
		return s.degraded(question, errorAnswer(err))
	}

	retrieved := ix.Search(vector, s.cfg.TopK)

	answerText, err := s.generator.Generate(ctx, buildPrompt(retrieved, question))
	if err != nil {
		s.logger.Error("generation failed", "provider", s.generator.Name(), "error", err)
		return s.degraded(question, errorAnswer(err))
	}

	confidence := float64(len(retrieved)) / float64(s.cfg.TopK)
	if confidence > 1.0 {
		confidence = 1.0
	}

	sourceCount := len(retrieved)
	if sourceCount > maxSources {
		sourceCount = maxSources
	}
	sources := make([]kb.SourceRef, 0, sourceCount)
	for _, sc := range retrieved[:sourceCount] {
		sources = append(sources, kb.NewSourceRef(sc.Chunk))
	}

	s.logger.Info("answer generated",
		"provider", s.generator.Name(),
		"retrieved", len(retrieved),
		"confidence", confidence)

	// The model's output is the answer verbatim. Nothing checks that it
	// actually obeyed the prompt contract; confidence says nothing about
	// output quality.
	return Result{
		Question:   question,
		Answer:     answerText,
		Sources:    sources,
		Confidence: confidence,
	}
}

func (s *Service) degraded(question, answer string) Result {
	return Result{Question: question, Answer: answer, Sources: []kb.SourceRef{}}
}

func errorAnswer(err error) string {
	return fmt.Sprintf("I encountered an error while processing your question: %v. Please try again.", err)
}
