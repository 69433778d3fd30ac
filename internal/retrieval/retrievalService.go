package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akolanti/PDFMentor/internal/domain/faults"
	"github.com/akolanti/PDFMentor/internal/metrics"
	"github.com/akolanti/PDFMentor/internal/rag/embedding"
	"github.com/akolanti/PDFMentor/internal/rag/llm"
	"github.com/akolanti/PDFMentor/internal/vectorindex"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
)

// Service is the public contract the handlers and workers see. The
// private struct below holds the actual dependencies; constructing
// through NewService lets tests swap providers for mocks without
// touching any caller.
type Service interface {
	// BuildContext ranks the document's chunks against the query
	// embedding and joins the top k with a blank line between them -
	// that exact join is what the answer generator consumes.
	BuildContext(ctx context.Context, documentId string, queryEmbedding []float32, k int) (string, error)

	// Answer runs the full query path: embed the question, build the
	// context, generate the answer.
	Answer(ctx context.Context, documentId string, question string) (Result, error)
}

type Result struct {
	Answer  string
	Matches int
}

type service struct {
	indexes  *vectorindex.Manager
	embedder embedding.Embedder
	llm      llm.Provider
	topK     int
	logger   *logger_i.Logger
}

func NewService(indexes *vectorindex.Manager, embedder embedding.Embedder, llmProvider llm.Provider, topK int) Service {
	return &service{
		indexes:  indexes,
		embedder: embedder,
		llm:      llmProvider,
		topK:     topK,
		logger:   logger_i.NewLogger("Retrieval Service"),
	}
}

func (s *service) BuildContext(ctx context.Context, documentId string, queryEmbedding []float32, k int) (string, error) {
	texts, err := s.rankedChunks(ctx, documentId, queryEmbedding, k)
	if err != nil {
		return "", err
	}
	return strings.Join(texts, "\n\n"), nil
}

// rankedChunks returns the top-k chunk texts closest first. Kept
// separate from the join so Answer can count matches without parsing
// the separator back out of the context (chunks may contain blank
// lines of their own).
func (s *service) rankedChunks(ctx context.Context, documentId string, queryEmbedding []float32, k int) ([]string, error) {
	if !s.indexes.Exists(documentId) {
		return nil, fmt.Errorf("%w: document %s", faults.ErrNotFound, documentId)
	}

	results, err := s.executeSearchStep(ctx, documentId, queryEmbedding, k)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Chunk)
	}
	return texts, nil
}

func (s *service) Answer(ctx context.Context, documentId string, question string) (Result, error) {
	log := s.logger.With("documentId", documentId)

	queryEmbedding, err := s.executeEmbeddingStep(ctx, question)
	if err != nil {
		log.Error("Query embedding failed", "error", err)
		return Result{}, fmt.Errorf("%w: %v", faults.ErrUpstream, err)
	}

	texts, err := s.rankedChunks(ctx, documentId, queryEmbedding, s.topK)
	if err != nil {
		return Result{}, err
	}
	docContext := strings.Join(texts, "\n\n")

	answer, err := s.executeLLMStep(ctx, question, docContext)
	if err != nil {
		log.Error("Answer generation failed", "error", err)
		return Result{}, fmt.Errorf("%w: %v", faults.ErrUpstream, err)
	}

	return Result{Answer: answer, Matches: len(texts)}, nil
}

func (s *service) executeEmbeddingStep(ctx context.Context, question string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("query_embedding", time.Since(start)) }()

	return s.embedder.EmbedQuery(ctx, question)
}

func (s *service) executeSearchStep(ctx context.Context, documentId string, queryEmbedding []float32, k int) ([]vectorindex.SearchResult, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.indexes.Search(ctx, documentId, queryEmbedding, k)
}

func (s *service) executeLLMStep(ctx context.Context, question string, docContext string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llm.Generate(ctx, question, docContext)
}
