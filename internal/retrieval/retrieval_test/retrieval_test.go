package retrieval_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/PDFMentor/internal/domain/faults"
	"github.com/akolanti/PDFMentor/internal/retrieval"
	"github.com/akolanti/PDFMentor/internal/vectorindex"
)

const testDim = 3

// seedIndex persists a small index so the service has something real
// to search against.
func seedIndex(t *testing.T, manager *vectorindex.Manager, documentId string) {
	t.Helper()
	chunks := []string{"alpha chunk", "beta chunk", "gamma chunk"}
	embeddings := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	if err := manager.Create(context.Background(), documentId, chunks, embeddings); err != nil {
		t.Fatalf("seeding index failed: %v", err)
	}
}

func TestAnswer_Success(t *testing.T) {
	manager := vectorindex.NewManager(t.TempDir(), testDim)
	seedIndex(t, manager, "doc-1")

	var capturedContext string
	embedder := &MockEmbedder{
		OnEmbedQuery: func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		},
	}
	llmMock := &MockLLM{
		OnGenerate: func(ctx context.Context, question string, docContext string) (string, error) {
			capturedContext = docContext
			return "the answer", nil
		},
	}

	svc := retrieval.NewService(manager, embedder, llmMock, 2)
	result, err := svc.Answer(context.Background(), "doc-1", "what is alpha?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if result.Answer != "the answer" {
		t.Errorf("Expected 'the answer', got %q", result.Answer)
	}
	if result.Matches != 2 {
		t.Errorf("Expected 2 matches, got %d", result.Matches)
	}

	// the closest chunk to the query must lead the generation context
	if !strings.HasPrefix(capturedContext, "alpha chunk") {
		t.Errorf("Expected context to start with the closest chunk, got %q", capturedContext)
	}
	if !strings.Contains(capturedContext, "\n\n") {
		t.Errorf("Expected chunks joined with a blank line, got %q", capturedContext)
	}
}

func TestAnswer_UnknownDocument(t *testing.T) {
	manager := vectorindex.NewManager(t.TempDir(), testDim)
	svc := retrieval.NewService(manager, &MockEmbedder{}, &MockLLM{}, 3)

	_, err := svc.Answer(context.Background(), "ghost-doc", "anything?")
	if !errors.Is(err, faults.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown document, got %v", err)
	}
}

func TestAnswer_EmbeddingFailure(t *testing.T) {
	manager := vectorindex.NewManager(t.TempDir(), testDim)
	seedIndex(t, manager, "doc-1")

	embedder := &MockEmbedder{
		OnEmbedQuery: func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("quota blown")
		},
	}
	svc := retrieval.NewService(manager, embedder, &MockLLM{}, 3)

	_, err := svc.Answer(context.Background(), "doc-1", "what?")
	if !errors.Is(err, faults.ErrUpstream) {
		t.Errorf("Expected ErrUpstream when embedding fails, got %v", err)
	}
}

func TestAnswer_LLMFailure(t *testing.T) {
	manager := vectorindex.NewManager(t.TempDir(), testDim)
	seedIndex(t, manager, "doc-1")

	llmMock := &MockLLM{
		OnGenerate: func(ctx context.Context, question string, docContext string) (string, error) {
			return "", errors.New("model overloaded")
		},
	}
	svc := retrieval.NewService(manager, &MockEmbedder{}, llmMock, 3)

	_, err := svc.Answer(context.Background(), "doc-1", "what?")
	if !errors.Is(err, faults.ErrUpstream) {
		t.Errorf("Expected ErrUpstream when generation fails, got %v", err)
	}
}

func TestBuildContext_TopKOrdering(t *testing.T) {
	manager := vectorindex.NewManager(t.TempDir(), testDim)
	seedIndex(t, manager, "doc-1")

	svc := retrieval.NewService(manager, &MockEmbedder{}, &MockLLM{}, 3)

	// query sits on the beta axis so beta must rank first
	docContext, err := svc.BuildContext(context.Background(), "doc-1", []float32{0, 1, 0}, 3)
	if err != nil {
		t.Fatalf("BuildContext failed: %v", err)
	}

	parts := strings.Split(docContext, "\n\n")
	if len(parts) != 3 {
		t.Fatalf("Expected 3 chunks in context, got %d", len(parts))
	}
	if parts[0] != "beta chunk" {
		t.Errorf("Expected closest chunk first, got %q", parts[0])
	}
}

func TestAnswer_MatchCountWithBlankLinesInChunks(t *testing.T) {
	manager := vectorindex.NewManager(t.TempDir(), testDim)

	// A chunk spanning a page break carries the page-marker join
	// inside it - the match count must not confuse that blank line
	// with the context separator.
	chunks := []string{"[Page 1]\nend of page\n\n[Page 2]\nstart of page", "plain chunk"}
	embeddings := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
	}
	if err := manager.Create(context.Background(), "doc-1", chunks, embeddings); err != nil {
		t.Fatalf("seeding index failed: %v", err)
	}

	svc := retrieval.NewService(manager, &MockEmbedder{}, &MockLLM{}, 2)
	result, err := svc.Answer(context.Background(), "doc-1", "what?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if result.Matches != 2 {
		t.Errorf("Expected 2 matches, got %d", result.Matches)
	}
}
