package retrieval_test

import (
	"context"
)

// MockEmbedder implements embedding.Embedder
type MockEmbedder struct {
	// Control fields to simulate different behaviors
	OnEmbedQuery     func(ctx context.Context, text string) ([]float32, error)
	OnEmbedDocuments func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbedQuery != nil {
		return m.OnEmbedQuery(ctx, text)
	}
	return []float32{1, 0, 0}, nil
}

func (m *MockEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnEmbedDocuments != nil {
		return m.OnEmbedDocuments(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, question string, docContext string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, question string, docContext string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, question, docContext)
	}
	return "default answer", nil
}
