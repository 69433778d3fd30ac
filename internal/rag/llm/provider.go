package llm

import "context"

// Provider generates the final answer from the question and the
// ranked context the retrieval service assembled.
type Provider interface {
	Generate(ctx context.Context, question string, docContext string) (string, error)
}
