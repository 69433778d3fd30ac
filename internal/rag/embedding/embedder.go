package embedding

import "context"

// Embedder is the boundary to the external embedding provider. Both
// methods must preserve input order; failures are fatal to the
// current request, retries beyond the provider adapter's own are not
// this core's business.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}
