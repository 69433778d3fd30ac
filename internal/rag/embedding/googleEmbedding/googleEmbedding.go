package googleEmbedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/rag/embedding"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
	"google.golang.org/genai"
)

type client struct {
	genAi     *genai.Client
	model     string
	dimension int32
	logger    *logger_i.Logger
}

// NewGoogleEmbeddingClient builds the Gemini embedding adapter. The
// key is validated here, at startup - a bad credential fails the boot
// instead of the first upload.
func NewGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string, dimension int32) (embedding.Embedder, error) {
	if apikey == "" {
		return nil, errors.New("gemini api key not configured")
	}

	logger := logger_i.NewLogger("google_embedding")
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini embedding client: %w", err)
	}
	logger.Info("Google Embedding client created", "model", modelName)

	return &client{genAi: c, model: modelName, dimension: dimension, logger: logger}, nil
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	result, err := c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(text),
		&genai.EmbedContentConfig{OutputDimensionality: &c.dimension, TaskType: "RETRIEVAL_QUERY"})
	if err != nil {
		c.logger.Error("Error getting query embedding from Google", "error", err.Error())
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return result.Embeddings[0].Values, nil
}

// EmbedDocuments sends the chunk texts in batches to stay under the
// provider's request limits. A ResourceExhausted answer gets exactly
// one retry after a short pause.
func (c *client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += config.EmbeddingBatchSize {
		end := start + config.EmbeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		res, err := c.doCall(ctx, getContent(batch))
		if err != nil && doRetry(err, c.logger) {
			time.Sleep(5 * time.Second)
			c.logger.Debug("Retrying embedding batch", "start", start)
			res, err = c.doCall(ctx, getContent(batch))
		}
		if err != nil {
			c.logger.Error("Error getting batch embeddings from Google", "error", err.Error())
			return nil, err
		}
		if len(res.Embeddings) != len(batch) {
			return nil, fmt.Errorf("embedding batch returned %d vectors for %d texts", len(res.Embeddings), len(batch))
		}
		for _, r := range res.Embeddings {
			vectors = append(vectors, r.Values)
		}
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content,
		&genai.EmbedContentConfig{OutputDimensionality: &c.dimension, TaskType: "RETRIEVAL_DOCUMENT"})
}
