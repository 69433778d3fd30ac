package openaiEmbedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/rag/embedding"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Alternative provider for deployments that embed through OpenAI
// instead of Gemini. Selected with EMBEDDING_PROVIDER=openai; the
// index dimension stays config-driven, both providers are asked for
// the same output width.
type client struct {
	api       openai.Client
	model     string
	dimension int
	logger    *logger_i.Logger
}

func NewOpenAIEmbeddingClient(apikey string, dimension int) (embedding.Embedder, error) {
	if apikey == "" {
		return nil, errors.New("openai api key not configured")
	}
	logger := logger_i.NewLogger("openai_embedding")
	logger.Info("OpenAI Embedding client created", "model", config.OpenAIEmbeddingModel)
	return &client{
		api:       openai.NewClient(option.WithAPIKey(apikey)),
		model:     config.OpenAIEmbeddingModel,
		dimension: dimension,
		logger:    logger,
	}, nil
}

func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model:      c.model,
		Dimensions: openai.Int(int64(c.dimension)),
	})
	if err != nil {
		c.logger.Error("Error getting query embedding from OpenAI", "error", err.Error())
		return nil, err
	}
	if len(res.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return toFloat32(res.Data[0].Embedding), nil
}

func (c *client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += config.EmbeddingBatchSize {
		end := start + config.EmbeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		res, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input:      openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
			Model:      c.model,
			Dimensions: openai.Int(int64(c.dimension)),
		})
		if err != nil {
			c.logger.Error("Error getting batch embeddings from OpenAI", "error", err.Error())
			return nil, err
		}
		if len(res.Data) != len(batch) {
			return nil, fmt.Errorf("embedding batch returned %d vectors for %d texts", len(res.Data), len(batch))
		}
		for _, d := range res.Data {
			vectors = append(vectors, toFloat32(d.Embedding))
		}
	}
	return vectors, nil
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
