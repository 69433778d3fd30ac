package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/rag/llm"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

// NewGeminiClient validates the credential and builds the generation
// adapter at startup.
func NewGeminiClient(ctx context.Context, modelName string, apikey string) (llm.Provider, error) {
	if apikey == "" {
		return nil, errors.New("gemini api key not configured")
	}

	logger := logger_i.NewLogger("llm_gemini")
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	logger.Info("Gemini client created", "model", modelName)

	return &llmClient{client: c, modelName: modelName, logger: logger}, nil
}

func (c *llmClient) Generate(ctx context.Context, question string, docContext string) (string, error) {
	systemInstruction := &genai.Content{
		Parts: []*genai.Part{
			{Text: config.ModelContext},
		},
	}

	userPrompt := fmt.Sprintf("Context:\n%s\n\nUser Question: %s", docContext, question)

	result, err := c.client.Models.GenerateContent(
		ctx,
		c.modelName,
		genai.Text(userPrompt),
		&genai.GenerateContentConfig{
			SystemInstruction: systemInstruction,
		},
	)
	if err != nil {
		c.logger.Error("Error generating answer", "error", err.Error())
		return "", err
	}
	return result.Text(), nil
}
