package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Settings carries everything the services need at startup.
// Built once in main and passed down - a missing credential kills the
// process immediately instead of failing on the first request.
type Settings struct {
	GeminiAPIKey      string
	OpenAIAPIKey      string
	EmbeddingProvider string //"gemini" or "openai"

	DataDir   string
	UploadDir string

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	EmbeddingDimension int

	RateLimitQuestions int
	RateLimitWindow    time.Duration

	MaxFileSize int64
}

func Load() (Settings, error) {
	s := Settings{
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		EmbeddingProvider:  envOr("EMBEDDING_PROVIDER", "gemini"),
		DataDir:            envOr("DATA_DIR", filepath.Join(".", "data")),
		UploadDir:          envOr("UPLOAD_DIR", filepath.Join(".", "uploads")),
		ChunkSize:          envIntOr("CHUNK_SIZE", ChunkSize),
		ChunkOverlap:       envIntOr("CHUNK_OVERLAP", ChunkOverlap),
		TopK:               envIntOr("TOP_K_RESULTS", TopKResults),
		EmbeddingDimension: int(EmbeddingOutputDimensionality),
		RateLimitQuestions: envIntOr("RATE_LIMIT_QUESTIONS", RateLimitQuestions),
		RateLimitWindow:    envDurationOr("RATE_LIMIT_WINDOW", RateLimitWindow),
		MaxFileSize:        int64(envIntOr("MAX_FILE_SIZE", MaxFileSize)),
	}

	switch s.EmbeddingProvider {
	case "gemini":
		if s.GeminiAPIKey == "" {
			return s, errors.New("GEMINI_API_KEY not configured")
		}
	case "openai":
		if s.OpenAIAPIKey == "" {
			return s, errors.New("OPENAI_API_KEY not configured")
		}
		if s.GeminiAPIKey == "" {
			return s, errors.New("GEMINI_API_KEY not configured (generation still runs on Gemini)")
		}
	default:
		return s, fmt.Errorf("unknown EMBEDDING_PROVIDER %q", s.EmbeddingProvider)
	}

	// A non-advancing chunk cursor would loop forever, reject it here
	// instead of inheriting the ambiguity.
	if s.ChunkSize <= 0 {
		return s, fmt.Errorf("CHUNK_SIZE must be positive, got %d", s.ChunkSize)
	}
	if s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize {
		return s, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", s.ChunkOverlap)
	}

	if s.RateLimitQuestions <= 0 || s.RateLimitWindow <= 0 {
		return s, errors.New("rate limit quota and window must be positive")
	}

	return s, nil
}

// InitDirs creates the upload and data directories if they don't exist.
func (s Settings) InitDirs() error {
	if err := os.MkdirAll(s.UploadDir, 0750); err != nil {
		return err
	}
	return os.MkdirAll(s.DataDir, 0750)
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		//accepts "3600" seconds like the old deployment or a Go duration
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
