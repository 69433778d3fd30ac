package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"
	CLIENT_ID_KEY  = "clientId"

	//per-IP flood guard in front of everything
	//the question quota is enforced separately by the governor
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//question quota - sliding window per client
	RateLimitQuestions = 40
	RateLimitWindow    = 1 * time.Hour

	//embeddings
	EmbeddingOutputDimensionality int32 = 3072 //gemini-embedding-001 full width
	GeminiModelName                     = "gemini-2.0-flash-lite"
	GoogleEmbeddingModel                = "gemini-embedding-001"
	OpenAIEmbeddingModel                = "text-embedding-3-large"
	EmbeddingBatchSize                  = 50

	ModelTemperature float32 = 0.7
	ModelContext             = "You are a helpful assistant that answers questions about an uploaded document. " +
		"Answer only from the provided context. If the context does not contain the answer, say you don't know."

	//chunking
	ChunkSize    = 1000
	ChunkOverlap = 200
	TopKResults  = 3

	//uploads
	MaxFileSize       = 1 << 20 //1MB
	PageExtractBudget = 10 * time.Second

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 30 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//ingest job buffer limit
	BufferLimit = 100

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DB we can use
	RedisDocumentStore = 0

	RedisDocumentStoreTTL = 7 * 24 * time.Hour
)
