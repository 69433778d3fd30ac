// @title           PDFMentor API
// @version         1.0
// @description     Upload a PDF, ask questions about it, get grounded answers.
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/PDFMentor/internal/config"
	"github.com/akolanti/PDFMentor/internal/data/store"
	"github.com/akolanti/PDFMentor/internal/domain/docModel"
	"github.com/akolanti/PDFMentor/internal/governor"
	"github.com/akolanti/PDFMentor/internal/handlers"
	"github.com/akolanti/PDFMentor/internal/ingest"
	"github.com/akolanti/PDFMentor/internal/job"
	"github.com/akolanti/PDFMentor/internal/rag/embedding"
	"github.com/akolanti/PDFMentor/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/PDFMentor/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/PDFMentor/internal/rag/llm/gemini"
	"github.com/akolanti/PDFMentor/internal/retrieval"
	"github.com/akolanti/PDFMentor/internal/server"
	"github.com/akolanti/PDFMentor/internal/vectorindex"
	"github.com/akolanti/PDFMentor/internal/worker"
	"github.com/akolanti/PDFMentor/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	settings, err := config.Load()
	if err != nil {
		logger.Error("Configuration error", "err", err)
		os.Exit(1)
	}
	if err := settings.InitDirs(); err != nil {
		logger.Error("Could not create data directories", "err", err)
		os.Exit(1)
	}

	//init buffered job channel
	jobChannel := make(chan docModel.IngestJob, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and document registry
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if redisDocs := store.GetRedisDocumentStore(serviceContext); redisDocs != nil {
		serviceConfig.DocumentStore = redisDocs
	} else {
		logger.Error("Redis document store is offline - falling back to in-memory registry")
		serviceConfig.DocumentStore = store.InitInMemoryDocumentStore()
	}
	service := job.InitJobService(serviceConfig)

	embeddingService, err := buildEmbedder(serviceContext, settings)
	if err != nil {
		logger.Error("Embedding provider failed to initialize. Shutting down.", "provider", settings.EmbeddingProvider, "err", err)
		return
	}
	llmProvider, err := gemini.NewGeminiClient(serviceContext, config.GeminiModelName, settings.GeminiAPIKey)
	if err != nil {
		logger.Error("LLM provider failed to initialize. Shutting down.", "err", err)
		return
	}

	indexManager := vectorindex.NewManager(settings.DataDir, settings.EmbeddingDimension)
	questionGovernor := governor.New(settings.RateLimitQuestions, settings.RateLimitWindow)
	pipeline := ingest.NewPipeline(embeddingService, indexManager, settings.ChunkSize, settings.ChunkOverlap)
	retrievalService := retrieval.NewService(indexManager, embeddingService, llmProvider, settings.TopK)

	handlers.InitDocumentHandler(handlers.HandlerConfig{
		JobService:       service,
		RetrievalService: retrievalService,
		Governor:         questionGovernor,
		Indexes:          indexManager,
		Settings:         settings,
	})

	//init worker pool
	worker.InitServices(service, pipeline)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildEmbedder(ctx context.Context, settings config.Settings) (embedding.Embedder, error) {
	if settings.EmbeddingProvider == "openai" {
		return openaiEmbedding.NewOpenAIEmbeddingClient(settings.OpenAIAPIKey, settings.EmbeddingDimension)
	}
	return googleEmbedding.NewGoogleEmbeddingClient(ctx, config.GoogleEmbeddingModel, settings.GeminiAPIKey, int32(settings.EmbeddingDimension))
}
