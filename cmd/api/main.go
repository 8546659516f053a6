package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/data/store"
	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
	"github.com/rizkyfm/docchat/internal/handlers"
	"github.com/rizkyfm/docchat/internal/job"
	"github.com/rizkyfm/docchat/internal/rag"
	"github.com/rizkyfm/docchat/internal/rag/embedding/googleembed"
	"github.com/rizkyfm/docchat/internal/rag/llm/groq"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore/memstore"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore/pgvec"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore/qdrantdb"
	"github.com/rizkyfm/docchat/internal/server"
	"github.com/rizkyfm/docchat/internal/worker"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {
	// .env is optional outside local dev
	_ = godotenv.Load()

	logx.Init()
	var logger = logx.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init stores, falling back to in-memory when redis is offline
	redisJobStore := store.GetRedisJobStore(serviceContext)
	redisConversationStore := store.GetRedisConversationStore(serviceContext)
	redisPromptStore := store.GetRedisPromptStore(serviceContext)

	var jobStore jobmodel.JobStore
	var conversationStore chatmodel.ConversationStore
	var promptStore chatmodel.PromptStore
	if redisJobStore == nil || redisConversationStore == nil || redisPromptStore == nil {
		logger.Error("Redis stores are offline, using in-memory stores")
		jobStore = store.InitInMemoryJobStore()
		conversationStore = store.InitInMemoryConversationStore()
		promptStore = store.InitInMemoryPromptStore()
	} else {
		jobStore = redisJobStore
		conversationStore = redisConversationStore
		promptStore = redisPromptStore
	}

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
		ConversationStore: conversationStore,
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	fragmentStore := connectFragmentStore(serviceContext, logger)
	embeddingService := googleembed.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())
	llmProvider := groq.GetGroqClient(serviceContext, config.GroqModelName, config.GroqAPIKey())

	if embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.",
			"embeddingService", embeddingService != nil, "llmProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(fragmentStore, llmProvider, embeddingService, conversationStore, promptStore)

	handlers.InitJobHandler(service)
	handlers.InitPromptHandler(promptStore)

	//init worker pool
	worker.InitServices(service, ragService)
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

// connectFragmentStore prefers postgres/pgvector, then qdrant, then the
// in-memory store so development works with no backing services.
func connectFragmentStore(ctx context.Context, logger *logx.Logger) vectorstore.FragmentStore {
	dimension := int(config.EmbeddingDimension)

	pgStore, err := pgvec.Connect(ctx, config.Getenv("POSTGRES_DSN", config.PostgresDSN), dimension)
	if err == nil {
		return pgStore
	}
	logger.Warn("postgres fragment store unavailable", "error", err)

	qdrantStore, err := qdrantdb.Connect(ctx, dimension)
	if err == nil {
		return qdrantStore
	}
	logger.Warn("qdrant fragment store unavailable", "error", err)

	logger.Error("No durable fragment store available, using in-memory store")
	return memstore.New(dimension)
}
