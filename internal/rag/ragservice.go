package rag

import (
	"context"
	"time"

	"github.com/rizkyfm/docchat/internal/chat"
	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
	"github.com/rizkyfm/docchat/internal/domain/jobmodel"
	"github.com/rizkyfm/docchat/internal/metrics"
	"github.com/rizkyfm/docchat/internal/rag/embedding"
	"github.com/rizkyfm/docchat/internal/rag/ingest"
	"github.com/rizkyfm/docchat/internal/rag/llm"
	"github.com/rizkyfm/docchat/internal/rag/retrieval"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore"
	"github.com/rizkyfm/docchat/pkg/logx"
)

// Service is the only thing the worker calls. It hides the retrieval
// pipeline, the completion backend and the conversation state behind two
// job-in, job-out operations.
type Service interface {
	ProcessChatTurn(ctx context.Context, job jobmodel.Job) jobmodel.Job
	IngestDocument(ctx context.Context, job jobmodel.Job) jobmodel.Job
}

type service struct {
	retriever     *retrieval.Service
	llmProvider   llm.Provider
	embedder      embedding.Embedder
	store         vectorstore.FragmentStore
	conversations chatmodel.ConversationStore
	prompts       chatmodel.PromptStore
	logger        *logx.Logger
}

// NewService wires the pipeline together. The worker stays decoupled
// from every concrete backend behind the interface.
func NewService(store vectorstore.FragmentStore, llmProvider llm.Provider, embedder embedding.Embedder,
	conversations chatmodel.ConversationStore, prompts chatmodel.PromptStore) Service {
	return &service{
		retriever:     retrieval.New(embedder, store),
		llmProvider:   llmProvider,
		embedder:      embedder,
		store:         store,
		conversations: conversations,
		prompts:       prompts,
		logger:        logx.NewLogger("rag_service"),
	}
}

func (s *service) ProcessChatTurn(ctx context.Context, jobt jobmodel.Job) jobmodel.Job {
	inMethodLogger := s.logger.With("traceId", jobt.TraceId, "jobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, config.ChatTurnTimeout)
	defer cancel()

	// Retrieval (query embedding + vector search)
	block, err := s.executeRetrievalStep(processContext, inMethodLogger, &jobt)
	if err != nil {
		return s.jobError(jobt, err, "VECTOR_SEARCH_FAILURE", true)
	}
	jobt.JobPayload.Sources = block.Sources

	// Persona + history
	persona := s.lookupPersona(processContext, inMethodLogger, jobt.OwnerId)
	history, err := s.conversations.History(processContext, jobt.ConversationId, config.HistoryMessageLimit)
	if err != nil {
		inMethodLogger.Warn("could not load history, answering without it", "error", err)
		history = nil
	}

	// Completion
	messages := chat.BuildMessages(chat.SystemPrompt(persona, block.Text), history, jobt.JobPayload.Question)
	answer, err := s.executeLLMStep(processContext, inMethodLogger, &jobt, messages)
	if err != nil {
		return s.jobError(jobt, err, "LLM_GENERATION_FAILURE", true)
	}

	s.persistTurn(processContext, inMethodLogger, jobt, answer)

	return returnOutput(jobt, answer)
}

func (s *service) IngestDocument(ctx context.Context, jobt jobmodel.Job) jobmodel.Job {
	inMethodLogger := s.logger.With("traceId", jobt.TraceId, "jobId", jobt.Id)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	req := ingest.Request{
		Path:       jobt.JobPayload.IngestPath,
		SourceName: jobt.JobPayload.IngestFileName,
		OwnerID:    jobt.OwnerId,
	}
	res, err := ingest.Run(ctx, req, s.embedder, s.store, func(status jobmodel.InternalStatus) {
		jobt = logOutput(jobt, status, inMethodLogger)
	})

	jobt.JobPayload.ChunkCount = res.ChunkCount
	jobt.JobPayload.InsertedCount = res.InsertedCount
	jobt.JobPayload.DegradedCount = res.DegradedCount

	if err != nil {
		// Extraction is the only hard failure and retrying the same
		// document will not make it readable.
		return s.jobErrorWithCode(jobt, err, "INGESTION_FAILURE", 422, "document could not be read", false)
	}

	jobt.CurrentStep = jobmodel.Complete
	return jobt
}

func (s *service) lookupPersona(ctx context.Context, log *logx.Logger, ownerId string) string {
	pinned, found, err := s.prompts.GetPinned(ctx, ownerId)
	if err != nil {
		log.Warn("could not load pinned prompt, using default persona", "error", err)
		return ""
	}
	if !found {
		return ""
	}
	return pinned.Content
}

func (s *service) persistTurn(ctx context.Context, log *logx.Logger, jobt jobmodel.Job, answer string) {
	turn := chatmodel.ChatTurn{
		Question: jobt.JobPayload.Question,
		Answer:   answer,
		Sources:  jobt.JobPayload.Sources,
	}
	if err := s.conversations.AppendTurn(ctx, jobt.ConversationId, turn); err != nil {
		log.Error("could not persist chat turn", "error", err)
		return
	}

	// A conversation gets its title from the first exchange.
	count, err := s.conversations.TurnCount(ctx, jobt.ConversationId)
	if err == nil && count <= 1 {
		if err := s.conversations.SetTitle(ctx, jobt.ConversationId, chat.AutoTitle(jobt.JobPayload.Question)); err != nil {
			log.Warn("could not set conversation title", "error", err)
		}
	}
}
