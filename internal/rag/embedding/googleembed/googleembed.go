package googleembed

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/rag/embedding"
	"github.com/rizkyfm/docchat/pkg/logx"
)

var (
	logger          *logx.Logger
	once            sync.Once
	embeddingClient *client
	dimension       = config.EmbeddingDimension
)

type client struct {
	genAi *genai.Client
	model string
	// pacer spaces document-embedding calls process-wide. The backend
	// rate limit is global, so concurrent ingestions share one budget.
	pacer *rate.Limiter
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google embedding client", "error", err)
		return
	}
	embeddingClient = &client{
		genAi: c,
		model: modelName,
		pacer: rate.NewLimiter(rate.Every(config.EmbeddingMinInterval), 1),
	}
	logger.Info("Google embedding client created", "model", modelName)
	go closeClient(ctx, embeddingClient)
}

func closeClient(ctx context.Context, c *client) {
	<-ctx.Done()
	logger.Info("Closing Google embedding client")
	c.genAi = nil
	c.model = ""
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logx.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) Dimension() int {
	return int(dimension)
}

// EmbedDocument waits out the pacing budget before calling the backend.
// Ingestion of an N-chunk document therefore takes at least N times the
// pacing interval; ingestion runs async so this is accepted.
func (c *client) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	if err := c.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	return c.embed(ctx, text, "RETRIEVAL_DOCUMENT")
}

// EmbedQuery is not paced: a chat turn should not queue behind a running
// ingestion. Quota failures here degrade to the fallback vector upstream.
func (c *client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text, "RETRIEVAL_QUERY")
}

func (c *client) embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.EmbeddingCallTimeout)
	defer cancel()

	result, err := c.doCall(callCtx, text, taskType)
	if err != nil && isRateLimited(err) {
		logger.Warn("Rate limit hit, retrying once", "error", err)
		time.Sleep(5 * time.Second)
		result, err = c.doCall(callCtx, text, taskType)
	}
	if err != nil {
		logger.Error("Error getting embedding from Google", "error", err)
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("embedding response is empty")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) doCall(ctx context.Context, text string, taskType string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(text),
		&genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: taskType})
}

func isRateLimited(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}
