// Package groq calls the Groq chat completion API through its
// OpenAI-compatible endpoint.
package groq

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/customhttpclient"
	"github.com/rizkyfm/docchat/internal/rag/llm"
	"github.com/rizkyfm/docchat/pkg/logx"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logx.Logger
var groqClient *llmClient
var once sync.Once

// GetGroqClient builds the process-wide Groq client. Returns nil when no
// API key is configured, which the composition root treats as fatal.
func GetGroqClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logx.NewLogger("llm_groq")
		newGroqClient(ctx, modelName, apikey)
	})

	if groqClient == nil {
		return nil
	}
	return groqClient
}

func newGroqClient(ctx context.Context, modelName string, apikey string) {
	if apikey == "" {
		logger.Error("Groq api key is missing")
		return
	}

	c := openai.NewClient(
		option.WithAPIKey(apikey),
		option.WithBaseURL(config.GroqBaseURL),
		option.WithHTTPClient(customhttpclient.Pooled()),
	)
	groqClient = &llmClient{client: c, modelName: modelName}
	logger.Info("Groq client created", "model", modelName)

	go closeClient(ctx, groqClient)
}

func (c *llmClient) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       c.modelName,
		Temperature: openai.Float(config.ModelTemperature),
		MaxTokens:   openai.Int(config.ModelMaxTokens),
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		case llm.RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("groq completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Groq client")
	llm.modelName = ""
}
