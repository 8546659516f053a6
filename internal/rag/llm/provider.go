package llm

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the prompt sent to the completion backend.
type Message struct {
	Role    Role
	Content string
}

type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
