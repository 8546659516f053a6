package chatmodel

import (
	"context"
	"time"
)

// ChatTurn is one question/answer exchange inside a conversation.
type ChatTurn struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
}

type Conversation struct {
	Id        string    `json:"id"`
	OwnerId   string    `json:"owner_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// MasterPrompt is a reusable persona instruction. At most one prompt per
// owner is pinned; the pinned prompt becomes the system instruction for
// that owner's chat turns.
type MasterPrompt struct {
	Id        string    `json:"id"`
	OwnerId   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Pinned    bool      `json:"pinned"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationStore interface {
	ValidateConversation(ctx context.Context, id string) bool
	InitConversation(ctx context.Context, id string, ownerId string) error
	AppendTurn(ctx context.Context, id string, turn ChatTurn) error
	History(ctx context.Context, id string, limit int) ([]ChatTurn, error)
	TurnCount(ctx context.Context, id string) (int64, error)
	SetTitle(ctx context.Context, id string, title string) error
}

type PromptStore interface {
	Save(ctx context.Context, prompt MasterPrompt) error
	List(ctx context.Context, ownerId string) ([]MasterPrompt, error)
	// Pin makes promptId the owner's single pinned prompt. The previous
	// pin is released in the same operation.
	Pin(ctx context.Context, ownerId string, promptId string) error
	GetPinned(ctx context.Context, ownerId string) (MasterPrompt, bool, error)
}
