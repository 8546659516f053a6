package rag_test

import (
	"context"

	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
	"github.com/rizkyfm/docchat/internal/domain/ragmodel"
	"github.com/rizkyfm/docchat/internal/rag/llm"
	"github.com/rizkyfm/docchat/internal/rag/vectorstore"
)

const mockDim = 8

// MockFragmentStore implements vectorstore.FragmentStore
type MockFragmentStore struct {
	// Control fields to simulate different behaviors
	OnInsert func(ctx context.Context, f *ragmodel.Fragment) error
	OnSearch func(ctx context.Context, ownerID string, query []float32, k int) ([]vectorstore.Match, error)

	Inserted []ragmodel.Fragment
}

func (m *MockFragmentStore) Insert(ctx context.Context, f *ragmodel.Fragment) error {
	if m.OnInsert != nil {
		if err := m.OnInsert(ctx, f); err != nil {
			return err
		}
	}
	m.Inserted = append(m.Inserted, *f)
	return nil
}

func (m *MockFragmentStore) Search(ctx context.Context, ownerID string, query []float32, k int) ([]vectorstore.Match, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, ownerID, query, k)
	}
	return []vectorstore.Match{
		{Fragment: ragmodel.Fragment{SourceName: "default.pdf", Text: "default context"}, Similarity: 0.9},
	}, nil
}

type MockEmbedder struct {
	OnEmbedDocument func(ctx context.Context, text string) ([]float32, error)
	OnEmbedQuery    func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbedDocument != nil {
		return m.OnEmbedDocument(ctx, text)
	}
	return make([]float32, mockDim), nil
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbedQuery != nil {
		return m.OnEmbedQuery(ctx, text)
	}
	return make([]float32, mockDim), nil
}

func (m *MockEmbedder) Dimension() int { return mockDim }

// MockLLM implements llm.Provider
type MockLLM struct {
	OnComplete func(ctx context.Context, messages []llm.Message) (string, error)
}

func (m *MockLLM) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	if m.OnComplete != nil {
		return m.OnComplete(ctx, messages)
	}
	return "mocked llm response", nil
}

type MockConversationStore struct {
	OnHistory   func(ctx context.Context, id string, limit int) ([]chatmodel.ChatTurn, error)
	OnTurnCount func(ctx context.Context, id string) (int64, error)

	Turns  []chatmodel.ChatTurn
	Titles map[string]string
}

func (m *MockConversationStore) ValidateConversation(ctx context.Context, id string) bool { return true }

func (m *MockConversationStore) InitConversation(ctx context.Context, id string, ownerId string) error {
	return nil
}

func (m *MockConversationStore) AppendTurn(ctx context.Context, id string, turn chatmodel.ChatTurn) error {
	m.Turns = append(m.Turns, turn)
	return nil
}

func (m *MockConversationStore) History(ctx context.Context, id string, limit int) ([]chatmodel.ChatTurn, error) {
	if m.OnHistory != nil {
		return m.OnHistory(ctx, id, limit)
	}
	return nil, nil
}

func (m *MockConversationStore) TurnCount(ctx context.Context, id string) (int64, error) {
	if m.OnTurnCount != nil {
		return m.OnTurnCount(ctx, id)
	}
	return int64(len(m.Turns)), nil
}

func (m *MockConversationStore) SetTitle(ctx context.Context, id string, title string) error {
	if m.Titles == nil {
		m.Titles = make(map[string]string)
	}
	m.Titles[id] = title
	return nil
}

type MockPromptStore struct {
	OnGetPinned func(ctx context.Context, ownerId string) (chatmodel.MasterPrompt, bool, error)
}

func (m *MockPromptStore) Save(ctx context.Context, prompt chatmodel.MasterPrompt) error { return nil }

func (m *MockPromptStore) List(ctx context.Context, ownerId string) ([]chatmodel.MasterPrompt, error) {
	return nil, nil
}

func (m *MockPromptStore) Pin(ctx context.Context, ownerId string, promptId string) error { return nil }

func (m *MockPromptStore) GetPinned(ctx context.Context, ownerId string) (chatmodel.MasterPrompt, bool, error) {
	if m.OnGetPinned != nil {
		return m.OnGetPinned(ctx, ownerId)
	}
	return chatmodel.MasterPrompt{}, false, nil
}
