package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
)

type InMemoryConversationStore struct {
	lock  *sync.RWMutex
	meta  map[string]chatmodel.Conversation
	turns map[string][]chatmodel.ChatTurn
}

func InitInMemoryConversationStore() *InMemoryConversationStore {
	return &InMemoryConversationStore{
		lock:  new(sync.RWMutex),
		meta:  make(map[string]chatmodel.Conversation),
		turns: make(map[string][]chatmodel.ChatTurn),
	}
}

func (store *InMemoryConversationStore) ValidateConversation(ctx context.Context, id string) bool {
	store.lock.RLock()
	defer store.lock.RUnlock()
	_, ok := store.meta[id]
	return ok
}

func (store *InMemoryConversationStore) InitConversation(ctx context.Context, id string, ownerId string) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	store.meta[id] = chatmodel.Conversation{
		Id:        id,
		OwnerId:   ownerId,
		Title:     "New Chat",
		CreatedAt: time.Now(),
	}
	store.turns[id] = make([]chatmodel.ChatTurn, 0)
	return nil
}

func (store *InMemoryConversationStore) AppendTurn(ctx context.Context, id string, turn chatmodel.ChatTurn) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	if _, ok := store.meta[id]; !ok {
		return errors.New("invalid conversation id")
	}
	store.turns[id] = append(store.turns[id], turn)
	return nil
}

func (store *InMemoryConversationStore) History(ctx context.Context, id string, limit int) ([]chatmodel.ChatTurn, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	all := store.turns[id]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]chatmodel.ChatTurn, len(all))
	copy(out, all)
	return out, nil
}

func (store *InMemoryConversationStore) TurnCount(ctx context.Context, id string) (int64, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	return int64(len(store.turns[id])), nil
}

func (store *InMemoryConversationStore) SetTitle(ctx context.Context, id string, title string) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	conv, ok := store.meta[id]
	if !ok {
		return errors.New("invalid conversation id")
	}
	conv.Title = title
	store.meta[id] = conv
	return nil
}

func (store *InMemoryConversationStore) Conversation(ctx context.Context, id string) (chatmodel.Conversation, bool) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	conv, ok := store.meta[id]
	return conv, ok
}
