package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/data/redisstore"
	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
	"github.com/rizkyfm/docchat/pkg/logx"
)

// RedisConversationStore keeps one metadata entry and one turn list per
// conversation. Turns are append-only.
type RedisConversationStore struct {
	store  *redisstore.Store
	logger *logx.Logger
}

func GetRedisConversationStore(ctx context.Context) *RedisConversationStore {
	inner := redisstore.GetRedisStore(ctx, config.RedisConversationStore)
	if inner == nil {
		return nil
	}
	return &RedisConversationStore{
		store:  inner,
		logger: logx.NewLogger("conversation_store"),
	}
}

func metaKey(id string) string  { return "conv:" + id }
func turnsKey(id string) string { return "turns:" + id }

func (s *RedisConversationStore) ValidateConversation(ctx context.Context, id string) bool {
	found, err := s.store.Exists(ctx, metaKey(id))
	if err != nil {
		s.logger.Error("failed to check conversation", "conversationId", id, "error", err)
		return false
	}
	return found
}

func (s *RedisConversationStore) InitConversation(ctx context.Context, id string, ownerId string) error {
	conv := chatmodel.Conversation{
		Id:        id,
		OwnerId:   ownerId,
		Title:     "New Chat",
		CreatedAt: time.Now(),
	}
	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	if err := s.store.Del(ctx, turnsKey(id)); err != nil {
		return err
	}
	return s.store.Set(ctx, metaKey(id), data, config.RedisConversationStoreTTL)
}

func (s *RedisConversationStore) AppendTurn(ctx context.Context, id string, turn chatmodel.ChatTurn) error {
	if !s.ValidateConversation(ctx, id) {
		return errors.New("invalid conversation id")
	}
	data, err := json.Marshal(turn)
	if err != nil {
		return err
	}
	return s.store.ListPush(ctx, turnsKey(id), data)
}

// History returns up to limit trailing turns, oldest first.
func (s *RedisConversationStore) History(ctx context.Context, id string, limit int) ([]chatmodel.ChatTurn, error) {
	entries, err := s.store.ListLastN(ctx, turnsKey(id), int64(limit))
	if err != nil {
		return nil, err
	}

	turns := make([]chatmodel.ChatTurn, 0, len(entries))
	for _, entry := range entries {
		var turn chatmodel.ChatTurn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			s.logger.Error("corrupt turn entry, skipping", "conversationId", id, "error", err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisConversationStore) TurnCount(ctx context.Context, id string) (int64, error) {
	return s.store.ListLen(ctx, turnsKey(id))
}

func (s *RedisConversationStore) SetTitle(ctx context.Context, id string, title string) error {
	val, err := s.store.Get(ctx, metaKey(id))
	if err != nil {
		return err
	}
	var conv chatmodel.Conversation
	if err := json.Unmarshal([]byte(val), &conv); err != nil {
		return err
	}
	conv.Title = title

	data, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, metaKey(id), data, config.RedisConversationStoreTTL)
}

// Conversation returns the metadata entry for listing endpoints.
func (s *RedisConversationStore) Conversation(ctx context.Context, id string) (chatmodel.Conversation, bool) {
	val, err := s.store.Get(ctx, metaKey(id))
	if err != nil {
		return chatmodel.Conversation{}, false
	}
	var conv chatmodel.Conversation
	if err := json.Unmarshal([]byte(val), &conv); err != nil {
		return chatmodel.Conversation{}, false
	}
	return conv, true
}

func TestConversationStore(store *redisstore.Store) *RedisConversationStore {
	return &RedisConversationStore{
		store:  store,
		logger: logx.NewLogger("test_conversation_store"),
	}
}
