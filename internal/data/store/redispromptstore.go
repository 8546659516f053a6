package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/rizkyfm/docchat/internal/config"
	"github.com/rizkyfm/docchat/internal/data/redisstore"
	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
	"github.com/rizkyfm/docchat/pkg/logx"
)

// RedisPromptStore keeps each owner's prompt library in one hash and the
// pinned selection in a single pointer key. Storing the pin as a pointer
// rather than a flag on every entry makes "at most one pinned prompt per
// owner" hold by construction.
type RedisPromptStore struct {
	store  *redisstore.Store
	logger *logx.Logger
}

func GetRedisPromptStore(ctx context.Context) *RedisPromptStore {
	inner := redisstore.GetRedisStore(ctx, config.RedisPromptStore)
	if inner == nil {
		return nil
	}
	return &RedisPromptStore{
		store:  inner,
		logger: logx.NewLogger("prompt_store"),
	}
}

func promptsKey(ownerId string) string { return "prompts:" + ownerId }
func pinnedKey(ownerId string) string  { return "pinned:" + ownerId }

func (s *RedisPromptStore) Save(ctx context.Context, prompt chatmodel.MasterPrompt) error {
	data, err := json.Marshal(prompt)
	if err != nil {
		return err
	}
	return s.store.HashSet(ctx, promptsKey(prompt.OwnerId), prompt.Id, data)
}

func (s *RedisPromptStore) List(ctx context.Context, ownerId string) ([]chatmodel.MasterPrompt, error) {
	entries, err := s.store.HashGetAll(ctx, promptsKey(ownerId))
	if err != nil {
		return nil, err
	}
	pinnedId, _ := s.store.Get(ctx, pinnedKey(ownerId))

	prompts := make([]chatmodel.MasterPrompt, 0, len(entries))
	for id, entry := range entries {
		var prompt chatmodel.MasterPrompt
		if err := json.Unmarshal([]byte(entry), &prompt); err != nil {
			s.logger.Error("corrupt prompt entry, skipping", "promptId", id, "error", err)
			continue
		}
		prompt.Pinned = prompt.Id == pinnedId
		prompts = append(prompts, prompt)
	}

	sort.Slice(prompts, func(i, j int) bool {
		if prompts[i].CreatedAt.Equal(prompts[j].CreatedAt) {
			return prompts[i].Id < prompts[j].Id
		}
		return prompts[i].CreatedAt.Before(prompts[j].CreatedAt)
	})
	return prompts, nil
}

func (s *RedisPromptStore) Pin(ctx context.Context, ownerId string, promptId string) error {
	found, err := s.store.HashExists(ctx, promptsKey(ownerId), promptId)
	if err != nil {
		return err
	}
	if !found {
		return errors.New("prompt not found")
	}
	return s.store.Set(ctx, pinnedKey(ownerId), promptId, 0)
}

func (s *RedisPromptStore) GetPinned(ctx context.Context, ownerId string) (chatmodel.MasterPrompt, bool, error) {
	pinnedId, err := s.store.Get(ctx, pinnedKey(ownerId))
	if s.store.IsNil(err) {
		return chatmodel.MasterPrompt{}, false, nil
	}
	if err != nil {
		return chatmodel.MasterPrompt{}, false, err
	}

	entry, err := s.store.HashGet(ctx, promptsKey(ownerId), pinnedId)
	if s.store.IsNil(err) {
		// Pointer outlived the prompt, treat as unpinned.
		return chatmodel.MasterPrompt{}, false, nil
	}
	if err != nil {
		return chatmodel.MasterPrompt{}, false, err
	}

	var prompt chatmodel.MasterPrompt
	if err := json.Unmarshal([]byte(entry), &prompt); err != nil {
		return chatmodel.MasterPrompt{}, false, err
	}
	prompt.Pinned = true
	return prompt, true, nil
}

func TestPromptStore(store *redisstore.Store) *RedisPromptStore {
	return &RedisPromptStore{
		store:  store,
		logger: logx.NewLogger("test_prompt_store"),
	}
}
