package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rizkyfm/docchat/internal/domain/chatmodel"
)

type InMemoryPromptStore struct {
	lock    *sync.RWMutex
	prompts map[string]map[string]chatmodel.MasterPrompt
	pinned  map[string]string
}

func InitInMemoryPromptStore() *InMemoryPromptStore {
	return &InMemoryPromptStore{
		lock:    new(sync.RWMutex),
		prompts: make(map[string]map[string]chatmodel.MasterPrompt),
		pinned:  make(map[string]string),
	}
}

func (store *InMemoryPromptStore) Save(ctx context.Context, prompt chatmodel.MasterPrompt) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	if store.prompts[prompt.OwnerId] == nil {
		store.prompts[prompt.OwnerId] = make(map[string]chatmodel.MasterPrompt)
	}
	store.prompts[prompt.OwnerId][prompt.Id] = prompt
	return nil
}

func (store *InMemoryPromptStore) List(ctx context.Context, ownerId string) ([]chatmodel.MasterPrompt, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	pinnedId := store.pinned[ownerId]
	out := make([]chatmodel.MasterPrompt, 0, len(store.prompts[ownerId]))
	for _, prompt := range store.prompts[ownerId] {
		prompt.Pinned = prompt.Id == pinnedId
		out = append(out, prompt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Id < out[j].Id
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (store *InMemoryPromptStore) Pin(ctx context.Context, ownerId string, promptId string) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	if _, ok := store.prompts[ownerId][promptId]; !ok {
		return errors.New("prompt not found")
	}
	store.pinned[ownerId] = promptId
	return nil
}

func (store *InMemoryPromptStore) GetPinned(ctx context.Context, ownerId string) (chatmodel.MasterPrompt, bool, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	pinnedId, ok := store.pinned[ownerId]
	if !ok {
		return chatmodel.MasterPrompt{}, false, nil
	}
	prompt, ok := store.prompts[ownerId][pinnedId]
	if !ok {
		return chatmodel.MasterPrompt{}, false, nil
	}
	prompt.Pinned = true
	return prompt, true, nil
}
