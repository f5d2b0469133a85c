package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

type messageRepository struct {
	mu       sync.RWMutex
	messages map[string]*model.Message
}

func newMessageRepository() *messageRepository {
	return &messageRepository{
		messages: make(map[string]*model.Message),
	}
}

func copyMessage(m *model.Message) *model.Message {
	copied := *m
	return &copied
}

func (r *messageRepository) Get(ctx context.Context, key string) (*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.messages[key]
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "message not found", goerr.V("key", key))
	}
	return copyMessage(m), nil
}

func (r *messageRepository) List(ctx context.Context) ([]*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Message, 0, len(r.messages))
	for _, m := range r.messages {
		result = append(result, copyMessage(m))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key() < result[j].Key() })
	return result, nil
}

func (r *messageRepository) Put(ctx context.Context, msg *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.TS == "" || msg.ChannelID == "" {
		return goerr.New("message requires channel ID and timestamp")
	}
	r.messages[msg.Key()] = copyMessage(msg)
	return nil
}
