package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

type eventRepository struct {
	mu     sync.RWMutex
	events map[string]*model.Event
}

func newEventRepository() *eventRepository {
	return &eventRepository{
		events: make(map[string]*model.Event),
	}
}

func copyEvent(e *model.Event) *model.Event {
	copied := *e
	return &copied
}

func (r *eventRepository) put(e *model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[e.Key] = copyEvent(e)
}

func (r *eventRepository) Get(ctx context.Context, key string) (*model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[key]
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "event not found", goerr.V("key", key))
	}
	return copyEvent(e), nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context) ([]*model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now().UTC()
	var result []*model.Event
	for _, e := range r.events {
		if e.IsUpcoming(now) {
			result = append(result, copyEvent(e))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}
