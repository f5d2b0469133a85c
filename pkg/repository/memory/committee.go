package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

type committeeRepository struct {
	mu         sync.RWMutex
	committees map[string]*model.Committee
}

func newCommitteeRepository() *committeeRepository {
	return &committeeRepository{
		committees: make(map[string]*model.Committee),
	}
}

func copyCommittee(c *model.Committee) *model.Committee {
	copied := *c
	copied.Tags = append([]string(nil), c.Tags...)
	copied.Leaders = append([]string(nil), c.Leaders...)
	copied.Channels = append([]string(nil), c.Channels...)
	return &copied
}

func (r *committeeRepository) put(c *model.Committee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committees[c.Key] = copyCommittee(c)
}

func (r *committeeRepository) Get(ctx context.Context, key string) (*model.Committee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.committees[key]
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "committee not found", goerr.V("key", key))
	}
	return copyCommittee(c), nil
}

func (r *committeeRepository) List(ctx context.Context) ([]*model.Committee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Committee, 0, len(r.committees))
	for _, c := range r.committees {
		result = append(result, copyCommittee(c))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *committeeRepository) Search(ctx context.Context, query string, limit int) ([]*model.Committee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Committee
	for _, c := range r.committees {
		if matchText(query, c.Key, c.Name, c.Description) {
			result = append(result, copyCommittee(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
