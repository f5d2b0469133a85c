package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

type repoRepository struct {
	mu    sync.RWMutex
	repos map[string]*model.Repository
}

func newRepoRepository() *repoRepository {
	return &repoRepository{
		repos: make(map[string]*model.Repository),
	}
}

func copyRepository(r *model.Repository) *model.Repository {
	copied := *r
	copied.Topics = append([]string(nil), r.Topics...)
	return &copied
}

func (r *repoRepository) put(repo *model.Repository) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repos[repo.Key] = copyRepository(repo)
}

func (r *repoRepository) Get(ctx context.Context, key string) (*model.Repository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	repo, ok := r.repos[key]
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "repository not found", goerr.V("key", key))
	}
	return copyRepository(repo), nil
}

func (r *repoRepository) ListIngestible(ctx context.Context) ([]*model.Repository, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Repository
	for _, repo := range r.repos {
		if repo.IsIngestible() {
			result = append(result, copyRepository(repo))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}
