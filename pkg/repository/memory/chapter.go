package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

type chapterRepository struct {
	mu       sync.RWMutex
	chapters map[string]*model.Chapter
}

func newChapterRepository() *chapterRepository {
	return &chapterRepository{
		chapters: make(map[string]*model.Chapter),
	}
}

func copyChapter(c *model.Chapter) *model.Chapter {
	copied := *c
	copied.Tags = append([]string(nil), c.Tags...)
	copied.Leaders = append([]string(nil), c.Leaders...)
	copied.Channels = append([]string(nil), c.Channels...)
	return &copied
}

func (r *chapterRepository) put(c *model.Chapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chapters[c.Key] = copyChapter(c)
}

func (r *chapterRepository) Get(ctx context.Context, key string) (*model.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.chapters[key]
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "chapter not found", goerr.V("key", key))
	}
	return copyChapter(c), nil
}

func (r *chapterRepository) ListActive(ctx context.Context) ([]*model.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Chapter
	for _, c := range r.chapters {
		if c.IsActive {
			result = append(result, copyChapter(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *chapterRepository) Search(ctx context.Context, query string, limit int) ([]*model.Chapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Chapter
	for _, c := range r.chapters {
		if matchText(query, c.Key, c.Name, c.Country, c.City, c.Description) {
			result = append(result, copyChapter(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
