package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

type projectRepository struct {
	mu       sync.RWMutex
	projects map[string]*model.Project
}

func newProjectRepository() *projectRepository {
	return &projectRepository{
		projects: make(map[string]*model.Project),
	}
}

func copyProject(p *model.Project) *model.Project {
	copied := *p
	copied.Tags = append([]string(nil), p.Tags...)
	copied.CustomTags = append([]string(nil), p.CustomTags...)
	copied.Languages = append([]string(nil), p.Languages...)
	copied.Topics = append([]string(nil), p.Topics...)
	copied.Leaders = append([]string(nil), p.Leaders...)
	copied.Channels = append([]string(nil), p.Channels...)
	return &copied
}

func (r *projectRepository) put(p *model.Project) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.Key] = copyProject(p)
}

func (r *projectRepository) Get(ctx context.Context, key string) (*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[key]
	if !ok {
		return nil, goerr.Wrap(types.ErrNotFound, "project not found", goerr.V("key", key))
	}
	return copyProject(p), nil
}

func (r *projectRepository) ListActive(ctx context.Context) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Project
	for _, p := range r.projects {
		if p.IsActive {
			result = append(result, copyProject(p))
		}
	}
	sortProjects(result)
	return result, nil
}

func (r *projectRepository) Search(ctx context.Context, query string, limit int) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Project
	for _, p := range r.projects {
		if matchText(query, p.Key, p.Name, p.Description) {
			result = append(result, copyProject(p))
		}
	}
	sortProjects(result)
	return clipProjects(result, limit), nil
}

func (r *projectRepository) ListByLevel(ctx context.Context, level types.ProjectLevel, limit int) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Project
	for _, p := range r.projects {
		if p.Level == level {
			result = append(result, copyProject(p))
		}
	}
	sortProjects(result)
	return clipProjects(result, limit), nil
}

func (r *projectRepository) ListByCustomTag(ctx context.Context, tag string) ([]*model.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.Project
	for _, p := range r.projects {
		for _, t := range p.CustomTags {
			if t == tag {
				result = append(result, copyProject(p))
				break
			}
		}
	}
	sortProjects(result)
	return result, nil
}

func sortProjects(projects []*model.Project) {
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
}

func clipProjects(projects []*model.Project, limit int) []*model.Project {
	if limit > 0 && len(projects) > limit {
		return projects[:limit]
	}
	return projects
}

// matchText reports whether any field contains the query, case-insensitively.
func matchText(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
