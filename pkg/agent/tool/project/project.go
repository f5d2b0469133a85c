package project

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/owasp-nest/nestai/pkg/agent/tool"
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

const defaultLimit = 10

var timeNow = time.Now

// New builds the project tools for the agent layer.
func New(repo interfaces.Repository) []gollem.Tool {
	return []gollem.Tool{
		&searchProjectsTool{repo: repo},
		&projectsByLevelTool{repo: repo},
		&projectAgeTool{repo: repo},
	}
}

// searchProjectsTool searches OWASP projects by free text
type searchProjectsTool struct {
	repo interfaces.Repository
}

func (t *searchProjectsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "search_projects",
		Description: "Search OWASP projects by name, key or description",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Search query text",
				Required:    true,
			},
			"limit": {
				Type:        gollem.TypeInteger,
				Description: "Maximum number of results to return (default: 10)",
				Required:    false,
			},
		},
	}
}

func (t *searchProjectsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, err := tool.StringArg(args, "query")
	if err != nil {
		return nil, err
	}
	limit := tool.OptionalLimit(args, defaultLimit)

	tool.Update(ctx, fmt.Sprintf("Searching projects: %s", query))

	projects, err := t.repo.Project().Search(ctx, query, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search projects", goerr.V("query", query))
	}

	return map[string]any{"projects": projectItems(projects)}, nil
}

// projectsByLevelTool lists projects at a given maturity level
type projectsByLevelTool struct {
	repo interfaces.Repository
}

func (t *projectsByLevelTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_projects_by_level",
		Description: "List OWASP projects at a given maturity level (flagship, production, lab or incubator)",
		Parameters: map[string]*gollem.Parameter{
			"level": {
				Type:        gollem.TypeString,
				Description: "Project maturity level: flagship, production, lab or incubator",
				Required:    true,
			},
			"limit": {
				Type:        gollem.TypeInteger,
				Description: "Maximum number of results to return (default: 10)",
				Required:    false,
			},
		},
	}
}

func (t *projectsByLevelTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	raw, err := tool.StringArg(args, "level")
	if err != nil {
		return nil, err
	}
	level, err := types.ParseProjectLevel(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid project level", goerr.T(types.ErrTagToolInput), goerr.V("level", raw))
	}
	limit := tool.OptionalLimit(args, defaultLimit)

	tool.Update(ctx, fmt.Sprintf("Listing %s projects", level))

	projects, err := t.repo.Project().ListByLevel(ctx, level, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list projects by level", goerr.V("level", level))
	}

	return map[string]any{"projects": projectItems(projects)}, nil
}

// projectAgeTool reports how old a project is
type projectAgeTool struct {
	repo interfaces.Repository
}

func (t *projectAgeTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_project_age",
		Description: "Get the age of an OWASP project since its creation",
		Parameters: map[string]*gollem.Parameter{
			"key": {
				Type:        gollem.TypeString,
				Description: "The project key, e.g. \"juice-shop\"",
				Required:    true,
			},
		},
	}
}

func (t *projectAgeTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	key, err := tool.StringArg(args, "key")
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Getting project age: %s", key))

	p, err := t.repo.Project().Get(ctx, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get project", goerr.V("key", key))
	}

	age := p.Age(timeNow())
	years := int(age.Hours() / 24 / 365)
	days := int(age.Hours() / 24)

	return map[string]any{
		"key":        p.Key,
		"name":       p.Name,
		"created_at": p.CreatedAt.Format("2006-01-02"),
		"age_days":   days,
		"age_years":  years,
	}, nil
}

func projectItems(projects []*model.Project) []map[string]any {
	items := make([]map[string]any, len(projects))
	for i, p := range projects {
		items[i] = map[string]any{
			"key":         p.Key,
			"name":        p.Name,
			"description": p.Description,
			"level":       string(p.Level),
			"stars":       p.StarsCount,
			"leaders":     p.Leaders,
		}
	}
	return items
}
