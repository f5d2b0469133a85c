package chapter

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/owasp-nest/nestai/pkg/agent/tool"
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
)

const defaultLimit = 10

// New builds the chapter tools for the agent layer.
func New(repo interfaces.Repository) []gollem.Tool {
	return []gollem.Tool{
		&searchChaptersTool{repo: repo},
	}
}

// searchChaptersTool searches OWASP chapters by free text
type searchChaptersTool struct {
	repo interfaces.Repository
}

func (t *searchChaptersTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "search_chapters",
		Description: "Search OWASP chapters by name, location or description",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Search query text, e.g. a city or country name",
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

func (t *searchChaptersTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, err := tool.StringArg(args, "query")
	if err != nil {
		return nil, err
	}
	limit := tool.OptionalLimit(args, defaultLimit)

	tool.Update(ctx, fmt.Sprintf("Searching chapters: %s", query))

	chapters, err := t.repo.Chapter().Search(ctx, query, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search chapters", goerr.V("query", query))
	}

	items := make([]map[string]any, len(chapters))
	for i, c := range chapters {
		items[i] = map[string]any{
			"key":     c.Key,
			"name":    c.Name,
			"country": c.Country,
			"region":  c.Region,
			"city":    c.City,
			"leaders": c.Leaders,
		}
	}
	return map[string]any{"chapters": items}, nil
}
