package rag

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/owasp-nest/nestai/pkg/agent/tool"
	"github.com/owasp-nest/nestai/pkg/service/retrieval"
)

const defaultLimit = 5

// New builds the semantic search tool backed by the hybrid retriever.
func New(retriever *retrieval.Retriever) []gollem.Tool {
	return []gollem.Tool{
		&semanticSearchTool{retriever: retriever},
	}
}

// semanticSearchTool runs hybrid retrieval over the ingested knowledge base
type semanticSearchTool struct {
	retriever *retrieval.Retriever
}

func (t *semanticSearchTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "semantic_search",
		Description: "Search the ingested OWASP knowledge base by meaning, combining semantic and keyword matching",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Search query text",
				Required:    true,
			},
			"limit": {
				Type:        gollem.TypeInteger,
				Description: "Maximum number of results to return (default: 5)",
				Required:    false,
			},
		},
	}
}

func (t *semanticSearchTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, err := tool.StringArg(args, "query")
	if err != nil {
		return nil, err
	}
	limit := tool.OptionalLimit(args, defaultLimit)

	tool.Update(ctx, fmt.Sprintf("Searching knowledge base: %s", query))

	results, err := t.retriever.Search(ctx, query, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search knowledge base", goerr.V("query", query))
	}

	items := make([]map[string]any, len(results))
	for i, r := range results {
		items[i] = map[string]any{
			"text":          r.Text,
			"context_label": r.Label,
			"distance":      r.Distance,
		}
	}
	return map[string]any{"results": items}, nil
}
