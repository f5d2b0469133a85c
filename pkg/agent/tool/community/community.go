package community

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/owasp-nest/nestai/pkg/agent/tool"
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
)

const searchLimit = 5

// New builds the community tools for the agent layer. They resolve leaders
// and Slack channels across projects, chapters and committees.
func New(repo interfaces.Repository) []gollem.Tool {
	return []gollem.Tool{
		&entityLeadersTool{repo: repo},
		&entityChannelsTool{repo: repo},
	}
}

// entityRef is one matched entity with the fields both tools report.
type entityRef struct {
	kind     string
	key      string
	name     string
	leaders  []string
	channels []string
}

func searchEntities(ctx context.Context, repo interfaces.Repository, query string) ([]entityRef, error) {
	var refs []entityRef

	projects, err := repo.Project().Search(ctx, query, searchLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search projects", goerr.V("query", query))
	}
	for _, p := range projects {
		refs = append(refs, entityRef{kind: "project", key: p.Key, name: p.Name, leaders: p.Leaders, channels: p.Channels})
	}

	chapters, err := repo.Chapter().Search(ctx, query, searchLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search chapters", goerr.V("query", query))
	}
	for _, c := range chapters {
		refs = append(refs, entityRef{kind: "chapter", key: c.Key, name: c.Name, leaders: c.Leaders, channels: c.Channels})
	}

	committees, err := repo.Committee().Search(ctx, query, searchLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search committees", goerr.V("query", query))
	}
	for _, c := range committees {
		refs = append(refs, entityRef{kind: "committee", key: c.Key, name: c.Name, leaders: c.Leaders, channels: c.Channels})
	}

	return refs, nil
}

// entityLeadersTool resolves the leaders of a project, chapter or committee
type entityLeadersTool struct {
	repo interfaces.Repository
}

func (t *entityLeadersTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_entity_leaders",
		Description: "Get the leaders of OWASP projects, chapters or committees matching the query",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Entity name to look up, e.g. \"juice shop\"",
				Required:    true,
			},
		},
	}
}

func (t *entityLeadersTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, err := tool.StringArg(args, "query")
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Looking up leaders: %s", query))

	refs, err := searchEntities(ctx, t.repo, query)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(refs))
	for _, ref := range refs {
		if len(ref.leaders) == 0 {
			continue
		}
		items = append(items, map[string]any{
			"kind":    ref.kind,
			"key":     ref.key,
			"name":    ref.name,
			"leaders": ref.leaders,
		})
	}
	return map[string]any{"entities": items}, nil
}

// entityChannelsTool resolves the Slack channels of an entity
type entityChannelsTool struct {
	repo interfaces.Repository
}

func (t *entityChannelsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_entity_channels",
		Description: "Get the Slack channels of OWASP projects, chapters or committees matching the query",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Entity name to look up",
				Required:    true,
			},
		},
	}
}

func (t *entityChannelsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	query, err := tool.StringArg(args, "query")
	if err != nil {
		return nil, err
	}

	tool.Update(ctx, fmt.Sprintf("Looking up channels: %s", query))

	refs, err := searchEntities(ctx, t.repo, query)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(refs))
	for _, ref := range refs {
		if len(ref.channels) == 0 {
			continue
		}
		items = append(items, map[string]any{
			"kind":     ref.kind,
			"key":      ref.key,
			"name":     ref.name,
			"channels": ref.channels,
		})
	}
	return map[string]any{"entities": items}, nil
}
