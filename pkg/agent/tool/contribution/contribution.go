package contribution

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/owasp-nest/nestai/pkg/agent/tool"
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

const contributeInfo = `OWASP projects are open source and welcome contributions from everyone. ` +
	`Start by picking a project that matches your interests and skills, read its ` +
	`contributing guide, and look for issues labeled "good first issue" or ` +
	`"help wanted" in its repository. Joining the project's Slack channel is the ` +
	`fastest way to reach its leaders and other contributors.`

const gsocInfo = `OWASP participates in Google Summer of Code (GSoC) as a mentoring ` +
	`organization. Candidate projects publish GSoC ideas each year; contributors ` +
	`apply with a proposal against one of those ideas. Before applying, get familiar ` +
	`with the project codebase, talk to the mentors in the project channel, and make ` +
	`a few small contributions to show your understanding of the project.`

// New builds the contribution tools for the agent layer.
func New(repo interfaces.Repository) []gollem.Tool {
	return []gollem.Tool{
		&contributeInfoTool{},
		&gsocInfoTool{},
		&gsocProjectsTool{repo: repo},
	}
}

// contributeInfoTool returns general contribution guidance
type contributeInfoTool struct{}

func (t *contributeInfoTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_contribute_info",
		Description: "Get general guidance on how to start contributing to OWASP projects",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *contributeInfoTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	return map[string]any{"info": contributeInfo}, nil
}

// gsocInfoTool returns general Google Summer of Code guidance
type gsocInfoTool struct{}

func (t *gsocInfoTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_gsoc_info",
		Description: "Get general information about OWASP participation in Google Summer of Code",
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *gsocInfoTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	return map[string]any{"info": gsocInfo}, nil
}

// gsocProjectsTool lists the projects participating in GSoC for a year
type gsocProjectsTool struct {
	repo interfaces.Repository
}

func (t *gsocProjectsTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        "get_gsoc_project_info",
		Description: "List OWASP projects participating in Google Summer of Code for the given year",
		Parameters: map[string]*gollem.Parameter{
			"year": {
				Type:        gollem.TypeInteger,
				Description: "The GSoC year, e.g. 2025",
				Required:    true,
			},
		},
	}
}

func (t *gsocProjectsTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	year, err := tool.IntArg(args, "year")
	if err != nil {
		return nil, err
	}
	if year <= 0 {
		return nil, goerr.New("year must be positive", goerr.T(types.ErrTagToolInput), goerr.V("year", year))
	}

	tag := fmt.Sprintf("gsoc%d", year)
	tool.Update(ctx, fmt.Sprintf("Listing GSoC %d projects", year))

	projects, err := t.repo.Project().ListByCustomTag(ctx, tag)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list GSoC projects", goerr.V("tag", tag))
	}

	items := make([]map[string]any, len(projects))
	for i, p := range projects {
		items[i] = map[string]any{
			"key":         p.Key,
			"name":        p.Name,
			"description": p.Description,
			"level":       string(p.Level),
			"leaders":     p.Leaders,
		}
	}
	return map[string]any{"year": year, "projects": items}, nil
}
