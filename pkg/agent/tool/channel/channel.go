package channel

import (
	"context"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const contributeTemplate = `Welcome! If you want to start contributing, join <#{{.ChannelID}}>. ` +
	`The channel topic links the contribution guide, and project leaders watch it for newcomers.`

const gsocTemplate = `Interested in Google Summer of Code? Join <#{{.ChannelID}}> where ` +
	`mentors announce project ideas and answer questions about proposals.`

// Config carries the Slack channel IDs rendered into suggestions.
type Config struct {
	ContributeChannelID string `toml:"contribute_channel_id"`
	GSoCChannelID       string `toml:"gsoc_channel_id"`
}

// New builds the channel suggestion tools. The responses are static
// templates rendered with the configured channel IDs.
func New(cfg Config) ([]gollem.Tool, error) {
	contribute, err := render(contributeTemplate, cfg.ContributeChannelID)
	if err != nil {
		return nil, err
	}
	gsoc, err := render(gsocTemplate, cfg.GSoCChannelID)
	if err != nil {
		return nil, err
	}

	return []gollem.Tool{
		&suggestTool{
			name:        "suggest_contribute_channel",
			description: "Suggest the Slack channel a newcomer should join to start contributing",
			response:    contribute,
		},
		&suggestTool{
			name:        "suggest_gsoc_channel",
			description: "Suggest the Slack channel for Google Summer of Code discussions",
			response:    gsoc,
		},
	}, nil
}

func render(tmpl, channelID string) (string, error) {
	t, err := template.New("suggestion").Parse(tmpl)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse suggestion template")
	}
	var buf strings.Builder
	if err := t.Execute(&buf, map[string]string{"ChannelID": channelID}); err != nil {
		return "", goerr.Wrap(err, "failed to render suggestion template")
	}
	return buf.String(), nil
}

// suggestTool returns a pre-rendered suggestion
type suggestTool struct {
	name        string
	description string
	response    string
}

func (t *suggestTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name:        t.name,
		Description: t.description,
		Parameters:  map[string]*gollem.Parameter{},
	}
}

func (t *suggestTool) Run(ctx context.Context, args map[string]any) (map[string]any, error) {
	return map[string]any{"suggestion": t.response}, nil
}
