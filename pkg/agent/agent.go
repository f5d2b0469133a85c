package agent

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/owasp-nest/nestai/pkg/agent/tool"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/utils/logging"
)

//go:embed prompt/system.md
var systemPromptTmpl string

var systemPrompt = template.Must(template.New("system").Parse(systemPromptTmpl))

// DefaultLoopLimit caps the tool-calling loop of an agent.
const DefaultLoopLimit = 8

// Agent is a configuration object for one intent: a persona, a bounded
// tool set and a loop limit. Agents are stateless per query and never
// delegate to each other.
type Agent struct {
	Name      string
	Role      string
	Goal      string
	Backstory string
	Tools     []gollem.Tool
	LoopLimit int
}

// Run executes the agent's tool loop for the query and returns the final
// natural-language answer.
func (a *Agent) Run(ctx context.Context, llm gollem.LLMClient, query string) (string, error) {
	prompt, err := a.renderSystemPrompt()
	if err != nil {
		return "", err
	}

	loopLimit := a.LoopLimit
	if loopLimit <= 0 {
		loopLimit = DefaultLoopLimit
	}

	g := gollem.New(llm,
		gollem.WithSystemPrompt(prompt),
		gollem.WithTools(a.Tools...),
		gollem.WithLoopLimit(loopLimit),
		gollem.WithToolMiddleware(a.traceTool),
	)

	resp, err := g.Execute(ctx, gollem.Text(query))
	if err != nil {
		return "", goerr.Wrap(err, "failed to execute agent",
			goerr.T(types.ErrTagLLM), goerr.V("agent", a.Name))
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("agent returned no text",
			goerr.T(types.ErrTagLLM), goerr.V("agent", a.Name))
	}

	answer := strings.Join(resp.Texts, "\n")
	logging.From(ctx).Debug("agent finished", "agent", a.Name, "answer_length", len(answer))
	return answer, nil
}

// traceTool records every tool invocation in the log and forwards it to
// the progress callback carried by the context.
func (a *Agent) traceTool(next gollem.ToolHandler) gollem.ToolHandler {
	return func(ctx context.Context, req *gollem.ToolExecRequest) (*gollem.ToolExecResponse, error) {
		logging.From(ctx).Info("tool invoked", "agent", a.Name, "tool", req.Tool.Name)
		tool.Update(ctx, fmt.Sprintf("Running `%s`", req.Tool.Name))

		resp, err := next(ctx, req)
		if resp != nil && resp.Error != nil {
			logging.From(ctx).Warn("tool failed",
				"agent", a.Name, "tool", req.Tool.Name, "error", resp.Error)
			tool.Update(ctx, fmt.Sprintf("Tool `%s` failed: %s", req.Tool.Name, resp.Error))
		}
		return resp, err
	}
}

func (a *Agent) renderSystemPrompt() (string, error) {
	var buf bytes.Buffer
	if err := systemPrompt.Execute(&buf, a); err != nil {
		return "", goerr.Wrap(err, "failed to render agent system prompt", goerr.V("agent", a.Name))
	}
	return buf.String(), nil
}
