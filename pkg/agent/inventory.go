package agent

import (
	"github.com/owasp-nest/nestai/pkg/agent/tool/channel"
	"github.com/owasp-nest/nestai/pkg/agent/tool/chapter"
	"github.com/owasp-nest/nestai/pkg/agent/tool/community"
	"github.com/owasp-nest/nestai/pkg/agent/tool/contribution"
	"github.com/owasp-nest/nestai/pkg/agent/tool/project"
	"github.com/owasp-nest/nestai/pkg/agent/tool/rag"
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/service/retrieval"
)

// Inventory holds the agent assigned to each intent plus the channel-join
// agent, which is reached through a separate path rather than intent
// classification.
type Inventory struct {
	byIntent map[types.Intent]*Agent
	channel  *Agent
}

// NewInventory builds all agents. The committee intent is served by the
// community agent; the dispatch table keeps that mapping explicit instead
// of collapsing the intent enum.
func NewInventory(repo interfaces.Repository, retriever *retrieval.Retriever, channelCfg channel.Config) (*Inventory, error) {
	channelTools, err := channel.New(channelCfg)
	if err != nil {
		return nil, err
	}

	projectAgent := &Agent{
		Name:      "project",
		Role:      "an OWASP project analyst",
		Goal:      "Answer questions about OWASP projects: what they do, their maturity level, popularity and age.",
		Backstory: "You know the OWASP project portfolio through the project search tools and never guess beyond them.",
		Tools:     project.New(repo),
	}

	chapterAgent := &Agent{
		Name:      "chapter",
		Role:      "an OWASP chapter guide",
		Goal:      "Help people find OWASP chapters near them and describe what each chapter does.",
		Backstory: "You locate chapters by city, country or name using the chapter search tool.",
		Tools:     chapter.New(repo),
	}

	communityAgent := &Agent{
		Name:      "community",
		Role:      "an OWASP community concierge",
		Goal:      "Connect people with OWASP projects, chapters and committees: who leads them and where they talk.",
		Backstory: "You resolve leaders and Slack channels for any OWASP entity through the community tools.",
		Tools:     community.New(repo),
	}

	contributionAgent := &Agent{
		Name:      "contribution",
		Role:      "an OWASP contribution mentor",
		Goal:      "Guide newcomers into contributing to OWASP, including Google Summer of Code participation.",
		Backstory: "You combine general contribution guidance with the per-year list of GSoC projects.",
		Tools:     contribution.New(repo),
	}

	ragAgent := &Agent{
		Name:      "rag",
		Role:      "an OWASP knowledge assistant",
		Goal:      "Answer open questions about OWASP using the ingested knowledge base.",
		Backstory: "You search the knowledge base semantically and cite the matched sources by their labels.",
		Tools:     rag.New(retriever),
	}

	channelAgent := &Agent{
		Name:      "channel",
		Role:      "an OWASP community greeter",
		Goal:      "Welcome members joining a community channel and point them at the right channel to continue in.",
		Backstory: "You respond to channel-join greetings with the configured channel suggestions.",
		Tools:     channelTools,
	}

	return &Inventory{
		byIntent: map[types.Intent]*Agent{
			types.IntentProject:      projectAgent,
			types.IntentChapter:      chapterAgent,
			types.IntentCommittee:    communityAgent,
			types.IntentCommunity:    communityAgent,
			types.IntentContribution: contributionAgent,
			types.IntentGsoc:         contributionAgent,
			types.IntentRag:          ragAgent,
		},
		channel: channelAgent,
	}, nil
}

// ForIntent returns the agent serving the intent, falling back to the rag
// agent for anything unmapped.
func (inv *Inventory) ForIntent(intent types.Intent) *Agent {
	if a, ok := inv.byIntent[intent]; ok {
		return a
	}
	return inv.byIntent[types.IntentRag]
}

// Channel returns the channel-join agent.
func (inv *Inventory) Channel() *Agent {
	return inv.channel
}
