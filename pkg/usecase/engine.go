package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/owasp-nest/nestai/pkg/agent"
	"github.com/owasp-nest/nestai/pkg/agent/router"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/utils/errutil"
	"github.com/owasp-nest/nestai/pkg/utils/logging"
)

// DefaultQueryBudget bounds the total time spent answering one query.
const DefaultQueryBudget = 60 * time.Second

// Engine is the query facade: classify, dispatch to an agent, return an
// answer DTO. It never returns an error; every failure degrades to the
// fallback response.
type Engine struct {
	llm       gollem.LLMClient
	router    *router.Router
	inventory *agent.Inventory
	budget    time.Duration
}

type EngineOption func(*Engine)

// WithQueryBudget overrides the per-query time budget.
func WithQueryBudget(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.budget = d
		}
	}
}

func NewEngine(llm gollem.LLMClient, rt *router.Router, inventory *agent.Inventory, opts ...EngineOption) *Engine {
	e := &Engine{
		llm:       llm,
		router:    rt,
		inventory: inventory,
		budget:    DefaultQueryBudget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Answer processes a user query end to end. Failures are logged and
// reported around the fallback response constant, with the classified
// intent attached when classification succeeded.
func (e *Engine) Answer(ctx context.Context, query string) *model.Answer {
	ctx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()

	logger := logging.From(ctx)
	start := time.Now()

	classified, text, err := e.ClassifyAndRoute(ctx, query)
	latency := time.Since(start)

	intent := model.IntentResult{
		Label:      classified.Intent.String(),
		Confidence: classified.Confidence,
	}

	if err != nil {
		_ = errutil.Handle(ctx, err, "query pipeline failed")
		logger.Warn("query failed, returning fallback",
			"intent", intent.Label, "latency", latency)
		return model.NewFallbackAnswer(intent)
	}

	logger.Info("query answered",
		"intent", intent.Label,
		"confidence", intent.Confidence,
		"latency", latency)

	source := types.AnswerSourceAgent
	if classified.Intent == types.IntentRag {
		source = types.AnswerSourceRag
	}

	return &model.Answer{
		Answer: text,
		Source: source,
		Intent: intent,
	}
}

// ClassifyAndRoute classifies the query and runs the dispatched agent.
// Exported for tests; Answer wraps it with the fallback behavior.
func (e *Engine) ClassifyAndRoute(ctx context.Context, query string) (router.Result, string, error) {
	classified := e.router.Classify(ctx, query)
	logging.From(ctx).Debug("intent classified",
		"intent", classified.Intent, "confidence", classified.Confidence)

	a := e.inventory.ForIntent(classified.Intent)
	text, err := a.Run(ctx, e.llm, query)
	return classified, text, err
}

// AnswerChannelJoin responds to a member joining a community channel. The
// channel agent is reached through this path instead of intent
// classification, so the reported intent label stays outside the enum.
func (e *Engine) AnswerChannelJoin(ctx context.Context, greeting string) *model.Answer {
	ctx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()

	text, err := e.inventory.Channel().Run(ctx, e.llm, greeting)
	intent := model.IntentResult{Label: "channel", Confidence: 1}
	if err != nil {
		_ = errutil.Handle(ctx, err, "channel-join pipeline failed")
		return model.NewFallbackAnswer(intent)
	}

	return &model.Answer{
		Answer: text,
		Source: types.AnswerSourceAgent,
		Intent: intent,
	}
}
