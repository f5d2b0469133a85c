package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/utils/logging"
)

// Router classifies a user query into one of the seven intents with a
// confidence score. Classification failures never propagate: the router
// degrades to the rag intent with confidence 0 so the pipeline can fall
// back to generic retrieval.
type Router struct {
	llm gollem.LLMClient
}

func New(llm gollem.LLMClient) *Router {
	return &Router{llm: llm}
}

// Result is the classification outcome.
type Result struct {
	Intent     types.Intent
	Confidence float64
}

type classification struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

var fallbackResult = Result{Intent: types.IntentRag, Confidence: 0}

// Classify returns the intent of the query. It never returns an error;
// any failure yields the rag fallback.
func (r *Router) Classify(ctx context.Context, query string) Result {
	result, err := r.classify(ctx, query)
	if err != nil {
		logging.From(ctx).Warn("intent classification failed, falling back to rag", "error", err)
		return fallbackResult
	}
	return result
}

func (r *Router) classify(ctx context.Context, query string) (Result, error) {
	schema := &gollem.Parameter{
		Title:       "IntentClassification",
		Description: "Classification of a user query into an intent category",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"intent": {
				Type:        gollem.TypeString,
				Description: "One of: chapter, committee, community, contribution, gsoc, project, rag",
				Required:    true,
			},
			"confidence": {
				Type:        gollem.TypeNumber,
				Description: "Classification confidence between 0 and 1",
				Required:    true,
			},
		},
	}

	session, err := r.llm.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
	)
	if err != nil {
		return Result{}, goerr.Wrap(err, "failed to create classification session", goerr.T(types.ErrTagLLM))
	}

	prompt := fmt.Sprintf(`Classify the following OWASP community question into exactly one intent.

Intents:
- chapter: questions about OWASP chapters, local meetups, chapters in a city or country
- committee: questions about OWASP committees
- community: questions about who leads an entity or which Slack channel it uses
- contribution: questions about how to contribute to OWASP projects
- gsoc: questions about Google Summer of Code participation
- project: questions about specific OWASP projects, their maturity, popularity or age
- rag: anything else about OWASP that needs knowledge base search

Question:
%s`, query)

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return Result{}, goerr.Wrap(err, "failed to classify intent", goerr.T(types.ErrTagLLM))
	}
	if len(resp.Texts) == 0 {
		return Result{}, goerr.New("classification returned empty result", goerr.T(types.ErrTagLLM))
	}

	var c classification
	if err := json.Unmarshal([]byte(resp.Texts[0]), &c); err != nil {
		return Result{}, goerr.Wrap(err, "failed to parse classification JSON",
			goerr.T(types.ErrTagLLM), goerr.V("response", resp.Texts[0]))
	}

	intent, err := types.ParseIntent(strings.TrimSpace(c.Intent))
	if err != nil {
		return Result{}, goerr.Wrap(err, "classifier returned unknown intent",
			goerr.T(types.ErrTagLLM), goerr.V("intent", c.Intent))
	}

	confidence := c.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return Result{Intent: intent, Confidence: confidence}, nil
}
