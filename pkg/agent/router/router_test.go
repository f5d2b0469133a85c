package router_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/owasp-nest/nestai/pkg/agent/router"
	"github.com/owasp-nest/nestai/pkg/domain/types"
)

type mockSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{`{"intent":"rag","confidence":0.5}`}}, nil
}

func (s *mockSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	ch := make(chan *gollem.Response)
	close(ch)
	return ch, nil
}

func (s *mockSession) History() (*gollem.History, error) { return nil, nil }

func (s *mockSession) AppendHistory(*gollem.History) error { return nil }

func (s *mockSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

type mockLLMClient struct {
	newSessionFn func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return &mockSession{}, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return nil, errors.New("not implemented")
}

func classifierReturning(text string) *mockLLMClient {
	return &mockLLMClient{
		newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
			return &mockSession{
				generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					return &gollem.Response{Texts: []string{text}}, nil
				},
			}, nil
		},
	}
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	t.Run("parses intent and confidence", func(t *testing.T) {
		r := router.New(classifierReturning(`{"intent":"project","confidence":0.92}`))
		result := r.Classify(ctx, "how popular is juice shop?")
		gt.Value(t, result.Intent).Equal(types.IntentProject)
		gt.Value(t, result.Confidence).Equal(0.92)
	})

	t.Run("clamps confidence above one", func(t *testing.T) {
		r := router.New(classifierReturning(`{"intent":"gsoc","confidence":3.5}`))
		result := r.Classify(ctx, "gsoc 2025 projects?")
		gt.Value(t, result.Intent).Equal(types.IntentGsoc)
		gt.Value(t, result.Confidence).Equal(1.0)
	})

	t.Run("clamps negative confidence", func(t *testing.T) {
		r := router.New(classifierReturning(`{"intent":"chapter","confidence":-0.2}`))
		result := r.Classify(ctx, "chapters in japan?")
		gt.Value(t, result.Confidence).Equal(0.0)
	})

	t.Run("unknown intent falls back to rag", func(t *testing.T) {
		r := router.New(classifierReturning(`{"intent":"weather","confidence":0.9}`))
		result := r.Classify(ctx, "will it rain?")
		gt.Value(t, result.Intent).Equal(types.IntentRag)
		gt.Value(t, result.Confidence).Equal(0.0)
	})

	t.Run("malformed JSON falls back to rag", func(t *testing.T) {
		r := router.New(classifierReturning("the intent is project"))
		result := r.Classify(ctx, "tell me about zap")
		gt.Value(t, result.Intent).Equal(types.IntentRag)
	})

	t.Run("session creation failure falls back to rag", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return nil, errors.New("provider down")
			},
		}
		r := router.New(llm)
		result := r.Classify(ctx, "anything")
		gt.Value(t, result.Intent).Equal(types.IntentRag)
		gt.Value(t, result.Confidence).Equal(0.0)
	})

	t.Run("empty response falls back to rag", func(t *testing.T) {
		llm := &mockLLMClient{
			newSessionFn: func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
				return &mockSession{
					generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
						return &gollem.Response{}, nil
					},
				}, nil
			},
		}
		r := router.New(llm)
		result := r.Classify(ctx, "anything")
		gt.Value(t, result.Intent).Equal(types.IntentRag)
	})
}
