package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/owasp-nest/nestai/pkg/agent"
	"github.com/owasp-nest/nestai/pkg/agent/router"
	"github.com/owasp-nest/nestai/pkg/agent/tool/channel"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/repository/memory"
	"github.com/owasp-nest/nestai/pkg/service/lexical"
	"github.com/owasp-nest/nestai/pkg/service/retrieval"
	"github.com/owasp-nest/nestai/pkg/usecase"
)

// mockLLMSession is a scripted gollem Session.
type mockLLMSession struct {
	generateContentFn func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)
}

func (s *mockLLMSession) Generate(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (*gollem.Response, error) {
	return s.GenerateContent(ctx, input...)
}

func (s *mockLLMSession) Stream(ctx context.Context, input []gollem.Input, opts ...gollem.GenerateOption) (<-chan *gollem.Response, error) {
	return s.GenerateStream(ctx, input...)
}

func (s *mockLLMSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if s.generateContentFn != nil {
		return s.generateContentFn(ctx, input...)
	}
	return &gollem.Response{Texts: []string{"scripted answer"}}, nil
}

func (s *mockLLMSession) GenerateStream(ctx context.Context, input ...gollem.Input) (<-chan *gollem.Response, error) {
	ch := make(chan *gollem.Response)
	close(ch)
	return ch, nil
}

func (s *mockLLMSession) History() (*gollem.History, error) { return nil, nil }

func (s *mockLLMSession) AppendHistory(*gollem.History) error { return nil }

func (s *mockLLMSession) CountToken(ctx context.Context, input ...gollem.Input) (int, error) {
	return 0, nil
}

// mockLLMClient hands out sessions in creation order: the first session
// is the intent classifier, later ones belong to the dispatched agent.
type mockLLMClient struct {
	sessions []*mockLLMSession
	calls    int
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	var s *mockLLMSession
	if c.calls < len(c.sessions) {
		s = c.sessions[c.calls]
	} else {
		s = &mockLLMSession{}
	}
	c.calls++
	return s, nil
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	vectors := make([][]float64, len(input))
	for i := range vectors {
		vectors[i] = make([]float64, dimension)
	}
	return vectors, nil
}

func sessionReturning(text string) *mockLLMSession {
	return &mockLLMSession{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			return &gollem.Response{Texts: []string{text}}, nil
		},
	}
}

func sessionFailing(msg string) *mockLLMSession {
	return &mockLLMSession{
		generateContentFn: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			return nil, errors.New(msg)
		},
	}
}

type stubEmbedder struct{}

func (stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func (stubEmbedder) Dimensions() int { return 2 }

func newEngine(t *testing.T, llm *mockLLMClient) *usecase.Engine {
	t.Helper()

	repo := memory.New()
	lex, err := lexical.New("")
	gt.NoError(t, err).Required()
	t.Cleanup(func() { gt.NoError(t, lex.Close()) })

	retriever := retrieval.New(repo.Context(), stubEmbedder{}, lex)
	inventory, err := agent.NewInventory(repo, retriever, channel.Config{
		ContributeChannelID: "C0CONTRIB",
		GSoCChannelID:       "C0GSOC",
	})
	gt.NoError(t, err).Required()

	return usecase.NewEngine(llm, router.New(llm), inventory)
}

func TestEngineAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("agent answer carries classified intent", func(t *testing.T) {
		llm := &mockLLMClient{sessions: []*mockLLMSession{
			sessionReturning(`{"intent":"project","confidence":0.9}`),
			sessionReturning("Juice Shop is a flagship project."),
		}}
		engine := newEngine(t, llm)

		answer := engine.Answer(ctx, "tell me about juice shop")
		gt.Value(t, answer.Answer).Equal("Juice Shop is a flagship project.")
		gt.Value(t, answer.Source).Equal(types.AnswerSourceAgent)
		gt.Value(t, answer.Intent.Label).Equal("project")
		gt.Value(t, answer.Intent.Confidence).Equal(0.9)
	})

	t.Run("rag intent reports rag source", func(t *testing.T) {
		llm := &mockLLMClient{sessions: []*mockLLMSession{
			sessionReturning(`{"intent":"rag","confidence":0.4}`),
			sessionReturning("Found it in the knowledge base."),
		}}
		engine := newEngine(t, llm)

		answer := engine.Answer(ctx, "something obscure")
		gt.Value(t, answer.Source).Equal(types.AnswerSourceRag)
		gt.Value(t, answer.Intent.Label).Equal("rag")
	})

	t.Run("agent failure degrades to fallback with classified intent", func(t *testing.T) {
		llm := &mockLLMClient{sessions: []*mockLLMSession{
			sessionReturning(`{"intent":"chapter","confidence":0.8}`),
			sessionFailing("provider down"),
		}}
		engine := newEngine(t, llm)

		answer := engine.Answer(ctx, "chapters near me")
		gt.Value(t, answer.Answer).Equal(model.FallbackResponse)
		gt.Value(t, answer.Source).Equal(types.AnswerSourceFallback)
		gt.Value(t, answer.Intent.Label).Equal("chapter")
	})

	t.Run("classification failure degrades to rag before the agent runs", func(t *testing.T) {
		llm := &mockLLMClient{sessions: []*mockLLMSession{
			sessionFailing("classifier down"),
			sessionReturning("Generic retrieval answer."),
		}}
		engine := newEngine(t, llm)

		answer := engine.Answer(ctx, "anything")
		gt.Value(t, answer.Answer).Equal("Generic retrieval answer.")
		gt.Value(t, answer.Source).Equal(types.AnswerSourceRag)
		gt.Value(t, answer.Intent.Label).Equal("rag")
		gt.Value(t, answer.Intent.Confidence).Equal(0.0)
	})
}

func TestEngineClassifyAndRoute(t *testing.T) {
	llm := &mockLLMClient{sessions: []*mockLLMSession{
		sessionReturning(`{"intent":"contribution","confidence":0.7}`),
		sessionReturning("Start with good first issues."),
	}}
	engine := newEngine(t, llm)

	classified, text, err := engine.ClassifyAndRoute(context.Background(), "how do I contribute?")
	gt.NoError(t, err).Required()
	gt.Value(t, classified.Intent).Equal(types.IntentContribution)
	gt.Value(t, text).Equal("Start with good first issues.")
}

func TestEngineAnswerChannelJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("greets through the channel agent", func(t *testing.T) {
		llm := &mockLLMClient{sessions: []*mockLLMSession{
			sessionReturning("Welcome! Check out <#C0CONTRIB>."),
		}}
		engine := newEngine(t, llm)

		answer := engine.AnswerChannelJoin(ctx, "a new member joined #contribute")
		gt.Value(t, answer.Answer).Equal("Welcome! Check out <#C0CONTRIB>.")
		gt.Value(t, answer.Source).Equal(types.AnswerSourceAgent)
		gt.Value(t, answer.Intent.Label).Equal("channel")
		gt.Value(t, answer.Intent.Confidence).Equal(1.0)
	})

	t.Run("failure degrades to fallback", func(t *testing.T) {
		llm := &mockLLMClient{sessions: []*mockLLMSession{
			sessionFailing("provider down"),
		}}
		engine := newEngine(t, llm)

		answer := engine.AnswerChannelJoin(ctx, "a new member joined")
		gt.Value(t, answer.Answer).Equal(model.FallbackResponse)
		gt.Value(t, answer.Source).Equal(types.AnswerSourceFallback)
		gt.Value(t, answer.Intent.Label).Equal("channel")
	})
}
