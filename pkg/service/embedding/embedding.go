package embedding

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/utils/logging"
)

const (
	maxRetries     = 3
	initialBackoff = 500 * time.Millisecond
	callTimeout    = 30 * time.Second
)

// Embedder converts texts into dense vectors with a fixed dimension.
type Embedder interface {
	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocuments embeds a batch of document texts, preserving order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector dimension this embedder produces.
	Dimensions() int
}

// Client wraps an LLM client's embedding endpoint with retries and a
// per-call timeout.
type Client struct {
	llm        gollem.LLMClient
	dimensions int
}

var _ Embedder = &Client{}

func New(llm gollem.LLMClient, dimensions int) *Client {
	return &Client{
		llm:        llm,
		dimensions: dimensions,
	}
}

func (c *Client) Dimensions() int {
	return c.dimensions
}

func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	for i, t := range texts {
		if t == "" {
			return nil, goerr.New("embedding input must not be empty",
				goerr.T(types.ErrTagEmbedder), goerr.V("index", i))
		}
	}

	var raw [][]float64
	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			logging.From(ctx).Warn("retrying embedding request",
				"attempt", attempt,
				"error", lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, goerr.Wrap(ctx.Err(), "embedding canceled", goerr.T(types.ErrTagEmbedder))
			}
			backoff *= 2
		}

		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		raw, lastErr = c.llm.GenerateEmbedding(callCtx, c.dimensions, texts)
		cancel()
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, goerr.Wrap(lastErr, "failed to generate embeddings",
			goerr.T(types.ErrTagEmbedder),
			goerr.V("count", len(texts)),
			goerr.V("dimensions", c.dimensions))
	}

	if len(raw) != len(texts) {
		return nil, goerr.New("embedding count mismatch",
			goerr.T(types.ErrTagEmbedder),
			goerr.V("expected", len(texts)),
			goerr.V("actual", len(raw)))
	}

	vectors := make([][]float32, len(raw))
	for i, v := range raw {
		if len(v) != c.dimensions {
			return nil, goerr.New("embedding dimension mismatch",
				goerr.T(types.ErrTagEmbedder),
				goerr.V("expected", c.dimensions),
				goerr.V("actual", len(v)))
		}
		vec := make([]float32, len(v))
		for j, f := range v {
			vec[j] = float32(f)
		}
		vectors[i] = vec
	}

	return vectors, nil
}
