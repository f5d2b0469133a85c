package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/service/embedding"
	"github.com/urfave/cli/v3"
)

// Provider defaults for embedding models
const (
	openaiEmbeddingModel      = "text-embedding-3-small"
	openaiEmbeddingDimensions = 1536
	googleEmbeddingModel      = "text-embedding-004"
	googleEmbeddingDimensions = 768
)

// Embedding holds configuration for the embedding client. Credentials are
// shared with the LLM configuration; only the provider selection and the
// dimension override live here.
type Embedding struct {
	provider   string
	model      string
	dimensions int
}

// Flags returns CLI flags for embedding configuration
func (e *Embedding) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "embedding-provider",
			Usage:       "Embedding provider (openai or google)",
			Value:       "openai",
			Sources:     cli.EnvVars("NESTAI_EMBEDDING_PROVIDER"),
			Destination: &e.provider,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Embedding model override for the selected provider",
			Sources:     cli.EnvVars("NESTAI_EMBEDDING_MODEL"),
			Destination: &e.model,
		},
		&cli.IntFlag{
			Name:        "embedding-dimensions",
			Usage:       "Embedding vector dimensions (0 = provider default)",
			Sources:     cli.EnvVars("NESTAI_EMBEDDING_DIMENSIONS"),
			Destination: &e.dimensions,
		},
	}
}

// LogValue implements slog.LogValuer for config dumps
func (e *Embedding) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", e.provider),
		slog.String("model", e.model),
		slog.Int("dimensions", e.dimensions),
	)
}

// Dimensions returns the effective vector dimension for the provider
func (e *Embedding) Dimensions() (int, error) {
	if e.dimensions > 0 {
		return e.dimensions, nil
	}
	switch e.provider {
	case "openai":
		return openaiEmbeddingDimensions, nil
	case "google":
		return googleEmbeddingDimensions, nil
	default:
		return 0, goerr.New("invalid embedding provider", goerr.T(types.ErrTagConfig), goerr.V("provider", e.provider))
	}
}

// Configure creates the embedding client for the configured provider,
// reusing the credentials from the LLM configuration.
func (e *Embedding) Configure(ctx context.Context, llm *LLM) (*embedding.Client, error) {
	dimensions, err := e.Dimensions()
	if err != nil {
		return nil, err
	}

	var client gollem.LLMClient
	switch e.provider {
	case "openai":
		if llm.openaiAPIKey == "" {
			return nil, goerr.New("openai-api-key is required for the openai embedding provider", goerr.T(types.ErrTagConfig))
		}
		model := e.model
		if model == "" {
			model = openaiEmbeddingModel
		}
		client, err = openai.New(ctx, llm.openaiAPIKey, openai.WithEmbeddingModel(model))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI embedding client", goerr.T(types.ErrTagConfig))
		}

	case "google":
		if llm.geminiProject == "" {
			return nil, goerr.New("gemini-project is required for the google embedding provider", goerr.T(types.ErrTagConfig))
		}
		model := e.model
		if model == "" {
			model = googleEmbeddingModel
		}
		client, err = gemini.New(ctx, llm.geminiProject, llm.geminiLocation, gemini.WithEmbeddingModel(model))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini embedding client", goerr.T(types.ErrTagConfig))
		}

	default:
		return nil, goerr.New("invalid embedding provider", goerr.T(types.ErrTagConfig), goerr.V("provider", e.provider))
	}

	return embedding.New(client, dimensions), nil
}
