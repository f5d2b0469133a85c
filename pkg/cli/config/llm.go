package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the chat/agent LLM client
type LLM struct {
	provider        string
	model           string
	openaiAPIKey    string
	anthropicAPIKey string
	geminiProject   string
	geminiLocation  string
}

// Flags returns CLI flags for LLM configuration
func (l *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider (openai, google or anthropic)",
			Value:       "openai",
			Sources:     cli.EnvVars("NESTAI_LLM_PROVIDER"),
			Destination: &l.provider,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name override for the selected provider",
			Sources:     cli.EnvVars("NESTAI_LLM_MODEL"),
			Destination: &l.model,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key",
			Sources:     cli.EnvVars("NESTAI_OPENAI_API_KEY"),
			Destination: &l.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("NESTAI_ANTHROPIC_API_KEY"),
			Destination: &l.anthropicAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("NESTAI_GEMINI_PROJECT"),
			Destination: &l.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("NESTAI_GEMINI_LOCATION"),
			Destination: &l.geminiLocation,
		},
	}
}

// LogValue implements slog.LogValuer so API keys never leak via config dumps
func (l *LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", l.provider),
		slog.String("model", l.model),
		slog.String("gemini_project", l.geminiProject),
	)
}

// Configure creates the LLM client for the configured provider
func (l *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	switch l.provider {
	case "openai":
		if l.openaiAPIKey == "" {
			return nil, goerr.New("openai-api-key is required for the openai provider", goerr.T(types.ErrTagConfig))
		}
		var opts []openai.Option
		if l.model != "" {
			opts = append(opts, openai.WithModel(l.model))
		}
		client, err := openai.New(ctx, l.openaiAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client", goerr.T(types.ErrTagConfig))
		}
		return client, nil

	case "google":
		if l.geminiProject == "" {
			return nil, goerr.New("gemini-project is required for the google provider", goerr.T(types.ErrTagConfig))
		}
		var opts []gemini.Option
		if l.model != "" {
			opts = append(opts, gemini.WithModel(l.model))
		}
		client, err := gemini.New(ctx, l.geminiProject, l.geminiLocation, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client", goerr.T(types.ErrTagConfig))
		}
		return client, nil

	case "anthropic":
		if l.anthropicAPIKey == "" {
			return nil, goerr.New("anthropic-api-key is required for the anthropic provider", goerr.T(types.ErrTagConfig))
		}
		var opts []claude.Option
		if l.model != "" {
			opts = append(opts, claude.WithModel(l.model))
		}
		client, err := claude.New(ctx, l.anthropicAPIKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client", goerr.T(types.ErrTagConfig))
		}
		return client, nil

	default:
		return nil, goerr.New("invalid LLM provider", goerr.T(types.ErrTagConfig), goerr.V("provider", l.provider))
	}
}
