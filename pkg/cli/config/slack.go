package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/owasp-nest/nestai/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the Slack integration
type Slack struct {
	botToken string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for reading conversation history",
			Sources:     cli.EnvVars("NESTAI_SLACK_BOT_TOKEN"),
			Destination: &s.botToken,
		},
	}
}

// BotToken returns the configured bot token
func (s *Slack) BotToken() string {
	return s.botToken
}

// Configure creates the Slack service from the configured token
func (s *Slack) Configure() (slack.Service, error) {
	if s.botToken == "" {
		return nil, goerr.New("slack-bot-token is required", goerr.T(types.ErrTagConfig))
	}
	return slack.New(s.botToken)
}
