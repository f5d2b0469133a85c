package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/agent/tool/channel"
	"github.com/owasp-nest/nestai/pkg/domain/types"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Channels holds configuration for the channel suggestion tools. The IDs
// can be set directly via flags or loaded from a TOML file.
type Channels struct {
	configPath          string
	contributeChannelID string
	gsocChannelID       string
}

// Flags returns CLI flags for channel suggestion configuration
func (c *Channels) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "channels-config",
			Usage:       "Path to a TOML file with channel suggestion settings",
			Sources:     cli.EnvVars("NESTAI_CHANNELS_CONFIG"),
			Destination: &c.configPath,
		},
		&cli.StringFlag{
			Name:        "contribute-channel-id",
			Usage:       "Slack channel ID suggested to contributors",
			Sources:     cli.EnvVars("NESTAI_CONTRIBUTE_CHANNEL_ID"),
			Destination: &c.contributeChannelID,
		},
		&cli.StringFlag{
			Name:        "gsoc-channel-id",
			Usage:       "Slack channel ID suggested for GSoC discussions",
			Sources:     cli.EnvVars("NESTAI_GSOC_CHANNEL_ID"),
			Destination: &c.gsocChannelID,
		},
	}
}

// Configure resolves the channel tool configuration. Flag values take
// precedence over the TOML file.
func (c *Channels) Configure() (channel.Config, error) {
	cfg := channel.Config{}

	if c.configPath != "" {
		data, err := os.ReadFile(c.configPath)
		if err != nil {
			return cfg, goerr.Wrap(err, "failed to read channels config", goerr.T(types.ErrTagConfig), goerr.V("path", c.configPath))
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, goerr.Wrap(err, "failed to parse channels config", goerr.T(types.ErrTagConfig), goerr.V("path", c.configPath))
		}
	}

	if c.contributeChannelID != "" {
		cfg.ContributeChannelID = c.contributeChannelID
	}
	if c.gsocChannelID != "" {
		cfg.GSoCChannelID = c.gsocChannelID
	}
	return cfg, nil
}
