package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/interfaces"
	"github.com/owasp-nest/nestai/pkg/service/slack"
	"github.com/owasp-nest/nestai/pkg/utils/logging"
)

// SlackSyncUseCase pulls Slack conversation history into the message store
// so the slack_message kind has something to ingest.
type SlackSyncUseCase struct {
	repo  interfaces.Repository
	slack slack.Service
}

func NewSlackSyncUseCase(repo interfaces.Repository, svc slack.Service) *SlackSyncUseCase {
	return &SlackSyncUseCase{
		repo:  repo,
		slack: svc,
	}
}

// Sync fetches up to limit recent messages from the channel and stores
// them. Existing messages are overwritten in place, so sync is idempotent.
func (uc *SlackSyncUseCase) Sync(ctx context.Context, channelID string, limit int) (int, error) {
	messages, err := uc.slack.FetchChannelMessages(ctx, channelID, limit)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to fetch channel messages", goerr.V("channelID", channelID))
	}

	stored := 0
	for _, msg := range messages {
		if err := uc.repo.Message().Put(ctx, msg); err != nil {
			return stored, goerr.Wrap(err, "failed to store message", goerr.V("key", msg.Key()))
		}
		stored++
	}

	logging.From(ctx).Info("slack channel synced",
		"channelID", channelID, "messages", stored)
	return stored, nil
}
