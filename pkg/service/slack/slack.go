package slack

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/owasp-nest/nestai/pkg/domain/model"
	"github.com/slack-go/slack"
)

// DefaultHistoryLimit is the default number of messages fetched per channel
const DefaultHistoryLimit = 100

// Service fetches Slack conversation history for message ingestion
type Service interface {
	// FetchChannelMessages retrieves up to limit recent messages from the
	// channel, newest first. Bot messages and empty messages are skipped.
	FetchChannelMessages(ctx context.Context, channelID string, limit int) ([]*model.Message, error)
}

type client struct {
	api *slack.Client
}

// New creates a new Slack service with the provided bot token
func New(token string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	return &client{
		api: slack.New(token),
	}, nil
}

func (c *client) FetchChannelMessages(ctx context.Context, channelID string, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	info, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get channel info", goerr.V("channelID", channelID))
	}

	resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get conversation history", goerr.V("channelID", channelID))
	}

	messages := make([]*model.Message, 0, len(resp.Messages))
	for _, msg := range resp.Messages {
		if msg.SubType != "" || msg.BotID != "" {
			continue
		}
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}

		messages = append(messages, &model.Message{
			TS:          msg.Timestamp,
			ChannelID:   channelID,
			ChannelName: info.Name,
			UserID:      msg.User,
			Text:        msg.Text,
			CreatedAt:   tsToTime(msg.Timestamp),
		})
	}

	return messages, nil
}

// tsToTime converts a Slack timestamp ("1700000000.123456") to time.Time.
func tsToTime(ts string) time.Time {
	sec, _, _ := strings.Cut(ts, ".")
	n, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}
