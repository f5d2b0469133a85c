package channel_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/owasp-nest/nestai/pkg/agent/tool/channel"
)

func findTool(tools []gollem.Tool, name string) gollem.Tool {
	for _, t := range tools {
		if t.Spec().Name == name {
			return t
		}
	}
	return nil
}

func TestChannelSuggestions(t *testing.T) {
	ctx := context.Background()

	tools, err := channel.New(channel.Config{
		ContributeChannelID: "C0CONTRIB",
		GSoCChannelID:       "C0GSOC",
	})
	gt.NoError(t, err).Required()
	gt.Array(t, tools).Length(2)

	t.Run("contribute suggestion references the configured channel", func(t *testing.T) {
		result, err := findTool(tools, "suggest_contribute_channel").Run(ctx, map[string]any{})
		gt.NoError(t, err).Required()

		suggestion := result["suggestion"].(string)
		gt.True(t, strings.Contains(suggestion, "<#C0CONTRIB>"))
	})

	t.Run("gsoc suggestion references the configured channel", func(t *testing.T) {
		result, err := findTool(tools, "suggest_gsoc_channel").Run(ctx, map[string]any{})
		gt.NoError(t, err).Required()

		suggestion := result["suggestion"].(string)
		gt.True(t, strings.Contains(suggestion, "<#C0GSOC>"))
		gt.True(t, strings.Contains(suggestion, "Summer of Code"))
	})

	t.Run("suggestions take no arguments", func(t *testing.T) {
		for _, tl := range tools {
			gt.Value(t, len(tl.Spec().Parameters)).Equal(0)
		}
	})
}
