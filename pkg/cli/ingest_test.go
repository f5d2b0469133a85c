package cli

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestIngestKindKeyFlags(t *testing.T) {
	expected := map[string]string{
		"projects":       "project-key",
		"chapters":       "chapter-key",
		"committees":     "committee-key",
		"events":         "event-key",
		"repositories":   "repository-key",
		"slack-messages": "slack-message-key",
	}

	for _, sub := range cmdIngest().Commands {
		want, ok := expected[sub.Name]
		if !ok {
			continue
		}

		names := map[string]bool{}
		for _, f := range sub.Flags {
			for _, n := range f.Names() {
				names[n] = true
			}
		}
		gt.True(t, names[want])
		gt.True(t, names["key"])
		gt.True(t, names["all"])
		delete(expected, sub.Name)
	}

	// Every per-kind subcommand was seen
	gt.Value(t, len(expected)).Equal(0)
}
