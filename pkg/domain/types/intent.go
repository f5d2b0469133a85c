package types

import (
	"fmt"
	"strings"
)

// Intent is the top-level category used to dispatch a user query to a
// specialized agent. Committee queries are served by the community agent,
// but the value is kept distinct so that intent classification results
// stay comparable over time.
type Intent string

const (
	IntentChapter      Intent = "chapter"
	IntentCommittee    Intent = "committee"
	IntentCommunity    Intent = "community"
	IntentContribution Intent = "contribution"
	IntentGsoc         Intent = "gsoc"
	IntentProject      Intent = "project"
	IntentRag          Intent = "rag"
)

// AllIntents returns all valid intents
func AllIntents() []Intent {
	return []Intent{
		IntentChapter,
		IntentCommittee,
		IntentCommunity,
		IntentContribution,
		IntentGsoc,
		IntentProject,
		IntentRag,
	}
}

// IsValid checks if the intent is valid
func (i Intent) IsValid() bool {
	switch i {
	case IntentChapter,
		IntentCommittee,
		IntentCommunity,
		IntentContribution,
		IntentGsoc,
		IntentProject,
		IntentRag:
		return true
	default:
		return false
	}
}

// String returns the string representation of the intent
func (i Intent) String() string {
	return string(i)
}

// ParseIntent parses a string into an Intent
func ParseIntent(s string) (Intent, error) {
	intent := Intent(strings.ToLower(strings.TrimSpace(s)))
	if !intent.IsValid() {
		return "", fmt.Errorf("invalid intent: %s", s)
	}
	return intent, nil
}
