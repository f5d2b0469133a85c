package model

import (
	"regexp"
	"strings"
	"time"
)

// Message is the read model of a Slack message stored for ingestion
type Message struct {
	TS          string // Slack event timestamp, unique per channel
	ChannelID   string
	ChannelName string
	UserID      string
	Text        string
	CreatedAt   time.Time
}

// Key returns the stable object identifier used for the message's Context.
func (m *Message) Key() string {
	return m.ChannelID + ":" + m.TS
}

var (
	slackMentionRe = regexp.MustCompile(`<@[A-Z0-9]+>`)
	slackLinkRe    = regexp.MustCompile(`<(https?://[^|>]+)(\|[^>]*)?>`)
	slackChannelRe = regexp.MustCompile(`<#[A-Z0-9]+\|([^>]*)>`)
)

// CleanText returns the message text with Slack mention, link and channel
// markup stripped for use as embedding prose.
func (m *Message) CleanText() string {
	text := slackMentionRe.ReplaceAllString(m.Text, "")
	text = slackLinkRe.ReplaceAllString(text, "$1")
	text = slackChannelRe.ReplaceAllString(text, "#$1")
	return strings.TrimSpace(text)
}
