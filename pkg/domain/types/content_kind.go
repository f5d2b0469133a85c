package types

import "fmt"

// ContentKind identifies the kind of domain entity a Context was built from
type ContentKind string

const (
	KindProject      ContentKind = "project"
	KindChapter      ContentKind = "chapter"
	KindCommittee    ContentKind = "committee"
	KindEvent        ContentKind = "event"
	KindRepository   ContentKind = "repository"
	KindSlackMessage ContentKind = "slack_message"
)

// AllContentKinds returns all valid content kinds
func AllContentKinds() []ContentKind {
	return []ContentKind{
		KindProject,
		KindChapter,
		KindCommittee,
		KindEvent,
		KindRepository,
		KindSlackMessage,
	}
}

// IsValid checks if the content kind is valid
func (k ContentKind) IsValid() bool {
	switch k {
	case KindProject,
		KindChapter,
		KindCommittee,
		KindEvent,
		KindRepository,
		KindSlackMessage:
		return true
	default:
		return false
	}
}

// String returns the string representation of the content kind
func (k ContentKind) String() string {
	return string(k)
}

// ParseContentKind parses a string into a ContentKind
func ParseContentKind(s string) (ContentKind, error) {
	kind := ContentKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid content kind: %s", s)
	}
	return kind, nil
}
