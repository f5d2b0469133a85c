package model

import (
	"time"

	"github.com/owasp-nest/nestai/pkg/domain/types"
)

// Project is the read model of an OWASP project. The knowledge layer
// treats it as read-only; ownership stays with the portal backend.
type Project struct {
	Key               string
	Name              string
	Description       string
	Summary           string
	Level             types.ProjectLevel
	IsActive          bool
	Tags              []string
	CustomTags        []string
	Languages         []string
	Topics            []string
	Leaders           []string
	Channels          []string // Slack channel IDs related to the project
	StarsCount        int
	ForksCount        int
	ContributorsCount int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Age returns the duration since the project was created.
func (p *Project) Age(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}
