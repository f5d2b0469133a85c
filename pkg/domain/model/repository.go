package model

import "time"

// Repository is the read model of a GitHub repository tracked by the portal
type Repository struct {
	Key                   string // "owner/name"
	Name                  string
	Description           string
	Topics                []string
	Language              string
	License               string
	StarsCount            int
	ForksCount            int
	OpenIssuesCount       int
	ContributorsCount     int
	IsOwaspSiteRepository bool
	IsArchived            bool
	IsEmpty               bool
	PushedAt              time.Time
}

// IsIngestible reports whether the repository belongs to the default
// ingestion selection: OWASP site repositories that are neither archived
// nor empty.
func (r *Repository) IsIngestible() bool {
	return r.IsOwaspSiteRepository && !r.IsArchived && !r.IsEmpty
}
