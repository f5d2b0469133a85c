package model

import "time"

// Event is the read model of an OWASP event
type Event struct {
	Key         string
	Name        string
	Description string
	Summary     string
	Category    string
	URL         string
	Location    string
	Latitude    float64
	Longitude   float64
	StartDate   time.Time
	EndDate     time.Time
}

// IsUpcoming reports whether the event starts at or after the given time.
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.StartDate.Before(now)
}

// HasCoordinates reports whether the event carries a geographic location.
func (e *Event) HasCoordinates() bool {
	return e.Latitude != 0 || e.Longitude != 0
}
