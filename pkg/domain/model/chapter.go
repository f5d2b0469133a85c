package model

// Chapter is the read model of an OWASP chapter
type Chapter struct {
	Key         string
	Name        string
	Description string
	Summary     string
	Country     string
	Region      string
	City        string
	Latitude    float64
	Longitude   float64
	IsActive    bool
	Tags        []string
	Leaders     []string
	Channels    []string
}

// HasCoordinates reports whether the chapter carries a geographic location.
func (c *Chapter) HasCoordinates() bool {
	return c.Latitude != 0 || c.Longitude != 0
}
