package model

// Committee is the read model of an OWASP committee
type Committee struct {
	Key         string
	Name        string
	Description string
	Summary     string
	Tags        []string
	Leaders     []string
	Channels    []string
}
