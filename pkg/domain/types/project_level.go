package types

import (
	"fmt"
	"strings"
)

// ProjectLevel represents the OWASP project maturity level
type ProjectLevel string

const (
	LevelFlagship   ProjectLevel = "flagship"
	LevelProduction ProjectLevel = "production"
	LevelLab        ProjectLevel = "lab"
	LevelIncubator  ProjectLevel = "incubator"
)

// AllProjectLevels returns all valid project levels
func AllProjectLevels() []ProjectLevel {
	return []ProjectLevel{
		LevelFlagship,
		LevelProduction,
		LevelLab,
		LevelIncubator,
	}
}

// IsValid checks if the project level is valid
func (l ProjectLevel) IsValid() bool {
	switch l {
	case LevelFlagship,
		LevelProduction,
		LevelLab,
		LevelIncubator:
		return true
	default:
		return false
	}
}

// String returns the string representation of the project level
func (l ProjectLevel) String() string {
	return string(l)
}

// ParseProjectLevel parses a string into a ProjectLevel
func ParseProjectLevel(s string) (ProjectLevel, error) {
	level := ProjectLevel(strings.ToLower(strings.TrimSpace(s)))
	if !level.IsValid() {
		return "", fmt.Errorf("invalid project level: %s", s)
	}
	return level, nil
}
