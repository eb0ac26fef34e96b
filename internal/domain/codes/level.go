package codes

import "strings"

// Level is the platform competition level (x field).
type Level string

// Levels.
const (
	LevelClub          Level = "K"
	LevelLocal         Level = "L"
	LevelRegional      Level = "R"
	LevelNational      Level = "N"
	LevelElite         Level = "E"
	LevelInternational Level = "I"
)

// DefaultLevel is assigned to every parsed competition until overridden.
const DefaultLevel = LevelInternational

// ParseLevel accepts a level letter, case-insensitive.
func ParseLevel(s string) (Level, bool) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelClub, LevelLocal, LevelRegional, LevelNational, LevelElite, LevelInternational:
		return l, true
	}
	return "", false
}

// LevelOrDefault returns the parsed level or DefaultLevel.
func LevelOrDefault(s string) Level {
	if l, ok := ParseLevel(s); ok {
		return l
	}
	return DefaultLevel
}

// SIFText is the level name used by the INI style SIF text export.
func (l Level) SIFText() string {
	switch l {
	case LevelLocal:
		return "LOCAL"
	case LevelRegional:
		return "REGIONAL"
	case LevelNational:
		return "NATIONAL"
	case LevelElite:
		return "ELITE"
	case LevelInternational:
		return "INTERNATIONAL"
	default:
		return "CLUB"
	}
}

// SIFXML is the niveau attribute of the generic SIF XML schema.
func (l Level) SIFXML() string {
	switch l {
	case LevelLocal:
		return "DEPARTEMENTAL"
	case LevelRegional:
		return "REGIONAL"
	case LevelNational:
		return "NATIONAL"
	case LevelElite:
		return "ELITE"
	case LevelInternational:
		return "INTERNATIONAL"
	default:
		return "CLUB"
	}
}
