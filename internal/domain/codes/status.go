package codes

import "strings"

// Status is the federation result state.
type Status string

// Result states.
const (
	Finished     Status = "FI"
	Eliminated   Status = "EL"
	Retired      Status = "AB"
	Disqualified Status = "DI"
	NotStarted   Status = "NP"
)

// UnrankedSentinel is the platform rank for unplaced starts.
const UnrankedSentinel = 999

// StatusInput is the subset of a result needed to resolve its state.
type StatusInput struct {
	// Or is the platform result code (U, D, E, S, A).
	Or string
	// A is the legacy absence marker.
	A string
	// Rank is the numeric rank; RankSet is false when the platform sent none.
	Rank    int
	RankSet bool
	// HasScores reports whether any score field carries a value.
	HasScores bool
}

// ResolveStatus applies the fixed precedence: explicit source code, then the
// legacy absence marker, then the unranked sentinel without scores.
func ResolveStatus(in StatusInput) Status {
	switch strings.ToUpper(strings.TrimSpace(in.Or)) {
	case "U":
		return Retired
	case "D", "E":
		return Eliminated
	case "S":
		return Disqualified
	case "A":
		return NotStarted
	}
	if strings.TrimSpace(in.A) == "Ö" {
		return NotStarted
	}
	unranked := !in.RankSet || in.Rank == UnrankedSentinel || in.Rank <= 0
	if unranked && !in.HasScores && strings.TrimSpace(in.Or) == "" {
		return NotStarted
	}
	return Finished
}

// WinJump is the etat attribute of the WinJump XML. Finished results carry
// no etat at all.
func (s Status) WinJump() string {
	switch s {
	case Finished:
		return ""
	case Disqualified:
		return "DISQ"
	default:
		return string(s)
	}
}

// Delimited is the single letter statut of the ';' export.
func (s Status) Delimited() string {
	switch s {
	case Finished:
		return "T"
	case Eliminated, Disqualified:
		return "E"
	case Retired:
		return "A"
	case NotStarted:
		return "N"
	default:
		return "C"
	}
}
