package fixedwidth

import (
	"strings"
	"unicode"

	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/domain/normalize"
	"github.com/okian/ffebridge/internal/export"
)

// Judge roles of line 20.
const (
	RoleChair    = "PDTJ"
	RoleAssessor = "ASSJ"

	unknownJudge = "0000000"
)

// Judge is one line 20 declaration.
type Judge struct {
	Role    string
	Name    string
	License string
}

// JudgeResolver turns the judge seats of a platform competition into
// licensed declarations. Licenses are looked up, in order, among the parsed
// officials by name, the platform people by seat id, then the platform people
// by last name. Judges nobody knows get "0000000".
type JudgeResolver struct {
	// Officials come from a parse result when the caller still has one.
	Officials []model.Official
	People    *export.Index
	// Rosters holds the parsed judge list of each competition, keyed by
	// foreign id. It stands in for seat C when the platform left it empty.
	Rosters map[string]string
}

// Resolve lists the judges seat by seat (C, H, M, E, B). The first judge is
// the chair.
func (r JudgeResolver) Resolve(c model.RemoteCompetition) []Judge {
	var out []Judge
	for _, pos := range c.JudgePositions() {
		label := pos.Label
		if pos.Letter == "C" && strings.TrimSpace(label) == "" && len(pos.IDs) == 0 {
			label = r.Rosters[c.ForeignID]
		}
		names := splitLabel(label)
		n := len(names)
		if len(pos.IDs) > n {
			n = len(pos.IDs)
		}
		for i := 0; i < n; i++ {
			var name, id string
			if i < len(names) {
				name = names[i]
			}
			if i < len(pos.IDs) {
				id = pos.IDs[i].String()
			}
			role := RoleAssessor
			if len(out) == 0 {
				role = RoleChair
			}
			out = append(out, Judge{Role: role, Name: name, License: r.license(name, id)})
		}
	}
	return out
}

func (r JudgeResolver) license(name, id string) string {
	first, last := splitName(name)
	if last != "" {
		for _, o := range r.Officials {
			if !strings.EqualFold(strings.TrimSpace(o.LastName), last) {
				continue
			}
			if first != "" && !strings.EqualFold(strings.TrimSpace(o.FirstName), first) {
				continue
			}
			if strings.TrimSpace(o.License) != "" {
				return o.License
			}
		}
	}
	if r.People != nil {
		if id != "" {
			if p, ok := r.People.Person(id); ok && strings.TrimSpace(p.License) != "" {
				return p.License
			}
		}
		if last != "" {
			if p, ok := r.People.PersonByLastName(last); ok && strings.TrimSpace(p.License) != "" {
				return p.License
			}
		}
	}
	return unknownJudge
}

func splitLabel(label string) []string {
	var out []string
	for _, part := range strings.Split(label, ",") {
		if part = normalize.TrimNationality(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitName separates "Marie Claire DE LA TOUR" into the first name and the
// trailing upper case words. A name without upper case words keeps its last
// word as last name.
func splitName(name string) (first, last string) {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "", ""
	}
	i := len(words)
	for i > 0 && isUpperWord(words[i-1]) {
		i--
	}
	if i == len(words) {
		i = len(words) - 1
	}
	return strings.Join(words[:i], " "), strings.Join(words[i:], " ")
}

func isUpperWord(w string) bool {
	letters := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			letters = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters
}
