package export

import (
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/model"
)

// Competition is a platform competition ready for export.
type Competition struct {
	Remote      model.RemoteCompetition
	ConcoursNum string
	EpreuveNum  string
	Discipline  codes.Discipline
	Rows        []Row
}

// NewCompetition joins one competition's results.
func NewCompetition(c model.RemoteCompetition, results []model.RemoteResult, starts []model.RemoteStart, ix *Index) Competition {
	concours, epreuve := SplitForeignID(c.ForeignID, c.Num.String())
	return Competition{
		Remote:      c,
		ConcoursNum: concours,
		EpreuveNum:  epreuve,
		Discipline:  codes.ParseDiscipline(c.Discipline),
		Rows:        Join(results, starts, ix),
	}
}

// Group is the set of competitions written to one global export file.
type Group struct {
	Code         string
	ConcoursNum  string
	Competitions []Competition
}

// GroupByDiscipline groups competitions by fixed-width discipline code, then
// by concours number, both in first-seen order.
func GroupByDiscipline(comps []Competition) []Group {
	var codeOrder []string
	byCode := make(map[string][]*Group)
	index := make(map[[2]string]*Group)

	for _, c := range comps {
		code := c.Discipline.FFECompet()
		key := [2]string{code, c.ConcoursNum}
		g, ok := index[key]
		if !ok {
			if _, seen := byCode[code]; !seen {
				codeOrder = append(codeOrder, code)
			}
			g = &Group{Code: code, ConcoursNum: c.ConcoursNum}
			index[key] = g
			byCode[code] = append(byCode[code], g)
		}
		g.Competitions = append(g.Competitions, c)
	}

	var out []Group
	for _, code := range codeOrder {
		for _, g := range byCode[code] {
			out = append(out, *g)
		}
	}
	return out
}

// FilterFederation keeps the competitions imported from the federation, in
// platform order.
func FilterFederation(comps []model.RemoteCompetition) []model.RemoteCompetition {
	var out []model.RemoteCompetition
	for _, c := range comps {
		if IsFederation(c.ForeignID) {
			out = append(out, c)
		}
	}
	return out
}

// Results returns the platform results in row order.
func (c Competition) Results() []model.RemoteResult {
	out := make([]model.RemoteResult, len(c.Rows))
	for i, r := range c.Rows {
		out[i] = r.Result
	}
	return out
}
