package model

import "fmt"

// ParseResult is the complete output of one parse call. It is passed
// explicitly to the send and export operations.
type ParseResult struct {
	Concours     Concours      `json:"concours"`
	Competitions []Competition `json:"competitions"`
	People       []Person      `json:"people"`
	Officials    []Official    `json:"officials"`
	Horses       []Horse       `json:"horses"`
	Clubs        []Club        `json:"clubs"`
	// Starts groups engagements by competition foreign id.
	Starts map[string][]Start `json:"starts"`
}

// Stats summarizes a parse result.
type Stats struct {
	Competitions int `json:"competitions"`
	People       int `json:"people"`
	Officials    int `json:"officials"`
	Horses       int `json:"horses"`
	Clubs        int `json:"clubs"`
	TotalStarts  int `json:"total_starts"`
	Terrain      int `json:"terrain"`
	Invitation   int `json:"invitation"`
	WithAccount  int `json:"with_account"`
}

// Stats counts entities and flagged starts.
func (r *ParseResult) Stats() Stats {
	s := Stats{
		Competitions: len(r.Competitions),
		People:       len(r.People),
		Officials:    len(r.Officials),
		Horses:       len(r.Horses),
		Clubs:        len(r.Clubs),
	}
	for _, starts := range r.Starts {
		s.TotalStarts += len(starts)
		for _, st := range starts {
			if st.Fields.Terrain {
				s.Terrain++
			}
			if st.Fields.Invitation {
				s.Invitation++
			}
			if st.Rider.Account != "" {
				s.WithAccount++
			}
		}
	}
	return s
}

// Validate checks that every start group belongs to a parsed competition and
// that every start carries its group's competition id.
func (r *ParseResult) Validate() error {
	known := make(map[string]struct{}, len(r.Competitions))
	for _, c := range r.Competitions {
		known[c.ForeignID] = struct{}{}
	}
	for id, starts := range r.Starts {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCompetition, id)
		}
		for _, st := range starts {
			if st.CompetitionID != id {
				return fmt.Errorf("%w: start %s filed under %s", ErrUnknownCompetition, st.ForeignID, id)
			}
		}
	}
	return nil
}

// Competition finds a competition by foreign id.
func (r *ParseResult) Competition(foreignID string) (Competition, bool) {
	for _, c := range r.Competitions {
		if c.ForeignID == foreignID {
			return c, true
		}
	}
	return Competition{}, false
}

// Person finds a rider by normalized license.
func (r *ParseResult) Person(license string) (Person, bool) {
	for _, p := range r.People {
		if p.License == license {
			return p, true
		}
	}
	return Person{}, false
}

// Horse finds a horse by normalized SIRE.
func (r *ParseResult) Horse(sire string) (Horse, bool) {
	for _, h := range r.Horses {
		if h.Sire == sire {
			return h, true
		}
	}
	return Horse{}, false
}

// Club finds a club by number.
func (r *ParseResult) Club(num string) (Club, bool) {
	for _, c := range r.Clubs {
		if c.Num == num {
			return c, true
		}
	}
	return Club{}, false
}
