// Package export joins platform results with the platform's people, horses
// and starts into the rows the result codecs serialize.
package export

import (
	"regexp"
	"sort"
	"strings"

	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/domain/normalize"
)

// Row is one result with the references the federation formats need.
type Row struct {
	Result model.RemoteResult
	Status codes.Status
	// Rank is the numeric rank; Ranked is false for the unranked sentinel.
	Rank   int
	Ranked bool
	Bib    string

	RiderLicense string
	HorseSire    string
	RiderName    string
	HorseName    string
	// RiderLastName is upper cased.
	RiderLastName string

	StartFields model.StartFields
	RiderFields model.RiderFields
	// SubmitterClub is the club number of the rider's account.
	SubmitterClub string

	// Person and Horse are nil when the platform ids did not resolve.
	Person *model.RemotePerson
	Horse  *model.RemoteHorse
}

// Index resolves platform ids to people and horses.
type Index struct {
	people    map[string]model.RemotePerson
	horses    map[string]model.RemoteHorse
	byName    map[string]model.RemotePerson
	officials []model.RemotePerson
}

// NewIndex indexes people by rnr and id, horses by id and hnr. The first
// record wins on a clash.
func NewIndex(people []model.RemotePerson, horses []model.RemoteHorse) *Index {
	ix := &Index{
		people: make(map[string]model.RemotePerson, len(people)*2),
		horses: make(map[string]model.RemoteHorse, len(horses)*2),
		byName: make(map[string]model.RemotePerson, len(people)),
	}
	for _, p := range people {
		putFirst(ix.people, p.Rnr.String(), p)
		putFirst(ix.people, p.ID.String(), p)
		if name := strings.ToUpper(strings.TrimSpace(p.LastName)); name != "" {
			putFirst(ix.byName, name, p)
		}
		if p.Official {
			ix.officials = append(ix.officials, p)
		}
	}
	for _, h := range horses {
		putFirst(ix.horses, h.ID.String(), h)
		putFirst(ix.horses, h.Hnr.String(), h)
	}
	return ix
}

func putFirst[T any](m map[string]T, key string, v T) {
	if key == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}

// Person looks a person up by platform id or rnr.
func (ix *Index) Person(id string) (model.RemotePerson, bool) {
	p, ok := ix.people[strings.TrimSpace(id)]
	return p, ok
}

// PersonByLastName matches an exact, case-insensitive last name.
func (ix *Index) PersonByLastName(name string) (model.RemotePerson, bool) {
	p, ok := ix.byName[strings.ToUpper(strings.TrimSpace(name))]
	return p, ok
}

// Officials lists the people flagged as officials, in platform order.
func (ix *Index) Officials() []model.RemotePerson { return ix.officials }

// Horse looks a horse up by platform id or hnr.
func (ix *Index) Horse(id string) (model.RemoteHorse, bool) {
	h, ok := ix.horses[strings.TrimSpace(id)]
	return h, ok
}

// Join builds the rows of one competition ordered by ascending rank with
// unranked results last. Unresolved licenses and SIREs get the federation
// placeholders.
func Join(results []model.RemoteResult, starts []model.RemoteStart, ix *Index) []Row {
	if ix == nil {
		ix = NewIndex(nil, nil)
	}
	startIx := make(map[string]model.RemoteStart, len(starts)*2)
	for _, s := range starts {
		putFirst(startIx, "st:"+s.Start.String(), s)
		putFirst(startIx, "fid:"+s.ForeignID, s)
	}

	rows := make([]Row, 0, len(results))
	for _, r := range results {
		row := Row{
			Result:       r,
			Status:       codes.ResolveStatus(statusInput(r)),
			Rank:         r.Rank.Int(),
			Ranked:       r.Ranked(),
			Bib:          r.Start.String(),
			RiderLicense: normalize.DefaultLicense,
			HorseSire:    normalize.DefaultSire,
			RiderName:    strings.TrimSpace(r.RiderFirstName + " " + r.RiderLastName),
			HorseName:    r.HorseName,
		}
		row.RiderLastName = strings.ToUpper(strings.TrimSpace(r.RiderLastName))

		if p, ok := ix.Person(r.RiderID.String()); ok {
			row.Person = &p
			if lic := strings.TrimSpace(p.License); lic != "" {
				row.RiderLicense = lic
			}
			if row.RiderName == "" {
				row.RiderName = strings.TrimSpace(p.FirstName + " " + p.LastName)
			}
			if row.RiderLastName == "" {
				row.RiderLastName = strings.ToUpper(strings.TrimSpace(p.LastName))
			}
			row.RiderFields = model.RiderFields{
				Account: p.CustomFields.Account.String(),
				License: p.CustomFields.License.String(),
			}
			if p.Club != nil {
				row.SubmitterClub = p.Club.Num()
			}
		}
		if h, ok := ix.Horse(r.HorseID.String()); ok {
			row.Horse = &h
			if sire := strings.TrimSpace(h.Sire); sire != "" {
				row.HorseSire = sire
			}
			if row.HorseName == "" {
				row.HorseName = h.Name
			}
		}

		st, ok := startIx["st:"+r.Start.String()]
		if !ok && r.ForeignID != "" {
			st, ok = startIx["fid:"+r.ForeignID]
		}
		if ok {
			row.StartFields = model.StartFields{
				Terrain:    bool(st.CustomFields.Terrain),
				Invitation: bool(st.CustomFields.Invitation),
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return sortRank(rows[i]) < sortRank(rows[j])
	})
	return rows
}

func sortRank(r Row) int {
	if !r.Result.Rank.Set || r.Rank <= 0 {
		return codes.UnrankedSentinel + 1
	}
	return r.Rank
}

func statusInput(r model.RemoteResult) codes.StatusInput {
	return codes.StatusInput{
		Or:        r.Or,
		A:         r.A,
		Rank:      r.Rank.Int(),
		RankSet:   r.Rank.Set,
		HasScores: r.HasScores(),
	}
}

// HasResults reports whether any result carries a rank other than the
// unranked sentinel.
func HasResults(results []model.RemoteResult) bool {
	for _, r := range results {
		if r.Ranked() {
			return true
		}
	}
	return false
}

var federationID = regexp.MustCompile(`^\d{9}_\d+$`)

// IsFederation reports whether a platform competition was imported from the
// federation export.
func IsFederation(foreignID string) bool {
	return strings.HasPrefix(foreignID, normalize.PersonPrefix) || federationID.MatchString(foreignID)
}

// SplitForeignID returns the concours and epreuve numbers of a competition
// foreign id. A missing epreuve part falls back to fallback, then "1".
func SplitForeignID(foreignID, fallback string) (concours, epreuve string) {
	parts := strings.SplitN(foreignID, "_", 3)
	concours = parts[0]
	switch {
	case len(parts) > 1 && parts[1] != "":
		epreuve = parts[1]
	case strings.TrimSpace(fallback) != "":
		epreuve = strings.TrimSpace(fallback)
	default:
		epreuve = "1"
	}
	return concours, epreuve
}

// ByStartForeignID keys results by the foreign id of their start. Results
// without their own foreign id are matched through the start number.
func ByStartForeignID(results []model.RemoteResult, starts []model.RemoteStart) map[string]model.RemoteResult {
	byNumber := make(map[string]string, len(starts))
	for _, s := range starts {
		if s.ForeignID != "" {
			putFirst(byNumber, s.Start.String(), s.ForeignID)
		}
	}
	out := make(map[string]model.RemoteResult, len(results))
	for _, r := range results {
		key := r.ForeignID
		if key == "" {
			key = byNumber[r.Start.String()]
		}
		putFirst(out, key, r)
	}
	return out
}
