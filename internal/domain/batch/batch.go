// Package batch builds the single multi-group write request sent to the
// platform after an import.
package batch

import (
	"context"
	"strconv"
	"strings"

	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/dedupe"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/domain/normalize"
)

// UniqueByForeignID is the upsert key declared by every group.
const UniqueByForeignID = "foreign_id"

// Fixed record values.
const (
	Country       = "FRA"
	HorseCategory = "H"
)

// Ref points at another record by foreign id.
type Ref struct {
	ForeignID string `json:"foreign_id"`
}

// Group is one named record group.
type Group[T any] struct {
	UniqueBy        string `json:"unique_by"`
	SkipUserChanged bool   `json:"skip_user_changed,omitempty"`
	Records         []T    `json:"records"`
}

func newGroup[T any](records []T) *Group[T] {
	if len(records) == 0 {
		return nil
	}
	return &Group[T]{UniqueBy: UniqueByForeignID, Records: records}
}

// Batch is the request body. Field order is the send order; empty groups are
// omitted.
type Batch struct {
	Clubs        *Group[ClubRecord]        `json:"clubs,omitempty"`
	People       *Group[PersonRecord]      `json:"people,omitempty"`
	Horses       *Group[HorseRecord]       `json:"horses,omitempty"`
	Competitions *Group[CompetitionRecord] `json:"competitions,omitempty"`
	Starts       *Group[StartRecord]       `json:"starts,omitempty"`
}

// ClubRecord is an outbound club.
type ClubRecord struct {
	ForeignID  string `json:"foreign_id"`
	Name       string `json:"name"`
	Region     string `json:"region"`
	Department string `json:"department"`
}

// PersonRecord is an outbound rider or official.
type PersonRecord struct {
	ForeignID string  `json:"foreign_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Country   string  `json:"country"`
	License   string  `json:"licence"`
	BirthDate *string `json:"birthdate,omitempty"`
	Club      *Ref    `json:"club"`
	Official  bool    `json:"official"`
}

// HorseRecord is an outbound horse.
type HorseRecord struct {
	ForeignID   string  `json:"foreign_id"`
	Num         string  `json:"num"`
	Name        string  `json:"name"`
	Breed       string  `json:"breed"`
	Sex         string  `json:"sex"`
	BornYear    string  `json:"born_year"`
	Sire        *string `json:"sire"`
	DamSire     *string `json:"dam_sire"`
	Owner       string  `json:"owner"`
	Category    string  `json:"category"`
	FEIID       string  `json:"fei_id"`
	Transponder string  `json:"transponder"`
}

// CompetitionRecord is an outbound competition.
type CompetitionRecord struct {
	ForeignID   string           `json:"foreign_id"`
	Ord         string           `json:"ord"`
	Clabb       string           `json:"clabb"`
	Name        string           `json:"name"`
	StartsOn    string           `json:"starts_on"`
	StartTime   string           `json:"start_time"`
	Level       codes.Level      `json:"x"`
	Discipline  codes.Discipline `json:"z"`
	Alias       bool             `json:"alias"`
	EntryFee    float64          `json:"anm"`
	PrizeMoney  float64          `json:"prsum1"`
	PrizeText   float64          `json:"premietxt1"`
	JudgementID *int             `json:"judgement_id,omitempty"`
}

// StartRecord is an outbound start. Replace supersedes the platform's prior
// start for the same scope.
type StartRecord struct {
	ForeignID   string            `json:"foreign_id"`
	StartNumber string            `json:"st"`
	Ord         int               `json:"ord"`
	Rider       Ref               `json:"rider"`
	Horse       Ref               `json:"horse"`
	Competition Ref               `json:"competition"`
	StartFields model.StartFields `json:"start_custom_fields"`
	Replace     bool              `json:"replace"`
	RiderFields model.RiderFields `json:"rider_custom_fields"`
}

// LevelOverrides replaces the competition level at send time. PerCompetition
// wins over Default; an empty Default keeps the parsed level.
type LevelOverrides struct {
	Default        codes.Level
	PerCompetition map[string]codes.Level
}

// Resolve picks the level sent for a competition.
func (l LevelOverrides) Resolve(c model.Competition) codes.Level {
	if lvl, ok := l.PerCompetition[c.ForeignID]; ok && lvl != "" {
		return lvl
	}
	if l.Default != "" {
		return l.Default
	}
	if c.Level == "" {
		return codes.DefaultLevel
	}
	return c.Level
}

// Selection is the caller's choice of competitions to import.
type Selection struct {
	// CompetitionIDs drives the order of the start group. Unknown ids are
	// ignored.
	CompetitionIDs []string
	Levels         LevelOverrides
}

// Build converts a parse result into a batch. Clubs, people and horses are
// always sent in full; competitions and starts only for the selection.
func Build(ctx context.Context, res *model.ParseResult, sel Selection) *Batch {
	b := &Batch{
		Clubs:  newGroup(clubRecords(res.Clubs)),
		People: newGroup(personRecords(ctx, res.People, res.Officials)),
		Horses: newGroup(horseRecords(res.Horses)),
	}

	selected := make(map[string]struct{}, len(sel.CompetitionIDs))
	order := make([]string, 0, len(sel.CompetitionIDs))
	for _, id := range sel.CompetitionIDs {
		id = strings.TrimSpace(id)
		if _, dup := selected[id]; dup || id == "" {
			continue
		}
		selected[id] = struct{}{}
		order = append(order, id)
	}

	var comps []CompetitionRecord
	for _, c := range res.Competitions {
		if _, ok := selected[c.ForeignID]; !ok {
			continue
		}
		comps = append(comps, competitionRecord(c, sel.Levels.Resolve(c)))
	}
	if g := newGroup(comps); g != nil {
		g.SkipUserChanged = true
		b.Competitions = g
	}

	var starts []StartRecord
	for _, id := range order {
		for _, st := range res.Starts[id] {
			starts = append(starts, startRecord(st, id))
		}
	}
	b.Starts = newGroup(starts)
	return b
}

// Empty reports whether no group carries records.
func (b *Batch) Empty() bool {
	return b.Clubs == nil && b.People == nil && b.Horses == nil && b.Competitions == nil && b.Starts == nil
}

// Counts returns the record count per non-empty group.
func (b *Batch) Counts() map[string]int {
	out := make(map[string]int, 5)
	if b.Clubs != nil {
		out["clubs"] = len(b.Clubs.Records)
	}
	if b.People != nil {
		out["people"] = len(b.People.Records)
	}
	if b.Horses != nil {
		out["horses"] = len(b.Horses.Records)
	}
	if b.Competitions != nil {
		out["competitions"] = len(b.Competitions.Records)
	}
	if b.Starts != nil {
		out["starts"] = len(b.Starts.Records)
	}
	return out
}

func clubRecords(clubs []model.Club) []ClubRecord {
	out := make([]ClubRecord, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, ClubRecord{
			ForeignID:  normalize.ClubID(c.Num),
			Name:       c.Name,
			Region:     c.Region,
			Department: c.Department,
		})
	}
	return out
}

// personRecords merges riders then officials. A license present in both
// keeps the rider record.
func personRecords(ctx context.Context, people []model.Person, officials []model.Official) []PersonRecord {
	ix := dedupe.NewIndex[PersonRecord](dedupe.WithCapacity(len(people) + len(officials)))
	for _, p := range people {
		rec := PersonRecord{
			ForeignID: normalize.PersonID(p.License),
			FirstName: normalize.Name(p.FirstName),
			LastName:  normalize.Name(p.LastName),
			Country:   Country,
			License:   p.License,
		}
		if p.BirthDate != "" {
			bd := p.BirthDate
			rec.BirthDate = &bd
		}
		if p.Club != "" {
			rec.Club = &Ref{ForeignID: normalize.ClubID(p.Club)}
		}
		ix.Insert(ctx, rec.ForeignID, rec)
	}
	for _, o := range officials {
		rec := PersonRecord{
			ForeignID: normalize.PersonID(o.License),
			FirstName: normalize.Name(o.FirstName),
			LastName:  normalize.Name(o.LastName),
			Country:   Country,
			License:   o.License,
			Official:  true,
		}
		ix.Insert(ctx, rec.ForeignID, rec)
	}
	return ix.Items()
}

func horseRecords(horses []model.Horse) []HorseRecord {
	out := make([]HorseRecord, 0, len(horses))
	for i, h := range horses {
		rec := HorseRecord{
			ForeignID:   normalize.HorseID(h.Sire),
			Num:         strconv.Itoa(i + 1),
			Name:        normalize.Name(h.Name),
			Breed:       h.Breed,
			Sex:         string(h.Gender),
			BornYear:    bornYear(h.BirthDate),
			Owner:       h.Owner,
			Category:    HorseCategory,
			FEIID:       h.FEIID,
			Transponder: h.Transponder,
		}
		if rec.Sex == "" {
			rec.Sex = string(codes.HorseGender(h.Sex))
		}
		if h.Father != nil {
			name := h.Father.Name
			rec.Sire = &name
		}
		if ds := h.DamSire(); ds != "" {
			rec.DamSire = &ds
		}
		out = append(out, rec)
	}
	return out
}

func bornYear(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return date
	}
	return date[:4]
}

func competitionRecord(c model.Competition, level codes.Level) CompetitionRecord {
	disc := c.Discipline
	if disc == "" {
		disc = codes.DefaultDiscipline
	}
	return CompetitionRecord{
		ForeignID:   c.ForeignID,
		Ord:         c.Num,
		Clabb:       c.Num,
		Name:        c.Name,
		StartsOn:    c.Date,
		StartTime:   c.StartTime,
		Level:       level,
		Discipline:  disc,
		Alias:       true,
		EntryFee:    c.EntryFee,
		PrizeMoney:  c.PrizeMoney,
		PrizeText:   c.PrizeMoney,
		JudgementID: c.JudgementID,
	}
}

func startRecord(st model.Start, competitionID string) StartRecord {
	return StartRecord{
		ForeignID:   st.ForeignID,
		StartNumber: strconv.Itoa(st.Bib),
		Ord:         st.Bib,
		Rider:       Ref{ForeignID: normalize.PersonID(st.RiderLicense)},
		Horse:       Ref{ForeignID: normalize.HorseID(st.HorseSire)},
		Competition: Ref{ForeignID: competitionID},
		StartFields: st.Fields,
		Replace:     true,
		RiderFields: st.Rider,
	}
}
