package xmlexport

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/okian/ffebridge/internal/codec/numfmt"
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/domain/normalize"
	"github.com/okian/ffebridge/internal/export"
)

// WinJump message constants.
const (
	WinJumpNamespace = "http://www.ffe.com/message"
	WinJumpVersion   = "1.5"

	profileJumping  = "1"
	profileDressage = "5"

	fonctionJudge = "02"
	fonctionOther = "05"

	contractRankLimit = 50
	defaultBaseTime   = 80
)

type wjMessage struct {
	XMLName  xml.Name   `xml:"ffe:message"`
	NS       string     `xml:"xmlns:ffe,attr"`
	Version  string     `xml:"version,attr"`
	Info     wjInfo     `xml:"info"`
	Concours wjConcours `xml:"concours"`
}

type wjInfo struct {
	Software  string `xml:"logiciel,attr"`
	Version   string `xml:"version,attr"`
	Date      string `xml:"date,attr"`
	Depositor string `xml:"deposant,attr"`
}

type wjConcours struct {
	Num     string    `xml:"num,attr"`
	Epreuve wjEpreuve `xml:"epreuve"`
}

type wjEpreuve struct {
	Num         string         `xml:"num,attr"`
	Profile     string         `xml:"profil_detail,attr"`
	Name        string         `xml:"nom,attr,omitempty"`
	Engagements []wjEngagement `xml:"engagement"`
	Officials   []wjOfficial   `xml:"officiel"`
	Result      wjResult       `xml:"resultat"`
}

type wjEngagement struct {
	ID      string   `xml:"id,attr"`
	Bib     string   `xml:"dossard,attr"`
	Terrain string   `xml:"terrain,attr,omitempty"`
	Rider   *wjRider `xml:"cavalier"`
	Horse   *wjHorse `xml:"equide"`
	Club    *wjClub  `xml:"club"`
	Result  wjResult `xml:"resultat"`
}

type wjRider struct {
	License   string `xml:"lic,attr"`
	Changed   string `xml:"changement,attr"`
	LastName  string `xml:"nom,attr,omitempty"`
	FirstName string `xml:"prenom,attr,omitempty"`
}

type wjHorse struct {
	Sire    string `xml:"sire,attr"`
	Changed string `xml:"changement,attr"`
	Name    string `xml:"nom,attr,omitempty"`
}

type wjClub struct {
	Num  string `xml:"num,attr"`
	Name string `xml:"nom,attr,omitempty"`
}

type wjResult struct {
	State    string   `xml:"etat,attr,omitempty"`
	Rank     string   `xml:"classement,attr,omitempty"`
	Contract string   `xml:"contrat,attr,omitempty"`
	Detail   wjDetail `xml:"detail"`
}

type wjDetail struct {
	Round wjRound `xml:"manche"`
}

type wjRound struct {
	Num    string    `xml:"num,attr,omitempty"`
	State  string    `xml:"etat,attr,omitempty"`
	Scores []wjScore `xml:"score"`
}

type wjScore struct {
	Name      string `xml:"nom,attr,omitempty"`
	Num       string `xml:"num,attr"`
	Precision string `xml:"precision,attr,omitempty"`
	Unit      string `xml:"nom_unite,attr,omitempty"`
	Mandatory string `xml:"obligatoire,attr,omitempty"`
	Score     string `xml:"score,attr"`
}

type wjOfficial struct {
	Num      string `xml:"num,attr"`
	Fonction string `xml:"fonction,attr"`
	License  string `xml:"lic,attr,omitempty"`
}

// WinJump renders the ffe:message 1.5 document of one competition.
func (e *Encoder) WinJump(c export.Competition, ix *export.Index) (File, error) {
	at := e.now()
	if ix == nil {
		ix = export.NewIndex(nil, nil)
	}
	dressage := c.Discipline == codes.Dressage
	ep := wjEpreuve{
		Num:     c.EpreuveNum,
		Profile: profileJumping,
		Name:    c.Remote.Name,
	}
	if dressage {
		ep.Profile = profileDressage
	}
	for _, row := range c.Rows {
		ep.Engagements = append(ep.Engagements, winJumpEngagement(c, row, dressage))
	}
	ep.Officials = winJumpOfficials(c.Remote, ix)
	ep.Result = winJumpBaseResult(c)

	msg := wjMessage{
		NS:      WinJumpNamespace,
		Version: WinJumpVersion,
		Info: wjInfo{
			Software:  e.software,
			Version:   e.version,
			Date:      at.Format("2006-01-02T15:04:05-07:00"),
			Depositor: e.depositor,
		},
		Concours: wjConcours{Num: c.ConcoursNum, Epreuve: ep},
	}
	data, err := marshal(msg)
	if err != nil {
		return File{}, err
	}
	num := c.Remote.Num.String()
	if num == "" {
		num = c.Remote.Kq.String()
	}
	return File{
		Name: "winjump_" + num + "_" + at.Format(timestampLayout) + ".xml",
		Data: repairName(data, c.Remote.Name),
	}, nil
}

func winJumpEngagement(c export.Competition, row export.Row, dressage bool) wjEngagement {
	id := row.Result.ID.String()
	if id == "" {
		id = "1"
	}
	bib := row.Bib
	if bib == "" {
		bib = "1"
	}
	eng := wjEngagement{
		ID:  c.ConcoursNum + c.EpreuveNum + " " + leftZero(id, 5),
		Bib: bib,
	}
	if row.StartFields.Terrain {
		eng.Terrain = "true"
	}
	if p := row.Person; p != nil && strings.TrimSpace(p.License) != "" {
		eng.Rider = &wjRider{
			License:   normalize.License(p.License),
			Changed:   "true",
			LastName:  FixText(p.LastName),
			FirstName: FixText(p.FirstName),
		}
	}
	if h := row.Horse; h != nil && strings.TrimSpace(h.Sire) != "" {
		eng.Horse = &wjHorse{
			Sire:    normalize.Sire(h.Sire),
			Changed: "true",
			Name:    FixText(h.Name),
		}
	}
	if p := row.Person; p != nil && p.Club != nil && p.Club.Num() != "" {
		eng.Club = &wjClub{Num: p.Club.Num(), Name: FixText(p.Club.Name)}
	}
	eng.Result = winJumpResult(row, dressage)
	return eng
}

func winJumpResult(row export.Row, dressage bool) wjResult {
	res := wjResult{Detail: wjDetail{Round: wjRound{Num: "1"}}}
	if state := row.Status.WinJump(); state != "" {
		res.State = state
		res.Detail.Round.State = state
		return res
	}
	if row.Ranked && row.Rank > 0 {
		res.Rank = strconv.Itoa(row.Rank)
		if row.Rank <= contractRankLimit {
			res.Contract = "SF"
		}
	}
	r := row.Result
	if dressage {
		res.Detail.Round.Scores = dressageScores(r)
		return res
	}
	faults := r.F
	if !faults.Set {
		faults = r.Faults
	}
	res.Detail.Round.Scores = []wjScore{
		{Num: "1", Score: plain(faults.Value)},
		{Num: "2", Score: numfmt.Dot(r.Time.Value, 2)},
		{Num: "3", Score: "0"},
		{Num: "4", Score: plain(faults.Value)},
	}
	return res
}

func dressageScores(r model.RemoteResult) []wjScore {
	var out []wjScore
	judge := func(name, num string, n model.Number, mandatory bool) wjScore {
		s := wjScore{Name: name, Num: num, Precision: "2", Unit: "pourcent", Score: numfmt.Dot(n.Value, 2)}
		if mandatory {
			s.Mandatory = "1"
		}
		return s
	}
	if r.PercentE.Value > 0 {
		out = append(out, judge("Juge E", "1", r.PercentE, false))
	}
	if r.PercentH.Value > 0 {
		out = append(out, judge("Juge H", "2", r.PercentH, false))
	}
	if r.PercentC.Set {
		out = append(out, judge("Juge C", "3", r.PercentC, true))
	}
	if r.Total.Set {
		out = append(out, wjScore{Name: "Ensemble", Num: "6", Unit: "points", Score: plain(r.Total.Value)})
	}
	return out
}

// winJumpOfficials lists the meeting officials, numbered per fonction. Judges
// seated on the competition get fonction 02. Without any official in the
// meeting, the competition's seat ids are declared as judges.
func winJumpOfficials(c model.RemoteCompetition, ix *export.Index) []wjOfficial {
	seated := make(map[string]bool)
	var seatIDs []string
	for _, pos := range c.JudgePositions() {
		for _, id := range pos.IDs {
			if id != "" {
				seated[id.String()] = true
				seatIDs = append(seatIDs, id.String())
			}
		}
	}

	var out []wjOfficial
	officials := ix.Officials()
	if len(officials) == 0 {
		for i, id := range seatIDs {
			lic := id
			if p, ok := ix.Person(id); ok && strings.TrimSpace(p.License) != "" {
				lic = normalize.License(p.License)
			}
			out = append(out, wjOfficial{Num: leftZero(strconv.Itoa(i+1), 2), Fonction: fonctionJudge, License: lic})
		}
		return out
	}

	counters := make(map[string]int)
	for _, p := range officials {
		fonction := fonctionOther
		if seated[p.ID.String()] || seated[p.Rnr.String()] {
			fonction = fonctionJudge
		}
		counters[fonction]++
		o := wjOfficial{Num: leftZero(strconv.Itoa(counters[fonction]), 2), Fonction: fonction}
		if strings.TrimSpace(p.License) != "" {
			o.License = normalize.License(p.License)
		}
		out = append(out, o)
	}
	return out
}

// winJumpBaseResult carries the base time of jumping competitions.
func winJumpBaseResult(c export.Competition) wjResult {
	var round wjRound
	switch c.Discipline {
	case codes.Jumping:
		round.Num = "1"
		round.Scores = []wjScore{{Num: "2", Score: plain(c.Remote.BaseTime.Or(defaultBaseTime))}}
	case codes.Dressage:
		round.Num = "1"
	}
	return wjResult{Detail: wjDetail{Round: round}}
}

func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func leftZero(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
