package xmlexport

import (
	"encoding/xml"
	"strconv"

	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/export"
)

// SIFVersion is the version attribute of the generic SIF document.
const SIFVersion = "1.0"

type sifDoc struct {
	XMLName  xml.Name    `xml:"sif"`
	Version  string      `xml:"version,attr"`
	Concours sifConcours `xml:"concours"`
}

type sifConcours struct {
	ID      string     `xml:"id,attr"`
	Name    string     `xml:"nom,attr"`
	Date    string     `xml:"date,attr"`
	Epreuve sifEpreuve `xml:"epreuve"`
}

type sifEpreuve struct {
	Num          string           `xml:"numero,attr"`
	Discipline   string           `xml:"discipline,attr"`
	Level        string           `xml:"niveau,attr"`
	Participants []sifParticipant `xml:"participant"`
}

type sifParticipant struct {
	Bib        string `xml:"dossard,attr"`
	Rider      string `xml:"cavalier,attr"`
	Horse      string `xml:"cheval,attr"`
	Club       string `xml:"club,attr"`
	Rank       string `xml:"classement,attr"`
	JudgeC     string `xml:"juge_c,attr,omitempty"`
	JudgeH     string `xml:"juge_h,attr,omitempty"`
	JudgeE     string `xml:"juge_e,attr,omitempty"`
	JudgeM     string `xml:"juge_m,attr,omitempty"`
	JudgeB     string `xml:"juge_b,attr,omitempty"`
	Percentage string `xml:"pourcentage,attr,omitempty"`
}

// SIF renders the generic SIF document of one competition. Only ranked
// results become participants.
func (e *Encoder) SIF(c export.Competition) (File, error) {
	at := e.now()
	r := c.Remote

	id := r.ForeignID
	if id == "" {
		id = "FFE_" + r.Kq.String()
	}
	name := r.Name
	if name == "" {
		name = "Concours"
	}
	date := r.Date
	if date == "" {
		date = at.Format("2006-01-02")
	}
	num := r.Num.String()
	if num == "" {
		num = "1"
	}

	ep := sifEpreuve{
		Num:        num,
		Discipline: c.Discipline.SIFName(),
		Level:      codes.LevelOrDefault(r.Level).SIFXML(),
	}
	for _, row := range c.Rows {
		if !row.Ranked {
			continue
		}
		p := sifParticipant{
			Bib:   row.Bib,
			Rider: FixText(row.RiderName),
			Horse: FixText(row.HorseName),
			Rank:  strconv.Itoa(row.Rank),
		}
		if p.Bib == "" {
			p.Bib = "0"
		}
		if row.Person != nil && row.Person.Club != nil {
			p.Club = FixText(row.Person.Club.Name)
		}
		if c.Discipline == codes.Dressage {
			res := row.Result
			p.JudgeC = optional(res.PointsC)
			p.JudgeH = optional(res.PointsH)
			p.JudgeE = optional(res.PointsE)
			p.JudgeM = optional(res.PointsM)
			p.JudgeB = optional(res.PointsB)
			p.Percentage = optional(res.Percentage)
		}
		ep.Participants = append(ep.Participants, p)
	}

	data, err := marshal(sifDoc{
		Version:  SIFVersion,
		Concours: sifConcours{ID: id, Name: name, Date: date, Epreuve: ep},
	})
	if err != nil {
		return File{}, err
	}
	return File{
		Name: "sif_" + num + "_" + at.Format(timestampLayout) + ".xml",
		Data: repairName(data, name),
	}, nil
}

func optional(n model.Number) string {
	if !n.Set {
		return ""
	}
	return plain(n.Value)
}

