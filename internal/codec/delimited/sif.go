package delimited

import (
	"strconv"
	"strings"

	"github.com/okian/ffebridge/internal/codec/numfmt"
	"github.com/okian/ffebridge/internal/domain/model"
)

// SIFText renders the INI style SIF file: concours, epreuves with their
// engagements, riders, horses.
func (e *Encoder) SIFText(res *model.ParseResult, results Results) File {
	at := e.now()
	c := res.Concours
	lines := []string{
		"## FICHIER SIF FFE ##",
		"## VERSION: 2.0 ##",
		"## DATE: " + at.Format("02/01/2006 15:04:05") + " ##",
		"## CONCOURS: " + c.Num + " ##",
		"",
		"[CONCOURS]",
		"NUM=" + c.Num,
		"NOM=" + clean(c.Name),
		"DATE_DEBUT=" + frenchDate(c.StartDate),
		"DATE_FIN=" + frenchDate(c.EndDate),
		"DEPT=" + c.Department,
		"ORG_NUM=" + c.Organizer.Num,
		"ORG_NOM=" + clean(c.Organizer.Name),
		"",
	}

	for _, comp := range res.Competitions {
		starts := res.Starts[comp.ForeignID]
		lines = append(lines,
			"[EPREUVE]",
			"NUM="+epreuveNum(comp.Num),
			"LIBELLE="+clean(comp.Name),
			"DATE="+frenchDate(comp.Date),
			"HEURE="+comp.StartTime,
			"DISCIPLINE="+comp.Discipline.SIFNumber(),
			"NIVEAU="+comp.Level.SIFText(),
			"DOTATION="+numfmt.Dot(comp.PrizeMoney, 2),
			"ENGAGES="+strconv.Itoa(len(starts)),
		)
		for _, st := range starts {
			lines = append(lines, engagementLine(st, results))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "[CAVALIERS]")
	for _, p := range res.People {
		if p.License == "" {
			continue
		}
		lines = append(lines, "CAV="+strings.Join([]string{
			p.License, clean(p.LastName), clean(p.FirstName), p.FEINumber, clean(p.ClubName),
		}, ";"))
	}
	lines = append(lines, "", "[CHEVAUX]")
	for _, h := range res.Horses {
		if h.Sire == "" {
			continue
		}
		var father, mother string
		if h.Father != nil {
			father = h.Father.Name
		}
		if h.Mother != nil {
			mother = h.Mother.Name
		}
		lines = append(lines, "CHV="+strings.Join([]string{
			h.Sire, clean(h.Name), h.FEIPassport, birthYear(h.BirthDate), h.Gender.SIF(),
			clean(h.Breed), clean(father), clean(mother), clean(h.Owner),
		}, ";"))
	}
	lines = append(lines, "", "[FIN]", "## FIN FICHIER SIF ##")

	return File{
		Name: "sif_" + c.Num + "_" + at.Format(timestampLayout) + ".txt",
		Data: join(lines),
	}
}

func engagementLine(st model.Start, results Results) string {
	fields := []string{strconv.Itoa(st.Bib), st.RiderLicense, st.HorseSire, "", "", "", "0"}
	if r, ok := results[st.ForeignID]; ok {
		fields[3] = numberText(r.Rank)
		fields[4] = numberText(r.BaseFaults)
		fields[5] = numberText(r.BaseTime)
		if r.Prize.Set {
			fields[6] = numberText(r.Prize)
		}
	}
	return "ENG=" + strings.Join(fields, ";")
}

func numberText(n model.Number) string {
	if !n.Set {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func birthYear(date string) string {
	if len(date) >= 4 {
		if _, err := strconv.Atoi(date[:4]); err == nil {
			return date[:4]
		}
	}
	return ""
}
