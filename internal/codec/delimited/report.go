package delimited

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/okian/ffebridge/internal/codec/numfmt"
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/export"
)

// ReportInfo describes the competition printed on a results report.
type ReportInfo struct {
	Name       string
	Num        string
	Date       string
	Category   string
	Discipline codes.Discipline
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9]`)

// Report renders the printable results of one competition. Rows are printed
// in the order given.
func (e *Encoder) Report(info ReportInfo, rows []export.Row) File {
	at := e.now()
	lines := []string{
		"** RESULTATS FFE **",
		strings.Repeat("=", 80),
		"Epreuve: " + info.Name,
		"N° Epreuve: " + info.Num,
		"Date: " + frenchDate(info.Date),
		"Catégorie: " + info.Category,
		strings.Repeat("-", 80),
	}
	lines = append(lines, table(info.Discipline, rows)...)

	var started, ranked, absent, eliminated, retired int
	for _, r := range rows {
		if r.Status == codes.NotStarted {
			absent++
		} else {
			started++
		}
		if r.Ranked && r.Rank > 0 {
			ranked++
		}
		switch r.Status {
		case codes.Eliminated:
			eliminated++
		case codes.Retired:
			retired++
		}
	}
	lines = append(lines,
		strings.Repeat("-", 80),
		"STATISTIQUES:",
		"Partants: "+strconv.Itoa(started),
		"Classés: "+strconv.Itoa(ranked),
		"Non-partants: "+strconv.Itoa(absent),
		"Éliminés: "+strconv.Itoa(eliminated),
		"Abandons: "+strconv.Itoa(retired),
		strings.Repeat("=", 80),
		"** FIN DES RESULTATS **",
		"Généré le "+at.Format("02/01/2006")+" à "+at.Format("15:04:05"),
	)
	return File{
		Name: "RES_FFE_" + unsafeName.ReplaceAllString(info.Name, "_") + "_" + at.Format(timestampLayout) + ".txt",
		Data: join(lines),
	}
}

func table(d codes.Discipline, rows []export.Row) []string {
	const who = "%-4s %-4s %-30s %-25s "
	var out []string
	switch d {
	case codes.Dressage:
		out = append(out, fmt.Sprintf(who+"%-10s %-8s", "CLA", "DOS", "CAVALIER", "CHEVAL", "TOTAL", "%"), strings.Repeat("-", 100))
		for _, r := range rows {
			out = append(out, fmt.Sprintf(who+"%-10s %-8s", rankText(r), r.Bib, riderName(r), horseName(r),
				numfmt.Dot(r.Result.Total.Value, 2), numfmt.Dot(r.Result.Percentage.Value, 2)+"%"))
		}
	case codes.Eventing:
		out = append(out, fmt.Sprintf(who+"%-10s %-10s %-10s", "CLA", "DOS", "CAVALIER", "CHEVAL", "DRESSAGE", "CSO", "CROSS"), strings.Repeat("-", 110))
		for _, r := range rows {
			res := r.Result
			out = append(out, fmt.Sprintf(who+"%-10s %-10s %-10s", rankText(r), r.Bib, riderName(r), horseName(r),
				numfmt.Dot(res.DressagePoints.Value, 2),
				numfmt.Dot(numfmt.Sum(res.SJObstacles.Value, res.SJTime.Value), 2),
				numfmt.Dot(numfmt.Sum(res.XCObstacles.Value, res.XCTime.Value), 2)))
		}
	case codes.Endurance:
		out = append(out, fmt.Sprintf(who+"%-10s", "CLA", "DOS", "CAVALIER", "CHEVAL", "TEMPS"), strings.Repeat("-", 100))
		for _, r := range rows {
			out = append(out, fmt.Sprintf(who+"%-10s", rankText(r), r.Bib, riderName(r), horseName(r), clock(r.Result.Time.Value)))
		}
	case codes.Jumping, codes.ShowJumping:
		out = append(out, fmt.Sprintf(who+"%-8s %-8s %-10s", "CLA", "DOS", "CAVALIER", "CHEVAL", "PTS", "TEMPS", "GAINS"), strings.Repeat("-", 100))
		for _, r := range rows {
			res := r.Result
			faults := res.BaseFaults
			if !faults.Set {
				faults = res.Faults
			}
			elapsed := res.BaseTime
			if !elapsed.Set {
				elapsed = res.Time
			}
			out = append(out, fmt.Sprintf(who+"%-8s %-8s %-10s", rankText(r), r.Bib, riderName(r), horseName(r),
				points(faults.Value), seconds(elapsed.Value), prize(res.Prize.Value)))
		}
	default:
		out = append(out, fmt.Sprintf(who+"%-15s", "CLA", "DOS", "CAVALIER", "CHEVAL", "STATUT"), strings.Repeat("-", 90))
		for _, r := range rows {
			out = append(out, fmt.Sprintf(who+"%-15s", rankText(r), r.Bib, riderName(r), horseName(r), statusText(r)))
		}
	}
	return out
}

func rankText(r export.Row) string {
	switch r.Status {
	case codes.NotStarted:
		return "NP"
	case codes.Eliminated:
		return "EL"
	case codes.Retired:
		return "AB"
	case codes.Disqualified:
		return "DQ"
	}
	if r.Ranked && r.Rank > 0 {
		return strconv.Itoa(r.Rank)
	}
	return "NC"
}

func statusText(r export.Row) string {
	switch r.Status {
	case codes.NotStarted:
		return "Non-partant"
	case codes.Eliminated:
		return "Éliminé"
	case codes.Retired:
		return "Abandon"
	case codes.Disqualified:
		return "Disqualifié"
	}
	if r.Ranked && r.Rank > 0 {
		return "Classé"
	}
	return "Terminé"
}

func riderName(r export.Row) string {
	first, last := r.Result.RiderFirstName, r.RiderLastName
	if first == "" && r.Person != nil {
		first = r.Person.FirstName
	}
	first = strings.ToLower(strings.TrimSpace(first))
	if c, size := utf8.DecodeRuneInString(first); size > 0 {
		first = strings.ToUpper(string(c)) + first[size:]
	}
	return ellipsis(strings.TrimSpace(first+" "+strings.ToUpper(last)), 30)
}

func horseName(r export.Row) string {
	return strings.ToUpper(ellipsis(r.HorseName, 25))
}

func ellipsis(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}

func points(v float64) string {
	if v >= 999 {
		return "ELIM"
	}
	return numfmt.Dot(v, 2)
}

func seconds(v float64) string {
	if v <= 0 || v >= 999 {
		return ""
	}
	return numfmt.Dot(v, 2) + "s"
}

func prize(v float64) string {
	if v <= 0 {
		return ""
	}
	return numfmt.Grouped(v) + " €"
}

func clock(v float64) string {
	if v <= 0 {
		return ""
	}
	s := int(v)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
}
