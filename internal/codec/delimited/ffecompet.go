package delimited

import (
	"strconv"
	"strings"

	"github.com/okian/ffebridge/internal/codec/numfmt"
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/model"
)

// FFECompet renders the ';' separated FFECompet file: one C record, then per
// epreuve an E record followed by one P record per engagement.
func (e *Encoder) FFECompet(res *model.ParseResult, results Results) File {
	at := e.now()
	c := res.Concours
	lines := []string{
		"* EXPORT FFECOMPET V3.0",
		"* DATE: " + at.Format("02/01/2006"),
		"* HEURE: " + at.Format("15:04:05"),
		"*",
		strings.Join([]string{
			"C", c.Num, clean(c.Name), compactDate(c.StartDate), compactDate(c.EndDate),
			c.Department, c.Organizer.Num, clean(c.Organizer.Name),
		}, ";"),
		"",
	}

	for _, comp := range res.Competitions {
		starts := res.Starts[comp.ForeignID]
		lines = append(lines, strings.Join([]string{
			"E", epreuveNum(comp.Num), clean(comp.Name), compactDate(comp.Date), comp.StartTime,
			comp.Discipline.SIFNumber(), comp.ScaleCode, numfmt.Dot(comp.PrizeMoney, 2),
			strconv.Itoa(len(starts)),
		}, ";"))
		for _, st := range starts {
			lines = append(lines, participantLine(res, st, results))
		}
		lines = append(lines, "")
	}

	return File{
		Name: "ffecompet_" + c.Num + "_" + at.Format(timestampLayout) + ".csv",
		Data: join(lines),
	}
}

func participantLine(res *model.ParseResult, st model.Start, results Results) string {
	var last, first, horse string
	if p, ok := res.Person(st.RiderLicense); ok {
		last, first = p.LastName, p.FirstName
	}
	if h, ok := res.Horse(st.HorseSire); ok {
		horse = h.Name
	}
	rank, points, elapsed, prize, state := "", "", "", "0", ""
	if r, ok := results[st.ForeignID]; ok {
		rank = numberText(r.Rank)
		points = numberText(r.BaseFaults)
		elapsed = numberText(r.BaseTime)
		if r.Prize.Set {
			prize = numberText(r.Prize)
		}
		state = codes.ResolveStatus(codes.StatusInput{
			Or:        r.Or,
			A:         r.A,
			Rank:      r.Rank.Int(),
			RankSet:   r.Rank.Set,
			HasScores: r.HasScores(),
		}).Delimited()
	}
	return strings.Join([]string{
		"P", strconv.Itoa(st.Bib), st.RiderLicense, clean(last), clean(first),
		st.HorseSire, clean(horse), rank, points, elapsed, prize, state,
	}, ";")
}
