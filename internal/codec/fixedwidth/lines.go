package fixedwidth

import (
	"strconv"
	"strings"
	"time"

	"github.com/okian/ffebridge/internal/codec/numfmt"
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/export"
)

// Record type codes.
const (
	RecordHeader     = "00"
	RecordConcours   = "01"
	RecordEpreuve    = "02"
	RecordJudge      = "20"
	RecordTerrain    = "21"
	RecordInvitation = "22"
	RecordTrailer    = "99"

	headerWidth = 121
)

// HeaderLine is the 00 line: timestamp and software tag on 121 columns.
func HeaderLine(at time.Time, tag string) string {
	return fit(RecordHeader+at.Format("02/01/2006 15:04:05")+tag, headerWidth)
}

// ConcoursLine is the 01 line.
func ConcoursLine(concours, code string, epreuves int) string {
	return RecordConcours + padLeft(strings.TrimSpace(concours), 9, '0') + fit(code, 2) + zero(epreuves, 2)
}

// EpreuveLine is the 02 line.
func EpreuveLine(epreuve string, results int) string {
	return RecordEpreuve + padLeft(strings.TrimSpace(epreuve), 3, '0') + zero(results, 3)
}

// JudgeLine is the 20 line.
func JudgeLine(j Judge, epreuve string) string {
	return RecordJudge + fit(j.Role, 8) + identifier(j.License, 7) + padLeft(strings.TrimSpace(epreuve), 3, ' ')
}

// FlagLine is a 21 (terrain) or 22 (invitation) line. Missing references are
// left blank.
func FlagLine(record, epreuve string, row export.Row) string {
	var b strings.Builder
	b.WriteString(record)
	b.WriteString(padLeft(strings.TrimSpace(epreuve), 3, ' '))
	b.WriteString(padLeft(bib(row.Bib), 3, '0'))
	b.WriteString(fit(strings.TrimSpace(row.RiderFields.Account), 7))
	b.WriteString(optionalIdentifier(row.RiderLicense, 7))
	b.WriteString(optionalIdentifier(row.HorseSire, 8))
	b.WriteString(optionalIdentifier(row.RiderFields.License, 7))
	b.WriteString(fit(strings.TrimSpace(row.SubmitterClub), 7))
	return b.String()
}

// TrailerLine is the 99 line.
func TrailerLine(preceding int) string {
	return RecordTrailer + zero(preceding, 5)
}

// ResultLine renders the result record of the discipline. Score columns
// follow only for finished starts.
func ResultLine(d codes.Discipline, row export.Row) string {
	record := d.ResultRecord()
	var b strings.Builder
	b.WriteString(string(record))
	b.WriteString(padLeft(bib(row.Bib), 3, '0'))
	b.WriteString(identifier(row.HorseSire, 8))
	b.WriteString(identifier(row.RiderLicense, 7))
	b.WriteString(string(row.Status))
	if row.Status != codes.Finished {
		return b.String()
	}

	r := row.Result
	switch record {
	case codes.RecordDressage:
		b.WriteString(num(r.PointsC, 2, 6))
		b.WriteString(num(r.PointsH, 2, 6))
		b.WriteString(num(r.PointsM, 2, 6))
		b.WriteString(num(r.PointsB, 2, 6))
		b.WriteString(num(r.PointsE, 2, 6))
		b.WriteString(num(r.Percentage, 3, 7))
		b.WriteString(num(r.Total, 2, 7))
		artistic := numfmt.Sum(r.PointsC.Value, r.PointsH.Value, r.PointsM.Value, r.PointsB.Value, r.PointsE.Value)
		b.WriteString(amount(artistic, 2, 6))
		b.WriteString(rank(row))
		b.WriteString(num(r.Prize, 2, 8))
		b.WriteString(strings.Repeat(" ", 13))
		b.WriteString(num(r.PercentC, 3, 7))
		b.WriteString(num(r.PercentH, 3, 7))
		b.WriteString(num(r.PercentM, 3, 7))
		b.WriteString(num(r.PercentB, 3, 7))
		b.WriteString(num(r.PercentE, 3, 7))
	case codes.RecordEventing:
		b.WriteString(num(r.DressagePoints, 2, 6))
		b.WriteString(num(r.XCObstacles, 2, 6))
		b.WriteString(num(r.XCTime, 2, 6))
		b.WriteString(num(r.SJObstacles, 2, 6))
		b.WriteString(num(r.SJTime, 2, 6))
		b.WriteString(num(r.TotalPoints, 2, 6))
		b.WriteString(fit(r.Indice.String(), 2))
		b.WriteString(padLeft(r.Falls.String(), 2, ' '))
		b.WriteString(rank(row))
		b.WriteString(num(r.Prize, 2, 8))
	case codes.RecordDriving:
		b.WriteString(num(r.DressPenalty, 2, 6))
		b.WriteString(char(r.DressIndice.String()))
		b.WriteString(num(r.MarathonPenalty, 2, 6))
		b.WriteString(num(r.MarathonTimePen, 2, 6))
		b.WriteString(char(r.MarathonIndice.String()))
		b.WriteString(num(r.ManiabPenalty, 2, 6))
		b.WriteString(num(r.ManiabTimePenalty, 2, 6))
		b.WriteString(char(r.ManiabIndice.String()))
		b.WriteString(num(r.DrivingTotal, 2, 6))
		b.WriteString(fit(r.Indice.String(), 2))
		b.WriteString(rank(row))
		b.WriteString(num(r.Prize, 2, 8))
	default:
		b.WriteString(num(r.Faults, 2, 7))
		b.WriteString(num(r.Faults2, 2, 7))
		b.WriteString(num(r.Time, 3, 7))
		b.WriteString(num(r.Time2, 3, 7))
		b.WriteString(fit(r.Indice.String(), 2))
		b.WriteString(num(r.Presentation, 3, 6))
		b.WriteString(rank(row))
		b.WriteString(num(r.Prize, 2, 8))
		b.WriteString(strings.Repeat(" ", 12))
	}
	return b.String()
}

// rank is the 3 column rank, blank for the unranked sentinel. Ranks past 999
// print as 999.
func rank(row export.Row) string {
	if !row.Ranked || row.Rank <= 0 {
		return "   "
	}
	if row.Rank > 999 {
		return "999"
	}
	return padLeft(strconv.Itoa(row.Rank), 3, ' ')
}

func bib(s string) string {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 0 {
		return strconv.Itoa(n)
	}
	return strings.TrimSpace(s)
}
