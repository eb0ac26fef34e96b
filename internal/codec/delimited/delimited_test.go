package delimited_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/ffebridge/internal/codec/delimited"
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/export"
)

var stamp = time.Date(2025, 3, 1, 14, 5, 9, 0, time.UTC)

func parsed() *model.ParseResult {
	return &model.ParseResult{
		Concours: model.Concours{
			Num: "202501009", Name: "Grand; Prix\nAmateurs", Department: "33",
			StartDate: "2025-03-01", EndDate: "2025-03-02",
			Organizer: model.Organizer{Num: "4000123", Name: "Club Hippique"},
		},
		Competitions: []model.Competition{{
			ForeignID: "202501009_2", Num: "EP2", Name: "Amateur 2", Date: "2025-03-01",
			StartTime: "09:00", Discipline: codes.Dressage, Level: codes.LevelNational,
			PrizeMoney: 500, ScaleCode: "A",
		}},
		People: []model.Person{
			{License: "00012345A", LastName: "DUPONT", FirstName: "Claire", ClubName: "Club Hippique"},
			{License: "", LastName: "NOBODY"},
		},
		Horses: []model.Horse{{
			Sire: "01234567A", Name: "Quartz", BirthDate: "2015-04-02", Gender: codes.Mare,
			Breed: "Selle Français", Father: &model.Ancestor{Name: "Kannan"},
		}},
		Starts: map[string][]model.Start{
			"202501009_2": {
				{ForeignID: "S1", CompetitionID: "202501009_2", Bib: 10, RiderLicense: "00012345A", HorseSire: "01234567A"},
				{ForeignID: "S2", CompetitionID: "202501009_2", Bib: 11, RiderLicense: "00099999A", HorseSire: "02345678A"},
			},
		},
	}
}

func results() delimited.Results {
	return delimited.Results{
		"S1": {Rank: model.Num(1), BaseFaults: model.Num(4), BaseTime: model.Num(61.2), Prize: model.Num(150), Faults: model.Num(4)},
	}
}

func TestSIFText(t *testing.T) {
	enc := delimited.New(delimited.WithClock(func() time.Time { return stamp }))
	f := enc.SIFText(parsed(), results())
	assert.Equal(t, "sif_202501009_20250301140509.txt", f.Name)

	lines := strings.Split(string(f.Data), "\r\n")
	assert.Equal(t, []string{
		"## FICHIER SIF FFE ##",
		"## VERSION: 2.0 ##",
		"## DATE: 01/03/2025 14:05:09 ##",
		"## CONCOURS: 202501009 ##",
		"",
		"[CONCOURS]",
		"NUM=202501009",
		"NOM=Grand  Prix Amateurs",
		"DATE_DEBUT=01/03/2025",
		"DATE_FIN=02/03/2025",
		"DEPT=33",
		"ORG_NUM=4000123",
		"ORG_NOM=Club Hippique",
		"",
		"[EPREUVE]",
		"NUM=2",
		"LIBELLE=Amateur 2",
		"DATE=01/03/2025",
		"HEURE=09:00",
		"DISCIPLINE=03",
		"NIVEAU=NATIONAL",
		"DOTATION=500.00",
		"ENGAGES=2",
		"ENG=10;00012345A;01234567A;1;4;61.2;150",
		"ENG=11;00099999A;02345678A;;;;0",
		"",
		"[CAVALIERS]",
		"CAV=00012345A;DUPONT;Claire;;Club Hippique",
		"",
		"[CHEVAUX]",
		"CHV=01234567A;Quartz;;2015;J;Selle Français;Kannan;;",
		"",
		"[FIN]",
		"## FIN FICHIER SIF ##",
	}, lines)
}

func TestFFECompet(t *testing.T) {
	enc := delimited.New(delimited.WithClock(func() time.Time { return stamp }))
	f := enc.FFECompet(parsed(), results())
	assert.Equal(t, "ffecompet_202501009_20250301140509.csv", f.Name)

	lines := strings.Split(string(f.Data), "\r\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "* EXPORT FFECOMPET V3.0", lines[0])
	assert.Equal(t, "* DATE: 01/03/2025", lines[1])
	assert.Equal(t, "* HEURE: 14:05:09", lines[2])
	assert.Equal(t, "C;202501009;Grand  Prix Amateurs;20250301;20250302;33;4000123;Club Hippique", lines[4])
	assert.Equal(t, "E;2;Amateur 2;20250301;09:00;03;A;500.00;2", lines[6])
	assert.Equal(t, "P;10;00012345A;DUPONT;Claire;01234567A;Quartz;1;4;61.2;150;T", lines[7])
	assert.Equal(t, "P;11;00099999A;;;02345678A;;;;;0;", lines[8])

	none := enc.FFECompet(parsed(), nil)
	assert.Contains(t, string(none.Data), "P;10;00012345A;DUPONT;Claire;01234567A;Quartz;;;;0;")
}

func TestReport(t *testing.T) {
	enc := delimited.New(delimited.WithClock(func() time.Time { return stamp }))
	rows := []export.Row{
		{Status: codes.Finished, Rank: 1, Ranked: true, Bib: "10", RiderLastName: "DUPONT", HorseName: "Quartz",
			Result: model.RemoteResult{RiderFirstName: "CLAIRE", BaseFaults: model.Num(0), BaseTime: model.Num(61.2), Prize: model.Num(1234.5)}},
		{Status: codes.Eliminated, Bib: "11", RiderLastName: "BERNARD", HorseName: "Rocket",
			Result: model.RemoteResult{Faults: model.Num(999)}},
		{Status: codes.NotStarted, Bib: "12"},
	}
	f := enc.Report(reportInfo("Grand Prix 1m20"), rows)
	assert.Equal(t, "RES_FFE_Grand_Prix_1m20_20250301140509.txt", f.Name)

	text := string(f.Data)
	lines := strings.Split(text, "\r\n")
	assert.Equal(t, "** RESULTATS FFE **", lines[0])
	assert.Equal(t, "Date: 01/03/2025", lines[4])
	assert.Contains(t, lines[7], "CLA  DOS  CAVALIER")
	assert.Equal(t, "1    10   Claire DUPONT                  QUARTZ                    0.00     61.20s   1 234,50 €", lines[9])
	assert.True(t, strings.HasPrefix(lines[10], "EL   11   BERNARD"))
	assert.Contains(t, lines[10], "ELIM")
	assert.True(t, strings.HasPrefix(lines[11], "NP   12"))
	assert.Contains(t, text, "Partants: 2\r\nClassés: 1\r\nNon-partants: 1\r\nÉliminés: 1\r\nAbandons: 0")
	assert.True(t, strings.HasSuffix(text, "Généré le 01/03/2025 à 14:05:09"))
}

func reportInfo(name string) delimited.ReportInfo {
	return delimited.ReportInfo{Name: name, Num: "2", Date: "2025-03-01", Discipline: codes.Jumping}
}
