package export_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/internal/domain/model"
	"github.com/okian/ffebridge/internal/export"
)

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestJoin(t *testing.T) {
	people := decode[[]model.RemotePerson](t, `[
		{"id":100,"rnr":3,"rlic":"00012345A","first_name":"Claire","last_name":"Dupont",
		 "club":{"id":4,"foreign_id":"FFE_CLUB_4000123"},"custom_fields":{"compte_engageur":"555","licence_engageur":"00012345A"}},
		{"id":101,"rnr":4,"rlic":"","last_name":"Martin"}
	]`)
	horses := decode[[]model.RemoteHorse](t, `[{"id":70,"hnr":7,"regnr":"01234567A","hast":"Quartz"}]`)
	results := decode[[]model.RemoteResult](t, `[
		{"id":1,"st":600,"re":999,"rnr":4,"hnr":8},
		{"id":2,"st":10,"re":2,"rnr":3,"hnr":7,"p":4,"t":"61,2"},
		{"id":3,"st":11,"re":1,"rnr":100,"hnr":70,"p":0},
		{"id":4,"st":12,"or":"D","re":1},
		{"id":5,"st":13,"re":999,"p":8}
	]`)
	starts := decode[[]model.RemoteStart](t, `[
		{"id":1,"st":"600","custom_fields":{"engagement_terrain":true,"invitation_organisateur":"1"}}
	]`)

	Convey("Given results, starts and an index", t, func() {
		ix := export.NewIndex(people, horses)
		rows := export.Join(results, starts, ix)

		Convey("Then rows are ordered by rank with unranked results last", func() {
			So(rows, ShouldHaveLength, 5)
			So(rows[0].Rank, ShouldEqual, 1)
			So(rows[1].Rank, ShouldEqual, 1)
			So(rows[0].Bib, ShouldEqual, "11")
			So(rows[1].Bib, ShouldEqual, "12")
			So(rows[2].Bib, ShouldEqual, "10")
			So(rows[3].Bib, ShouldEqual, "600")
			So(rows[4].Bib, ShouldEqual, "13")
		})

		Convey("Then references resolve by rnr and by id", func() {
			So(rows[0].RiderLicense, ShouldEqual, "00012345A")
			So(rows[0].HorseSire, ShouldEqual, "01234567A")
			So(rows[2].RiderLicense, ShouldEqual, "00012345A")
			So(rows[2].RiderName, ShouldEqual, "Claire Dupont")
			So(rows[2].RiderLastName, ShouldEqual, "DUPONT")
			So(rows[2].RiderFields.Account, ShouldEqual, "555")
			So(rows[2].SubmitterClub, ShouldEqual, "4000123")
			So(rows[2].HorseName, ShouldEqual, "Quartz")
		})

		Convey("Then unresolved references get the placeholders", func() {
			So(rows[3].RiderLicense, ShouldEqual, "9999999")
			So(rows[3].HorseSire, ShouldEqual, "50053829")
			So(rows[1].RiderLicense, ShouldEqual, "9999999")
		})

		Convey("Then statuses follow the precedence", func() {
			So(rows[0].Status, ShouldEqual, codes.Finished)
			So(rows[1].Status, ShouldEqual, codes.Eliminated)
			So(rows[3].Status, ShouldEqual, codes.NotStarted)
			So(rows[4].Status, ShouldEqual, codes.Finished)
			So(rows[4].Ranked, ShouldBeFalse)
		})

		Convey("Then start custom fields are attached", func() {
			So(rows[3].StartFields.Terrain, ShouldBeTrue)
			So(rows[3].StartFields.Invitation, ShouldBeTrue)
			So(rows[0].StartFields.Terrain, ShouldBeFalse)
		})

		Convey("Then people are found by last name", func() {
			p, ok := ix.PersonByLastName("martin")
			So(ok, ShouldBeTrue)
			So(p.ID.String(), ShouldEqual, "101")
		})
	})

	Convey("Given results alone", t, func() {
		So(export.HasResults(results), ShouldBeTrue)
		So(export.HasResults(results[:1]), ShouldBeFalse)
		So(export.Join(nil, nil, nil), ShouldBeEmpty)
	})
}

func TestFederationCompetitions(t *testing.T) {
	Convey("Given platform competitions", t, func() {
		comps := []model.RemoteCompetition{
			{ForeignID: "202501009_2", Discipline: "H"},
			{ForeignID: "local"},
			{ForeignID: "FFE_EPR_3", Discipline: "D"},
			{ForeignID: "12345_1"},
			{ForeignID: "202501009_4", Discipline: "D"},
			{ForeignID: "202501010_1", Discipline: "H"},
			{ForeignID: "202501009_5", Discipline: "K"},
		}

		Convey("Then only federation ids are kept", func() {
			kept := export.FilterFederation(comps)
			So(kept, ShouldHaveLength, 5)
			So(kept[1].ForeignID, ShouldEqual, "FFE_EPR_3")
		})

		Convey("Then foreign ids split into concours and epreuve", func() {
			c, e := export.SplitForeignID("202501009_2", "9")
			So(c, ShouldEqual, "202501009")
			So(e, ShouldEqual, "2")
			_, e = export.SplitForeignID("202501009", "9")
			So(e, ShouldEqual, "9")
			_, e = export.SplitForeignID("202501009", "")
			So(e, ShouldEqual, "1")
		})

		Convey("Then groups follow discipline then concours", func() {
			var list []export.Competition
			for _, c := range export.FilterFederation(comps) {
				if c.ForeignID == "FFE_EPR_3" {
					continue
				}
				list = append(list, export.NewCompetition(c, nil, nil, nil))
			}
			groups := export.GroupByDiscipline(list)
			So(groups, ShouldHaveLength, 4)
			So(groups[0].Code, ShouldEqual, "HU")
			So(groups[0].ConcoursNum, ShouldEqual, "202501009")
			So(groups[1].Code, ShouldEqual, "HU")
			So(groups[1].ConcoursNum, ShouldEqual, "202501010")
			So(groups[2].Code, ShouldEqual, "DR")
			So(groups[2].Competitions, ShouldHaveLength, 1)
			So(groups[3].Code, ShouldEqual, "AT")
		})
	})
}

func TestByStartForeignID(t *testing.T) {
	Convey("Given results with and without their own foreign id", t, func() {
		starts := decode[[]model.RemoteStart](t, `[{"id":1,"st":10,"foreign_id":"S10"},{"id":2,"st":11,"foreign_id":"S11"}]`)
		results := decode[[]model.RemoteResult](t, `[{"id":1,"st":10,"re":1},{"id":2,"st":11,"foreign_id":"OWN","re":2},{"id":3,"st":12,"re":3}]`)

		byFID := export.ByStartForeignID(results, starts)

		Convey("Then each result is keyed by its start", func() {
			So(byFID, ShouldHaveLength, 2)
			So(byFID["S10"].Rank.Int(), ShouldEqual, 1)
			So(byFID["OWN"].Rank.Int(), ShouldEqual, 2)
		})
	})
}
