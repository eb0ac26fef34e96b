package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/ffebridge/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScalars(t *testing.T) {
	Convey("Given platform JSON with loosely typed numbers", t, func() {
		var r model.RemoteResult
		err := json.Unmarshal([]byte(`{"id":12,"st":"7","re":"3","p":null,"t":"61,25","ct":142,"indice":1,"rnr":1.0}`), &r)
		So(err, ShouldBeNil)

		Convey("Then numbers accept strings, commas and null", func() {
			So(r.Rank, ShouldResemble, model.Num(3))
			So(r.Faults.Set, ShouldBeFalse)
			So(r.Time.Value, ShouldEqual, 61.25)
			So(r.PointsC.Or(0), ShouldEqual, 142)
		})

		Convey("Then ids keep a decimal text form", func() {
			So(r.ID, ShouldEqual, model.ID("12"))
			So(r.Start.String(), ShouldEqual, "7")
			So(r.RiderID, ShouldEqual, model.ID("1"))
			So(r.Indice, ShouldEqual, model.ID("1"))
		})

		Convey("Then scores are detected", func() {
			So(r.HasScores(), ShouldBeTrue)
			So(r.Ranked(), ShouldBeTrue)
		})
	})

	Convey("Given an unranked result with no scores", t, func() {
		var r model.RemoteResult
		So(json.Unmarshal([]byte(`{"re":999}`), &r), ShouldBeNil)
		So(r.Ranked(), ShouldBeFalse)
		So(r.HasScores(), ShouldBeFalse)
	})

	Convey("Given numbers to marshal", t, func() {
		b, err := json.Marshal(struct {
			A model.Number `json:"a"`
			B model.Number `json:"b"`
		}{A: model.Num(1.5)})
		So(err, ShouldBeNil)
		So(string(b), ShouldEqual, `{"a":1.5,"b":null}`)
	})

	Convey("Given flags and club references", t, func() {
		var p model.RemotePerson
		So(json.Unmarshal([]byte(`{"official":"1","club":{"id":4,"foreign_id":"FFE_CLUB_0123","name":"Ecurie"}}`), &p), ShouldBeNil)
		So(bool(p.Official), ShouldBeTrue)
		So(p.Club.Num(), ShouldEqual, "0123")
		So(p.Club.Name, ShouldEqual, "Ecurie")

		var q model.RemotePerson
		So(json.Unmarshal([]byte(`{"official":false,"club":88}`), &q), ShouldBeNil)
		So(bool(q.Official), ShouldBeFalse)
		So(q.Club.Num(), ShouldEqual, "88")
	})
}

func TestParseResult(t *testing.T) {
	Convey("Given a parse result", t, func() {
		r := &model.ParseResult{
			Competitions: []model.Competition{{ForeignID: "202501009_2"}},
			People:       []model.Person{{License: "1234567A"}},
			Starts: map[string][]model.Start{
				"202501009_2": {
					{ForeignID: "s1", CompetitionID: "202501009_2", Fields: model.StartFields{Terrain: true}},
					{ForeignID: "s2", CompetitionID: "202501009_2", Fields: model.StartFields{Invitation: true}, Rider: model.RiderFields{Account: "42"}},
				},
			},
		}

		Convey("When it is consistent", func() {
			So(r.Validate(), ShouldBeNil)
			s := r.Stats()
			So(s.Competitions, ShouldEqual, 1)
			So(s.TotalStarts, ShouldEqual, 2)
			So(s.Terrain, ShouldEqual, 1)
			So(s.Invitation, ShouldEqual, 1)
			So(s.WithAccount, ShouldEqual, 1)
		})

		Convey("When a start group has no competition", func() {
			r.Starts["202501009_9"] = []model.Start{{CompetitionID: "202501009_9"}}
			err := r.Validate()
			So(errors.Is(err, model.ErrUnknownCompetition), ShouldBeTrue)
		})

		Convey("When looking entities up", func() {
			_, ok := r.Competition("202501009_2")
			So(ok, ShouldBeTrue)
			_, ok = r.Person("0000000A")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given settings", t, func() {
		var s model.Settings
		So(json.Unmarshal([]byte(`{"custom_field_names":{"start":{"engagement_terrain":{"name":"Engagement Terrain","type":"bool"}}}}`), &s), ShouldBeNil)
		So(s.HasCustomField("start", "engagement_terrain"), ShouldBeTrue)
		So(s.HasCustomField("person", "compte_engageur"), ShouldBeFalse)
	})
}
