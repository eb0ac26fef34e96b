package codes_test

import (
	"testing"
	"time"

	codes "github.com/okian/ffebridge/internal/domain/codes"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDiscipline(t *testing.T) {
	Convey("Given federation discipline codes", t, func() {
		Convey("When the code is known", func() {
			So(codes.DisciplineFromFFE("01"), ShouldEqual, codes.Jumping)
			So(codes.DisciplineFromFFE("03"), ShouldEqual, codes.Dressage)
			So(codes.DisciplineFromFFE("4"), ShouldEqual, codes.Eventing)
			So(codes.DisciplineFromFFE("11"), ShouldEqual, codes.Trec)
		})

		Convey("When the code is unknown or empty", func() {
			Convey("Then it falls back to jumping", func() {
				So(codes.DisciplineFromFFE("42"), ShouldEqual, codes.Jumping)
				So(codes.DisciplineFromFFE(""), ShouldEqual, codes.Jumping)
			})
		})

		Convey("When mapping to the fixed-width discipline code", func() {
			So(codes.Jumping.FFECompet(), ShouldEqual, "HU")
			So(codes.Dressage.FFECompet(), ShouldEqual, "DR")
			So(codes.Eventing.FFECompet(), ShouldEqual, "CC")
			So(codes.DrivingAlt.FFECompet(), ShouldEqual, "AT")
			So(codes.Endurance.FFECompet(), ShouldEqual, "EN")
			So(codes.Discipline("Z").FFECompet(), ShouldEqual, "HU")
		})

		Convey("When choosing a result layout", func() {
			So(codes.Dressage.ResultRecord(), ShouldEqual, codes.RecordDressage)
			So(codes.Driving.ResultRecord(), ShouldEqual, codes.RecordDriving)
			So(codes.Vaulting.ResultRecord(), ShouldEqual, codes.RecordJumping)
		})

		Convey("When parsing a platform letter", func() {
			So(codes.ParseDiscipline("d"), ShouldEqual, codes.Dressage)
			So(codes.ParseDiscipline(""), ShouldEqual, codes.Jumping)
		})
	})
}

func TestStatus(t *testing.T) {
	Convey("Given a result to classify", t, func() {
		Convey("When the source code says eliminated", func() {
			Convey("Then the rank is ignored", func() {
				st := codes.ResolveStatus(codes.StatusInput{Or: "D", Rank: 1, RankSet: true, HasScores: true})
				So(st, ShouldEqual, codes.Eliminated)
			})
		})

		Convey("When the other source codes are set", func() {
			So(codes.ResolveStatus(codes.StatusInput{Or: "U"}), ShouldEqual, codes.Retired)
			So(codes.ResolveStatus(codes.StatusInput{Or: "E"}), ShouldEqual, codes.Eliminated)
			So(codes.ResolveStatus(codes.StatusInput{Or: "S"}), ShouldEqual, codes.Disqualified)
			So(codes.ResolveStatus(codes.StatusInput{Or: "A"}), ShouldEqual, codes.NotStarted)
		})

		Convey("When the legacy absence marker is set", func() {
			So(codes.ResolveStatus(codes.StatusInput{A: "Ö", Rank: 3, RankSet: true}), ShouldEqual, codes.NotStarted)
		})

		Convey("When the rank is the sentinel and nothing else is set", func() {
			So(codes.ResolveStatus(codes.StatusInput{Rank: 999, RankSet: true}), ShouldEqual, codes.NotStarted)
			So(codes.ResolveStatus(codes.StatusInput{}), ShouldEqual, codes.NotStarted)
		})

		Convey("When the rank is the sentinel but scores exist", func() {
			So(codes.ResolveStatus(codes.StatusInput{Rank: 999, RankSet: true, HasScores: true}), ShouldEqual, codes.Finished)
		})

		Convey("When rendering for the exports", func() {
			So(codes.Finished.WinJump(), ShouldEqual, "")
			So(codes.Disqualified.WinJump(), ShouldEqual, "DISQ")
			So(codes.Retired.WinJump(), ShouldEqual, "AB")
			So(codes.Finished.Delimited(), ShouldEqual, "T")
			So(codes.Disqualified.Delimited(), ShouldEqual, "E")
			So(codes.NotStarted.Delimited(), ShouldEqual, "N")
		})
	})
}

func TestLevel(t *testing.T) {
	Convey("Given level letters", t, func() {
		l, ok := codes.ParseLevel(" n ")
		So(ok, ShouldBeTrue)
		So(l, ShouldEqual, codes.LevelNational)

		_, ok = codes.ParseLevel("Q")
		So(ok, ShouldBeFalse)
		So(codes.LevelOrDefault("Q"), ShouldEqual, codes.LevelInternational)
		So(codes.LevelLocal.SIFXML(), ShouldEqual, "DEPARTEMENTAL")
		So(codes.LevelLocal.SIFText(), ShouldEqual, "LOCAL")
		So(codes.LevelClub.SIFText(), ShouldEqual, "CLUB")
	})
}

func TestHorseTables(t *testing.T) {
	Convey("Given horse descriptions", t, func() {
		Convey("When mapping the sex", func() {
			So(codes.HorseGender("JUMENT"), ShouldEqual, codes.Mare)
			So(codes.HorseGender("Hongre"), ShouldEqual, codes.Gelding)
			So(codes.HorseGender("Étalon"), ShouldEqual, codes.Stallion)
			So(codes.HorseGender("entier"), ShouldEqual, codes.Stallion)
			So(codes.HorseGender("?"), ShouldEqual, codes.Gelding)
			So(codes.Stallion.SIF(), ShouldEqual, "E")
			So(codes.Mare.Label(), ShouldEqual, "Jument")
		})

		Convey("When mapping breed and color", func() {
			So(codes.Breed("Selle Français"), ShouldEqual, "SF")
			So(codes.Breed("Anglo-arabe"), ShouldEqual, "AES")
			So(codes.Breed("Zangersheide"), ShouldEqual, "ZANG")
			So(codes.Breed("Mustang"), ShouldEqual, codes.DefaultBreed)
			So(codes.Color("alezan brûlé"), ShouldEqual, "ALEZAN")
			So(codes.Color("Isabelle"), ShouldEqual, "ISABELLA")
			So(codes.Color(""), ShouldEqual, codes.DefaultColor)
		})
	})
}

func TestDepartmentAndPeople(t *testing.T) {
	Convey("Given department numbers", t, func() {
		So(codes.DepartmentName("7"), ShouldEqual, "Ardèche")
		So(codes.DepartmentName("95"), ShouldEqual, "Val-d'Oise")
		So(codes.DepartmentName("20"), ShouldEqual, codes.DefaultDepartment)
		So(codes.DepartmentName("2a"), ShouldEqual, "Corse-du-Sud")
		So(codes.DepartmentName("abc"), ShouldEqual, codes.DefaultDepartment)
	})

	Convey("Given people to address", t, func() {
		So(codes.Titre("F", "Paul"), ShouldEqual, "Mme")
		So(codes.Titre("", "Chloé"), ShouldEqual, "Mme")
		So(codes.Titre("", "Marie-Hélène"), ShouldEqual, "Mme")
		So(codes.Titre("M", "Paul"), ShouldEqual, "M")
	})

	Convey("Given birth dates", t, func() {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		So(codes.AgeCodeFor(time.Time{}, now), ShouldEqual, codes.AgeSenior)
		So(codes.AgeCodeFor(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), now), ShouldEqual, codes.AgeMajor)
		So(codes.AgeCodeFor(time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC), now), ShouldEqual, codes.AgeYoungRider)
		So(codes.AgeCodeFor(time.Date(2008, 12, 1, 0, 0, 0, 0, time.UTC), now), ShouldEqual, codes.AgeJunior)
		So(codes.AgeCodeFor(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), now), ShouldEqual, codes.AgePony)
		So(codes.AgeYoungRider.Label(), ShouldEqual, "Young Riders")
	})
}

func TestJudgementID(t *testing.T) {
	Convey("Given protocol versions", t, func() {
		id, ok := codes.JudgementID("1218")
		So(ok, ShouldBeTrue)
		So(id, ShouldEqual, 11227)

		_, ok = codes.JudgementID("9999")
		So(ok, ShouldBeFalse)
	})
}
