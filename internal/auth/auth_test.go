package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/ffebridge/internal/auth"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDecoder(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	dec := auth.NewDecoder("s3cret", auth.WithClock(func() time.Time { return now }))

	Convey("Given a launch token", t, func() {
		Convey("Then the top level key and the payload URL are used", func() {
			tok := sign(t, "s3cret", jwt.MapClaims{
				"api_key": "key-1",
				"payload": map[string]any{"meeting_url": "https://x.test/meetings/1", "target": "api", "api_key": "ignored"},
				"exp":     now.Add(time.Minute).Unix(),
			})
			creds, err := dec.Decode("Bearer " + tok)
			So(err, ShouldBeNil)
			So(creds.APIKey, ShouldEqual, "key-1")
			So(creds.MeetingURL, ShouldEqual, "https://x.test/meetings/1")
			So(creds.Target, ShouldEqual, "api")
		})

		Convey("Then nested and top level fallbacks apply", func() {
			tok := sign(t, "s3cret", jwt.MapClaims{
				"meeting_url": "https://x.test/m/2",
				"payload":     map[string]any{"api_key": "key-2"},
			})
			creds, err := dec.Decode(tok)
			So(err, ShouldBeNil)
			So(creds.APIKey, ShouldEqual, "key-2")
			So(creds.MeetingURL, ShouldEqual, "https://x.test/m/2")
		})

		Convey("Then a token expired within the leeway passes", func() {
			tok := sign(t, "s3cret", jwt.MapClaims{
				"api_key": "k", "meeting_url": "u",
				"exp": now.Add(-30 * time.Second).Unix(),
			})
			_, err := dec.Decode(tok)
			So(err, ShouldBeNil)
		})

		Convey("Then a token expired beyond the leeway fails", func() {
			tok := sign(t, "s3cret", jwt.MapClaims{
				"api_key": "k", "meeting_url": "u",
				"exp": now.Add(-2 * time.Minute).Unix(),
			})
			_, err := dec.Decode(tok)
			So(errors.Is(err, auth.ErrInvalidToken), ShouldBeTrue)
		})

		Convey("Then a wrong secret fails", func() {
			tok := sign(t, "other", jwt.MapClaims{"api_key": "k", "meeting_url": "u"})
			_, err := dec.Decode(tok)
			So(errors.Is(err, auth.ErrInvalidToken), ShouldBeTrue)
		})

		Convey("Then missing claims are reported", func() {
			tok := sign(t, "s3cret", jwt.MapClaims{"api_key": "k"})
			_, err := dec.Decode(tok)
			So(errors.Is(err, auth.ErrMissingClaim), ShouldBeTrue)
		})

		Convey("Then garbage and empty tokens fail", func() {
			_, err := dec.Decode("not.a.token")
			So(errors.Is(err, auth.ErrInvalidToken), ShouldBeTrue)
			_, err = dec.Decode("  ")
			So(errors.Is(err, auth.ErrInvalidToken), ShouldBeTrue)
			_, err = auth.NewDecoder("").Decode("a.b.c")
			So(errors.Is(err, auth.ErrInvalidToken), ShouldBeTrue)
		})
	})
}
