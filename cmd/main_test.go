package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/ffebridge/internal/config"
	"github.com/okian/ffebridge/pkg/logger"
)

func TestNewHandler(t *testing.T) {
	convey.Convey("Given a configuration loaded from the environment", t, func() {
		t.Setenv("FFEBRIDGE_ADDR", ":9090")
		t.Setenv("FFEBRIDGE_TOKEN_SECRET", "s3cret")
		t.Setenv("FFEBRIDGE_DOTENV", "does-not-exist.env")

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":9090")

		registerRuntimeCollectors()
		h := newHandler(cfg, logger.Nop())

		convey.Convey("Then healthz answers", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("Then metrics include the runtime collectors", func() {
			registerRuntimeCollectors()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(rec.Body.String(), convey.ShouldContainSubstring, "go_goroutines")
		})

		convey.Convey("Then a bad token is refused before any platform call", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/competitions/check", strings.NewReader(`{}`))
			req.Header.Set("Authorization", "Bearer not-a-jwt")
			h.ServeHTTP(rec, req)
			convey.So(rec.Code, convey.ShouldEqual, http.StatusUnauthorized)
		})
	})
}
