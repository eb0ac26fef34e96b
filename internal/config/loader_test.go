package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/ffebridge/internal/config"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		t.Setenv(config.EnvDotenv, filepath.Join(dir, "missing.env"))
		t.Setenv(config.EnvConfig, "")

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.ReadTimeout, convey.ShouldEqual, 30*time.Second)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("FFEBRIDGE_ADDR", ":8080")
			t.Setenv("FFEBRIDGE_CHECK_TIMEOUT", "2s")
			t.Setenv("FFEBRIDGE_CHECK_CONCURRENCY", "8")
			t.Setenv("FFEBRIDGE_CORS_ORIGINS", "https://a.test,https://b.test")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CheckTimeout, convey.ShouldEqual, 2*time.Second)
				convey.So(cfg.CheckConcurrency, convey.ShouldEqual, 8)
				convey.So(cfg.CORSOrigins, convey.ShouldResemble, []string{"https://a.test", "https://b.test"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := filepath.Join(dir, "config.yaml")
			convey.So(os.WriteFile(path, []byte("addr: \":9090\"\ndefault_level: N\nbatch_timeout: 90s\n"), 0o600), convey.ShouldBeNil)
			t.Setenv(config.EnvConfig, path)
			t.Setenv("FFEBRIDGE_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.DefaultLevel, convey.ShouldEqual, "N")
				convey.So(cfg.BatchTimeout, convey.ShouldEqual, 90*time.Second)
			})
		})

		convey.Convey("When a dotenv file is present", func() {
			path := filepath.Join(dir, "bridge.env")
			convey.So(os.WriteFile(path, []byte("FFEBRIDGE_TOKEN_SECRET=from-dotenv\n"), 0o600), convey.ShouldBeNil)
			t.Setenv(config.EnvDotenv, path)
			t.Cleanup(func() { _ = os.Unsetenv("FFEBRIDGE_TOKEN_SECRET") })

			cfg, err := config.Load(ctx)

			convey.Convey("Then its variables are read", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TokenSecret, convey.ShouldEqual, "from-dotenv")
			})
		})

		convey.Convey("When loading config with an invalid YAML file", func() {
			path := filepath.Join(dir, "bad.yaml")
			convey.So(os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600), convey.ShouldBeNil)
			t.Setenv(config.EnvConfig, path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-existent file", func() {
			t.Setenv(config.EnvConfig, "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty addr", func() {
			t.Setenv("FFEBRIDGE_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an invalid duration", func() {
			t.Setenv("FFEBRIDGE_READ_TIMEOUT", "soon")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}
