package service

import (
	"time"

	"github.com/okian/ffebridge/internal/adapters/mq/worker"
	"github.com/okian/ffebridge/internal/adapters/platform"
	"github.com/okian/ffebridge/internal/auth"
	"github.com/okian/ffebridge/internal/domain/codes"
	"github.com/okian/ffebridge/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder replaces the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithCheckConcurrency caps the parallel platform reads of the checks and
// the global export.
func WithCheckConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithPoolObserver records the fan-out jobs.
func WithPoolObserver(o worker.Observer) Option {
	return func(s *Service) { s.poolObserver = o }
}

// WithPlatformOptions are applied to every platform client.
func WithPlatformOptions(opts ...platform.Option) Option {
	return func(s *Service) {
		s.platformOpts = append(s.platformOpts, opts...)
	}
}

// WithConnector replaces the platform client factory.
func WithConnector(c Connector) Option {
	return func(s *Service) {
		if c != nil {
			s.connect = c
		}
	}
}

// WithTokenDecoder enables bearer token credentials.
func WithTokenDecoder(d *auth.Decoder) Option {
	return func(s *Service) { s.decoder = d }
}

// WithDefaultLevel sets the level sent for competitions without override.
func WithDefaultLevel(l codes.Level) Option {
	return func(s *Service) {
		if l != "" {
			s.defaultLevel = l
		}
	}
}

// WithSoftwareTags overrides the fixed-width 00 line tags.
func WithSoftwareTags(single, global string) Option {
	return func(s *Service) {
		s.tag, s.globalTag = single, global
	}
}

// WithClock sets the clock used by the parser and the encoders.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
