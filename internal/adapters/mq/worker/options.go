// Package worker runs independent jobs on a bounded pool of goroutines.
package worker

import (
	"github.com/okian/ffebridge/pkg/logger"
)

// Option applies a configuration option to a Pool.
type Option func(*Pool)

// WithName sets the pool name for identification and logging.
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithObserver records the duration and outcome of every job.
func WithObserver(o Observer) Option {
	return func(p *Pool) { p.observer = o }
}
