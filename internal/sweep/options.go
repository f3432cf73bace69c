package sweep

import (
	"github.com/okian/territory/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent evaluations.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithMaxPoints caps the number of thresholds a single sweep may evaluate.
func WithMaxPoints(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.maxPoints = n
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
