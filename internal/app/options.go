package service

import (
	"time"

	"github.com/okian/territory/internal/adapters/publisher"
	"github.com/okian/territory/internal/adapters/source"
	"github.com/okian/territory/internal/domain/scoring"
	"github.com/okian/territory/internal/sweep"
	"github.com/okian/territory/pkg/logger"
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

// WithLoader sets the dataset loader used by Reload.
func WithLoader(l DatasetLoader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithSources sets where Reload reads the dataset from.
func WithSources(src source.Sources) Option {
	return func(s *Service) {
		s.sources = src
	}
}

// WithPublisher sets the run summary publisher.
func WithPublisher(p publisher.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithSweepPool sets the pool used for threshold sweeps.
func WithSweepPool(p *sweep.Pool) Option {
	return func(s *Service) {
		if p != nil {
			s.sweeper = p
		}
	}
}

// WithCacheSize caps the number of memoized runs. Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.cacheSize = n
		}
	}
}

// WithThreshold sets the default threshold and the accepted range.
func WithThreshold(def, minimum, maximum int) Option {
	return func(s *Service) {
		if minimum >= 0 && minimum <= def && def <= maximum {
			s.threshold, s.thresholdMin, s.thresholdMax = def, minimum, maximum
		}
	}
}

// WithWeights sets the default load weights.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		if w.Validate() == nil {
			s.weights = w
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunIDs overrides run id generation.
func WithRunIDs(next func() string) Option {
	return func(s *Service) {
		if next != nil {
			s.newID = next
		}
	}
}

// WithSystemMetricsInterval sets how often runtime metrics are sampled after Start.
func WithSystemMetricsInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.systemInterval = d
		}
	}
}

// WithAutoload controls whether Start reads the configured sources.
func WithAutoload(on bool) Option {
	return func(s *Service) {
		s.autoload = on
	}
}
