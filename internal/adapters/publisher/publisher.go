// Package publisher announces completed assignment runs to downstream consumers.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/okian/territory/internal/domain/scoring"
	"github.com/okian/territory/pkg/logger"
	"github.com/okian/territory/pkg/metrics"
)

// ErrPublish wraps every failed publish.
var ErrPublish = errors.New("publish run summary failed")

// RunSummary is the payload emitted after each computed run.
type RunSummary struct {
	RunID             string              `json:"run_id"`
	Threshold         int                 `json:"threshold"`
	Weights           scoring.Weights     `json:"weights"`
	Accounts          int                 `json:"accounts"`
	Reps              int                 `json:"reps"`
	LoadBalance       map[string]*float64 `json:"load_balance"`
	LocationMatchRate float64             `json:"location_match_rate"`
	ComputedAt        time.Time           `json:"computed_at"`
}

// Publisher sends run summaries.
type Publisher interface {
	Publish(ctx context.Context, s RunSummary) error
	Close() error
}

// Nop discards summaries.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, RunSummary) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }

// MessageWriter is the subset of *kafka.Writer used here.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes JSON summaries keyed by run id.
type Kafka struct {
	w     MessageWriter
	topic string
	log   logger.Logger
}

// Option configures a Kafka publisher.
type Option func(*Kafka)

// WithWriter replaces the underlying writer.
func WithWriter(w MessageWriter) Option {
	return func(k *Kafka) {
		if w != nil {
			k.w = w
		}
	}
}

// WithLogger sets the publisher logger.
func WithLogger(log logger.Logger) Option {
	return func(k *Kafka) {
		if log != nil {
			k.log = log
		}
	}
}

// NewKafka creates a publisher writing to topic on brokers.
func NewKafka(brokers []string, topic string, opts ...Option) *Kafka {
	k := &Kafka{
		topic: topic,
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.w == nil {
		k.w = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		}
	}
	return k
}

// Publish implements Publisher.
func (k *Kafka) Publish(ctx context.Context, s RunSummary) error {
	b, err := json.Marshal(s)
	if err != nil {
		metrics.RecordPublish(metrics.OutcomeError)
		return fmt.Errorf("%w: encode: %w", ErrPublish, err)
	}
	msg := kafka.Message{Key: []byte(s.RunID), Value: b, Time: s.ComputedAt}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		metrics.RecordPublish(metrics.OutcomeError)
		metrics.RecordErrorByComponent("publisher", "write")
		k.log.Warn(ctx, "run summary not published",
			logger.String("topic", k.topic),
			logger.String("run_id", s.RunID),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	metrics.RecordPublish(metrics.OutcomeOK)
	k.log.Debug(ctx, "run summary published", logger.String("topic", k.topic), logger.String("run_id", s.RunID))
	return nil
}

// Close flushes and closes the writer.
func (k *Kafka) Close() error {
	return k.w.Close()
}
