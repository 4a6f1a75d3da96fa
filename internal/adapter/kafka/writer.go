package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/ipma-weather/internal/config"
	"github.com/couchcryptid/ipma-weather/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
)

// Message kinds written to the "kind" header.
const (
	KindObservation = "observation"
	KindForecast    = "forecast"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes one-shot weather snapshots to a Kafka topic.
type Writer struct {
	writer messageWriter
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, clock: clock, logger: logger}
}

// PublishObservations writes one message per station, keyed by station name.
func (w *Writer) PublishObservations(ctx context.Context, results []domain.WeatherResult) error {
	msgs := make([]kafkago.Message, 0, len(results))
	now := w.clock.Now()
	for i := range results {
		msg, err := serializeToMessage(results[i].Location, KindObservation, results[i], now)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return w.publish(ctx, KindObservation, msgs)
}

// PublishForecast writes one message per forecast day, keyed by location and date.
func (w *Writer) PublishForecast(ctx context.Context, results []domain.ForecastResult) error {
	msgs := make([]kafkago.Message, 0, len(results))
	now := w.clock.Now()
	for i := range results {
		key := results[i].Location + "|" + results[i].Date
		msg, err := serializeToMessage(key, KindForecast, results[i], now)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return w.publish(ctx, KindForecast, msgs)
}

func (w *Writer) publish(ctx context.Context, kind string, msgs []kafkago.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %s snapshot: %w", kind, err)
	}
	w.logger.Info("snapshot published", "kind", kind, "messages", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a result into a Kafka message.
func serializeToMessage(key, kind string, v any, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s: %w", kind, err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "kind", Value: []byte(kind)},
			{Key: "published_at", Value: []byte(publishedAt.Format(time.RFC3339))},
		},
	}, nil
}
