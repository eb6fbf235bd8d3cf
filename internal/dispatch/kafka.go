package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/climatesense/climatesense/internal/store"
)

// KafkaPublisher publishes alert records to a Kafka topic, keyed by city so
// alerts for one location stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) Dispatch(ctx context.Context, rec store.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("serializing alert record: %w", err)
	}
	msg := kafkago.Message{
		Key:   []byte(rec.City),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "severity", Value: []byte(rec.Report.FinalLevel)},
			{Key: "observed_at", Value: []byte(rec.Timestamp.Format(time.RFC3339))},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing alert for %s: %w", rec.City, err)
	}
	p.logger.Info("alert published", "city", rec.City, "severity", rec.Report.FinalLevel)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
