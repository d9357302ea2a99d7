package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher bridges the in-process event stream to a Kafka topic so
// external consumers (analytics, notification fan-out) can follow request
// lifecycles.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	w := kafka.NewWriter(kafka.WriterConfig{Brokers: brokers, Topic: topic, Balancer: &kafka.LeastBytes{}})
	return &KafkaPublisher{writer: w, logger: logger}
}

// Run consumes transitions until the channel closes or ctx is cancelled.
// Publish failures are logged and dropped; the event stream is outside the
// engine's failure domain.
func (k *KafkaPublisher) Run(ctx context.Context, transitions <-chan Transition) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-transitions:
			if !ok {
				return
			}
			if err := k.publish(t); err != nil {
				k.logger.Error("failed to publish transition to kafka",
					"request_id", t.RequestID,
					"new_state", t.NewState,
					"error", err,
				)
			}
		}
	}
}

func (k *KafkaPublisher) publish(t Transition) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(t.RequestID), Value: b})
}

func (k *KafkaPublisher) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}
