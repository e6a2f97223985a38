package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher emits events to a single topic.
type KafkaPublisher struct {
	brokers string
	topic   string
}

// NewKafkaPublisher constructs a Kafka-backed publisher.
func NewKafkaPublisher(brokers, topic string) *KafkaPublisher {
	if topic == "" {
		topic = "inspector.events"
	}
	return &KafkaPublisher{brokers: brokers, topic: topic}
}

func (k *KafkaPublisher) ensure() error {
	if k.brokers == "" {
		return errors.New("kafka brokers not configured")
	}
	return nil
}

func (k *KafkaPublisher) writer() *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(k.brokers),
		Topic:        k.topic,
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if err := k.ensure(); err != nil {
		return err
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().Unix()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	w := k.writer()
	defer w.Close()
	return w.WriteMessages(ctx, kafka.Message{Key: []byte(evt.Key), Value: data})
}
