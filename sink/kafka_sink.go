package sink

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	kafka "github.com/segmentio/kafka-go"

	"github.com/socialmux/cleanser/model"
)

const defaultCompletionTopic = "cleaning.completed"

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink publishes completion events to a Kafka topic, keyed by raw data
// id so retries for the same record land on the same partition.
type KafkaSink struct {
	writer kafkaMessageWriter
}

// NewKafkaSink connects to a broker list, comma separated. Topic defaults to
// cleaning.completed when empty.
func NewKafkaSink(bootstrap, topic string) *KafkaSink {
	if topic == "" {
		topic = defaultCompletionTopic
	}
	var brokers []string
	for _, a := range strings.Split(bootstrap, ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			brokers = append(brokers, a)
		}
	}
	return &KafkaSink{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}}
}

// NewKafkaSinkFromEnv reads COMPLETION_KAFKA_BROKERS and
// COMPLETION_KAFKA_TOPIC.
func NewKafkaSinkFromEnv() *KafkaSink {
	return NewKafkaSink(
		os.Getenv("COMPLETION_KAFKA_BROKERS"),
		os.Getenv("COMPLETION_KAFKA_TOPIC"),
	)
}

func (s *KafkaSink) Push(ctx context.Context, event *model.CompletionEvent) error {
	if event == nil {
		return nil
	}
	serialized, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal completion event")
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.RawDataId),
		Value: serialized,
	})
}

func (s *KafkaSink) Healthy() bool {
	return s.writer != nil
}
