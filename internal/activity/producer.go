package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"sharc-gateway/internal/logger"
)

// RSVPActivity is the record published for every RSVP mutation that goes
// through the gateway. Downstream moderation and analytics consume it.
type RSVPActivity struct {
	EventID    int64     `json:"event_id"`
	UserID     int64     `json:"user_id,omitempty"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher abstracts the activity stream so handlers can run without
// Kafka in development.
type Publisher interface {
	PublishRSVP(activity RSVPActivity) error
}

type Producer struct {
	Writer *kafka.Writer
	Logger *logger.Logger
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer, Logger: log}
}

// PublishRSVP streams the activity record to Kafka, keyed by event id so
// one event's activity stays ordered within a partition.
func (p *Producer) PublishRSVP(activity RSVPActivity) error {
	msgBytes, err := json.Marshal(activity)
	if err != nil {
		return err
	}

	p.Logger.LogKafka("PUBLISH", p.Writer.Topic, string(msgBytes))

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(fmt.Sprintf("%d", activity.EventID)),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NoopPublisher drops activity records. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishRSVP(RSVPActivity) error { return nil }
