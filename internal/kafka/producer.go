package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"ms-booking/internal/models"
)

// Producer streams committed booking records to Kafka. Publishing happens
// after the database transaction commits; failures are surfaced to the
// caller but never roll a booking back.
type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

// PublishBookingCreated streams one booking audit record.
func (p *Producer) PublishBookingCreated(booking models.Booking) error {
	msgBytes, err := json.Marshal(booking)
	if err != nil {
		return fmt.Errorf("marshal booking: %w", err)
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(booking.Reference),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NoopProducer satisfies the booking service's publisher when Kafka is
// disabled by configuration.
type NoopProducer struct{}

func (NoopProducer) PublishBookingCreated(models.Booking) error { return nil }
