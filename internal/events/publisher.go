// Package events publishes booking lifecycle events for downstream
// consumers (analytics, CRM sync). Publishing is fire-and-forget; a failed
// publish never fails the request that triggered it.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"shelby-backend/internal/models"
)

const (
	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
)

type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"bookingId"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	Services   []string  `json:"services"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, booking models.Booking) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishBookingEvent(ctx context.Context, eventType string, booking models.Booking) error {
	event := BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		UserID:     booking.UserID,
		Status:     booking.Status,
		Date:       booking.Date,
		Time:       booking.Time,
		Services:   booking.Services,
		Total:      booking.Total,
		OccurredAt: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(booking.ID),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func NewNoop() *NoopPublisher {
	return &NoopPublisher{}
}

func (n *NoopPublisher) PublishBookingEvent(ctx context.Context, eventType string, booking models.Booking) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
