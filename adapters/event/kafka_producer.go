package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/folio/internal/config"
)

const (
	TopicPortfolioEvents = "portfolio.events"
)

type PortfolioEventType string

const (
	PortfolioEventTypeSaved   PortfolioEventType = "saved"
	PortfolioEventTypeDeleted PortfolioEventType = "deleted"
	PortfolioEventTypeVoted   PortfolioEventType = "voted"
)

type PortfolioEventPayload struct {
	EventType   PortfolioEventType `json:"event_type"`
	PortfolioID string             `json:"portfolio_id"`
	UserID      string             `json:"user_id"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducerClient struct {
	PortfolioEventsWriter messageWriter
}

func NewKafkaProducerClient(cfg config.Config) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	portfolioWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicPortfolioEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	return &KafkaProducerClient{PortfolioEventsWriter: portfolioWriter}, nil
}

// PublishPortfolioEvent keys the message by portfolio id so events for one
// portfolio stay ordered within a partition.
func (c *KafkaProducerClient) PublishPortfolioEvent(ctx context.Context, payload PortfolioEventPayload) error {
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal portfolio event: %w", err)
	}
	err = c.PortfolioEventsWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(payload.PortfolioID),
		Value: body,
	})
	if err != nil {
		return fmt.Errorf("write portfolio event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.PortfolioEventsWriter != nil {
		c.PortfolioEventsWriter.Close()
	}
}
