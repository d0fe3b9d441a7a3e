package event

import (
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/folio/internal/config"
)

func NewPortfolioEventReader(cfg config.Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    TopicPortfolioEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
}

func DecodePortfolioEvent(msg kafka.Message) (PortfolioEventPayload, error) {
	var payload PortfolioEventPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return payload, fmt.Errorf("unmarshal portfolio event: %w", err)
	}
	if payload.PortfolioID == "" {
		return payload, fmt.Errorf("portfolio event without portfolio id")
	}
	return payload, nil
}
