package service

import (
	"context"

	"github.com/khoahotran/folio/adapters/event"
)

// EventPublisher is satisfied by *event.KafkaProducerClient.
type EventPublisher interface {
	PublishPortfolioEvent(ctx context.Context, payload event.PortfolioEventPayload) error
}
