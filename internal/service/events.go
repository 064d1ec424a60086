package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"qr-ordering/internal/connections/rabbitmq"
	"qr-ordering/internal/domain"
	"qr-ordering/internal/realtime"
)

// AMQPEventPublisher mirrors order events onto the fanout exchange using the
// same payload shape the websocket clients receive.
type AMQPEventPublisher struct {
	client *rabbitmq.Client
}

func NewAMQPEventPublisher(client *rabbitmq.Client) *AMQPEventPublisher {
	return &AMQPEventPublisher{client: client}
}

func (p *AMQPEventPublisher) PublishOrderEvent(ctx context.Context, eventType string, o domain.Order) error {
	body, err := json.Marshal(realtime.OrderEvent(eventType, o))
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.client.Publish(pctx, rabbitmq.OrderEventsExchange, eventType, body)
}

// NopEventPublisher is used when RabbitMQ is disabled in config.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishOrderEvent(context.Context, string, domain.Order) error { return nil }
