package kafka

import (
	"context"
	"fmt"
	"time"

	"myday-qr/internal/kafka"
	"myday-qr/internal/logger"
	"myday-qr/internal/models"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

type OrderEvent struct {
	Type           string             `json:"type"`
	OrderID        string             `json:"order_id"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previous_status,omitempty"`
	CustomerEmail  string             `json:"customer_email"`
	ProductName    string             `json:"product_name"`
	Price          float64            `json:"price"`
	ShortCode      string             `json:"short_code,omitempty"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

func NewOrderEvent(eventType string, order *models.Order, previous models.OrderStatus) OrderEvent {
	ev := OrderEvent{
		Type:           eventType,
		OrderID:        order.ID,
		Status:         order.Status,
		PreviousStatus: previous,
		CustomerEmail:  order.CustomerEmail,
		ProductName:    order.ProductName,
		Price:          order.Price,
		OccurredAt:     time.Now().UTC(),
	}
	if order.ShortCode != nil {
		ev.ShortCode = *order.ShortCode
	}
	return ev
}

// Producer publishes order lifecycle events. Publishing is best effort:
// failures are logged and never fail the request that caused them.
type Producer struct {
	Publisher kafka.Publisher
	Topics    kafka.Topics
	Logger    *logger.Logger
}

func NewProducer(publisher kafka.Publisher, topics kafka.Topics, log *logger.Logger) *Producer {
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}
	return &Producer{Publisher: publisher, Topics: topics, Logger: log}
}

func (p *Producer) publish(ctx context.Context, topic string, ev OrderEvent) {
	if err := p.Publisher.PublishJSON(ctx, topic, ev.OrderID, ev); err != nil {
		p.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for order %s: %v", ev.Type, ev.OrderID, err))
	}
}

func (p *Producer) PublishOrderCreated(ctx context.Context, order *models.Order) {
	p.publish(ctx, p.Topics.OrderCreated, NewOrderEvent(EventOrderCreated, order, ""))
}

func (p *Producer) PublishStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) {
	p.publish(ctx, p.Topics.OrderStatusChanged, NewOrderEvent(EventOrderStatusChanged, order, previous))
}

func (p *Producer) PublishOrderDeleted(ctx context.Context, order *models.Order) {
	p.publish(ctx, p.Topics.OrderDeleted, NewOrderEvent(EventOrderDeleted, order, ""))
}
