package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/subway/internal/domain"
)

// MessageType — тип сообщения; для событий линий совпадает с domain.LineEventType.
type MessageType string

// Message — конверт сообщения в очереди.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Payload   any         `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage создаёт конверт с новым ID.
func NewMessage(t MessageType, payload any) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{conn: conn, logger: logger}
}

// Publish отправляет msg в exchange с ключом key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, key RoutingKey, msg *Message) error {
	publishing, err := encode(msg)
	if err != nil {
		return err
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := ch.PublishWithContext(ctx, string(exchange), string(key), false, false, publishing); err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, key, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", key,
			"message_id", msg.ID,
			"type", msg.Type,
		)
		return nil
	})
}

// PublishLineEvent публикует событие линии в subway.lines.
func (p *Publisher) PublishLineEvent(ctx context.Context, event domain.LineEvent) error {
	msg := NewMessage(MessageType(event.Type), event)
	return p.Publish(ctx, ExchangeLines, RoutingKeyFor(event.Type), msg)
}

// encode превращает конверт в persistent AMQP сообщение.
func encode(msg *Message) (amqp.Publishing, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal message: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.ID,
		Type:         string(msg.Type),
		Timestamp:    msg.Timestamp,
		Body:         body,
	}, nil
}
