package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/subway/internal/domain"
)

// Exchange — имя обменника.
type Exchange string

// Queue — имя очереди.
type Queue string

// RoutingKey — ключ маршрутизации.
type RoutingKey string

const (
	ExchangeLines Exchange = "subway.lines"
	ExchangeDLQ   Exchange = "subway.dlq"
)

const (
	QueueLinesAudit Queue = "lines.audit"
	QueueDLQLines   Queue = "dlq.lines"
)

// RoutingKeyDLQLines — ключ, с которым отклонённые сообщения уходят в DLQ.
const RoutingKeyDLQLines RoutingKey = "lines"

// RoutingKeyFor возвращает ключ маршрутизации для события линии.
func RoutingKeyFor(t domain.LineEventType) RoutingKey {
	return RoutingKey(t)
}

// auditBindings — события, после которых маршрут линии нужно перепроверить.
func auditBindings() []RoutingKey {
	return []RoutingKey{
		RoutingKeyFor(domain.LineCreated),
		RoutingKeyFor(domain.LineSectionAdded),
		RoutingKeyFor(domain.LineStationRemoved),
	}
}

type binding struct {
	queue    Queue
	key      RoutingKey
	exchange Exchange
}

// bindings возвращает все привязки топологии.
func bindings() []binding {
	out := make([]binding, 0, 4)
	for _, key := range auditBindings() {
		out = append(out, binding{QueueLinesAudit, key, ExchangeLines})
	}
	return append(out, binding{QueueDLQLines, RoutingKeyDLQLines, ExchangeDLQ})
}

// SetupTopology объявляет exchanges, очереди и bindings. Идемпотентна.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		for _, ex := range []struct {
			name Exchange
			kind string
		}{
			{ExchangeLines, amqp.ExchangeTopic},
			{ExchangeDLQ, amqp.ExchangeDirect},
		} {
			if err := ch.ExchangeDeclare(string(ex.name), ex.kind, true, false, false, false, nil); err != nil {
				return fmt.Errorf("declare exchange %s: %w", ex.name, err)
			}
		}

		queues := []struct {
			name Queue
			args amqp.Table
		}{
			{QueueLinesAudit, amqp.Table{
				"x-dead-letter-exchange":    string(ExchangeDLQ),
				"x-dead-letter-routing-key": string(RoutingKeyDLQLines),
			}},
			{QueueDLQLines, nil},
		}
		for _, q := range queues {
			if _, err := ch.QueueDeclare(string(q.name), true, false, false, false, q.args); err != nil {
				return fmt.Errorf("declare queue %s: %w", q.name, err)
			}
		}

		for _, b := range bindings() {
			if err := ch.QueueBind(string(b.queue), string(b.key), string(b.exchange), false, nil); err != nil {
				return fmt.Errorf("bind %s to %s (%s): %w", b.queue, b.exchange, b.key, err)
			}
		}
		return nil
	})
}
