// Package mq — события об изменении линий через RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ и переподключение
//   - topology.go   — exchanges, очереди, bindings
//   - publisher.go  — публикация событий линий (реализует service.EventPublisher)
//   - consumer.go   — потребление событий (аудитор маршрутов)
//
// Exchanges:
//   - subway.lines — topic, routing key совпадает с типом события (line.created, ...)
//   - subway.dlq   — сообщения, которые не удалось обработать
//
// Очереди:
//   - lines.audit  — события, меняющие маршрут; читает subway-auditor
//   - dlq.lines    — dead letter очередь для lines.audit
package mq
