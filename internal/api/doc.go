// Package api — HTTP API сети метро.
//
// Структура:
//   - handler.go         — Handler с DI (сервисы, rate limiter, logger)
//   - routes.go          — регистрация маршрутов /api/v1
//   - middleware.go      — logging + метрики, recovery, tracing, rate limit
//   - ratelimit.go       — token bucket на клиента
//   - response.go        — JSON-конверты и перевод ошибок сервисов в HTTP
//   - validate.go        — разбор и валидация тел запросов
//   - dto.go             — request/response структуры
//   - station_handler.go — /stations
//   - line_handler.go    — /lines и их sections
package api
