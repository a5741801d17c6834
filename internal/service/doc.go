// Package service содержит бизнес-логику метро.
//
// Структура:
//   - store.go   — интерфейсы хранилищ (реализуются repo и repo/memstore)
//   - errors.go  — типизированные ошибки для слоя API
//   - line.go    — LineService: линии, маршрут, sections
//   - station.go — StationService: станции
//
// Сервисы не знают о конкретном хранилище и транспорте: API вызывает их
// методы и переводит ошибки в HTTP-ответы.
package service
