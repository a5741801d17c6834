// Package cli — команды subway CLI поверх HTTP API.
//
// Структура:
//   - client.go  — HTTP-клиент API (типы ответов дублируются, internal/api не импортируется)
//   - output.go  — вывод таблицей или JSON
//   - station.go — subway station ...
//   - line.go    — subway line ...
//   - seed.go    — subway seed FILE: загрузка сети из YAML
package cli
