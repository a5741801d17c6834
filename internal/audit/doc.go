// Package audit проверяет, что sections каждой линии образуют один путь.
//
// Аудит запускается двумя способами:
//   - по расписанию (cron-выражение AUDIT_CRON) — все линии, только ведущим экземпляром
//   - по событию из очереди lines.audit — одна линия, сразу после изменения
//
// Результат виден в метриках subway_audit_* и в логах.
package audit
