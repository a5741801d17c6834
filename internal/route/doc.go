// Package route восстанавливает упорядоченный маршрут линии из её sections.
//
// Включает:
//   - route.go — Assemble/Build: сборка пути из неупорядоченного набора рёбер
//   - plan.go  — проверка формы пути при записи (добавление section, удаление станции)
//
// Sections линии должны образовывать один простой путь. Любое нарушение
// (ветвление, цикл, разрыв) детерминированно возвращается как *ShapeError.
package route
