package service

import "errors"

// Ошибки сервисов. Возвращаются обёрнутыми через fmt.Errorf("%w: ..."),
// проверять через errors.Is.
var (
	// ErrDuplicateName — линия или станция с таким именем уже есть.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrInvalidName — пустое имя.
	ErrInvalidName = errors.New("name is required")

	// ErrStationNotFound — станция не найдена.
	ErrStationNotFound = errors.New("station not found")

	// ErrLineNotFound — линия не найдена.
	ErrLineNotFound = errors.New("line not found")

	// ErrInvalidSection — section некорректен (одинаковые станции,
	// неположительное расстояние, нарушение формы пути).
	ErrInvalidSection = errors.New("invalid section")

	// ErrStationInUse — станцию нельзя удалить, на неё ссылаются sections.
	ErrStationInUse = errors.New("station is used by a line")

	// ErrRouteConsistency — сохранённые sections не образуют маршрут
	// или ссылаются на несуществующую станцию.
	ErrRouteConsistency = errors.New("route is inconsistent")
)
