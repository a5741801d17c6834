package route

import (
	"github.com/google/uuid"
	"github.com/shaiso/subway/internal/domain"
)

// Position — куда присоединяется новый section.
type Position int

const (
	// PositionInitial — первый section пустой линии.
	PositionInitial Position = iota
	// PositionAppend — section продолжает путь после последней станции.
	PositionAppend
	// PositionPrepend — section ведёт к первой станции пути.
	PositionPrepend
)

// String возвращает имя позиции для логов.
func (p Position) String() string {
	switch p {
	case PositionAppend:
		return "append"
	case PositionPrepend:
		return "prepend"
	default:
		return "initial"
	}
}

// PlanExtension проверяет, что section up → down сохраняет форму пути.
//
// Разрешены только продолжения с концов: up == Last() с новой down-станцией
// или down == First() с новой up-станцией.
func PlanExtension(r *Route, up, down uuid.UUID) (Position, error) {
	if up == down {
		return 0, newShapeError(up, "section starts and ends here", ErrSelfLoop)
	}

	if r == nil || r.IsEmpty() {
		return PositionInitial, nil
	}

	switch {
	case up == r.Last():
		if r.Contains(down) {
			return 0, newShapeError(down, "station is already on the route", ErrCycle)
		}
		return PositionAppend, nil

	case down == r.First():
		if r.Contains(up) {
			return 0, newShapeError(up, "station is already on the route", ErrCycle)
		}
		return PositionPrepend, nil
	}

	return 0, newShapeError(uuid.Nil, "section does not touch the first or last station", ErrNotExtendable)
}

// Removal — изменения sections при удалении станции из маршрута.
type Removal struct {
	// Remove — ID sections, которые нужно удалить.
	Remove []uuid.UUID

	// Merged — section, заменяющий два соседних (только для внутренней станции).
	Merged *domain.Section
}

// PlanRemoval вычисляет, как убрать станцию из маршрута.
//
// Для конечной станции удаляется её единственный section. Для внутренней —
// два соседних section заменяются одним с суммарным расстоянием.
func PlanRemoval(r *Route, stationID uuid.UUID) (*Removal, error) {
	idx := -1
	if r != nil {
		idx = r.IndexOf(stationID)
	}
	if idx < 0 {
		return nil, newShapeError(stationID, "station is not on the route", ErrStationNotOnRoute)
	}
	if len(r.Sections) <= 1 {
		return nil, newShapeError(stationID, "line has a single section", ErrLastSection)
	}

	last := len(r.Stations) - 1

	switch idx {
	case 0:
		return &Removal{Remove: []uuid.UUID{r.Sections[0].ID}}, nil
	case last:
		return &Removal{Remove: []uuid.UUID{r.Sections[len(r.Sections)-1].ID}}, nil
	}

	before := r.Sections[idx-1]
	after := r.Sections[idx]

	return &Removal{
		Remove: []uuid.UUID{before.ID, after.ID},
		Merged: domain.NewSection(before.LineID, before.UpStationID, after.DownStationID,
			before.Distance+after.Distance),
	}, nil
}
