package route

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shaiso/subway/internal/domain"
)

// Route — упорядоченный маршрут линии.
type Route struct {
	// Stations — станции от начала пути до конца. Длина = len(Sections)+1
	// (или 0 для линии без sections).
	Stations []uuid.UUID

	// Sections — рёбра в порядке обхода: Sections[i] соединяет
	// Stations[i] и Stations[i+1].
	Sections []domain.Section
}

// Assemble возвращает упорядоченные ID станций для набора sections одной линии.
//
// Порядок входных sections не влияет на результат. Пустой набор даёт пустой
// маршрут. Если sections не образуют один простой путь, возвращается *ShapeError.
func Assemble(sections []domain.Section) ([]uuid.UUID, error) {
	r, err := Build(sections)
	if err != nil {
		return nil, err
	}
	return r.Stations, nil
}

// Build строит Route из неупорядоченного набора sections.
//
// Алгоритм:
//  1. Строим отображение up → section и множество down-станций.
//     Повторный up или down означает ветвление.
//  2. Начало пути — единственная up-станция, которая не встречается как down.
//  3. Идём по отображению от начала, пока есть исходящее ребро.
//  4. Длина обхода должна быть len(sections)+1, иначе есть отдельный цикл.
func Build(sections []domain.Section) (*Route, error) {
	if len(sections) == 0 {
		return &Route{
			Stations: []uuid.UUID{},
			Sections: []domain.Section{},
		}, nil
	}

	next := make(map[uuid.UUID]domain.Section, len(sections))
	downs := make(map[uuid.UUID]struct{}, len(sections))

	for _, s := range sections {
		if s.IsSelfLoop() {
			return nil, newShapeError(s.UpStationID,
				fmt.Sprintf("section %s starts and ends here", s.ID), ErrSelfLoop)
		}
		if _, dup := next[s.UpStationID]; dup {
			return nil, newShapeError(s.UpStationID,
				"more than one section leaves this station", ErrBranching)
		}
		if _, dup := downs[s.DownStationID]; dup {
			return nil, newShapeError(s.DownStationID,
				"more than one section arrives at this station", ErrBranching)
		}
		next[s.UpStationID] = s
		downs[s.DownStationID] = struct{}{}
	}

	// Ищем начало в порядке входа, чтобы ошибка была детерминированной.
	var start uuid.UUID
	starts := 0
	for _, s := range sections {
		if _, isDown := downs[s.UpStationID]; isDown {
			continue
		}
		starts++
		if starts == 1 {
			start = s.UpStationID
		}
	}

	if starts == 0 {
		return nil, newShapeError(uuid.Nil, "route has no start station", ErrCycle)
	}
	if starts > 1 {
		return nil, newShapeError(start,
			fmt.Sprintf("route has %d start stations", starts), ErrDisconnected)
	}

	r := &Route{
		Stations: make([]uuid.UUID, 0, len(sections)+1),
		Sections: make([]domain.Section, 0, len(sections)),
	}
	visited := make(map[uuid.UUID]struct{}, len(sections)+1)

	cur := start
	r.Stations = append(r.Stations, cur)
	visited[cur] = struct{}{}

	for {
		s, ok := next[cur]
		if !ok {
			break
		}
		if _, seen := visited[s.DownStationID]; seen {
			return nil, newShapeError(s.DownStationID, "route returns to a visited station", ErrCycle)
		}
		visited[s.DownStationID] = struct{}{}
		r.Stations = append(r.Stations, s.DownStationID)
		r.Sections = append(r.Sections, s)
		cur = s.DownStationID
	}

	if len(r.Stations) != len(sections)+1 {
		return nil, newShapeError(uuid.Nil,
			fmt.Sprintf("walked %d of %d sections", len(r.Sections), len(sections)), ErrDisconnected)
	}

	return r, nil
}

// IsEmpty возвращает true для линии без sections.
func (r *Route) IsEmpty() bool {
	return len(r.Stations) == 0
}

// First возвращает начальную станцию (uuid.Nil для пустого маршрута).
func (r *Route) First() uuid.UUID {
	if r.IsEmpty() {
		return uuid.Nil
	}
	return r.Stations[0]
}

// Last возвращает конечную станцию (uuid.Nil для пустого маршрута).
func (r *Route) Last() uuid.UUID {
	if r.IsEmpty() {
		return uuid.Nil
	}
	return r.Stations[len(r.Stations)-1]
}

// IndexOf возвращает позицию станции в маршруте или -1.
func (r *Route) IndexOf(stationID uuid.UUID) int {
	for i, id := range r.Stations {
		if id == stationID {
			return i
		}
	}
	return -1
}

// Contains проверяет, входит ли станция в маршрут.
func (r *Route) Contains(stationID uuid.UUID) bool {
	return r.IndexOf(stationID) >= 0
}

// TotalDistance возвращает длину маршрута.
func (r *Route) TotalDistance() int {
	total := 0
	for _, s := range r.Sections {
		total += s.Distance
	}
	return total
}
