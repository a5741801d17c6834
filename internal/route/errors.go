package route

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidRoute — общая ошибка: sections не образуют один простой путь.
// Все ошибки формы оборачивают её вместе с конкретной причиной.
var ErrInvalidRoute = errors.New("sections do not form a single path")

// Ошибки формы пути.
var (
	// ErrSelfLoop — section ведёт из станции в неё же.
	ErrSelfLoop = errors.New("section starts and ends at the same station")

	// ErrBranching — станция встречается как начало (или конец) более одного раза.
	ErrBranching = errors.New("route branches at station")

	// ErrCycle — у пути нет начала или обход вернулся на пройденную станцию.
	ErrCycle = errors.New("route contains a cycle")

	// ErrDisconnected — sections распадаются на несколько несвязных частей.
	ErrDisconnected = errors.New("route is disconnected")
)

// Ошибки изменения маршрута.
var (
	// ErrNotExtendable — новый section нельзя присоединить ни к одному концу пути.
	ErrNotExtendable = errors.New("section does not extend either end of the route")

	// ErrStationNotOnRoute — станция не входит в маршрут.
	ErrStationNotOnRoute = errors.New("station is not on the route")

	// ErrLastSection — у линии остался единственный section.
	ErrLastSection = errors.New("route must keep at least one section")
)

// ShapeError — ошибка формы пути с контекстом.
type ShapeError struct {
	StationID uuid.UUID // станция, на которой обнаружена проблема (может быть uuid.Nil)
	Message   string    // описание ошибки
	Err       error     // конкретная причина
}

// Error реализует интерфейс error.
func (e *ShapeError) Error() string {
	if e.StationID != uuid.Nil {
		return "station " + e.StationID.String() + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает причину и ErrInvalidRoute, чтобы работали обе проверки errors.Is.
func (e *ShapeError) Unwrap() []error {
	return []error{e.Err, ErrInvalidRoute}
}

func newShapeError(stationID uuid.UUID, message string, err error) *ShapeError {
	return &ShapeError{
		StationID: stationID,
		Message:   message,
		Err:       err,
	}
}
