package domain

import (
	"github.com/google/uuid"
)

// Section — направленное ребро UpStation → DownStation внутри одной линии.
//
// Все sections линии вместе образуют один простой путь: без ветвлений
// и без циклов.
type Section struct {
	// ID — уникальный идентификатор section.
	ID uuid.UUID `json:"id"`

	// LineID — линия, которой принадлежит section.
	LineID uuid.UUID `json:"line_id"`

	// UpStationID — верхняя (начальная) станция ребра.
	UpStationID uuid.UUID `json:"up_station_id"`

	// DownStationID — нижняя (конечная) станция ребра.
	DownStationID uuid.UUID `json:"down_station_id"`

	// Distance — расстояние между станциями, всегда > 0.
	Distance int `json:"distance"`
}

// NewSection создаёт section с новым ID.
func NewSection(lineID, up, down uuid.UUID, distance int) *Section {
	return &Section{
		ID:            uuid.New(),
		LineID:        lineID,
		UpStationID:   up,
		DownStationID: down,
		Distance:      distance,
	}
}

// IsSelfLoop возвращает true, если начальная и конечная станции совпадают.
func (s *Section) IsSelfLoop() bool {
	return s.UpStationID == s.DownStationID
}

// Touches возвращает true, если section ссылается на станцию.
func (s *Section) Touches(stationID uuid.UUID) bool {
	return s.UpStationID == stationID || s.DownStationID == stationID
}
