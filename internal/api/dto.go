package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/subway/internal/domain"
	"github.com/shaiso/subway/internal/service"
)

// Station DTOs

// StationRequest — создание или переименование станции.
type StationRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// StationResponse — станция.
type StationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// StationFromDomain конвертирует domain.Station в StationResponse.
func StationFromDomain(s domain.Station) StationResponse {
	return StationResponse{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

// Line DTOs

// CreateLineRequest — создание линии с первым section.
type CreateLineRequest struct {
	Name          string    `json:"name" validate:"required,max=100"`
	Color         string    `json:"color" validate:"max=50"`
	UpStationID   uuid.UUID `json:"up_station_id" validate:"required"`
	DownStationID uuid.UUID `json:"down_station_id" validate:"required"`
	Distance      int       `json:"distance" validate:"gt=0"`
}

// UpdateLineRequest — новые имя и цвет.
type UpdateLineRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"max=50"`
}

// LineResponse — линия. В списке stations пустой, в детальном ответе —
// станции в порядке маршрута.
type LineResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Color     string            `json:"color"`
	Stations  []StationResponse `json:"stations"`
	Distance  int               `json:"distance,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// LineFromDomain конвертирует domain.Line без станций.
func LineFromDomain(l domain.Line) LineResponse {
	return LineResponse{
		ID:        l.ID,
		Name:      l.Name,
		Color:     l.Color,
		Stations:  []StationResponse{},
		CreatedAt: l.CreatedAt,
	}
}

// LineFromView конвертирует service.LineView вместе с маршрутом.
func LineFromView(v service.LineView) LineResponse {
	resp := LineFromDomain(v.Line)
	resp.Distance = v.Distance
	resp.Stations = make([]StationResponse, len(v.Stations))
	for i, s := range v.Stations {
		resp.Stations[i] = StationFromDomain(s)
	}
	return resp
}

// Section DTOs

// SectionRequest — новый section линии.
type SectionRequest struct {
	UpStationID   uuid.UUID `json:"up_station_id" validate:"required"`
	DownStationID uuid.UUID `json:"down_station_id" validate:"required"`
	Distance      int       `json:"distance" validate:"gt=0"`
}

// SectionResponse — section линии.
type SectionResponse struct {
	ID            uuid.UUID `json:"id"`
	UpStationID   uuid.UUID `json:"up_station_id"`
	DownStationID uuid.UUID `json:"down_station_id"`
	Distance      int       `json:"distance"`
}

// SectionFromDomain конвертирует domain.Section в SectionResponse.
func SectionFromDomain(s domain.Section) SectionResponse {
	return SectionResponse{
		ID:            s.ID,
		UpStationID:   s.UpStationID,
		DownStationID: s.DownStationID,
		Distance:      s.Distance,
	}
}
