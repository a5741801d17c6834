package domain

import (
	"time"

	"github.com/google/uuid"
)

// LineEventType — тип изменения линии.
type LineEventType string

// Типы событий линии.
const (
	LineCreated        LineEventType = "line.created"
	LineUpdated        LineEventType = "line.updated"
	LineDeleted        LineEventType = "line.deleted"
	LineSectionAdded   LineEventType = "line.section_added"
	LineStationRemoved LineEventType = "line.station_removed"
)

// RouteChanged возвращает true, если событие меняет набор sections линии.
func (t LineEventType) RouteChanged() bool {
	switch t {
	case LineCreated, LineSectionAdded, LineStationRemoved:
		return true
	default:
		return false
	}
}

// LineEvent — событие об изменении линии.
type LineEvent struct {
	Type       LineEventType `json:"type"`
	LineID     uuid.UUID     `json:"line_id"`
	StationID  *uuid.UUID    `json:"station_id,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewLineEvent создаёт событие с текущим временем.
func NewLineEvent(t LineEventType, lineID uuid.UUID) LineEvent {
	return LineEvent{
		Type:       t,
		LineID:     lineID,
		OccurredAt: time.Now().UTC(),
	}
}
