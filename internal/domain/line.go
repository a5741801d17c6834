package domain

import (
	"time"

	"github.com/google/uuid"
)

// Line — линия метро с цветом для отображения.
//
// Маршрут линии не хранится: он вычисляется из её sections при чтении
// (см. пакет route).
type Line struct {
	// ID — уникальный идентификатор линии.
	ID uuid.UUID `json:"id"`

	// Name — уникальное имя линии, например "2호선".
	Name string `json:"name"`

	// Color — цвет линии (произвольная строка, например "green" или "#00A84D").
	Color string `json:"color"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`
}

// NewLine создаёт линию с новым ID.
func NewLine(name, color string) *Line {
	return &Line{
		ID:        uuid.New(),
		Name:      NormalizeName(name),
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
}
