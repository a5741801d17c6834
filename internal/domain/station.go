package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Station — станция метро.
//
// Станция может обслуживаться несколькими линиями. Удалить станцию можно
// только если на неё не ссылается ни один section.
type Station struct {
	// ID — уникальный идентификатор станции.
	ID uuid.UUID `json:"id"`

	// Name — уникальное непустое имя станции.
	Name string `json:"name"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`
}

// NewStation создаёт станцию с новым ID.
func NewStation(name string) *Station {
	return &Station{
		ID:        uuid.New(),
		Name:      NormalizeName(name),
		CreatedAt: time.Now().UTC(),
	}
}

// NormalizeName убирает пробелы по краям имени.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
