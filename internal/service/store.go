package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shaiso/subway/internal/domain"
)

// StationStore — хранилище станций.
type StationStore interface {
	Create(ctx context.Context, station *domain.Station) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Station, error)
	GetByName(ctx context.Context, name string) (*domain.Station, error)
	List(ctx context.Context) ([]domain.Station, error)
	GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Station, error)
	Update(ctx context.Context, station *domain.Station) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LineStore — хранилище линий.
//
// CreateWithSection и Delete атомарны: линия создаётся только вместе
// с первым section, а удаляется вместе со всеми своими sections.
type LineStore interface {
	CreateWithSection(ctx context.Context, line *domain.Line, section *domain.Section) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Line, error)
	GetByName(ctx context.Context, name string) (*domain.Line, error)
	List(ctx context.Context) ([]domain.Line, error)
	Update(ctx context.Context, line *domain.Line) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SectionStore — хранилище sections.
type SectionStore interface {
	Create(ctx context.Context, section *domain.Section) error
	ListByLine(ctx context.Context, lineID uuid.UUID) ([]domain.Section, error)
	ExistsForStation(ctx context.Context, stationID uuid.UUID) (bool, error)
	Replace(ctx context.Context, lineID uuid.UUID, remove []uuid.UUID, add []domain.Section) error
}

// EventPublisher публикует события об изменении линий.
type EventPublisher interface {
	PublishLineEvent(ctx context.Context, event domain.LineEvent) error
}

// Config — зависимости сервисов.
type Config struct {
	Stations StationStore
	Lines    LineStore
	Sections SectionStore
	Events   EventPublisher // опционально
	Logger   *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
