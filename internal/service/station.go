package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/subway/internal/domain"
	"github.com/shaiso/subway/internal/repo"
	"github.com/shaiso/subway/internal/telemetry"
)

// StationService — сценарии работы со станциями.
type StationService struct {
	stations StationStore
	sections SectionStore
	logger   *slog.Logger
}

// NewStationService создаёт StationService.
func NewStationService(cfg Config) *StationService {
	return &StationService{
		stations: cfg.Stations,
		sections: cfg.Sections,
		logger:   cfg.logger(),
	}
}

func (s *StationService) log(ctx context.Context) *slog.Logger {
	return telemetry.FromContextOr(ctx, s.logger)
}

// Create создаёт станцию с уникальным именем.
func (s *StationService) Create(ctx context.Context, name string) (*domain.Station, error) {
	name = domain.NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: station name is empty", ErrInvalidName)
	}

	if _, err := s.stations.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: station %q already exists", ErrDuplicateName, name)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("get station by name: %w", err)
	}

	station := domain.NewStation(name)
	if err := s.stations.Create(ctx, station); err != nil {
		if errors.Is(err, repo.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: station %q already exists", ErrDuplicateName, name)
		}
		return nil, fmt.Errorf("create station: %w", err)
	}

	telemetry.WithStationID(s.log(ctx), station.ID.String()).Info("station created", "name", station.Name)
	return station, nil
}

// List возвращает все станции.
func (s *StationService) List(ctx context.Context) ([]domain.Station, error) {
	stations, err := s.stations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return stations, nil
}

// Get возвращает станцию по ID.
func (s *StationService) Get(ctx context.Context, id uuid.UUID) (*domain.Station, error) {
	station, err := s.stations.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrStationNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get station: %w", err)
	}
	return station, nil
}

// Rename меняет имя станции. Текущее имя этой же станции допустимо.
func (s *StationService) Rename(ctx context.Context, id uuid.UUID, name string) (*domain.Station, error) {
	station, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name = domain.NormalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: station name is empty", ErrInvalidName)
	}

	existing, err := s.stations.GetByName(ctx, name)
	switch {
	case err == nil && existing.ID != id:
		return nil, fmt.Errorf("%w: station %q already exists", ErrDuplicateName, name)
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("get station by name: %w", err)
	}

	station.Name = name
	if err := s.stations.Update(ctx, station); err != nil {
		switch {
		case errors.Is(err, repo.ErrAlreadyExists):
			return nil, fmt.Errorf("%w: station %q already exists", ErrDuplicateName, name)
		case errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrStationNotFound, id)
		}
		return nil, fmt.Errorf("update station: %w", err)
	}
	return station, nil
}

// Delete удаляет станцию, если её не использует ни одна линия.
func (s *StationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	used, err := s.sections.ExistsForStation(ctx, id)
	if err != nil {
		return fmt.Errorf("check station usage: %w", err)
	}
	if used {
		return fmt.Errorf("%w: %s", ErrStationInUse, id)
	}

	if err := s.stations.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrReferenced):
			return fmt.Errorf("%w: %s", ErrStationInUse, id)
		case errors.Is(err, repo.ErrNotFound):
			return fmt.Errorf("%w: %s", ErrStationNotFound, id)
		}
		return fmt.Errorf("delete station: %w", err)
	}

	telemetry.WithStationID(s.log(ctx), id.String()).Info("station deleted")
	return nil
}
