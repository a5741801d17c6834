package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/shaiso/subway/internal/domain"
	"github.com/shaiso/subway/internal/repo"
	"github.com/shaiso/subway/internal/route"
	"github.com/shaiso/subway/internal/telemetry"
)

// CreateLineInput — данные для создания линии с первым section.
type CreateLineInput struct {
	Name          string
	Color         string
	UpStationID   uuid.UUID
	DownStationID uuid.UUID
	Distance      int
}

// UpdateLineInput — новые имя и цвет линии.
type UpdateLineInput struct {
	Name  string
	Color string
}

// AddSectionInput — новый section на конце маршрута.
type AddSectionInput struct {
	UpStationID   uuid.UUID
	DownStationID uuid.UUID
	Distance      int
}

// LineView — линия вместе с упорядоченными станциями маршрута.
type LineView struct {
	Line     domain.Line
	Stations []domain.Station
	Distance int
}

// LineService — сценарии работы с линиями.
type LineService struct {
	stations StationStore
	lines    LineStore
	sections SectionStore
	events   EventPublisher
	logger   *slog.Logger
}

// NewLineService создаёт LineService.
func NewLineService(cfg Config) *LineService {
	return &LineService{
		stations: cfg.Stations,
		lines:    cfg.Lines,
		sections: cfg.Sections,
		events:   cfg.Events,
		logger:   cfg.logger(),
	}
}

// log — логгер запроса из ctx, иначе логгер сервиса.
func (s *LineService) log(ctx context.Context) *slog.Logger {
	return telemetry.FromContextOr(ctx, s.logger)
}

// Create создаёт линию и её первый section.
//
// Проверки (в этом порядке): уникальность имени, существование обеих
// станций, up != down, distance > 0.
func (s *LineService) Create(ctx context.Context, in CreateLineInput) (*LineView, error) {
	ctx, span := telemetry.StartSpan(ctx, "LineService.Create")
	defer span.End()

	name := domain.NormalizeName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: line name is empty", ErrInvalidName)
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	up, err := s.getStation(ctx, in.UpStationID, "up")
	if err != nil {
		return nil, err
	}
	down, err := s.getStation(ctx, in.DownStationID, "down")
	if err != nil {
		return nil, err
	}
	if err := validateSection(in.UpStationID, in.DownStationID, in.Distance); err != nil {
		return nil, err
	}

	line := domain.NewLine(name, in.Color)
	section := domain.NewSection(line.ID, up.ID, down.ID, in.Distance)

	if err := s.lines.CreateWithSection(ctx, line, section); err != nil {
		switch {
		case errors.Is(err, repo.ErrAlreadyExists):
			return nil, fmt.Errorf("%w: line %q already exists", ErrDuplicateName, name)
		case errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("%w: station was removed while creating line", ErrStationNotFound)
		}
		return nil, fmt.Errorf("create line: %w", err)
	}

	span.SetAttributes(attribute.String("line.id", line.ID.String()))
	telemetry.WithLineID(s.log(ctx), line.ID.String()).Info("line created", "name", line.Name)
	s.publish(ctx, domain.NewLineEvent(domain.LineCreated, line.ID))

	return &LineView{
		Line:     *line,
		Stations: []domain.Station{*up, *down},
		Distance: in.Distance,
	}, nil
}

// List возвращает все линии без станций.
func (s *LineService) List(ctx context.Context) ([]domain.Line, error) {
	lines, err := s.lines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	return lines, nil
}

// Get возвращает линию с маршрутом, собранным из её sections.
func (s *LineService) Get(ctx context.Context, id uuid.UUID) (*LineView, error) {
	ctx, span := telemetry.StartSpan(ctx, "LineService.Get",
		attribute.String("line.id", id.String()))
	defer span.End()

	line, err := s.getLine(ctx, id)
	if err != nil {
		return nil, err
	}

	r, err := s.buildRoute(ctx, line.ID)
	if err != nil {
		return nil, err
	}

	stations, err := s.resolveStations(ctx, line.ID, r.Stations)
	if err != nil {
		return nil, err
	}

	return &LineView{
		Line:     *line,
		Stations: stations,
		Distance: r.TotalDistance(),
	}, nil
}

// Delete удаляет линию вместе с её sections.
func (s *LineService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getLine(ctx, id); err != nil {
		return err
	}

	if err := s.lines.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrLineNotFound, id)
		}
		return fmt.Errorf("delete line: %w", err)
	}

	telemetry.WithLineID(s.log(ctx), id.String()).Info("line deleted")
	s.publish(ctx, domain.NewLineEvent(domain.LineDeleted, id))
	return nil
}

// Update меняет имя и цвет линии.
// Имя может совпадать с текущим именем этой же линии.
func (s *LineService) Update(ctx context.Context, id uuid.UUID, in UpdateLineInput) (*domain.Line, error) {
	line, err := s.getLine(ctx, id)
	if err != nil {
		return nil, err
	}

	name := domain.NormalizeName(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: line name is empty", ErrInvalidName)
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	line.Name = name
	line.Color = in.Color

	if err := s.lines.Update(ctx, line); err != nil {
		switch {
		case errors.Is(err, repo.ErrAlreadyExists):
			return nil, fmt.Errorf("%w: line %q already exists", ErrDuplicateName, name)
		case errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("%w: %s", ErrLineNotFound, id)
		}
		return nil, fmt.Errorf("update line: %w", err)
	}

	s.publish(ctx, domain.NewLineEvent(domain.LineUpdated, id))
	return line, nil
}

// Sections возвращает sections линии в порядке маршрута.
func (s *LineService) Sections(ctx context.Context, lineID uuid.UUID) ([]domain.Section, error) {
	if _, err := s.getLine(ctx, lineID); err != nil {
		return nil, err
	}

	r, err := s.buildRoute(ctx, lineID)
	if err != nil {
		return nil, err
	}
	return r.Sections, nil
}

// AddSection присоединяет section к одному из концов маршрута.
//
// Форма пути проверяется до записи: section должен начинаться на последней
// станции или заканчиваться на первой, и вторая его станция должна быть
// новой для линии.
func (s *LineService) AddSection(ctx context.Context, lineID uuid.UUID, in AddSectionInput) (*LineView, error) {
	ctx, span := telemetry.StartSpan(ctx, "LineService.AddSection",
		attribute.String("line.id", lineID.String()))
	defer span.End()

	if _, err := s.getLine(ctx, lineID); err != nil {
		return nil, err
	}
	if _, err := s.getStation(ctx, in.UpStationID, "up"); err != nil {
		return nil, err
	}
	if _, err := s.getStation(ctx, in.DownStationID, "down"); err != nil {
		return nil, err
	}
	if err := validateSection(in.UpStationID, in.DownStationID, in.Distance); err != nil {
		return nil, err
	}

	r, err := s.buildRoute(ctx, lineID)
	if err != nil {
		return nil, err
	}

	pos, err := route.PlanExtension(r, in.UpStationID, in.DownStationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSection, err)
	}

	section := domain.NewSection(lineID, in.UpStationID, in.DownStationID, in.Distance)
	if err := s.sections.Create(ctx, section); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			if _, lineErr := s.getLine(ctx, lineID); lineErr != nil {
				return nil, lineErr
			}
			return nil, fmt.Errorf("%w: station was removed while adding section", ErrStationNotFound)
		}
		return nil, fmt.Errorf("create section: %w", err)
	}

	telemetry.WithLineID(s.log(ctx), lineID.String()).Info("section added",
		"section_id", section.ID,
		"position", pos.String(),
	)
	event := domain.NewLineEvent(domain.LineSectionAdded, lineID)
	s.publish(ctx, event)

	return s.Get(ctx, lineID)
}

// RemoveStation убирает станцию из маршрута линии.
//
// Конечная станция уходит вместе со своим section; внутренняя —
// два соседних section сливаются в один с суммарным расстоянием.
func (s *LineService) RemoveStation(ctx context.Context, lineID, stationID uuid.UUID) (*LineView, error) {
	ctx, span := telemetry.StartSpan(ctx, "LineService.RemoveStation",
		attribute.String("line.id", lineID.String()),
		attribute.String("station.id", stationID.String()))
	defer span.End()

	if _, err := s.getLine(ctx, lineID); err != nil {
		return nil, err
	}

	r, err := s.buildRoute(ctx, lineID)
	if err != nil {
		return nil, err
	}

	removal, err := route.PlanRemoval(r, stationID)
	if err != nil {
		if errors.Is(err, route.ErrStationNotOnRoute) {
			return nil, fmt.Errorf("%w: station %s is not on line %s", ErrStationNotFound, stationID, lineID)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidSection, err)
	}

	var add []domain.Section
	if removal.Merged != nil {
		add = append(add, *removal.Merged)
	}
	if err := s.sections.Replace(ctx, lineID, removal.Remove, add); err != nil {
		return nil, fmt.Errorf("replace sections: %w", err)
	}

	telemetry.WithStationID(telemetry.WithLineID(s.log(ctx), lineID.String()), stationID.String()).
		Info("station removed from line", "merged", removal.Merged != nil)

	event := domain.NewLineEvent(domain.LineStationRemoved, lineID)
	event.StationID = &stationID
	s.publish(ctx, event)

	return s.Get(ctx, lineID)
}

// getLine загружает линию или возвращает ErrLineNotFound.
func (s *LineService) getLine(ctx context.Context, id uuid.UUID) (*domain.Line, error) {
	line, err := s.lines.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrLineNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get line: %w", err)
	}
	return line, nil
}

// getStation загружает станцию или возвращает ErrStationNotFound.
// role — "up" или "down", для сообщения об ошибке.
func (s *LineService) getStation(ctx context.Context, id uuid.UUID, role string) (*domain.Station, error) {
	station, err := s.stations.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s station %s", ErrStationNotFound, role, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s station: %w", role, err)
	}
	return station, nil
}

// ensureNameFree проверяет, что имя не занято другой линией.
// self — ID линии, которой имя разрешено (uuid.Nil при создании).
func (s *LineService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.lines.GetByName(ctx, name)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get line by name: %w", err)
	}
	if existing.ID != self {
		return fmt.Errorf("%w: line %q already exists", ErrDuplicateName, name)
	}
	return nil
}

// buildRoute загружает sections линии и собирает маршрут.
func (s *LineService) buildRoute(ctx context.Context, lineID uuid.UUID) (*route.Route, error) {
	sections, err := s.sections.ListByLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}

	r, err := route.Build(sections)
	if err != nil {
		telemetry.RouteAssemblies.WithLabelValues(telemetry.ResultInvalid).Inc()
		telemetry.WithLineID(s.log(ctx), lineID.String()).Error("line sections do not form a route",
			"sections", len(sections),
			"error", err,
		)
		return nil, fmt.Errorf("%w: line %s: %w", ErrRouteConsistency, lineID, err)
	}

	telemetry.RouteAssemblies.WithLabelValues(telemetry.ResultOK).Inc()
	telemetry.RouteStations.Observe(float64(len(r.Stations)))
	return r, nil
}

// resolveStations превращает ID маршрута в станции в том же порядке.
func (s *LineService) resolveStations(ctx context.Context, lineID uuid.UUID, ids []uuid.UUID) ([]domain.Station, error) {
	found, err := s.stations.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get route stations: %w", err)
	}

	byID := make(map[uuid.UUID]domain.Station, len(found))
	for _, st := range found {
		byID[st.ID] = st
	}

	stations := make([]domain.Station, 0, len(ids))
	for _, id := range ids {
		st, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: line %s references missing station %s", ErrRouteConsistency, lineID, id)
		}
		stations = append(stations, st)
	}
	return stations, nil
}

// publish отправляет событие, если publisher настроен.
// Ошибка публикации не откатывает уже сохранённое изменение.
func (s *LineService) publish(ctx context.Context, event domain.LineEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLineEvent(ctx, event); err != nil {
		telemetry.LineEventsPublished.WithLabelValues(string(event.Type), telemetry.ResultError).Inc()
		s.log(ctx).Warn("failed to publish line event",
			"type", event.Type,
			"line_id", event.LineID,
			"error", err,
		)
		return
	}
	telemetry.LineEventsPublished.WithLabelValues(string(event.Type), telemetry.ResultOK).Inc()
}

// validateSection проверяет станции и расстояние нового section.
func validateSection(up, down uuid.UUID, distance int) error {
	if up == down {
		return fmt.Errorf("%w: up and down stations must differ", ErrInvalidSection)
	}
	if distance <= 0 {
		return fmt.Errorf("%w: distance must be positive, got %d", ErrInvalidSection, distance)
	}
	return nil
}
