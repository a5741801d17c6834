package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/subway/internal/domain"
	"github.com/shaiso/subway/internal/mq"
	"github.com/shaiso/subway/internal/repo"
	"github.com/shaiso/subway/internal/route"
	"github.com/shaiso/subway/internal/telemetry"
)

// Триггеры аудита (метка метрики AuditRuns).
const (
	TriggerSchedule = "schedule"
	TriggerEvent    = "event"
)

// LineSource — чтение линий.
type LineSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Line, error)
	List(ctx context.Context) ([]domain.Line, error)
}

// SectionSource — чтение sections линии.
type SectionSource interface {
	ListByLine(ctx context.Context, lineID uuid.UUID) ([]domain.Section, error)
}

// Report — результат проверки одной линии.
type Report struct {
	LineID   uuid.UUID
	LineName string
	Sections int
	Stations int
	Distance int
	Err      error
}

// OK — маршрут линии корректен.
func (r Report) OK() bool { return r.Err == nil }

// Summary — результат полного аудита.
type Summary struct {
	Lines    int
	Broken   []Report
	Duration time.Duration
}

// Auditor проверяет маршруты линий.
type Auditor struct {
	lines    LineSource
	sections SectionSource
	logger   *slog.Logger
}

// New создаёт Auditor.
func New(lines LineSource, sections SectionSource, logger *slog.Logger) *Auditor {
	return &Auditor{lines: lines, sections: sections, logger: logger}
}

// AuditLine собирает маршрут одной линии.
// Ошибка хранилища возвращается отдельно от нарушения формы пути.
func (a *Auditor) AuditLine(ctx context.Context, line domain.Line) (Report, error) {
	sections, err := a.sections.ListByLine(ctx, line.ID)
	if err != nil {
		return Report{}, fmt.Errorf("list sections of %s: %w", line.ID, err)
	}

	rep := Report{LineID: line.ID, LineName: line.Name, Sections: len(sections)}

	r, err := route.Build(sections)
	if err != nil {
		rep.Err = err
		return rep, nil
	}
	if r.IsEmpty() {
		rep.Err = errors.New("line has no sections")
		return rep, nil
	}

	rep.Stations = len(r.Stations)
	rep.Distance = r.TotalDistance()
	return rep, nil
}

// AuditAll проверяет все линии и обновляет метрику сломанных линий.
func (a *Auditor) AuditAll(ctx context.Context, trigger string) (*Summary, error) {
	ctx, span := telemetry.StartSpan(ctx, "Auditor.AuditAll")
	defer span.End()

	start := time.Now()
	telemetry.AuditRuns.WithLabelValues(trigger).Inc()

	lines, err := a.lines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}

	sum := &Summary{Lines: len(lines)}
	for _, line := range lines {
		rep, err := a.AuditLine(ctx, line)
		if err != nil {
			return nil, err
		}
		if !rep.OK() {
			a.logBroken(rep)
			sum.Broken = append(sum.Broken, rep)
		}
	}
	sum.Duration = time.Since(start)

	telemetry.AuditBrokenLines.Set(float64(len(sum.Broken)))
	a.logger.Info("route audit completed",
		"trigger", trigger,
		"lines", sum.Lines,
		"broken", len(sum.Broken),
		"duration", sum.Duration,
	)
	return sum, nil
}

// HandleMessage — mq.Handler для очереди lines.audit.
//
// Проверяет линию из события. Удалённую линию пропускает. Сломанный маршрут
// логируется и не считается ошибкой обработки: повтор его не исправит.
func (a *Auditor) HandleMessage(ctx context.Context, msg *mq.Message) error {
	event, err := mq.ParsePayload[domain.LineEvent](msg)
	if err != nil {
		return fmt.Errorf("parse line event: %w", err)
	}
	if !event.Type.RouteChanged() {
		return nil
	}

	telemetry.AuditRuns.WithLabelValues(TriggerEvent).Inc()

	line, err := a.lines.GetByID(ctx, event.LineID)
	if errors.Is(err, repo.ErrNotFound) {
		a.logger.Debug("line from event no longer exists", "line_id", event.LineID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get line: %w", err)
	}

	rep, err := a.AuditLine(ctx, *line)
	if err != nil {
		return err
	}
	if !rep.OK() {
		a.logBroken(rep)
		return nil
	}

	telemetry.WithLineID(a.logger, line.ID.String()).Debug("line route verified",
		"event", event.Type,
		"stations", rep.Stations,
	)
	return nil
}

func (a *Auditor) logBroken(rep Report) {
	attrs := []any{
		"line_name", rep.LineName,
		"sections", rep.Sections,
		"error", rep.Err,
	}

	var shape *route.ShapeError
	if errors.As(rep.Err, &shape) && shape.StationID != uuid.Nil {
		attrs = append(attrs, "station_id", shape.StationID)
	}
	telemetry.WithLineID(a.logger, rep.LineID.String()).Error("line route is broken", attrs...)
}
