package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — стандартные пять полей: минута, час, день, месяц, день недели.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseSchedule разбирает cron-выражение расписания аудита.
func ParseSchedule(expr string) (cron.Schedule, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	return sched, nil
}

// Leader решает, какой экземпляр аудитора выполняет плановый аудит.
type Leader interface {
	TryLead(ctx context.Context) (bool, error)
}

// SoloLeader — единственный экземпляр, всегда ведущий.
type SoloLeader struct{}

// TryLead всегда возвращает true.
func (SoloLeader) TryLead(context.Context) (bool, error) { return true, nil }

// Runner запускает AuditAll по расписанию.
type Runner struct {
	auditor  *Auditor
	schedule cron.Schedule
	leader   Leader
	logger   *slog.Logger
}

// NewRunner создаёт Runner. leader == nil означает SoloLeader.
func NewRunner(auditor *Auditor, schedule cron.Schedule, leader Leader, logger *slog.Logger) *Runner {
	if leader == nil {
		leader = SoloLeader{}
	}
	return &Runner{
		auditor:  auditor,
		schedule: schedule,
		leader:   leader,
		logger:   logger,
	}
}

// Tick выполняет один плановый запуск. Возвращает false, если экземпляр
// не ведущий и аудит пропущен.
func (r *Runner) Tick(ctx context.Context) (bool, error) {
	lead, err := r.leader.TryLead(ctx)
	if err != nil {
		return false, fmt.Errorf("leader election: %w", err)
	}
	if !lead {
		r.logger.Debug("not a leader, skipping audit")
		return false, nil
	}

	if _, err := r.auditor.AuditAll(ctx, TriggerSchedule); err != nil {
		return true, err
	}
	return true, nil
}

// Run ждёт очередного времени по расписанию и вызывает Tick до отмены ctx.
func (r *Runner) Run(ctx context.Context) error {
	for {
		next := r.schedule.Next(time.Now())
		r.logger.Debug("next route audit", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if _, err := r.Tick(ctx); err != nil {
			r.logger.Error("scheduled audit failed", "error", err)
		}
	}
}
