package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/subway/internal/domain"
	"github.com/shaiso/subway/internal/mq"
	"github.com/shaiso/subway/internal/repo/memstore"
	"github.com/shaiso/subway/internal/route"
)

type fixture struct {
	store   *memstore.Store
	auditor *Auditor
	good    domain.Line
	broken  domain.Line
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	ids := make([]uuid.UUID, 4)
	for i, name := range []string{"A", "B", "C", "D"} {
		st := domain.NewStation(name)
		if err := store.Stations().Create(ctx, st); err != nil {
			t.Fatalf("create station: %v", err)
		}
		ids[i] = st.ID
	}

	good := domain.NewLine("1호선", "blue")
	if err := store.Lines().CreateWithSection(ctx, good, domain.NewSection(good.ID, ids[0], ids[1], 2)); err != nil {
		t.Fatalf("create line: %v", err)
	}
	if err := store.Sections().Create(ctx, domain.NewSection(good.ID, ids[1], ids[2], 3)); err != nil {
		t.Fatalf("create section: %v", err)
	}

	broken := domain.NewLine("2호선", "green")
	if err := store.Lines().CreateWithSection(ctx, broken, domain.NewSection(broken.ID, ids[0], ids[1], 2)); err != nil {
		t.Fatalf("create line: %v", err)
	}
	// Ветвление из A.
	if err := store.Sections().Create(ctx, domain.NewSection(broken.ID, ids[0], ids[3], 2)); err != nil {
		t.Fatalf("create section: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		store:   store,
		auditor: New(store.Lines(), store.Sections(), logger),
		good:    *good,
		broken:  *broken,
	}
}

func TestAuditLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rep, err := f.auditor.AuditLine(ctx, f.good)
	if err != nil {
		t.Fatalf("AuditLine: %v", err)
	}
	if !rep.OK() {
		t.Fatalf("expected good line, got %v", rep.Err)
	}
	if rep.Stations != 3 || rep.Distance != 5 {
		t.Errorf("unexpected report %+v", rep)
	}

	rep, err = f.auditor.AuditLine(ctx, f.broken)
	if err != nil {
		t.Fatalf("AuditLine: %v", err)
	}
	if !errors.Is(rep.Err, route.ErrBranching) {
		t.Errorf("expected ErrBranching, got %v", rep.Err)
	}
}

func TestAuditAll(t *testing.T) {
	f := newFixture(t)

	sum, err := f.auditor.AuditAll(context.Background(), TriggerSchedule)
	if err != nil {
		t.Fatalf("AuditAll: %v", err)
	}
	if sum.Lines != 2 {
		t.Errorf("expected 2 lines, got %d", sum.Lines)
	}
	if len(sum.Broken) != 1 || sum.Broken[0].LineID != f.broken.ID {
		t.Errorf("expected only %s broken, got %+v", f.broken.Name, sum.Broken)
	}
}

func message(t *testing.T, event domain.LineEvent) *mq.Message {
	t.Helper()
	// Как после доставки: payload приходит в виде JSON-объекта.
	raw, err := json.Marshal(mq.NewMessage(mq.MessageType(event.Type), event))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var msg mq.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return &msg
}

func TestHandleMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		event domain.LineEvent
	}{
		{"good line", domain.NewLineEvent(domain.LineSectionAdded, f.good.ID)},
		{"broken line is logged, not retried", domain.NewLineEvent(domain.LineStationRemoved, f.broken.ID)},
		{"deleted line", domain.NewLineEvent(domain.LineCreated, uuid.New())},
		{"event without route change", domain.NewLineEvent(domain.LineUpdated, f.broken.ID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.auditor.HandleMessage(ctx, message(t, tt.event)); err != nil {
				t.Errorf("HandleMessage: %v", err)
			}
		})
	}

	bad := &mq.Message{ID: "1", Type: "line.created", Payload: "not an object"}
	if err := f.auditor.HandleMessage(ctx, bad); err == nil {
		t.Error("expected error for malformed payload")
	}
}

type fixedLeader struct {
	lead  bool
	calls int
}

func (l *fixedLeader) TryLead(context.Context) (bool, error) {
	l.calls++
	return l.lead, nil
}

func TestRunner_Tick(t *testing.T) {
	f := newFixture(t)
	sched, err := ParseSchedule("*/5 * * * *")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	follower := &fixedLeader{lead: false}
	ran, err := NewRunner(f.auditor, sched, follower, logger).Tick(context.Background())
	if err != nil || ran {
		t.Errorf("follower must skip audit: ran=%v err=%v", ran, err)
	}

	ran, err = NewRunner(f.auditor, sched, nil, logger).Tick(context.Background())
	if err != nil || !ran {
		t.Errorf("solo runner must audit: ran=%v err=%v", ran, err)
	}
}

func TestParseSchedule(t *testing.T) {
	sched, err := ParseSchedule("*/5 * * * *")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}

	from := time.Date(2024, 3, 1, 10, 2, 30, 0, time.UTC)
	want := time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)
	if got := sched.Next(from); !got.Equal(want) {
		t.Errorf("Next(%v) = %v, want %v", from, got, want)
	}

	for _, expr := range []string{"", "* * *", "61 * * * *", "@every"} {
		if _, err := ParseSchedule(expr); err == nil {
			t.Errorf("expected error for %q", expr)
		}
	}
}
