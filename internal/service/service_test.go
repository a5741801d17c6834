package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/subway/internal/domain"
	"github.com/shaiso/subway/internal/repo/memstore"
)

// recordingPublisher запоминает опубликованные события.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LineEvent
	err    error
}

func (p *recordingPublisher) PublishLineEvent(_ context.Context, event domain.LineEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []domain.LineEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.LineEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	store    *memstore.Store
	lines    *LineService
	stations *StationService
	events   *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memstore.New()
	events := &recordingPublisher{}
	cfg := Config{
		Stations: store.Stations(),
		Lines:    store.Lines(),
		Sections: store.Sections(),
		Events:   events,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return &testEnv{
		store:    store,
		lines:    NewLineService(cfg),
		stations: NewStationService(cfg),
		events:   events,
	}
}

// station создаёт станцию и возвращает её ID.
func (e *testEnv) station(t *testing.T, name string) uuid.UUID {
	t.Helper()
	st, err := e.stations.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create station %q: %v", name, err)
	}
	return st.ID
}

// line создаёт линию up → down.
func (e *testEnv) line(t *testing.T, name string, up, down uuid.UUID, distance int) uuid.UUID {
	t.Helper()
	view, err := e.lines.Create(context.Background(), CreateLineInput{
		Name:          name,
		Color:         "bg-green-600",
		UpStationID:   up,
		DownStationID: down,
		Distance:      distance,
	})
	if err != nil {
		t.Fatalf("create line %q: %v", name, err)
	}
	return view.Line.ID
}

func stationIDs(stations []domain.Station) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(stations))
	for _, s := range stations {
		out = append(out, s.ID)
	}
	return out
}

func sameIDs(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("expected %v, got %v", target, err)
	}
}
