package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/shaiso/subway/internal/domain"
	"github.com/shaiso/subway/internal/route"
)

func TestLineService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "강남역")
	b := env.station(t, "역삼역")

	view, err := env.lines.Create(ctx, CreateLineInput{
		Name:          "  2호선 ",
		Color:         "bg-green-600",
		UpStationID:   a,
		DownStationID: b,
		Distance:      10,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if view.Line.Name != "2호선" {
		t.Errorf("expected trimmed name '2호선', got %q", view.Line.Name)
	}
	if view.Line.ID == uuid.Nil {
		t.Error("expected generated line ID")
	}
	if !sameIDs(stationIDs(view.Stations), []uuid.UUID{a, b}) {
		t.Errorf("unexpected stations %v", stationIDs(view.Stations))
	}
	if view.Distance != 10 {
		t.Errorf("expected distance 10, got %d", view.Distance)
	}

	got := env.events.types()
	if len(got) != 1 || got[0] != domain.LineCreated {
		t.Errorf("expected [line.created], got %v", got)
	}
}

func TestLineService_Create_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "강남역")
	b := env.station(t, "역삼역")
	env.line(t, "2호선", a, b, 10)

	_, err := env.lines.Create(ctx, CreateLineInput{
		Name:          "2호선",
		UpStationID:   a,
		DownStationID: b,
		Distance:      10,
	})
	wantErr(t, err, ErrDuplicateName)

	lines, err := env.lines.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(lines) != 1 {
		t.Errorf("expected 1 line, got %d", len(lines))
	}
}

func TestLineService_Create_NameCheckedBeforeStations(t *testing.T) {
	env := newTestEnv(t)
	a := env.station(t, "강남역")
	b := env.station(t, "역삼역")
	env.line(t, "2호선", a, b, 10)

	_, err := env.lines.Create(context.Background(), CreateLineInput{
		Name:          "2호선",
		UpStationID:   uuid.New(),
		DownStationID: uuid.New(),
		Distance:      10,
	})
	wantErr(t, err, ErrDuplicateName)
}

func TestLineService_Create_Invalid(t *testing.T) {
	env := newTestEnv(t)
	a := env.station(t, "강남역")
	b := env.station(t, "역삼역")

	tests := []struct {
		name string
		in   CreateLineInput
		want error
	}{
		{"same stations", CreateLineInput{Name: "1호선", UpStationID: a, DownStationID: a, Distance: 5}, ErrInvalidSection},
		{"zero distance", CreateLineInput{Name: "1호선", UpStationID: a, DownStationID: b, Distance: 0}, ErrInvalidSection},
		{"negative distance", CreateLineInput{Name: "1호선", UpStationID: a, DownStationID: b, Distance: -3}, ErrInvalidSection},
		{"unknown up", CreateLineInput{Name: "1호선", UpStationID: uuid.New(), DownStationID: b, Distance: 5}, ErrStationNotFound},
		{"unknown down", CreateLineInput{Name: "1호선", UpStationID: a, DownStationID: uuid.New(), Distance: 5}, ErrStationNotFound},
		{"empty name", CreateLineInput{Name: "   ", UpStationID: a, DownStationID: b, Distance: 5}, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.lines.Create(context.Background(), tt.in)
			wantErr(t, err, tt.want)
		})
	}

	lines, _ := env.lines.List(context.Background())
	if len(lines) != 0 {
		t.Errorf("expected no lines after failed creates, got %d", len(lines))
	}
	if got := env.events.types(); len(got) != 0 {
		t.Errorf("expected no events, got %v", got)
	}
}

func TestLineService_Get(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "A")
	b := env.station(t, "B")
	c := env.station(t, "C")
	d := env.station(t, "D")
	id := env.line(t, "1호선", b, c, 4)

	if _, err := env.lines.AddSection(ctx, id, AddSectionInput{UpStationID: c, DownStationID: d, Distance: 6}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := env.lines.AddSection(ctx, id, AddSectionInput{UpStationID: a, DownStationID: b, Distance: 2}); err != nil {
		t.Fatalf("prepend: %v", err)
	}

	view, err := env.lines.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !sameIDs(stationIDs(view.Stations), []uuid.UUID{a, b, c, d}) {
		t.Errorf("unexpected route %v", stationIDs(view.Stations))
	}
	if view.Distance != 12 {
		t.Errorf("expected distance 12, got %d", view.Distance)
	}
}

func TestLineService_Get_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.lines.Get(context.Background(), uuid.New())
	wantErr(t, err, ErrLineNotFound)
}

func TestLineService_Get_BrokenSections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "A")
	b := env.station(t, "B")
	c := env.station(t, "C")
	id := env.line(t, "1호선", a, b, 4)

	// Ветвление в обход сервиса.
	if err := env.store.Sections().Create(ctx, domain.NewSection(id, a, c, 3)); err != nil {
		t.Fatalf("insert section: %v", err)
	}

	_, err := env.lines.Get(ctx, id)
	wantErr(t, err, ErrRouteConsistency)
	if !errors.Is(err, route.ErrBranching) {
		t.Errorf("expected route.ErrBranching in chain, got %v", err)
	}
}

// hidingStations скрывает одну станцию из GetMany.
type hidingStations struct {
	StationStore
	hidden uuid.UUID
}

func (h hidingStations) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Station, error) {
	all, err := h.StationStore.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, s := range all {
		if s.ID != h.hidden {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestLineService_Get_DanglingStation(t *testing.T) {
	env := newTestEnv(t)
	a := env.station(t, "A")
	b := env.station(t, "B")
	id := env.line(t, "1호선", a, b, 4)

	svc := NewLineService(Config{
		Stations: hidingStations{StationStore: env.store.Stations(), hidden: b},
		Lines:    env.store.Lines(),
		Sections: env.store.Sections(),
	})

	_, err := svc.Get(context.Background(), id)
	wantErr(t, err, ErrRouteConsistency)
}

func TestLineService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "A")
	b := env.station(t, "B")
	first := env.line(t, "1호선", a, b, 4)
	env.line(t, "2호선", a, b, 4)

	t.Run("other line name", func(t *testing.T) {
		_, err := env.lines.Update(ctx, first, UpdateLineInput{Name: "2호선", Color: "red"})
		wantErr(t, err, ErrDuplicateName)
	})

	t.Run("own name", func(t *testing.T) {
		line, err := env.lines.Update(ctx, first, UpdateLineInput{Name: "1호선", Color: "bg-blue-600"})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if line.Color != "bg-blue-600" {
			t.Errorf("expected new color, got %q", line.Color)
		}
	})

	t.Run("rename", func(t *testing.T) {
		if _, err := env.lines.Update(ctx, first, UpdateLineInput{Name: "신분당선"}); err != nil {
			t.Fatalf("Update: %v", err)
		}
		view, err := env.lines.Get(ctx, first)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if view.Line.Name != "신분당선" {
			t.Errorf("expected renamed line, got %q", view.Line.Name)
		}
	})

	t.Run("missing line", func(t *testing.T) {
		_, err := env.lines.Update(ctx, uuid.New(), UpdateLineInput{Name: "3호선"})
		wantErr(t, err, ErrLineNotFound)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := env.lines.Update(ctx, first, UpdateLineInput{Name: ""})
		wantErr(t, err, ErrInvalidName)
	})
}

func TestLineService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "A")
	b := env.station(t, "B")
	id := env.line(t, "1호선", a, b, 4)

	if err := env.lines.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := env.lines.Get(ctx, id)
	wantErr(t, err, ErrLineNotFound)

	sections, err := env.store.Sections().ListByLine(ctx, id)
	if err != nil {
		t.Fatalf("ListByLine: %v", err)
	}
	if len(sections) != 0 {
		t.Errorf("expected sections to be deleted with the line, got %d", len(sections))
	}

	// Станции больше не используются.
	if err := env.stations.Delete(ctx, a); err != nil {
		t.Errorf("delete station after line delete: %v", err)
	}

	wantErr(t, env.lines.Delete(ctx, id), ErrLineNotFound)

	got := env.events.types()
	if len(got) != 2 || got[1] != domain.LineDeleted {
		t.Errorf("expected [line.created line.deleted], got %v", got)
	}
}

func TestLineService_AddSection_Invalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "A")
	b := env.station(t, "B")
	c := env.station(t, "C")
	x := env.station(t, "X")
	id := env.line(t, "1호선", a, b, 4)
	if _, err := env.lines.AddSection(ctx, id, AddSectionInput{UpStationID: b, DownStationID: c, Distance: 4}); err != nil {
		t.Fatalf("append: %v", err)
	}

	tests := []struct {
		name   string
		lineID uuid.UUID
		in     AddSectionInput
		want   error
	}{
		{"middle of route", id, AddSectionInput{UpStationID: b, DownStationID: x, Distance: 1}, route.ErrNotExtendable},
		{"disconnected", id, AddSectionInput{UpStationID: x, DownStationID: env.station(t, "Y"), Distance: 1}, route.ErrNotExtendable},
		{"closes cycle", id, AddSectionInput{UpStationID: c, DownStationID: a, Distance: 1}, route.ErrCycle},
		{"same stations", id, AddSectionInput{UpStationID: c, DownStationID: c, Distance: 1}, ErrInvalidSection},
		{"zero distance", id, AddSectionInput{UpStationID: c, DownStationID: x, Distance: 0}, ErrInvalidSection},
		{"unknown station", id, AddSectionInput{UpStationID: c, DownStationID: uuid.New(), Distance: 1}, ErrStationNotFound},
		{"unknown line", uuid.New(), AddSectionInput{UpStationID: c, DownStationID: x, Distance: 1}, ErrLineNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.lines.AddSection(ctx, tt.lineID, tt.in)
			wantErr(t, err, tt.want)
		})
	}

	view, err := env.lines.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !sameIDs(stationIDs(view.Stations), []uuid.UUID{a, b, c}) {
		t.Errorf("route changed after rejected sections: %v", stationIDs(view.Stations))
	}
}

// racingSections выполняет before перед записью section.
type racingSections struct {
	SectionStore
	before func()
}

func (r racingSections) Create(ctx context.Context, section *domain.Section) error {
	r.before()
	return r.SectionStore.Create(ctx, section)
}

func TestLineService_AddSection_ConcurrentDelete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		remove func(env *testEnv, lineID, stationID uuid.UUID) error
		want   error
	}{
		{
			name: "station removed",
			remove: func(env *testEnv, _, stationID uuid.UUID) error {
				return env.store.Stations().Delete(ctx, stationID)
			},
			want: ErrStationNotFound,
		},
		{
			name: "line removed",
			remove: func(env *testEnv, lineID, _ uuid.UUID) error {
				return env.store.Lines().Delete(ctx, lineID)
			},
			want: ErrLineNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			a := env.station(t, "A")
			b := env.station(t, "B")
			c := env.station(t, "C")
			id := env.line(t, "1호선", a, b, 4)

			svc := NewLineService(Config{
				Stations: env.store.Stations(),
				Lines:    env.store.Lines(),
				Sections: racingSections{
					SectionStore: env.store.Sections(),
					before: func() {
						if err := tt.remove(env, id, c); err != nil {
							t.Fatalf("remove: %v", err)
						}
					},
				},
			})

			_, err := svc.AddSection(ctx, id, AddSectionInput{UpStationID: b, DownStationID: c, Distance: 2})
			wantErr(t, err, tt.want)
		})
	}
}

func TestLineService_AddSection_ShapeErrorIsInvalidSection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "A")
	b := env.station(t, "B")
	x := env.station(t, "X")
	id := env.line(t, "1호선", a, b, 4)

	_, err := env.lines.AddSection(ctx, id, AddSectionInput{UpStationID: a, DownStationID: x, Distance: 1})
	wantErr(t, err, ErrInvalidSection)
}

func TestLineService_RemoveStation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "A")
	b := env.station(t, "B")
	c := env.station(t, "C")
	d := env.station(t, "D")
	id := env.line(t, "1호선", a, b, 2)
	for _, in := range []AddSectionInput{
		{UpStationID: b, DownStationID: c, Distance: 3},
		{UpStationID: c, DownStationID: d, Distance: 5},
	} {
		if _, err := env.lines.AddSection(ctx, id, in); err != nil {
			t.Fatalf("AddSection: %v", err)
		}
	}

	// Внутренняя станция: B-C и C-D сливаются.
	view, err := env.lines.RemoveStation(ctx, id, c)
	if err != nil {
		t.Fatalf("remove inner: %v", err)
	}
	if !sameIDs(stationIDs(view.Stations), []uuid.UUID{a, b, d}) {
		t.Errorf("unexpected route after inner removal: %v", stationIDs(view.Stations))
	}
	if view.Distance != 10 {
		t.Errorf("expected distance preserved (10), got %d", view.Distance)
	}

	// Конечная станция.
	view, err = env.lines.RemoveStation(ctx, id, a)
	if err != nil {
		t.Fatalf("remove terminal: %v", err)
	}
	if !sameIDs(stationIDs(view.Stations), []uuid.UUID{b, d}) {
		t.Errorf("unexpected route after terminal removal: %v", stationIDs(view.Stations))
	}

	_, err = env.lines.RemoveStation(ctx, id, b)
	wantErr(t, err, ErrInvalidSection)
	if !errors.Is(err, route.ErrLastSection) {
		t.Errorf("expected route.ErrLastSection in chain, got %v", err)
	}

	_, err = env.lines.RemoveStation(ctx, id, c)
	wantErr(t, err, ErrStationNotFound)

	events := env.events.events
	last := events[len(events)-1]
	if last.Type != domain.LineStationRemoved || last.StationID == nil || *last.StationID != a {
		t.Errorf("unexpected last event %+v", last)
	}
}

func TestLineService_Sections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "A")
	b := env.station(t, "B")
	c := env.station(t, "C")
	id := env.line(t, "1호선", b, c, 2)
	if _, err := env.lines.AddSection(ctx, id, AddSectionInput{UpStationID: a, DownStationID: b, Distance: 1}); err != nil {
		t.Fatalf("AddSection: %v", err)
	}

	sections, err := env.lines.Sections(ctx, id)
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].UpStationID != a || sections[1].DownStationID != c {
		t.Errorf("sections not in route order: %+v", sections)
	}

	_, err = env.lines.Sections(ctx, uuid.New())
	wantErr(t, err, ErrLineNotFound)
}

func TestLineService_PublishFailureIsNotReturned(t *testing.T) {
	env := newTestEnv(t)
	env.events.err = errors.New("broker down")
	a := env.station(t, "A")
	b := env.station(t, "B")

	// line() падает на любой ошибке Create.
	env.line(t, "1호선", a, b, 4)
}

func TestLineService_NilPublisher(t *testing.T) {
	env := newTestEnv(t)
	a := env.station(t, "A")
	b := env.station(t, "B")

	svc := NewLineService(Config{
		Stations: env.store.Stations(),
		Lines:    env.store.Lines(),
		Sections: env.store.Sections(),
	})
	if _, err := svc.Create(context.Background(), CreateLineInput{
		Name: "1호선", UpStationID: a, DownStationID: b, Distance: 1,
	}); err != nil {
		t.Fatalf("Create without publisher: %v", err)
	}
}
