package route

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/shaiso/subway/internal/domain"
)

// stations создаёт n станций с детерминированными ID.
func stations(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(i)})
	}
	return ids
}

func sec(up, down uuid.UUID, distance int) domain.Section {
	return *domain.NewSection(uuid.Nil, up, down, distance)
}

// chain строит путь ids[0] → ids[1] → ... → ids[n-1].
func chain(ids []uuid.UUID) []domain.Section {
	out := make([]domain.Section, 0, len(ids)-1)
	for i := 0; i+1 < len(ids); i++ {
		out = append(out, sec(ids[i], ids[i+1], i+1))
	}
	return out
}

func equalIDs(a, b []uuid.UUID) bool {
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

func TestAssemble_Empty(t *testing.T) {
	got, err := Assemble(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected 0 stations, got %d", len(got))
	}
}

func TestAssemble_SingleSection(t *testing.T) {
	ids := stations(2)
	a, b := ids[0], ids[1]

	got, err := Assemble([]domain.Section{sec(a, b, 5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(got, []uuid.UUID{a, b}) {
		t.Errorf("expected [A B], got %v", got)
	}
}

func TestAssemble_OutOfOrder(t *testing.T) {
	ids := stations(3)
	a, b, c := ids[0], ids[1], ids[2]

	got, err := Assemble([]domain.Section{sec(b, c, 3), sec(a, b, 5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !equalIDs(got, []uuid.UUID{a, b, c}) {
		t.Errorf("expected [A B C], got %v", got)
	}
}

func TestAssemble_OrderIndependent(t *testing.T) {
	ids := stations(8)
	sections := chain(ids)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 50; i++ {
		shuffled := make([]domain.Section, len(sections))
		copy(shuffled, sections)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got, err := Assemble(shuffled)
		if err != nil {
			t.Fatalf("permutation %d: unexpected error: %v", i, err)
		}
		if !equalIDs(got, ids) {
			t.Fatalf("permutation %d: expected %v, got %v", i, ids, got)
		}
	}
}

func TestBuild_ReproducesEveryEdgeOnce(t *testing.T) {
	for n := 2; n <= 10; n++ {
		ids := stations(n)
		sections := chain(ids)

		r, err := Build(sections)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(r.Stations) != len(sections)+1 {
			t.Fatalf("n=%d: expected %d stations, got %d", n, len(sections)+1, len(r.Stations))
		}

		seen := make(map[[2]uuid.UUID]int)
		for i := 0; i+1 < len(r.Stations); i++ {
			seen[[2]uuid.UUID{r.Stations[i], r.Stations[i+1]}]++
		}
		for _, s := range sections {
			if seen[[2]uuid.UUID{s.UpStationID, s.DownStationID}] != 1 {
				t.Errorf("n=%d: edge %s→%s reproduced %d times", n,
					s.UpStationID, s.DownStationID, seen[[2]uuid.UUID{s.UpStationID, s.DownStationID}])
			}
		}

		for i, s := range r.Sections {
			if s.UpStationID != r.Stations[i] || s.DownStationID != r.Stations[i+1] {
				t.Errorf("n=%d: section %d is out of route order", n, i)
			}
		}
	}
}

func TestBuild_TotalDistance(t *testing.T) {
	ids := stations(4)
	r, err := Build(chain(ids)) // 1 + 2 + 3
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.TotalDistance() != 6 {
		t.Errorf("expected total distance 6, got %d", r.TotalDistance())
	}
	if r.First() != ids[0] || r.Last() != ids[3] {
		t.Error("unexpected route ends")
	}
}

func TestAssemble_InvalidShapes(t *testing.T) {
	ids := stations(4)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]

	tests := []struct {
		name     string
		sections []domain.Section
		want     error
	}{
		{"self loop", []domain.Section{sec(a, a, 1)}, ErrSelfLoop},
		{"cycle", []domain.Section{sec(a, b, 1), sec(b, c, 1), sec(c, a, 1)}, ErrCycle},
		{"two-station cycle", []domain.Section{sec(a, b, 1), sec(b, a, 1)}, ErrCycle},
		{"fork", []domain.Section{sec(a, b, 1), sec(a, c, 1)}, ErrBranching},
		{"merge", []domain.Section{sec(a, c, 1), sec(b, c, 1)}, ErrBranching},
		{"two paths", []domain.Section{sec(a, b, 1), sec(c, d, 1)}, ErrDisconnected},
		{"path plus cycle", []domain.Section{sec(a, b, 1), sec(c, d, 1), sec(d, c, 1)}, ErrDisconnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Assemble(tt.sections)
			if err == nil {
				t.Fatalf("expected error, got route %v", got)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrInvalidRoute) {
				t.Errorf("expected error to wrap ErrInvalidRoute, got %v", err)
			}

			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Errorf("expected *ShapeError, got %T", err)
			}
		})
	}
}

func TestAssemble_InvalidShapeIsDeterministic(t *testing.T) {
	ids := stations(3)
	sections := []domain.Section{sec(ids[0], ids[1], 1), sec(ids[1], ids[2], 1), sec(ids[2], ids[0], 1)}

	for i := 0; i < 20; i++ {
		if _, err := Assemble(sections); !errors.Is(err, ErrCycle) {
			t.Fatalf("run %d: expected ErrCycle, got %v", i, err)
		}
	}
}
