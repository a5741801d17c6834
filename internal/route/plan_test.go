package route

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestPlanExtension(t *testing.T) {
	ids := stations(5)
	a, b, c, d, e := ids[0], ids[1], ids[2], ids[3], ids[4]

	r, err := Build(chain([]uuid.UUID{b, c, d}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		route   *Route
		up      uuid.UUID
		down    uuid.UUID
		want    Position
		wantErr error
	}{
		{"empty route accepts anything", &Route{}, a, b, PositionInitial, nil},
		{"append after last", r, d, e, PositionAppend, nil},
		{"prepend before first", r, a, b, PositionPrepend, nil},
		{"self loop", r, d, d, 0, ErrSelfLoop},
		{"append closes cycle", r, d, b, 0, ErrCycle},
		{"prepend closes cycle", r, c, b, 0, ErrCycle},
		{"inner station", r, c, e, 0, ErrNotExtendable},
		{"unrelated stations", r, a, e, 0, ErrNotExtendable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlanExtension(tt.route, tt.up, tt.down)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPlanRemoval_Terminal(t *testing.T) {
	ids := stations(3)
	r, _ := Build(chain(ids))

	first, err := PlanRemoval(r, ids[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Remove) != 1 || first.Remove[0] != r.Sections[0].ID || first.Merged != nil {
		t.Errorf("unexpected removal for first station: %+v", first)
	}

	last, err := PlanRemoval(r, ids[2])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last.Remove) != 1 || last.Remove[0] != r.Sections[1].ID || last.Merged != nil {
		t.Errorf("unexpected removal for last station: %+v", last)
	}
}

func TestPlanRemoval_InnerStationMerges(t *testing.T) {
	ids := stations(3)
	r, _ := Build(chain(ids)) // distances 1, 2

	rm, err := PlanRemoval(r, ids[1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rm.Remove) != 2 {
		t.Fatalf("expected 2 sections removed, got %d", len(rm.Remove))
	}
	if rm.Merged == nil {
		t.Fatal("expected merged section")
	}
	if rm.Merged.UpStationID != ids[0] || rm.Merged.DownStationID != ids[2] {
		t.Errorf("merged section should connect first and last station")
	}
	if rm.Merged.Distance != 3 {
		t.Errorf("expected merged distance 3, got %d", rm.Merged.Distance)
	}
}

func TestPlanRemoval_Errors(t *testing.T) {
	ids := stations(3)
	single, _ := Build(chain(ids[:2]))

	if _, err := PlanRemoval(single, ids[0]); !errors.Is(err, ErrLastSection) {
		t.Errorf("expected ErrLastSection, got %v", err)
	}
	if _, err := PlanRemoval(single, ids[2]); !errors.Is(err, ErrStationNotOnRoute) {
		t.Errorf("expected ErrStationNotOnRoute, got %v", err)
	}
}
