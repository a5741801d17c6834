package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestStationService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	st, err := env.stations.Create(ctx, " 강남역 ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if st.Name != "강남역" {
		t.Errorf("expected trimmed name, got %q", st.Name)
	}

	_, err = env.stations.Create(ctx, "강남역")
	wantErr(t, err, ErrDuplicateName)

	_, err = env.stations.Create(ctx, "")
	wantErr(t, err, ErrInvalidName)

	list, err := env.stations.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 station, got %d", len(list))
	}
}

func TestStationService_Get(t *testing.T) {
	env := newTestEnv(t)
	id := env.station(t, "역삼역")

	st, err := env.stations.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if st.Name != "역삼역" {
		t.Errorf("unexpected name %q", st.Name)
	}

	_, err = env.stations.Get(context.Background(), uuid.New())
	wantErr(t, err, ErrStationNotFound)
}

func TestStationService_Rename(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "A")
	env.station(t, "B")

	if _, err := env.stations.Rename(ctx, a, "A"); err != nil {
		t.Errorf("rename to own name: %v", err)
	}

	_, err := env.stations.Rename(ctx, a, "B")
	wantErr(t, err, ErrDuplicateName)

	st, err := env.stations.Rename(ctx, a, "C")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if st.Name != "C" {
		t.Errorf("expected C, got %q", st.Name)
	}

	_, err = env.stations.Rename(ctx, uuid.New(), "D")
	wantErr(t, err, ErrStationNotFound)
}

func TestStationService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.station(t, "A")
	b := env.station(t, "B")
	free := env.station(t, "C")
	env.line(t, "1호선", a, b, 3)

	wantErr(t, env.stations.Delete(ctx, a), ErrStationInUse)

	if err := env.stations.Delete(ctx, free); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	wantErr(t, env.stations.Delete(ctx, free), ErrStationNotFound)
}
