package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema — DDL для таблиц метро. Все выражения идемпотентны.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS stations (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS lines (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		color      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sections (
		id              UUID PRIMARY KEY,
		line_id         UUID NOT NULL REFERENCES lines(id) ON DELETE CASCADE,
		up_station_id   UUID NOT NULL REFERENCES stations(id),
		down_station_id UUID NOT NULL REFERENCES stations(id),
		distance        INTEGER NOT NULL CHECK (distance > 0),
		CHECK (up_station_id <> down_station_id)
	)`,
	`CREATE INDEX IF NOT EXISTS sections_line_id_idx ON sections (line_id)`,
	`CREATE INDEX IF NOT EXISTS sections_up_station_idx ON sections (up_station_id)`,
	`CREATE INDEX IF NOT EXISTS sections_down_station_idx ON sections (down_station_id)`,
}

// Migrate создаёт таблицы, если их ещё нет.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
