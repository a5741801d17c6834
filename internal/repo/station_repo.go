package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/subway/internal/domain"
)

// StationRepo — репозиторий для работы со stations.
type StationRepo struct {
	pool *pgxpool.Pool
}

// NewStationRepo создаёт новый StationRepo.
func NewStationRepo(pool *pgxpool.Pool) *StationRepo {
	return &StationRepo{pool: pool}
}

// Create создаёт новую станцию.
func (r *StationRepo) Create(ctx context.Context, station *domain.Station) error {
	query := `
		INSERT INTO stations (id, name, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, station.ID, station.Name, station.CreatedAt)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert station: %w", err)
	}
	return nil
}

// GetByID возвращает станцию по ID.
func (r *StationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Station, error) {
	query := `
		SELECT id, name, created_at
		FROM stations
		WHERE id = $1
	`
	return r.scanStation(r.pool.QueryRow(ctx, query, id), "get station by id")
}

// GetByName возвращает станцию по имени.
func (r *StationRepo) GetByName(ctx context.Context, name string) (*domain.Station, error) {
	query := `
		SELECT id, name, created_at
		FROM stations
		WHERE name = $1
	`
	return r.scanStation(r.pool.QueryRow(ctx, query, name), "get station by name")
}

// List возвращает все станции в порядке создания.
func (r *StationRepo) List(ctx context.Context) ([]domain.Station, error) {
	query := `
		SELECT id, name, created_at
		FROM stations
		ORDER BY created_at ASC, name ASC
	`
	return r.query(ctx, "list stations", query)
}

// GetMany возвращает станции по набору ID. Отсутствующие ID пропускаются.
func (r *StationRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Station, error) {
	if len(ids) == 0 {
		return []domain.Station{}, nil
	}
	query := `
		SELECT id, name, created_at
		FROM stations
		WHERE id = ANY($1)
	`
	return r.query(ctx, "get stations", query, ids)
}

// Update обновляет имя станции.
func (r *StationRepo) Update(ctx context.Context, station *domain.Station) error {
	query := `
		UPDATE stations
		SET name = $2
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, station.ID, station.Name)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update station: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет станцию.
// Станция, на которую ссылается section, не удалится: вернётся ErrReferenced.
func (r *StationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return ErrReferenced
	}
	if err != nil {
		return fmt.Errorf("delete station: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *StationRepo) query(ctx context.Context, op, query string, args ...any) ([]domain.Station, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	stations := make([]domain.Station, 0)
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

func (r *StationRepo) scanStation(row pgx.Row, op string) (*domain.Station, error) {
	var s domain.Station
	err := row.Scan(&s.ID, &s.Name, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}
