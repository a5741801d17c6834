package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/subway/internal/domain"
)

// execer — общий интерфейс pgxpool.Pool и pgx.Tx для INSERT/DELETE.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SectionRepo — репозиторий для работы с sections.
type SectionRepo struct {
	pool *pgxpool.Pool
}

// NewSectionRepo создаёт новый SectionRepo.
func NewSectionRepo(pool *pgxpool.Pool) *SectionRepo {
	return &SectionRepo{pool: pool}
}

// Create создаёт новый section.
func (r *SectionRepo) Create(ctx context.Context, section *domain.Section) error {
	return insertSection(ctx, r.pool, section)
}

// ListByLine возвращает все sections линии (в порядке хранения, не маршрута).
func (r *SectionRepo) ListByLine(ctx context.Context, lineID uuid.UUID) ([]domain.Section, error) {
	query := `
		SELECT id, line_id, up_station_id, down_station_id, distance
		FROM sections
		WHERE line_id = $1
	`
	rows, err := r.pool.Query(ctx, query, lineID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	sections := make([]domain.Section, 0)
	for rows.Next() {
		var s domain.Section
		if err := rows.Scan(
			&s.ID,
			&s.LineID,
			&s.UpStationID,
			&s.DownStationID,
			&s.Distance,
		); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// ExistsForStation проверяет, ссылается ли хотя бы один section на станцию.
func (r *SectionRepo) ExistsForStation(ctx context.Context, stationID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sections
			WHERE up_station_id = $1 OR down_station_id = $1
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, stationID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check station sections: %w", err)
	}
	return exists, nil
}

// Replace удаляет sections линии с указанными ID и добавляет новые
// в одной транзакции.
func (r *SectionRepo) Replace(ctx context.Context, lineID uuid.UUID, remove []uuid.UUID, add []domain.Section) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if len(remove) > 0 {
			result, err := tx.Exec(ctx, `
				DELETE FROM sections
				WHERE line_id = $1 AND id = ANY($2)
			`, lineID, remove)
			if err != nil {
				return fmt.Errorf("delete sections: %w", err)
			}
			if result.RowsAffected() != int64(len(remove)) {
				return ErrNotFound
			}
		}

		for i := range add {
			if err := insertSection(ctx, tx, &add[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertSection(ctx context.Context, db execer, section *domain.Section) error {
	query := `
		INSERT INTO sections (id, line_id, up_station_id, down_station_id, distance)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := db.Exec(ctx, query,
		section.ID,
		section.LineID,
		section.UpStationID,
		section.DownStationID,
		section.Distance,
	)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	// Линия или станция удалена параллельно.
	if isForeignKeyViolation(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("insert section: %w", err)
	}
	return nil
}
