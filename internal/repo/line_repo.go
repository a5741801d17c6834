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

// LineRepo — репозиторий для работы с lines.
type LineRepo struct {
	pool *pgxpool.Pool
}

// NewLineRepo создаёт новый LineRepo.
func NewLineRepo(pool *pgxpool.Pool) *LineRepo {
	return &LineRepo{pool: pool}
}

// CreateWithSection создаёт линию и её первый section в одной транзакции.
func (r *LineRepo) CreateWithSection(ctx context.Context, line *domain.Line, section *domain.Section) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO lines (id, name, color, created_at)
			VALUES ($1, $2, $3, $4)
		`, line.ID, line.Name, line.Color, line.CreatedAt)
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		if err != nil {
			return fmt.Errorf("insert line: %w", err)
		}

		if err := insertSection(ctx, tx, section); err != nil {
			return err
		}
		return nil
	})
}

// GetByID возвращает линию по ID.
func (r *LineRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Line, error) {
	query := `
		SELECT id, name, color, created_at
		FROM lines
		WHERE id = $1
	`
	return r.scanLine(r.pool.QueryRow(ctx, query, id), "get line by id")
}

// GetByName возвращает линию по имени.
func (r *LineRepo) GetByName(ctx context.Context, name string) (*domain.Line, error) {
	query := `
		SELECT id, name, color, created_at
		FROM lines
		WHERE name = $1
	`
	return r.scanLine(r.pool.QueryRow(ctx, query, name), "get line by name")
}

// List возвращает все линии.
func (r *LineRepo) List(ctx context.Context) ([]domain.Line, error) {
	query := `
		SELECT id, name, color, created_at
		FROM lines
		ORDER BY created_at ASC, name ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.Line, 0)
	for rows.Next() {
		var l domain.Line
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Update обновляет имя и цвет линии.
func (r *LineRepo) Update(ctx context.Context, line *domain.Line) error {
	query := `
		UPDATE lines
		SET name = $2, color = $3
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query, line.ID, line.Name, line.Color)
	if isUniqueViolation(err) {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("update line: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет линию вместе со всеми её sections.
//
// Sections удаляются явно в той же транзакции, не полагаясь только
// на ON DELETE CASCADE.
func (r *LineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sections WHERE line_id = $1`, id); err != nil {
			return fmt.Errorf("delete line sections: %w", err)
		}

		result, err := tx.Exec(ctx, `DELETE FROM lines WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete line: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *LineRepo) scanLine(row pgx.Row, op string) (*domain.Line, error) {
	var l domain.Line
	err := row.Scan(&l.ID, &l.Name, &l.Color, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}
