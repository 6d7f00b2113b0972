package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"psychologist/internal/domain"
)

type SpecialistRepo struct {
	db *pgxpool.Pool
}

func NewSpecialistRepository(db *pgxpool.Pool) SpecialistRepository {
	return &SpecialistRepo{db: db}
}

func (r *SpecialistRepo) Create(ctx context.Context, userID int64, dto domain.SpecialistDataDTO) (int64, error) {
	query := `
		INSERT INTO specialists (user_id, first_name, last_name, patronymic, type, primary_visit_price, secondary_visit_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		userID,
		dto.FirstName,
		dto.LastName,
		dto.Patronymic,
		dto.Type,
		dto.PrimaryVisitPrice,
		dto.SecondaryVisitPrice,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания специалиста: %w", err)
	}

	return id, nil
}

const specialistSelect = `
	SELECT s.id, s.user_id, s.first_name, s.last_name, s.patronymic, s.type,
		s.primary_visit_price, s.secondary_visit_price, u.email, s.created_at, s.updated_at
	FROM specialists s
	JOIN users u ON u.id = s.user_id
`

func scanSpecialist(row pgx.Row) (*domain.Specialist, error) {
	var s domain.Specialist
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.FirstName,
		&s.LastName,
		&s.Patronymic,
		&s.Type,
		&s.PrimaryVisitPrice,
		&s.SecondaryVisitPrice,
		&s.Email,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SpecialistRepo) GetByID(ctx context.Context, id int64) (*domain.Specialist, error) {
	s, err := scanSpecialist(r.db.QueryRow(ctx, specialistSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения специалиста: %w", err)
	}
	return s, nil
}

func (r *SpecialistRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Specialist, error) {
	s, err := scanSpecialist(r.db.QueryRow(ctx, specialistSelect+` WHERE s.user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения специалиста: %w", err)
	}
	return s, nil
}

func (r *SpecialistRepo) Update(ctx context.Context, id int64, dto domain.SpecialistDataDTO) error {
	query := `
		UPDATE specialists
		SET first_name = $1, last_name = $2, patronymic = $3, type = $4,
			primary_visit_price = $5, secondary_visit_price = $6, updated_at = $7
		WHERE id = $8
	`

	_, err := r.db.Exec(
		ctx,
		query,
		dto.FirstName,
		dto.LastName,
		dto.Patronymic,
		dto.Type,
		dto.PrimaryVisitPrice,
		dto.SecondaryVisitPrice,
		time.Now(),
		id,
	)

	if err != nil {
		return fmt.Errorf("ошибка обновления специалиста: %w", err)
	}

	return nil
}

func (r *SpecialistRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM specialists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления специалиста: %w", err)
	}
	return nil
}

func (r *SpecialistRepo) List(ctx context.Context, limit, offset int) ([]domain.Specialist, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM specialists`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка получения количества специалистов: %w", err)
	}

	rows, err := r.db.Query(ctx, specialistSelect+` ORDER BY s.last_name, s.first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка специалистов: %w", err)
	}
	defer rows.Close()

	var specialists []domain.Specialist
	for rows.Next() {
		s, err := scanSpecialist(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки специалиста: %w", err)
		}
		specialists = append(specialists, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return specialists, total, nil
}
