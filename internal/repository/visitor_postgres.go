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

type VisitorRepo struct {
	db *pgxpool.Pool
}

func NewVisitorRepository(db *pgxpool.Pool) VisitorRepository {
	return &VisitorRepo{db: db}
}

func (r *VisitorRepo) Create(ctx context.Context, userID *int64, dto domain.VisitorDataDTO) (int64, error) {
	birthday, err := domain.ParseDate(dto.Birthday)
	if err != nil {
		return 0, domain.InvalidRequestError(err.Error())
	}

	query := `
		INSERT INTO visitors (user_id, first_name, last_name, patronymic, birthday, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`

	var id int64
	err = r.db.QueryRow(
		ctx,
		query,
		userID,
		dto.FirstName,
		dto.LastName,
		dto.Patronymic,
		birthday,
		dto.Type,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания посетителя: %w", err)
	}

	return id, nil
}

const visitorSelect = `
	SELECT id, user_id, first_name, last_name, patronymic, birthday, type, created_at, updated_at
	FROM visitors
`

func scanVisitor(row pgx.Row) (*domain.Visitor, error) {
	var v domain.Visitor
	err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.FirstName,
		&v.LastName,
		&v.Patronymic,
		&v.Birthday,
		&v.Type,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VisitorRepo) GetByID(ctx context.Context, id int64) (*domain.Visitor, error) {
	v, err := scanVisitor(r.db.QueryRow(ctx, visitorSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения посетителя: %w", err)
	}
	return v, nil
}

func (r *VisitorRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Visitor, error) {
	v, err := scanVisitor(r.db.QueryRow(ctx, visitorSelect+` WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения посетителя: %w", err)
	}
	return v, nil
}

func (r *VisitorRepo) Update(ctx context.Context, id int64, dto domain.VisitorDataDTO) error {
	birthday, err := domain.ParseDate(dto.Birthday)
	if err != nil {
		return domain.InvalidRequestError(err.Error())
	}

	query := `
		UPDATE visitors
		SET first_name = $1, last_name = $2, patronymic = $3, birthday = $4, type = $5, updated_at = $6
		WHERE id = $7
	`

	_, err = r.db.Exec(
		ctx,
		query,
		dto.FirstName,
		dto.LastName,
		dto.Patronymic,
		birthday,
		dto.Type,
		time.Now(),
		id,
	)

	if err != nil {
		return fmt.Errorf("ошибка обновления посетителя: %w", err)
	}

	return nil
}

func (r *VisitorRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM visitors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления посетителя: %w", err)
	}
	return nil
}

func (r *VisitorRepo) List(ctx context.Context, limit, offset int) ([]domain.Visitor, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM visitors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка получения количества посетителей: %w", err)
	}

	rows, err := r.db.Query(ctx, visitorSelect+` ORDER BY last_name, first_name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка посетителей: %w", err)
	}
	defer rows.Close()

	var visitors []domain.Visitor
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки посетителя: %w", err)
		}
		visitors = append(visitors, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return visitors, total, nil
}
