package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"psychologist/internal/domain"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

func (r *UserRepo) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	var id int64
	query := `
		INSERT INTO users (email, password_hash, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		dto.Email,
		dto.Password,
		dto.Role,
		true,
		time.Now(),
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, domain.ConflictError("пользователь с таким email уже существует")
		}
		return 0, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	return id, nil
}

const userSelect = `
	SELECT id, email, password_hash, role, is_active, created_at, updated_at
	FROM users
`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return user, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, userSelect+` WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	return user, nil
}

func (r *UserRepo) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error {
	setValues := []string{}
	args := []interface{}{id}
	argId := 2

	if dto.Email != nil {
		setValues = append(setValues, fmt.Sprintf("email = $%d", argId))
		args = append(args, *dto.Email)
		argId++
	}

	if dto.IsActive != nil {
		setValues = append(setValues, fmt.Sprintf("is_active = $%d", argId))
		args = append(args, *dto.IsActive)
		argId++
	}

	if len(setValues) == 0 {
		return nil
	}

	setValues = append(setValues, fmt.Sprintf("updated_at = $%d", argId))
	args = append(args, time.Now())

	setQuery := "UPDATE users SET " + joinWithComma(setValues) + " WHERE id = $1"

	_, err := r.db.Exec(ctx, setQuery, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления пользователя: %w", err)
	}

	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.Exec(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления пароля: %w", err)
	}

	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET is_active = false, updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}

	return nil
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, userSelect+` ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса списка пользователей: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения данных пользователя: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка обработки результатов: %w", err)
	}

	return users, nil
}

func joinWithComma(values []string) string {
	var result string
	for i, value := range values {
		if i > 0 {
			result += ", "
		}
		result += value
	}
	return result
}
