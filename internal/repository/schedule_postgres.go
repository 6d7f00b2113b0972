package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"psychologist/internal/domain"
)

const pgUniqueViolation = "23505"

type ScheduleRepo struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) ScheduleRepository {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) Create(ctx context.Context, day domain.ScheduleDay) error {
	query := `
		INSERT INTO schedule (specialist_id, date, start_time, end_time, break_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		ctx,
		query,
		day.SpecialistID,
		day.Date,
		day.StartTime,
		day.EndTime,
		day.BreakTime,
		day.CreatedAt,
		day.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ConflictError(fmt.Sprintf("расписание на %s уже существует", day.Date))
		}
		return fmt.Errorf("ошибка создания дня расписания: %w", err)
	}

	return nil
}

func (r *ScheduleRepo) CreateRange(ctx context.Context, days []domain.ScheduleDay) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO schedule (specialist_id, date, start_time, end_time, break_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, day := range days {
		_, err = tx.Exec(
			ctx,
			query,
			day.SpecialistID,
			day.Date,
			day.StartTime,
			day.EndTime,
			day.BreakTime,
			day.CreatedAt,
			day.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return domain.ConflictError(fmt.Sprintf("расписание на %s уже существует", day.Date))
			}
			return fmt.Errorf("ошибка создания дня расписания: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return nil
}

func (r *ScheduleRepo) GetByDate(ctx context.Context, specialistID int64, date domain.Date) (*domain.ScheduleDay, error) {
	query := `
		SELECT specialist_id, date, start_time, end_time, break_time, created_at, updated_at
		FROM schedule
		WHERE specialist_id = $1 AND date = $2
	`

	var day domain.ScheduleDay
	err := r.db.QueryRow(ctx, query, specialistID, date).Scan(
		&day.SpecialistID,
		&day.Date,
		&day.StartTime,
		&day.EndTime,
		&day.BreakTime,
		&day.CreatedAt,
		&day.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения дня расписания: %w", err)
	}

	return &day, nil
}

func (r *ScheduleRepo) ListRange(ctx context.Context, specialistID int64, from, to domain.Date) ([]domain.ScheduleDay, error) {
	query := `
		SELECT specialist_id, date, start_time, end_time, break_time, created_at, updated_at
		FROM schedule
		WHERE specialist_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := r.db.Query(ctx, query, specialistID, from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения расписания: %w", err)
	}
	defer rows.Close()

	var days []domain.ScheduleDay
	for rows.Next() {
		var day domain.ScheduleDay
		err := rows.Scan(
			&day.SpecialistID,
			&day.Date,
			&day.StartTime,
			&day.EndTime,
			&day.BreakTime,
			&day.CreatedAt,
			&day.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки расписания: %w", err)
		}
		days = append(days, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return days, nil
}

func (r *ScheduleRepo) Update(ctx context.Context, day domain.ScheduleDay) (bool, error) {
	query := `
		UPDATE schedule
		SET start_time = $1, end_time = $2, break_time = $3, updated_at = $4
		WHERE specialist_id = $5 AND date = $6
	`

	tag, err := r.db.Exec(
		ctx,
		query,
		day.StartTime,
		day.EndTime,
		day.BreakTime,
		day.UpdatedAt,
		day.SpecialistID,
		day.Date,
	)

	if err != nil {
		return false, fmt.Errorf("ошибка обновления дня расписания: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *ScheduleRepo) Delete(ctx context.Context, specialistID int64, date domain.Date) (int64, error) {
	return r.deleteRange(ctx, specialistID, date, date)
}

func (r *ScheduleRepo) DeleteRange(ctx context.Context, specialistID int64, from, to domain.Date) (int64, error) {
	return r.deleteRange(ctx, specialistID, from, to)
}

// deleteRange проверяет наличие консультаций и удаляет дни в одной
// транзакции: дни блокируются до подсчёта, чтобы запись, закоммиченная
// между проверкой и удалением, не осталась без расписания.
func (r *ScheduleRepo) deleteRange(ctx context.Context, specialistID int64, from, to domain.Date) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`SELECT 1 FROM schedule WHERE specialist_id = $1 AND date >= $2 AND date <= $3 FOR UPDATE`,
		specialistID, from, to,
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка блокировки расписания: %w", err)
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM consultations WHERE specialist_id = $1 AND schedule_date >= $2 AND schedule_date <= $3`,
		specialistID, from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчёта консультаций: %w", err)
	}
	if count > 0 {
		return 0, domain.ConflictError(fmt.Sprintf("в удаляемом периоде есть консультации (%d), сначала отмените их", count))
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM schedule WHERE specialist_id = $1 AND date >= $2 AND date <= $3`,
		specialistID, from, to,
	)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления расписания: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка коммита транзакции: %w", err)
	}

	return tag.RowsAffected(), nil
}
