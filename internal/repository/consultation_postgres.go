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

// Имена уникальных индексов, охраняющих инварианты бронирования.
const (
	specialistSlotConstraint = "consultations_specialist_slot_key"
	visitorSlotConstraint    = "consultations_visitor_slot_key"
)

type ConsultationRepo struct {
	db *pgxpool.Pool
}

func NewConsultationRepository(db *pgxpool.Pool) ConsultationRepository {
	return &ConsultationRepo{db: db}
}

const consultationColumns = `
	c.id, c.specialist_id, c.visitor_id, c.schedule_date, c.time, c.topic,
	c.visitor_arrived, c."primary", c.created_by_visitor, c.type,
	c.request_code, c.nature, c.notes, c.purpose, c.revealed, c.prescribed,
	c.created_at, c.updated_at
`

func scanConsultation(row pgx.Row) (*domain.Consultation, error) {
	var c domain.Consultation
	err := row.Scan(
		&c.ID,
		&c.SpecialistID,
		&c.VisitorID,
		&c.ScheduleDate,
		&c.Time,
		&c.Topic,
		&c.VisitorArrived,
		&c.Primary,
		&c.CreatedByVisitor,
		&c.Type,
		&c.RequestCode,
		&c.Nature,
		&c.Notes,
		&c.Purpose,
		&c.Revealed,
		&c.Prescribed,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create выполняет проверки занятости и вставку в одной транзакции.
// От гонки двух одновременных бронирований защищают уникальные индексы:
// нарушение транслируется в ту же бизнес-ошибку, что и обычная проверка.
// День расписания блокируется разделяемой блокировкой: удаление окна
// держит эти строки FOR UPDATE, поэтому бронирование и удаление дня не
// могут пересечься.
func (r *ConsultationRepo) Create(ctx context.Context, c domain.Consultation) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var one int
	err = tx.QueryRow(ctx,
		`SELECT 1 FROM schedule WHERE specialist_id = $1 AND date = $2 FOR SHARE`,
		c.SpecialistID, c.ScheduleDate,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.InvalidRequestError(fmt.Sprintf("нет расписания на дату %s", c.ScheduleDate))
	}
	if err != nil {
		return 0, fmt.Errorf("ошибка блокировки дня расписания: %w", err)
	}

	var occupied bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM consultations WHERE specialist_id = $1 AND schedule_date = $2 AND time = $3)`,
		c.SpecialistID, c.ScheduleDate, c.Time,
	).Scan(&occupied)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки занятости слота: %w", err)
	}
	if occupied {
		return 0, domain.InvalidRequestError("выбранные дата и время уже заняты")
	}

	var visitorBusy bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM consultations WHERE visitor_id = $1 AND schedule_date = $2 AND time = $3)`,
		c.VisitorID, c.ScheduleDate, c.Time,
	).Scan(&visitorBusy)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки занятости посетителя: %w", err)
	}
	if visitorBusy {
		return 0, domain.InvalidRequestError("у посетителя уже есть консультация на это время")
	}

	query := `
		INSERT INTO consultations (
			specialist_id, visitor_id, schedule_date, time, topic,
			visitor_arrived, "primary", created_by_visitor, type,
			request_code, nature, notes, purpose, revealed, prescribed,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`

	var id int64
	err = tx.QueryRow(
		ctx,
		query,
		c.SpecialistID,
		c.VisitorID,
		c.ScheduleDate,
		c.Time,
		c.Topic,
		c.VisitorArrived,
		c.Primary,
		c.CreatedByVisitor,
		c.Type,
		c.RequestCode,
		c.Nature,
		c.Notes,
		c.Purpose,
		c.Revealed,
		c.Prescribed,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&id)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			switch pgErr.ConstraintName {
			case specialistSlotConstraint:
				return 0, domain.InvalidRequestError("выбранные дата и время уже заняты")
			case visitorSlotConstraint:
				return 0, domain.InvalidRequestError("у посетителя уже есть консультация на это время")
			}
		}
		return 0, fmt.Errorf("ошибка создания консультации: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return id, nil
}

func (r *ConsultationRepo) GetByID(ctx context.Context, id int64) (*domain.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations c WHERE c.id = $1`

	c, err := scanConsultation(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения консультации: %w", err)
	}

	return c, nil
}

func (r *ConsultationRepo) GetBySlot(ctx context.Context, specialistID int64, date domain.Date, time string) (*domain.Consultation, error) {
	query := `
		SELECT ` + consultationColumns + `
		FROM consultations c
		WHERE c.specialist_id = $1 AND c.schedule_date = $2 AND c.time = $3
	`

	c, err := scanConsultation(r.db.QueryRow(ctx, query, specialistID, date, time))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения консультации: %w", err)
	}

	return c, nil
}

func (r *ConsultationRepo) listWithVisitors(ctx context.Context, query string, args ...interface{}) ([]domain.Consultation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка консультаций: %w", err)
	}
	defer rows.Close()

	var consultations []domain.Consultation
	for rows.Next() {
		var c domain.Consultation
		var v domain.Visitor
		err := rows.Scan(
			&c.ID,
			&c.SpecialistID,
			&c.VisitorID,
			&c.ScheduleDate,
			&c.Time,
			&c.Topic,
			&c.VisitorArrived,
			&c.Primary,
			&c.CreatedByVisitor,
			&c.Type,
			&c.RequestCode,
			&c.Nature,
			&c.Notes,
			&c.Purpose,
			&c.Revealed,
			&c.Prescribed,
			&c.CreatedAt,
			&c.UpdatedAt,
			&v.ID,
			&v.FirstName,
			&v.LastName,
			&v.Patronymic,
			&v.Birthday,
			&v.Type,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки консультации: %w", err)
		}
		c.Visitor = &v
		consultations = append(consultations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return consultations, nil
}

const visitorJoinColumns = `,
	v.id, v.first_name, v.last_name, v.patronymic, v.birthday, v.type
`

func (r *ConsultationRepo) ListBySpecialist(ctx context.Context, specialistID int64) ([]domain.Consultation, error) {
	query := `
		SELECT ` + consultationColumns + visitorJoinColumns + `
		FROM consultations c
		JOIN visitors v ON v.id = c.visitor_id
		WHERE c.specialist_id = $1
		ORDER BY c.schedule_date, c.time
	`
	return r.listWithVisitors(ctx, query, specialistID)
}

func (r *ConsultationRepo) ListByDay(ctx context.Context, specialistID int64, date domain.Date) ([]domain.Consultation, error) {
	query := `
		SELECT ` + consultationColumns + visitorJoinColumns + `
		FROM consultations c
		JOIN visitors v ON v.id = c.visitor_id
		WHERE c.specialist_id = $1 AND c.schedule_date = $2
		ORDER BY c.time
	`
	return r.listWithVisitors(ctx, query, specialistID, date)
}

func (r *ConsultationRepo) ListByVisitor(ctx context.Context, visitorID int64) ([]domain.Consultation, error) {
	query := `
		SELECT ` + consultationColumns + `,
			s.id, s.first_name, s.last_name, s.patronymic, s.type,
			s.primary_visit_price, s.secondary_visit_price
		FROM consultations c
		JOIN specialists s ON s.id = c.specialist_id
		WHERE c.visitor_id = $1
		ORDER BY c.schedule_date DESC, c.time DESC
	`

	rows, err := r.db.Query(ctx, query, visitorID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения консультаций посетителя: %w", err)
	}
	defer rows.Close()

	var consultations []domain.Consultation
	for rows.Next() {
		var c domain.Consultation
		var s domain.Specialist
		err := rows.Scan(
			&c.ID,
			&c.SpecialistID,
			&c.VisitorID,
			&c.ScheduleDate,
			&c.Time,
			&c.Topic,
			&c.VisitorArrived,
			&c.Primary,
			&c.CreatedByVisitor,
			&c.Type,
			&c.RequestCode,
			&c.Nature,
			&c.Notes,
			&c.Purpose,
			&c.Revealed,
			&c.Prescribed,
			&c.CreatedAt,
			&c.UpdatedAt,
			&s.ID,
			&s.FirstName,
			&s.LastName,
			&s.Patronymic,
			&s.Type,
			&s.PrimaryVisitPrice,
			&s.SecondaryVisitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки консультации: %w", err)
		}
		c.Specialist = &s
		consultations = append(consultations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов запроса: %w", err)
	}

	return consultations, nil
}

func (r *ConsultationRepo) ExistsForVisitorAt(ctx context.Context, visitorID int64, date domain.Date, time string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM consultations WHERE visitor_id = $1 AND schedule_date = $2 AND time = $3)`,
		visitorID, date, time,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки занятости посетителя: %w", err)
	}
	return exists, nil
}

func (r *ConsultationRepo) Update(ctx context.Context, c domain.Consultation) error {
	query := `
		UPDATE consultations
		SET visitor_id = $1, topic = $2, visitor_arrived = $3, "primary" = $4,
			request_code = $5, nature = $6, notes = $7, purpose = $8,
			revealed = $9, prescribed = $10, updated_at = $11
		WHERE id = $12
	`

	_, err := r.db.Exec(
		ctx,
		query,
		c.VisitorID,
		c.Topic,
		c.VisitorArrived,
		c.Primary,
		c.RequestCode,
		c.Nature,
		c.Notes,
		c.Purpose,
		c.Revealed,
		c.Prescribed,
		c.UpdatedAt,
		c.ID,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.InvalidRequestError("у посетителя уже есть консультация на это время")
		}
		return fmt.Errorf("ошибка обновления консультации: %w", err)
	}

	return nil
}

func (r *ConsultationRepo) SetVisitorArrived(ctx context.Context, id int64, arrived bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE consultations SET visitor_arrived = $1, updated_at = now() WHERE id = $2`,
		arrived, id,
	)
	if err != nil {
		return fmt.Errorf("ошибка отметки прихода посетителя: %w", err)
	}
	return nil
}

func (r *ConsultationRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления консультации: %w", err)
	}
	return nil
}
