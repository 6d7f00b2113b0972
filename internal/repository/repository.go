package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"psychologist/internal/domain"
)

type Repositories struct {
	User         UserRepository
	Auth         AuthRepository
	Specialist   SpecialistRepository
	Visitor      VisitorRepository
	Schedule     ScheduleRepository
	Consultation ConsultationRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Auth:         NewAuthRepository(db),
		Specialist:   NewSpecialistRepository(db),
		Visitor:      NewVisitorRepository(db),
		Schedule:     NewScheduleRepository(db),
		Consultation: NewConsultationRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type SpecialistRepository interface {
	Create(ctx context.Context, userID int64, specialist domain.SpecialistDataDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Specialist, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Specialist, error)
	Update(ctx context.Context, id int64, specialist domain.SpecialistDataDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Specialist, int, error)
}

type VisitorRepository interface {
	Create(ctx context.Context, userID *int64, visitor domain.VisitorDataDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Visitor, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Visitor, error)
	Update(ctx context.Context, id int64, visitor domain.VisitorDataDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Visitor, int, error)
}

type ScheduleRepository interface {
	// Create возвращает domain.ConflictError, если окно на эту дату уже есть.
	Create(ctx context.Context, day domain.ScheduleDay) error
	// CreateRange вставляет все дни в одной транзакции; при любом конфликте
	// не создаётся ничего.
	CreateRange(ctx context.Context, days []domain.ScheduleDay) error
	GetByDate(ctx context.Context, specialistID int64, date domain.Date) (*domain.ScheduleDay, error)
	ListRange(ctx context.Context, specialistID int64, from, to domain.Date) ([]domain.ScheduleDay, error)
	Update(ctx context.Context, day domain.ScheduleDay) (bool, error)
	// Delete и DeleteRange проверяют консультации и удаляют дни в одной
	// транзакции; при существующих консультациях возвращается
	// domain.ConflictError и ничего не удаляется.
	Delete(ctx context.Context, specialistID int64, date domain.Date) (int64, error)
	DeleteRange(ctx context.Context, specialistID int64, from, to domain.Date) (int64, error)
}

type ConsultationRepository interface {
	// Create атомарно проверяет занятость слота и занятость посетителя и
	// вставляет запись; гонки разрешаются уникальными индексами БД, проигравший
	// получает domain.InvalidRequestError. День расписания удерживается
	// разделяемой блокировкой, чтобы исключить одновременное удаление окна.
	Create(ctx context.Context, consultation domain.Consultation) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Consultation, error)
	GetBySlot(ctx context.Context, specialistID int64, date domain.Date, time string) (*domain.Consultation, error)
	ListBySpecialist(ctx context.Context, specialistID int64) ([]domain.Consultation, error)
	ListByDay(ctx context.Context, specialistID int64, date domain.Date) ([]domain.Consultation, error)
	ListByVisitor(ctx context.Context, visitorID int64) ([]domain.Consultation, error)
	ExistsForVisitorAt(ctx context.Context, visitorID int64, date domain.Date, time string) (bool, error)
	Update(ctx context.Context, consultation domain.Consultation) error
	SetVisitorArrived(ctx context.Context, id int64, arrived bool) error
	Delete(ctx context.Context, id int64) error
}
