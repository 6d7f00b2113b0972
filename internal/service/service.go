package service

import (
	"context"

	"go.uber.org/zap"

	"psychologist/config"
	"psychologist/internal/domain"
	"psychologist/internal/repository"
)

type Deps struct {
	Repos  *repository.Repositories
	Logger *zap.Logger
	Config *config.Config
}

type Services struct {
	User         UserService
	Auth         AuthService
	Specialist   SpecialistService
	Visitor      VisitorService
	Schedule     ScheduleService
	Consultation ConsultationService
	Appointment  AppointmentService
}

func NewServices(deps Deps) *Services {
	return &Services{
		User:         NewUserService(deps.Repos.User, deps.Repos.Auth, deps.Logger),
		Auth:         NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Repos.Visitor, deps.Config.JWT, deps.Logger),
		Specialist:   NewSpecialistService(deps.Repos.Specialist, deps.Repos.User, deps.Logger),
		Visitor:      NewVisitorService(deps.Repos.Visitor, deps.Logger),
		Schedule:     NewScheduleService(deps.Repos.Schedule, deps.Repos.Consultation, deps.Repos.Specialist, deps.Logger),
		Consultation: NewConsultationService(deps.Repos.Consultation, deps.Repos.Schedule, deps.Repos.Visitor, deps.Logger),
		Appointment:  NewAppointmentService(deps.Repos.Consultation, deps.Repos.Schedule, deps.Repos.Visitor, deps.Logger),
	}
}

type UserService interface {
	Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

type SpecialistService interface {
	Create(ctx context.Context, dto domain.CreateSpecialistDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Specialist, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Specialist, error)
	Update(ctx context.Context, id int64, dto domain.SpecialistDataDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Specialist, int, error)
}

type VisitorService interface {
	Create(ctx context.Context, dto domain.VisitorDataDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Visitor, error)
	Update(ctx context.Context, id int64, dto domain.VisitorDataDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.Visitor, int, error)
}

type ScheduleService interface {
	Create(ctx context.Context, specialistID int64, dto domain.CreateScheduleDayDTO) (*domain.ScheduleDay, error)
	CreateRange(ctx context.Context, specialistID int64, dto domain.CreateScheduleRangeDTO) ([]domain.ScheduleDay, error)
	GetDayView(ctx context.Context, specialistID int64, date string) (*ScheduleDayView, error)
	ListRange(ctx context.Context, specialistID int64, from, to string) ([]domain.ScheduleDay, error)
	Update(ctx context.Context, specialistID int64, date string, dto domain.UpdateScheduleDayDTO) (*domain.ScheduleDay, error)
	Delete(ctx context.Context, specialistID int64, date string) error
	DeleteRange(ctx context.Context, specialistID int64, from, to string) error
	GetFreeSlotsView(ctx context.Context, specialistID int64, date string) (*FreeSlotsView, error)
}

type ConsultationService interface {
	Create(ctx context.Context, specialistID int64, dto domain.CreateConsultationDTO) (*domain.Consultation, error)
	GetByID(ctx context.Context, id int64) (*domain.Consultation, error)
	GetBySlot(ctx context.Context, specialistID int64, date, time string) (*domain.Consultation, error)
	ListBySpecialist(ctx context.Context, specialistID int64) ([]domain.Consultation, error)
	Update(ctx context.Context, id int64, dto domain.UpdateConsultationDTO) (*domain.Consultation, error)
	SetVisitorArrived(ctx context.Context, id int64, arrived bool) error
	Delete(ctx context.Context, id int64) error
}

type AppointmentService interface {
	Book(ctx context.Context, userID int64, dto domain.AppointmentDTO) (*domain.Consultation, error)
	Cancel(ctx context.Context, userID int64, consultationID int64) error
	VisitorConsultations(ctx context.Context, userID int64) ([]domain.VisitorConsultationView, error)
}
