package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"psychologist/internal/domain"
	"psychologist/internal/repository"
)

// AppointmentServiceImpl — запись посетителей на приём. Проверки идут в
// строгом порядке: посетитель -> расписание -> попадание в рабочее окно ->
// занятость слота -> занятость посетителя; первая неудача завершает запрос.
// Финальную защиту от гонки двух одновременных бронирований даёт
// транзакционная вставка в ConsultationRepository.
type AppointmentServiceImpl struct {
	consultationRepo repository.ConsultationRepository
	scheduleRepo     repository.ScheduleRepository
	visitorRepo      repository.VisitorRepository
	logger           *zap.Logger
	now              func() time.Time
}

func NewAppointmentService(
	consultationRepo repository.ConsultationRepository,
	scheduleRepo repository.ScheduleRepository,
	visitorRepo repository.VisitorRepository,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		consultationRepo: consultationRepo,
		scheduleRepo:     scheduleRepo,
		visitorRepo:      visitorRepo,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *AppointmentServiceImpl) Book(ctx context.Context, userID int64, dto domain.AppointmentDTO) (*domain.Consultation, error) {
	visitor, err := s.visitorRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("ошибка получения посетителя", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения посетителя: %w", err)
	}
	if visitor == nil {
		return nil, domain.UnauthorizedError("запись посетителя не найдена")
	}

	date, err := domain.ParseDate(dto.Date)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	if err := domain.ValidateTime(dto.Time); err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	if !dto.Type.Valid() {
		return nil, domain.InvalidRequestError("неизвестный тип консультации")
	}

	day, err := s.scheduleRepo.GetByDate(ctx, dto.SpecialistID, date)
	if err != nil {
		s.logger.Error("ошибка получения дня расписания", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения дня расписания: %w", err)
	}
	if day == nil {
		return nil, domain.InvalidRequestError(fmt.Sprintf("нет расписания на дату %s", date))
	}

	if !day.ContainsSlot(dto.Time) {
		return nil, domain.InvalidRequestError("выбранное время вне рабочего окна или приходится на перерыв")
	}

	occupied, err := s.consultationRepo.GetBySlot(ctx, dto.SpecialistID, date, dto.Time)
	if err != nil {
		s.logger.Error("ошибка проверки занятости слота", zap.Error(err))
		return nil, fmt.Errorf("ошибка проверки занятости слота: %w", err)
	}
	if occupied != nil {
		return nil, domain.InvalidRequestError("выбранные дата и время уже заняты")
	}

	visitorBusy, err := s.consultationRepo.ExistsForVisitorAt(ctx, visitor.ID, date, dto.Time)
	if err != nil {
		s.logger.Error("ошибка проверки занятости посетителя", zap.Error(err))
		return nil, fmt.Errorf("ошибка проверки занятости посетителя: %w", err)
	}
	if visitorBusy {
		return nil, domain.InvalidRequestError("у вас уже есть консультация на это время")
	}

	if err := dto.ConsultationVariantDTO.Validate(dto.Type); err != nil {
		return nil, err
	}

	primary := false
	if dto.Primary != nil {
		primary = *dto.Primary
	}

	now := s.now()
	consultation := domain.Consultation{
		SpecialistID:     dto.SpecialistID,
		VisitorID:        visitor.ID,
		ScheduleDate:     date,
		Time:             dto.Time,
		Topic:            dto.Topic,
		Primary:          primary,
		CreatedByVisitor: true,
		Type:             dto.Type,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	dto.ConsultationVariantDTO.AssignTo(&consultation)

	id, err := s.consultationRepo.Create(ctx, consultation)
	if err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("ошибка создания консультации", zap.Error(err))
		}
		return nil, err
	}
	consultation.ID = id
	consultation.Visitor = visitor

	return &consultation, nil
}

func (s *AppointmentServiceImpl) Cancel(ctx context.Context, userID int64, consultationID int64) error {
	visitor, err := s.visitorRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("ошибка получения посетителя", zap.Error(err))
		return fmt.Errorf("ошибка получения посетителя: %w", err)
	}
	if visitor == nil {
		return domain.UnauthorizedError("запись посетителя не найдена")
	}

	consultation, err := s.consultationRepo.GetByID(ctx, consultationID)
	if err != nil {
		s.logger.Error("ошибка получения консультации", zap.Error(err))
		return fmt.Errorf("ошибка получения консультации: %w", err)
	}
	if consultation == nil {
		return domain.NotFoundError("консультация не найдена")
	}

	if consultation.VisitorID != visitor.ID {
		return domain.ForbiddenError("нельзя отменить чужую консультацию")
	}

	if s.slotMoment(consultation).Before(s.now()) {
		return domain.InvalidRequestError("нельзя отменить консультацию, которая уже прошла")
	}

	if err := s.consultationRepo.Delete(ctx, consultationID); err != nil {
		s.logger.Error("ошибка удаления консультации", zap.Error(err))
		return fmt.Errorf("ошибка удаления консультации: %w", err)
	}

	return nil
}

func (s *AppointmentServiceImpl) VisitorConsultations(ctx context.Context, userID int64) ([]domain.VisitorConsultationView, error) {
	visitor, err := s.visitorRepo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("ошибка получения посетителя", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения посетителя: %w", err)
	}
	if visitor == nil {
		return nil, domain.UnauthorizedError("запись посетителя не найдена")
	}

	consultations, err := s.consultationRepo.ListByVisitor(ctx, visitor.ID)
	if err != nil {
		s.logger.Error("ошибка получения консультаций посетителя", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения консультаций посетителя: %w", err)
	}

	views := make([]domain.VisitorConsultationView, 0, len(consultations))
	for _, c := range consultations {
		views = append(views, c.VisitorView())
	}

	return views, nil
}

// slotMoment собирает момент начала консультации из даты и времени слота.
func (s *AppointmentServiceImpl) slotMoment(c *domain.Consultation) time.Time {
	t, err := time.Parse(domain.TimeLayout, c.Time)
	if err != nil {
		return c.ScheduleDate.Time
	}
	d := c.ScheduleDate.Time
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
}
