package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"psychologist/internal/domain"
	"psychologist/internal/repository"
)

// ConsultationServiceImpl — работа персонала с консультациями: специалист
// создаёт запись за посетителя, редактирует тематическую часть и отмечает
// явку. Тип консультации после создания не меняется.
type ConsultationServiceImpl struct {
	consultationRepo repository.ConsultationRepository
	scheduleRepo     repository.ScheduleRepository
	visitorRepo      repository.VisitorRepository
	logger           *zap.Logger
}

func NewConsultationService(
	consultationRepo repository.ConsultationRepository,
	scheduleRepo repository.ScheduleRepository,
	visitorRepo repository.VisitorRepository,
	logger *zap.Logger,
) *ConsultationServiceImpl {
	return &ConsultationServiceImpl{
		consultationRepo: consultationRepo,
		scheduleRepo:     scheduleRepo,
		visitorRepo:      visitorRepo,
		logger:           logger,
	}
}

func (s *ConsultationServiceImpl) Create(ctx context.Context, specialistID int64, dto domain.CreateConsultationDTO) (*domain.Consultation, error) {
	visitor, err := s.visitorRepo.GetByID(ctx, dto.VisitorID)
	if err != nil {
		s.logger.Error("ошибка получения посетителя", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения посетителя: %w", err)
	}
	if visitor == nil {
		return nil, domain.NotFoundError("посетитель не найден")
	}

	date, err := domain.ParseDate(dto.ScheduleDate)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	if err := domain.ValidateTime(dto.Time); err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	if !dto.Type.Valid() {
		return nil, domain.InvalidRequestError("неизвестный тип консультации")
	}

	day, err := s.scheduleRepo.GetByDate(ctx, specialistID, date)
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

	if err := dto.ConsultationVariantDTO.Validate(dto.Type); err != nil {
		return nil, err
	}

	primary := false
	if dto.Primary != nil {
		primary = *dto.Primary
	}

	now := time.Now()
	consultation := domain.Consultation{
		SpecialistID:     specialistID,
		VisitorID:        dto.VisitorID,
		ScheduleDate:     date,
		Time:             dto.Time,
		Topic:            dto.Topic,
		Primary:          primary,
		CreatedByVisitor: false,
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

func (s *ConsultationServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Consultation, error) {
	consultation, err := s.consultationRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения консультации", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения консультации: %w", err)
	}
	if consultation == nil {
		return nil, domain.NotFoundError("консультация не найдена")
	}
	return consultation, nil
}

func (s *ConsultationServiceImpl) GetBySlot(ctx context.Context, specialistID int64, dateStr, timeStr string) (*domain.Consultation, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}
	if err := domain.ValidateTime(timeStr); err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	consultation, err := s.consultationRepo.GetBySlot(ctx, specialistID, date, timeStr)
	if err != nil {
		s.logger.Error("ошибка получения консультации", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения консультации: %w", err)
	}
	if consultation == nil {
		return nil, domain.NotFoundError("консультация не найдена")
	}
	return consultation, nil
}

func (s *ConsultationServiceImpl) ListBySpecialist(ctx context.Context, specialistID int64) ([]domain.Consultation, error) {
	consultations, err := s.consultationRepo.ListBySpecialist(ctx, specialistID)
	if err != nil {
		s.logger.Error("ошибка получения консультаций", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения консультаций: %w", err)
	}
	return consultations, nil
}

func (s *ConsultationServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateConsultationDTO) (*domain.Consultation, error) {
	consultation, err := s.consultationRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения консультации", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения консультации: %w", err)
	}
	if consultation == nil {
		return nil, domain.NotFoundError("консультация не найдена")
	}

	if err := dto.ConsultationVariantDTO.Validate(consultation.Type); err != nil {
		return nil, err
	}

	if dto.VisitorID != consultation.VisitorID {
		visitor, err := s.visitorRepo.GetByID(ctx, dto.VisitorID)
		if err != nil {
			s.logger.Error("ошибка получения посетителя", zap.Error(err))
			return nil, fmt.Errorf("ошибка получения посетителя: %w", err)
		}
		if visitor == nil {
			return nil, domain.NotFoundError("посетитель не найден")
		}
	}

	consultation.VisitorID = dto.VisitorID
	consultation.Topic = dto.Topic
	if dto.VisitorArrived != nil {
		consultation.VisitorArrived = *dto.VisitorArrived
	}
	if dto.Primary != nil {
		consultation.Primary = *dto.Primary
	}
	dto.ConsultationVariantDTO.AssignTo(consultation)
	consultation.UpdatedAt = time.Now()

	if err := s.consultationRepo.Update(ctx, *consultation); err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("ошибка обновления консультации", zap.Error(err))
		}
		return nil, err
	}

	return consultation, nil
}

func (s *ConsultationServiceImpl) SetVisitorArrived(ctx context.Context, id int64, arrived bool) error {
	consultation, err := s.consultationRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения консультации", zap.Error(err))
		return fmt.Errorf("ошибка получения консультации: %w", err)
	}
	if consultation == nil {
		return domain.NotFoundError("консультация не найдена")
	}

	if err := s.consultationRepo.SetVisitorArrived(ctx, id, arrived); err != nil {
		s.logger.Error("ошибка отметки явки", zap.Error(err))
		return fmt.Errorf("ошибка отметки явки: %w", err)
	}
	return nil
}

func (s *ConsultationServiceImpl) Delete(ctx context.Context, id int64) error {
	consultation, err := s.consultationRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения консультации", zap.Error(err))
		return fmt.Errorf("ошибка получения консультации: %w", err)
	}
	if consultation == nil {
		return domain.NotFoundError("консультация не найдена")
	}

	if err := s.consultationRepo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления консультации", zap.Error(err))
		return fmt.Errorf("ошибка удаления консультации: %w", err)
	}
	return nil
}
