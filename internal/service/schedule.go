package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"psychologist/internal/domain"
	"psychologist/internal/repository"
)

// ScheduleDayView — день расписания для персонала: рабочее окно плюс
// все часовые интервалы с консультациями и перерывом.
type ScheduleDayView struct {
	Date          domain.Date                   `json:"date"`
	StartTime     string                        `json:"start_time"`
	EndTime       string                        `json:"end_time"`
	BreakTime     *string                       `json:"break_time,omitempty"`
	Consultations []domain.ConsultationInterval `json:"consultations"`
}

// FreeSlotsView — день расписания для посетителя: только свободные слоты.
type FreeSlotsView struct {
	Date          domain.Date           `json:"date"`
	StartTime     string                `json:"start_time"`
	EndTime       string                `json:"end_time"`
	BreakTime     *string               `json:"break_time,omitempty"`
	FreeIntervals []domain.FreeInterval `json:"free_intervals"`
}

type ScheduleServiceImpl struct {
	repo             repository.ScheduleRepository
	consultationRepo repository.ConsultationRepository
	specialistRepo   repository.SpecialistRepository
	logger           *zap.Logger
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	consultationRepo repository.ConsultationRepository,
	specialistRepo repository.SpecialistRepository,
	logger *zap.Logger,
) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		repo:             repo,
		consultationRepo: consultationRepo,
		specialistRepo:   specialistRepo,
		logger:           logger,
	}
}

func (s *ScheduleServiceImpl) checkSpecialist(ctx context.Context, specialistID int64) error {
	specialist, err := s.specialistRepo.GetByID(ctx, specialistID)
	if err != nil {
		s.logger.Error("ошибка при получении специалиста", zap.Error(err))
		return fmt.Errorf("ошибка при получении специалиста: %w", err)
	}
	if specialist == nil {
		return domain.NotFoundError("специалист не найден")
	}
	return nil
}

func (s *ScheduleServiceImpl) Create(ctx context.Context, specialistID int64, dto domain.CreateScheduleDayDTO) (*domain.ScheduleDay, error) {
	if err := s.checkSpecialist(ctx, specialistID); err != nil {
		return nil, err
	}

	date, err := domain.ParseDate(dto.Date)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	start, end, brk, err := domain.NormalizeDayTimes(dto.StartTime, dto.EndTime, dto.BreakTime)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	day := domain.ScheduleDay{
		SpecialistID: specialistID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		BreakTime:    brk,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, day); err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("ошибка создания дня расписания", zap.Error(err))
		}
		return nil, err
	}

	return &day, nil
}

func (s *ScheduleServiceImpl) CreateRange(ctx context.Context, specialistID int64, dto domain.CreateScheduleRangeDTO) ([]domain.ScheduleDay, error) {
	if err := s.checkSpecialist(ctx, specialistID); err != nil {
		return nil, err
	}

	startDate, err := domain.ParseDate(dto.StartDate)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	endDate, err := domain.ParseDate(dto.EndDate)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	if endDate.Before(startDate.Time) {
		return nil, domain.InvalidRequestError("конечная дата не может быть раньше начальной")
	}

	if len(dto.Weekdays) == 0 {
		return nil, domain.InvalidRequestError("не задан шаблон дней недели")
	}

	for weekday := range dto.Weekdays {
		if weekday < 0 || weekday > 6 {
			return nil, domain.InvalidRequestError(fmt.Sprintf("недопустимый день недели %d, ожидается 0..6", weekday))
		}
	}

	now := time.Now()
	var days []domain.ScheduleDay
	for date := startDate; !date.After(endDate.Time); date = date.AddDays(1) {
		info, ok := dto.Weekdays[date.Weekday()]
		if !ok {
			continue
		}

		start, end, brk, err := domain.NormalizeDayTimes(info.StartTime, info.EndTime, info.BreakTime)
		if err != nil {
			return nil, err
		}

		days = append(days, domain.ScheduleDay{
			SpecialistID: specialistID,
			Date:         date,
			StartTime:    start,
			EndTime:      end,
			BreakTime:    brk,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if len(days) == 0 {
		return nil, domain.InvalidRequestError("в диапазоне нет дат, подходящих под шаблон")
	}

	if err := s.repo.CreateRange(ctx, days); err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("ошибка создания расписания на диапазон дат", zap.Error(err))
		}
		return nil, err
	}

	return days, nil
}

func (s *ScheduleServiceImpl) GetDayView(ctx context.Context, specialistID int64, dateStr string) (*ScheduleDayView, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	day, err := s.repo.GetByDate(ctx, specialistID, date)
	if err != nil {
		s.logger.Error("ошибка получения дня расписания", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения дня расписания: %w", err)
	}
	if day == nil {
		return nil, domain.NotFoundError("расписание на эту дату не найдено")
	}

	consultations, err := s.consultationRepo.ListByDay(ctx, specialistID, date)
	if err != nil {
		s.logger.Error("ошибка получения консультаций дня", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения консультаций дня: %w", err)
	}

	intervals := domain.Intervals(*day, consultations)

	// Консультация с временем вне часовой сетки не попадёт ни в один
	// интервал. День всё равно показывается, но аномалия фиксируется.
	if domain.AttachedCount(intervals) != len(consultations) {
		s.logger.Warn("консультация с некорректным временем",
			zap.Int64("specialistID", specialistID),
			zap.String("date", date.String()),
		)
	}

	return &ScheduleDayView{
		Date:          day.Date,
		StartTime:     day.StartTime,
		EndTime:       day.EndTime,
		BreakTime:     day.BreakTime,
		Consultations: intervals,
	}, nil
}

func (s *ScheduleServiceImpl) ListRange(ctx context.Context, specialistID int64, fromStr, toStr string) ([]domain.ScheduleDay, error) {
	from, err := domain.ParseDate(fromStr)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	to, err := domain.ParseDate(toStr)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	days, err := s.repo.ListRange(ctx, specialistID, from, to)
	if err != nil {
		s.logger.Error("ошибка получения расписания", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения расписания: %w", err)
	}

	return days, nil
}

func (s *ScheduleServiceImpl) Update(ctx context.Context, specialistID int64, dateStr string, dto domain.UpdateScheduleDayDTO) (*domain.ScheduleDay, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	start, end, brk, err := domain.NormalizeDayTimes(dto.StartTime, dto.EndTime, dto.BreakTime)
	if err != nil {
		return nil, err
	}

	day := domain.ScheduleDay{
		SpecialistID: specialistID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		BreakTime:    brk,
		UpdatedAt:    time.Now(),
	}

	updated, err := s.repo.Update(ctx, day)
	if err != nil {
		s.logger.Error("ошибка обновления дня расписания", zap.Error(err))
		return nil, fmt.Errorf("ошибка обновления дня расписания: %w", err)
	}
	if !updated {
		return nil, domain.NotFoundError("расписание на эту дату не найдено")
	}

	return &day, nil
}

func (s *ScheduleServiceImpl) Delete(ctx context.Context, specialistID int64, dateStr string) error {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return domain.InvalidRequestError(err.Error())
	}

	deleted, err := s.repo.Delete(ctx, specialistID, date)
	if err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("ошибка удаления дня расписания", zap.Error(err))
			return fmt.Errorf("ошибка удаления дня расписания: %w", err)
		}
		return err
	}
	if deleted == 0 {
		return domain.NotFoundError("расписание на эту дату не найдено")
	}

	return nil
}

func (s *ScheduleServiceImpl) DeleteRange(ctx context.Context, specialistID int64, fromStr, toStr string) error {
	from, err := domain.ParseDate(fromStr)
	if err != nil {
		return domain.InvalidRequestError(err.Error())
	}

	to, err := domain.ParseDate(toStr)
	if err != nil {
		return domain.InvalidRequestError(err.Error())
	}

	deleted, err := s.repo.DeleteRange(ctx, specialistID, from, to)
	if err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("ошибка удаления расписания", zap.Error(err))
			return fmt.Errorf("ошибка удаления расписания: %w", err)
		}
		return err
	}
	if deleted == 0 {
		return domain.NotFoundError("расписание на указанные даты не найдено")
	}

	return nil
}

func (s *ScheduleServiceImpl) GetFreeSlotsView(ctx context.Context, specialistID int64, dateStr string) (*FreeSlotsView, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, domain.InvalidRequestError(err.Error())
	}

	day, err := s.repo.GetByDate(ctx, specialistID, date)
	if err != nil {
		s.logger.Error("ошибка получения дня расписания", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения дня расписания: %w", err)
	}
	if day == nil {
		return nil, domain.NotFoundError("расписание на эту дату не найдено")
	}

	consultations, err := s.consultationRepo.ListByDay(ctx, specialistID, date)
	if err != nil {
		s.logger.Error("ошибка получения консультаций дня", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения консультаций дня: %w", err)
	}

	return &FreeSlotsView{
		Date:          day.Date,
		StartTime:     day.StartTime,
		EndTime:       day.EndTime,
		BreakTime:     day.BreakTime,
		FreeIntervals: domain.FreeIntervals(*day, consultations),
	}, nil
}
