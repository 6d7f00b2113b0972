package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"psychologist/internal/domain"
	"psychologist/internal/repository"
	"psychologist/pkg/validator"
)

// VisitorServiceImpl — карточки посетителей. Create без учётной записи
// используется персоналом для посетителей, которые не регистрировались сами.
type VisitorServiceImpl struct {
	repo   repository.VisitorRepository
	logger *zap.Logger
}

func NewVisitorService(repo repository.VisitorRepository, logger *zap.Logger) *VisitorServiceImpl {
	return &VisitorServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func validateVisitorData(dto domain.VisitorDataDTO) error {
	if !validator.ValidateNamePart(dto.FirstName) || !validator.ValidateNamePart(dto.LastName) {
		return domain.InvalidRequestError("имя и фамилия должны содержать только буквы")
	}
	if _, err := domain.ParseDate(dto.Birthday); err != nil {
		return domain.InvalidRequestError(err.Error())
	}
	return nil
}

func (s *VisitorServiceImpl) Create(ctx context.Context, dto domain.VisitorDataDTO) (int64, error) {
	if err := validateVisitorData(dto); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, nil, dto)
	if err != nil {
		s.logger.Error("ошибка создания посетителя", zap.Error(err))
		return 0, fmt.Errorf("ошибка создания посетителя: %w", err)
	}

	return id, nil
}

func (s *VisitorServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Visitor, error) {
	visitor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения посетителя", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения посетителя: %w", err)
	}
	if visitor == nil {
		return nil, domain.NotFoundError("посетитель не найден")
	}

	return visitor, nil
}

func (s *VisitorServiceImpl) Update(ctx context.Context, id int64, dto domain.VisitorDataDTO) error {
	visitor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения посетителя", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка получения посетителя: %w", err)
	}
	if visitor == nil {
		return domain.NotFoundError("посетитель не найден")
	}

	if err := validateVisitorData(dto); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления посетителя", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка обновления посетителя: %w", err)
	}

	return nil
}

func (s *VisitorServiceImpl) Delete(ctx context.Context, id int64) error {
	visitor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения посетителя", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка получения посетителя: %w", err)
	}
	if visitor == nil {
		return domain.NotFoundError("посетитель не найден")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления посетителя", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка удаления посетителя: %w", err)
	}

	return nil
}

func (s *VisitorServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.Visitor, int, error) {
	if limit <= 0 {
		limit = 20
	}

	if offset < 0 {
		offset = 0
	}

	visitors, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка посетителей", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка получения списка посетителей: %w", err)
	}

	return visitors, total, nil
}
