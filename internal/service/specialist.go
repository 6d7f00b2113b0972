package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"psychologist/internal/domain"
	"psychologist/internal/repository"
	"psychologist/pkg/auth"
)

// SpecialistServiceImpl — карточки специалистов. Учётную запись для входа
// специалисту заводит администратор вместе с карточкой.
type SpecialistServiceImpl struct {
	repo     repository.SpecialistRepository
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewSpecialistService(repo repository.SpecialistRepository, userRepo repository.UserRepository, logger *zap.Logger) *SpecialistServiceImpl {
	return &SpecialistServiceImpl{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *SpecialistServiceImpl) Create(ctx context.Context, dto domain.CreateSpecialistDTO) (int64, error) {
	existingUser, err := s.userRepo.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("ошибка проверки email", zap.Error(err))
		return 0, fmt.Errorf("ошибка проверки email: %w", err)
	}
	if existingUser != nil {
		return 0, domain.ConflictError("пользователь с таким email уже существует")
	}

	hashedPassword, err := auth.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("ошибка хеширования пароля", zap.Error(err))
		return 0, fmt.Errorf("ошибка создания специалиста: %w", err)
	}

	userID, err := s.userRepo.Create(ctx, domain.CreateUserDTO{
		Email:    dto.Email,
		Password: hashedPassword,
		Role:     domain.UserRoleSpecialist,
	})
	if err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("ошибка создания пользователя", zap.Error(err))
		}
		return 0, err
	}

	id, err := s.repo.Create(ctx, userID, dto.SpecialistDataDTO)
	if err != nil {
		s.logger.Error("ошибка создания специалиста", zap.Error(err))
		return 0, fmt.Errorf("ошибка создания специалиста: %w", err)
	}

	return id, nil
}

func (s *SpecialistServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Specialist, error) {
	specialist, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения специалиста", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения специалиста: %w", err)
	}
	if specialist == nil {
		return nil, domain.NotFoundError("специалист не найден")
	}

	return specialist, nil
}

func (s *SpecialistServiceImpl) GetByUserID(ctx context.Context, userID int64) (*domain.Specialist, error) {
	specialist, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("ошибка получения специалиста", zap.Int64("userId", userID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения специалиста: %w", err)
	}
	if specialist == nil {
		return nil, domain.NotFoundError("специалист не найден")
	}

	return specialist, nil
}

func (s *SpecialistServiceImpl) Update(ctx context.Context, id int64, dto domain.SpecialistDataDTO) error {
	specialist, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения специалиста", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка получения специалиста: %w", err)
	}
	if specialist == nil {
		return domain.NotFoundError("специалист не найден")
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления специалиста", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка обновления специалиста: %w", err)
	}

	return nil
}

func (s *SpecialistServiceImpl) Delete(ctx context.Context, id int64) error {
	specialist, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения специалиста", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка получения специалиста: %w", err)
	}
	if specialist == nil {
		return domain.NotFoundError("специалист не найден")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления специалиста", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка удаления специалиста: %w", err)
	}

	return nil
}

func (s *SpecialistServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.Specialist, int, error) {
	if limit <= 0 {
		limit = 20
	}

	if offset < 0 {
		offset = 0
	}

	specialists, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка специалистов", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка получения списка специалистов: %w", err)
	}

	return specialists, total, nil
}
