package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"psychologist/internal/domain"
	"psychologist/internal/repository"
	"psychologist/pkg/auth"
	"psychologist/pkg/validator"
)

type UserServiceImpl struct {
	repo     repository.UserRepository
	authRepo repository.AuthRepository
	logger   *zap.Logger
}

func NewUserService(repo repository.UserRepository, authRepo repository.AuthRepository, logger *zap.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		repo:     repo,
		authRepo: authRepo,
		logger:   logger,
	}
}

func (s *UserServiceImpl) Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error) {
	if !validator.ValidateEmail(dto.Email) {
		return 0, domain.InvalidRequestError("некорректный email")
	}
	if !validator.ValidatePassword(dto.Password) {
		return 0, domain.InvalidRequestError("пароль содержит недопустимые символы или слишком короткий")
	}

	existingUser, err := s.repo.GetByEmail(ctx, dto.Email)
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
		return 0, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	dto.Password = hashedPassword

	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("ошибка создания пользователя", zap.Error(err))
		}
		return 0, err
	}

	return id, nil
}

func (s *UserServiceImpl) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	if user == nil {
		return nil, domain.NotFoundError("пользователь не найден")
	}

	return user, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	if user == nil {
		return domain.NotFoundError("пользователь не найден")
	}

	if dto.Email != nil {
		existingUser, err := s.repo.GetByEmail(ctx, *dto.Email)
		if err != nil {
			s.logger.Error("ошибка проверки email", zap.Error(err))
			return fmt.Errorf("ошибка проверки email: %w", err)
		}
		if existingUser != nil && existingUser.ID != id {
			return domain.ConflictError("пользователь с таким email уже существует")
		}
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления пользователя", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка обновления пользователя: %w", err)
	}

	return nil
}

func (s *UserServiceImpl) UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	if user == nil {
		return domain.NotFoundError("пользователь не найден")
	}

	ok, err := auth.VerifyPassword(dto.OldPassword, user.PasswordHash)
	if err != nil {
		s.logger.Error("ошибка проверки пароля", zap.Error(err))
		return fmt.Errorf("ошибка проверки пароля: %w", err)
	}
	if !ok {
		return domain.InvalidRequestError("неверный текущий пароль")
	}

	hashedPassword, err := auth.HashPassword(dto.NewPassword)
	if err != nil {
		s.logger.Error("ошибка хеширования нового пароля", zap.Error(err))
		return fmt.Errorf("ошибка обновления пароля: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, id, hashedPassword); err != nil {
		s.logger.Error("ошибка обновления пароля", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка обновления пароля: %w", err)
	}

	return nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, id int64) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	if user == nil {
		return domain.NotFoundError("пользователь не найден")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления пользователя", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка удаления пользователя: %w", err)
	}

	// Деактивированная учётная запись не должна продлеваться по refresh token.
	if err := s.authRepo.DeleteSessionsByUserID(ctx, id); err != nil {
		s.logger.Warn("ошибка удаления сессий пользователя", zap.Int64("id", id), zap.Error(err))
	}

	return nil
}

func (s *UserServiceImpl) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}

	if offset < 0 {
		offset = 0
	}

	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка пользователей", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка пользователей: %w", err)
	}

	return users, nil
}
