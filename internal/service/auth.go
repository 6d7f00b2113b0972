package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"psychologist/config"
	"psychologist/internal/domain"
	"psychologist/internal/repository"
	"psychologist/pkg/auth"
	"psychologist/pkg/validator"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64           `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

type AuthServiceImpl struct {
	authRepo    repository.AuthRepository
	userRepo    repository.UserRepository
	visitorRepo repository.VisitorRepository
	jwtConfig   config.JWTConfig
	logger      *zap.Logger
}

func NewAuthService(
	authRepo repository.AuthRepository,
	userRepo repository.UserRepository,
	visitorRepo repository.VisitorRepository,
	jwtConfig config.JWTConfig,
	logger *zap.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		authRepo:    authRepo,
		userRepo:    userRepo,
		visitorRepo: visitorRepo,
		jwtConfig:   jwtConfig,
		logger:      logger,
	}
}

// Register — самостоятельная регистрация посетителя: создаётся учётная
// запись с ролью visitor и связанная карточка посетителя.
func (s *AuthServiceImpl) Register(ctx context.Context, dto domain.RegisterRequest) (int64, error) {
	if !validator.ValidateEmail(dto.Email) {
		return 0, domain.InvalidRequestError("некорректный email")
	}
	if !validator.ValidatePassword(dto.Password) {
		return 0, domain.InvalidRequestError("пароль содержит недопустимые символы или слишком короткий")
	}

	existingUser, err := s.userRepo.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("ошибка проверки email", zap.Error(err))
		return 0, fmt.Errorf("ошибка проверки email: %w", err)
	}
	if existingUser != nil {
		return 0, domain.ConflictError("пользователь с таким email уже существует")
	}

	if _, err := domain.ParseDate(dto.Birthday); err != nil {
		return 0, domain.InvalidRequestError(err.Error())
	}

	hashedPassword, err := auth.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("ошибка хеширования пароля", zap.Error(err))
		return 0, fmt.Errorf("ошибка при регистрации пользователя: %w", err)
	}

	userID, err := s.userRepo.Create(ctx, domain.CreateUserDTO{
		Email:    dto.Email,
		Password: hashedPassword,
		Role:     domain.UserRoleVisitor,
	})
	if err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("ошибка создания пользователя", zap.Error(err))
		}
		return 0, err
	}

	if _, err := s.visitorRepo.Create(ctx, &userID, dto.VisitorDataDTO); err != nil {
		s.logger.Error("ошибка создания карточки посетителя", zap.Error(err))
		return 0, fmt.Errorf("ошибка создания карточки посетителя: %w", err)
	}

	return userID, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, dto.Login)
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	if user == nil {
		return nil, domain.UnauthorizedError("неверный логин или пароль")
	}

	ok, err := auth.VerifyPassword(dto.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("ошибка проверки пароля", zap.Error(err))
		return nil, fmt.Errorf("ошибка проверки пароля: %w", err)
	}
	if !ok {
		return nil, domain.UnauthorizedError("неверный логин или пароль")
	}

	if !user.IsActive {
		return nil, domain.ForbiddenError("аккаунт деактивирован")
	}

	tokens, err := s.generateTokens(user.ID, user.Role)
	if err != nil {
		s.logger.Error("ошибка генерации токенов", zap.Error(err))
		return nil, fmt.Errorf("ошибка при аутентификации: %w", err)
	}

	session := domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: tokens.RefreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    time.Now().Add(s.jwtConfig.RefreshTokenTTL),
		CreatedAt:    time.Now(),
	}

	if err := s.authRepo.CreateSession(ctx, session); err != nil {
		s.logger.Error("ошибка сохранения сессии", zap.Error(err))
		return nil, fmt.Errorf("ошибка при аутентификации: %w", err)
	}

	return tokens, nil
}

func (s *AuthServiceImpl) RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error) {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if session.ExpiresAt.Before(time.Now()) {
		if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
			s.logger.Warn("ошибка удаления истёкшей сессии", zap.Error(err))
		}
		return nil, domain.UnauthorizedError("refresh token истёк")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		s.logger.Error("ошибка получения пользователя", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения пользователя: %w", err)
	}
	if user == nil {
		return nil, domain.UnauthorizedError("пользователь не найден")
	}

	if !user.IsActive {
		return nil, domain.ForbiddenError("аккаунт деактивирован")
	}

	if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
		s.logger.Warn("ошибка удаления старой сессии", zap.Error(err))
	}

	tokens, err := s.generateTokens(user.ID, user.Role)
	if err != nil {
		s.logger.Error("ошибка генерации токенов", zap.Error(err))
		return nil, fmt.Errorf("ошибка при обновлении токенов: %w", err)
	}

	newSession := domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: tokens.RefreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    time.Now().Add(s.jwtConfig.RefreshTokenTTL),
		CreatedAt:    time.Now(),
	}

	if err := s.authRepo.CreateSession(ctx, newSession); err != nil {
		s.logger.Error("ошибка сохранения новой сессии", zap.Error(err))
		return nil, fmt.Errorf("ошибка при обновлении токенов: %w", err)
	}

	return tokens, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
		s.logger.Error("ошибка удаления сессии", zap.Error(err))
		return fmt.Errorf("ошибка при выходе: %w", err)
	}

	return nil
}

func (s *AuthServiceImpl) ParseToken(ctx context.Context, tokenString string) (int64, domain.UserRole, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SigningKey), nil
	})

	if err != nil {
		return 0, "", domain.UnauthorizedError("недействительный токен")
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return 0, "", domain.UnauthorizedError("недействительный токен")
	}

	return claims.UserID, claims.Role, nil
}

// generateTokens выпускает подписанный access token и непрозрачный
// refresh token. Refresh token живёт только в таблице сессий, поэтому
// подписывать его не нужно.
func (s *AuthServiceImpl) generateTokens(userID int64, role domain.UserRole) (*domain.Tokens, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
		Role:   role,
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.SigningKey))
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи access token: %w", err)
	}

	refreshToken, err := auth.GenerateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации refresh token: %w", err)
	}

	return &domain.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
