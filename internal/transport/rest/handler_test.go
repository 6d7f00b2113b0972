package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"psychologist/config"
	"psychologist/internal/domain"
	"psychologist/internal/service"
)

// stubAuthService выдаёт роль по самому тексту токена.
type stubAuthService struct {
	roles map[string]domain.UserRole
}

func (s *stubAuthService) Register(ctx context.Context, dto domain.RegisterRequest) (int64, error) {
	return 0, nil
}

func (s *stubAuthService) Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error) {
	return nil, nil
}

func (s *stubAuthService) RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error) {
	return nil, nil
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) error {
	return nil
}

func (s *stubAuthService) ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error) {
	role, ok := s.roles[token]
	if !ok {
		return 0, "", domain.UnauthorizedError("недействительный токен")
	}
	return 1, role, nil
}

type stubScheduleService struct{}

func (s *stubScheduleService) Create(ctx context.Context, specialistID int64, dto domain.CreateScheduleDayDTO) (*domain.ScheduleDay, error) {
	return &domain.ScheduleDay{}, nil
}

func (s *stubScheduleService) CreateRange(ctx context.Context, specialistID int64, dto domain.CreateScheduleRangeDTO) ([]domain.ScheduleDay, error) {
	return nil, nil
}

func (s *stubScheduleService) GetDayView(ctx context.Context, specialistID int64, date string) (*service.ScheduleDayView, error) {
	return &service.ScheduleDayView{}, nil
}

func (s *stubScheduleService) ListRange(ctx context.Context, specialistID int64, from, to string) ([]domain.ScheduleDay, error) {
	return nil, nil
}

func (s *stubScheduleService) Update(ctx context.Context, specialistID int64, date string, dto domain.UpdateScheduleDayDTO) (*domain.ScheduleDay, error) {
	return &domain.ScheduleDay{}, nil
}

func (s *stubScheduleService) Delete(ctx context.Context, specialistID int64, date string) error {
	return nil
}

func (s *stubScheduleService) DeleteRange(ctx context.Context, specialistID int64, from, to string) error {
	return nil
}

func (s *stubScheduleService) GetFreeSlotsView(ctx context.Context, specialistID int64, date string) (*service.FreeSlotsView, error) {
	return &service.FreeSlotsView{StartTime: "09:00", EndTime: "17:00"}, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	services := &service.Services{
		Auth: &stubAuthService{roles: map[string]domain.UserRole{
			"visitor-token":    domain.UserRoleVisitor,
			"specialist-token": domain.UserRoleSpecialist,
			"admin-token":      domain.UserRoleAdmin,
		}},
		Schedule: &stubScheduleService{},
	}

	handler := NewHandler(services, zap.NewNop(), &config.Config{})
	router := gin.New()
	handler.InitRoutes(router)
	return router
}

func TestFreeSlotsRoute_VisitorOnly(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"посетитель", "visitor-token", http.StatusOK},
		{"специалист", "specialist-token", http.StatusForbidden},
		{"администратор", "admin-token", http.StatusForbidden},
		{"неизвестный токен", "bad-token", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/1/2030-06-03/appointment", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Errorf("статус %d, ожидалось %d", w.Code, tc.want)
			}
		})
	}
}

func TestScheduleRoutes_EmployeeOnly(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule/1/2030-06-03", nil)
	req.Header.Set("Authorization", "Bearer visitor-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("статус %d, ожидалось %d: день расписания доступен только персоналу", w.Code, http.StatusForbidden)
	}
}
