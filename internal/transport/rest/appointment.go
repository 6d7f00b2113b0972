package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"psychologist/internal/domain"
)

// @Summary Записаться на прием
// @Description Создает консультацию в свободном слоте расписания специалиста
// @Tags Запись на прием
// @Accept json
// @Produce json
// @Param input body domain.AppointmentDTO true "Данные записи"
// @Success 201 {object} domain.Consultation "Созданная консультация"
// @Failure 400 {object} errorResponseBody "Слот занят, вне рабочего окна или ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /appointment [post]
func (h *Handler) createAppointment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var req domain.AppointmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	consultation, err := h.services.Appointment.Book(c.Request.Context(), userID, req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, consultation)
}

// @Summary Отменить консультацию
// @Description Отменяет собственную будущую консультацию посетителя
// @Tags Запись на прием
// @Produce json
// @Param id path int true "ID консультации"
// @Success 204 {object} nil "Консультация отменена"
// @Failure 400 {object} errorResponseBody "Консультация уже прошла"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Чужая консультация"
// @Failure 404 {object} errorResponseBody "Консультация не найдена"
// @Security ApiKeyAuth
// @Router /cancel-consultation/{id} [post]
func (h *Handler) cancelConsultation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Appointment.Cancel(c.Request.Context(), userID, id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Мои консультации
// @Description Возвращает консультации посетителя, новые первыми
// @Tags Запись на прием
// @Produce json
// @Success 200 {array} domain.VisitorConsultationView "Консультации посетителя"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /visitor-consultations [get]
func (h *Handler) getVisitorConsultations(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	views, err := h.services.Appointment.VisitorConsultations(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, views)
}
