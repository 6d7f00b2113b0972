package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"psychologist/internal/domain"
)

// resolveSpecialistID определяет специалиста, от имени которого действует
// сотрудник: специалист работает со своим профилем, администратор передает
// specialist_id в запросе.
func (h *Handler) resolveSpecialistID(c *gin.Context) (int64, bool) {
	userRole, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return 0, false
	}

	if userRole == domain.UserRoleAdmin {
		specialistID, err := strconv.ParseInt(c.Query("specialist_id"), 10, 64)
		if err != nil {
			badRequestResponse(c, "параметр specialist_id обязателен")
			return 0, false
		}
		return specialistID, true
	}

	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return 0, false
	}

	specialist, err := h.services.Specialist.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return 0, false
	}

	return specialist.ID, true
}

// @Summary Создать консультацию
// @Description Создает консультацию от имени специалиста в свободном слоте
// @Tags Консультации
// @Accept json
// @Produce json
// @Param specialist_id query int false "ID специалиста (для администратора)"
// @Param input body domain.CreateConsultationDTO true "Данные консультации"
// @Success 201 {object} domain.Consultation "Созданная консультация"
// @Failure 400 {object} errorResponseBody "Слот занят, вне рабочего окна или ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Посетитель не найден"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /consultations [post]
func (h *Handler) createConsultation(c *gin.Context) {
	specialistID, ok := h.resolveSpecialistID(c)
	if !ok {
		return
	}

	var req domain.CreateConsultationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	consultation, err := h.services.Consultation.Create(c.Request.Context(), specialistID, req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, consultation)
}

// @Summary Консультации специалиста
// @Description Возвращает все консультации специалиста
// @Tags Консультации
// @Produce json
// @Param specialist_id query int false "ID специалиста (для администратора)"
// @Success 200 {array} domain.Consultation "Консультации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /consultations [get]
func (h *Handler) getConsultations(c *gin.Context) {
	specialistID, ok := h.resolveSpecialistID(c)
	if !ok {
		return
	}

	consultations, err := h.services.Consultation.ListBySpecialist(c.Request.Context(), specialistID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, consultations)
}

// @Summary Консультация по слоту
// @Description Возвращает консультацию специалиста на дату и время
// @Tags Консультации
// @Produce json
// @Param specialist_id query int false "ID специалиста (для администратора)"
// @Param date query string true "Дата YYYY-MM-DD"
// @Param time query string true "Время HH:MM"
// @Success 200 {object} domain.Consultation "Консультация"
// @Failure 400 {object} errorResponseBody "Неверный формат даты или времени"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Консультация не найдена"
// @Security ApiKeyAuth
// @Router /consultations/slot [get]
func (h *Handler) getConsultationBySlot(c *gin.Context) {
	specialistID, ok := h.resolveSpecialistID(c)
	if !ok {
		return
	}

	consultation, err := h.services.Consultation.GetBySlot(c.Request.Context(), specialistID, c.Query("date"), c.Query("time"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, consultation)
}

// @Summary Получить консультацию
// @Description Возвращает консультацию по ID
// @Tags Консультации
// @Produce json
// @Param id path int true "ID консультации"
// @Success 200 {object} domain.Consultation "Консультация"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Консультация не найдена"
// @Security ApiKeyAuth
// @Router /consultations/{id} [get]
func (h *Handler) getConsultationByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	consultation, err := h.services.Consultation.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, consultation)
}

// @Summary Обновить консультацию
// @Description Обновляет тему, отметки и вариантные поля; тип консультации неизменен
// @Tags Консультации
// @Accept json
// @Produce json
// @Param id path int true "ID консультации"
// @Param input body domain.UpdateConsultationDTO true "Новые данные консультации"
// @Success 200 {object} domain.Consultation "Обновленная консультация"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Консультация не найдена"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /consultations/{id} [put]
func (h *Handler) updateConsultation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var req domain.UpdateConsultationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	consultation, err := h.services.Consultation.Update(c.Request.Context(), id, req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, consultation)
}

type arrivedRequest struct {
	Arrived *bool `json:"arrived" binding:"required"`
}

// @Summary Отметить явку
// @Description Отмечает, пришел ли посетитель на консультацию
// @Tags Консультации
// @Accept json
// @Produce json
// @Param id path int true "ID консультации"
// @Param input body arrivedRequest true "Отметка явки"
// @Success 204 {object} nil "Отметка сохранена"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Консультация не найдена"
// @Security ApiKeyAuth
// @Router /consultations/{id}/arrived [put]
func (h *Handler) setConsultationArrived(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var req arrivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Consultation.SetVisitorArrived(c.Request.Context(), id, *req.Arrived); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Удалить консультацию
// @Description Удаляет консультацию, освобождая слот расписания
// @Tags Консультации
// @Produce json
// @Param id path int true "ID консультации"
// @Success 204 {object} nil "Консультация удалена"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Консультация не найдена"
// @Security ApiKeyAuth
// @Router /consultations/{id} [delete]
func (h *Handler) deleteConsultation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Consultation.Delete(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
