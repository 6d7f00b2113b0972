package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"psychologist/internal/domain"
)

// specialistIDParam разбирает :specialistId и проверяет, что специалист
// расписания совпадает с профилем пользователя, если тот не администратор.
func (h *Handler) specialistIDParam(c *gin.Context) (int64, bool) {
	specialistID, err := strconv.ParseInt(c.Param("specialistId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID специалиста")
		return 0, false
	}

	userRole, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return 0, false
	}

	if userRole == domain.UserRoleAdmin {
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

	if specialist.ID != specialistID {
		forbiddenResponse(c, "нельзя управлять чужим расписанием")
		return 0, false
	}

	return specialistID, true
}

// @Summary Создать день расписания
// @Description Создает рабочее окно специалиста на одну дату
// @Tags Расписание
// @Accept json
// @Produce json
// @Param specialistId path int true "ID специалиста"
// @Param input body domain.CreateScheduleDayDTO true "Дата и рабочее окно"
// @Success 201 {object} domain.ScheduleDay "Созданный день расписания"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 409 {object} errorResponseBody "Расписание на дату уже существует"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /schedule/{specialistId} [post]
func (h *Handler) createScheduleDay(c *gin.Context) {
	specialistID, ok := h.specialistIDParam(c)
	if !ok {
		return
	}

	var req domain.CreateScheduleDayDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	day, err := h.services.Schedule.Create(c.Request.Context(), specialistID, req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, day)
}

// @Summary Создать расписание на период
// @Description Создает рабочие окна по шаблону дней недели на периоде дат
// @Tags Расписание
// @Accept json
// @Produce json
// @Param specialistId path int true "ID специалиста"
// @Param input body domain.CreateScheduleRangeDTO true "Период и шаблон по дням недели"
// @Success 201 {array} domain.ScheduleDay "Созданные дни расписания"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 409 {object} errorResponseBody "Часть дат уже занята расписанием"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /schedule/{specialistId}/range [post]
func (h *Handler) createScheduleRange(c *gin.Context) {
	specialistID, ok := h.specialistIDParam(c)
	if !ok {
		return
	}

	var req domain.CreateScheduleRangeDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	days, err := h.services.Schedule.CreateRange(c.Request.Context(), specialistID, req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, days)
}

// @Summary День расписания с интервалами
// @Description Возвращает рабочее окно на дату и его часовые интервалы с консультациями
// @Tags Расписание
// @Produce json
// @Param specialistId path int true "ID специалиста"
// @Param date path string true "Дата в формате YYYY-MM-DD"
// @Success 200 {object} service.ScheduleDayView "День расписания"
// @Failure 400 {object} errorResponseBody "Неверный формат даты"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Расписание не найдено"
// @Security ApiKeyAuth
// @Router /schedule/{specialistId}/{date} [get]
func (h *Handler) getScheduleDay(c *gin.Context) {
	specialistID, ok := h.specialistIDParam(c)
	if !ok {
		return
	}

	view, err := h.services.Schedule.GetDayView(c.Request.Context(), specialistID, c.Param("date"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}

// @Summary Расписание на период
// @Description Возвращает дни расписания в диапазоне дат включительно
// @Tags Расписание
// @Produce json
// @Param specialistId path int true "ID специалиста"
// @Param from query string true "Начало периода YYYY-MM-DD"
// @Param to query string true "Конец периода YYYY-MM-DD"
// @Success 200 {array} domain.ScheduleDay "Дни расписания"
// @Failure 400 {object} errorResponseBody "Неверный формат дат"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /schedule/{specialistId} [get]
func (h *Handler) getScheduleRange(c *gin.Context) {
	specialistID, ok := h.specialistIDParam(c)
	if !ok {
		return
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		badRequestResponse(c, "параметры from и to обязательны")
		return
	}

	days, err := h.services.Schedule.ListRange(c.Request.Context(), specialistID, from, to)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, days)
}

// @Summary Обновить день расписания
// @Description Заменяет рабочее окно на дату
// @Tags Расписание
// @Accept json
// @Produce json
// @Param specialistId path int true "ID специалиста"
// @Param date path string true "Дата в формате YYYY-MM-DD"
// @Param input body domain.UpdateScheduleDayDTO true "Новое рабочее окно"
// @Success 200 {object} domain.ScheduleDay "Обновленный день расписания"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Расписание не найдено"
// @Security ApiKeyAuth
// @Router /schedule/{specialistId}/{date} [put]
func (h *Handler) updateScheduleDay(c *gin.Context) {
	specialistID, ok := h.specialistIDParam(c)
	if !ok {
		return
	}

	var req domain.UpdateScheduleDayDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	day, err := h.services.Schedule.Update(c.Request.Context(), specialistID, c.Param("date"), req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, day)
}

// @Summary Удалить день расписания
// @Description Удаляет рабочее окно на дату; блокируется при наличии консультаций
// @Tags Расписание
// @Produce json
// @Param specialistId path int true "ID специалиста"
// @Param date path string true "Дата в формате YYYY-MM-DD"
// @Success 204 {object} nil "День расписания удален"
// @Failure 400 {object} errorResponseBody "Неверный формат даты"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Расписание не найдено"
// @Failure 409 {object} errorResponseBody "На дату есть консультации"
// @Security ApiKeyAuth
// @Router /schedule/{specialistId}/{date} [delete]
func (h *Handler) deleteScheduleDay(c *gin.Context) {
	specialistID, ok := h.specialistIDParam(c)
	if !ok {
		return
	}

	if err := h.services.Schedule.Delete(c.Request.Context(), specialistID, c.Param("date")); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Удалить расписание на период
// @Description Удаляет рабочие окна в диапазоне дат включительно; блокируется при наличии консультаций
// @Tags Расписание
// @Produce json
// @Param specialistId path int true "ID специалиста"
// @Param from query string true "Начало периода YYYY-MM-DD"
// @Param to query string true "Конец периода YYYY-MM-DD"
// @Success 204 {object} nil "Дни расписания удалены"
// @Failure 400 {object} errorResponseBody "Неверный формат дат"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "В периоде нет расписания"
// @Failure 409 {object} errorResponseBody "В периоде есть консультации"
// @Security ApiKeyAuth
// @Router /schedule/{specialistId} [delete]
func (h *Handler) deleteScheduleRange(c *gin.Context) {
	specialistID, ok := h.specialistIDParam(c)
	if !ok {
		return
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		badRequestResponse(c, "параметры from и to обязательны")
		return
	}

	if err := h.services.Schedule.DeleteRange(c.Request.Context(), specialistID, from, to); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Свободные интервалы
// @Description Возвращает свободные для записи часовые интервалы специалиста на дату (только для посетителей)
// @Tags Запись на прием
// @Produce json
// @Param specialistId path int true "ID специалиста"
// @Param date path string true "Дата в формате YYYY-MM-DD"
// @Success 200 {object} service.FreeSlotsView "Свободные интервалы"
// @Failure 400 {object} errorResponseBody "Неверный формат даты"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Расписание не найдено"
// @Security ApiKeyAuth
// @Router /schedule/{specialistId}/{date}/appointment [get]
func (h *Handler) getFreeSlots(c *gin.Context) {
	specialistID, err := strconv.ParseInt(c.Param("specialistId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID специалиста")
		return
	}

	view, err := h.services.Schedule.GetFreeSlotsView(c.Request.Context(), specialistID, c.Param("date"))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, view)
}
