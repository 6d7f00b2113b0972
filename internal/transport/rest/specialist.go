package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"psychologist/internal/domain"
)

// @Summary Список специалистов
// @Description Возвращает список специалистов с пагинацией
// @Tags Специалисты
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Список специалистов"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /specialists [get]
func (h *Handler) getSpecialists(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	specialists, total, err := h.services.Specialist.List(c.Request.Context(), limit, offset)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	if limit <= 0 {
		limit = 20
	}
	page := offset/limit + 1
	paginatedSuccessResponse(c, specialists, total, page, limit)
}

// @Summary Получить специалиста
// @Description Возвращает данные специалиста по ID
// @Tags Специалисты
// @Produce json
// @Param id path int true "ID специалиста"
// @Success 200 {object} domain.Specialist "Данные специалиста"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Специалист не найден"
// @Router /specialists/{id} [get]
func (h *Handler) getSpecialistByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	specialist, err := h.services.Specialist.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, specialist)
}

// @Summary Мой профиль специалиста
// @Description Возвращает профиль специалиста текущего пользователя
// @Tags Специалисты
// @Produce json
// @Success 200 {object} domain.Specialist "Профиль специалиста"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Security ApiKeyAuth
// @Router /specialists/me [get]
func (h *Handler) getMySpecialistProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	specialist, err := h.services.Specialist.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, specialist)
}

// @Summary Создать специалиста
// @Description Создает специалиста вместе с учетной записью (только для администраторов)
// @Tags Специалисты
// @Accept json
// @Produce json
// @Param input body domain.CreateSpecialistDTO true "Данные специалиста и учетной записи"
// @Success 201 {object} map[string]interface{} "ID созданного специалиста"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 409 {object} errorResponseBody "Email уже занят"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /specialists [post]
func (h *Handler) createSpecialist(c *gin.Context) {
	var req domain.CreateSpecialistDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Specialist.Create(c.Request.Context(), req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Обновить специалиста
// @Description Обновляет карточку специалиста (только для администраторов)
// @Tags Специалисты
// @Accept json
// @Produce json
// @Param id path int true "ID специалиста"
// @Param input body domain.SpecialistDataDTO true "Новые данные специалиста"
// @Success 204 {object} nil "Специалист обновлен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Специалист не найден"
// @Security ApiKeyAuth
// @Router /specialists/{id} [put]
func (h *Handler) updateSpecialist(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var req domain.SpecialistDataDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Specialist.Update(c.Request.Context(), id, req); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Удалить специалиста
// @Description Удаляет карточку специалиста (только для администраторов)
// @Tags Специалисты
// @Produce json
// @Param id path int true "ID специалиста"
// @Success 204 {object} nil "Специалист удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Специалист не найден"
// @Security ApiKeyAuth
// @Router /specialists/{id} [delete]
func (h *Handler) deleteSpecialist(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Specialist.Delete(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
