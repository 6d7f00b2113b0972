package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"psychologist/internal/domain"
)

// @Summary Список посетителей
// @Description Возвращает список посетителей с пагинацией (для персонала)
// @Tags Посетители
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Список посетителей"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /visitors [get]
func (h *Handler) getVisitors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	visitors, total, err := h.services.Visitor.List(c.Request.Context(), limit, offset)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	if limit <= 0 {
		limit = 20
	}
	page := offset/limit + 1
	paginatedSuccessResponse(c, visitors, total, page, limit)
}

// @Summary Получить посетителя
// @Description Возвращает карточку посетителя по ID (для персонала)
// @Tags Посетители
// @Produce json
// @Param id path int true "ID посетителя"
// @Success 200 {object} domain.Visitor "Карточка посетителя"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Посетитель не найден"
// @Security ApiKeyAuth
// @Router /visitors/{id} [get]
func (h *Handler) getVisitorByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	visitor, err := h.services.Visitor.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, visitor)
}

// @Summary Создать посетителя
// @Description Создает карточку посетителя без учетной записи (для персонала)
// @Tags Посетители
// @Accept json
// @Produce json
// @Param input body domain.VisitorDataDTO true "Данные посетителя"
// @Success 201 {object} map[string]interface{} "ID созданного посетителя"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /visitors [post]
func (h *Handler) createVisitor(c *gin.Context) {
	var req domain.VisitorDataDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Visitor.Create(c.Request.Context(), req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Обновить посетителя
// @Description Обновляет карточку посетителя (для персонала)
// @Tags Посетители
// @Accept json
// @Produce json
// @Param id path int true "ID посетителя"
// @Param input body domain.VisitorDataDTO true "Новые данные посетителя"
// @Success 204 {object} nil "Посетитель обновлен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Посетитель не найден"
// @Security ApiKeyAuth
// @Router /visitors/{id} [put]
func (h *Handler) updateVisitor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	var req domain.VisitorDataDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Visitor.Update(c.Request.Context(), id, req); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Удалить посетителя
// @Description Удаляет карточку посетителя (для персонала)
// @Tags Посетители
// @Produce json
// @Param id path int true "ID посетителя"
// @Success 204 {object} nil "Посетитель удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Посетитель не найден"
// @Security ApiKeyAuth
// @Router /visitors/{id} [delete]
func (h *Handler) deleteVisitor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Visitor.Delete(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
