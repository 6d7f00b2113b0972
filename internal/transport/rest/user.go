package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"psychologist/internal/domain"
)

// @Summary Создать пользователя
// @Description Создает нового пользователя (только для администраторов)
// @Tags Пользователи
// @Accept json
// @Produce json
// @Param input body domain.CreateUserDTO true "Данные пользователя"
// @Success 201 {object} map[string]interface{} "ID созданного пользователя"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 409 {object} errorResponseBody "Email уже занят"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /users [post]
func (h *Handler) createUser(c *gin.Context) {
	var req domain.CreateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.User.Create(c.Request.Context(), req)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Получить пользователя по ID
// @Description Возвращает информацию о пользователе по указанному ID
// @Tags Пользователи
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} domain.User "Данные пользователя"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Пользователь не найден"
// @Security ApiKeyAuth
// @Router /users/{id} [get]
func (h *Handler) getUserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	currentUserID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	userRole, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	if currentUserID != id && userRole != domain.UserRoleAdmin {
		forbiddenResponse(c)
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, user)
}

// @Summary Текущий пользователь
// @Description Возвращает данные авторизованного пользователя
// @Tags Пользователи
// @Produce json
// @Success 200 {object} domain.User "Данные пользователя"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /users/me [get]
func (h *Handler) getCurrentUser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	user, err := h.services.User.GetByID(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, user)
}

// @Summary Обновить пользователя
// @Description Обновляет данные пользователя
// @Tags Пользователи
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param input body domain.UpdateUserDTO true "Новые данные пользователя"
// @Success 204 {object} nil "Пользователь успешно обновлен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /users/{id} [put]
func (h *Handler) updateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	currentUserID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	userRole, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	if currentUserID != id && userRole != domain.UserRoleAdmin {
		forbiddenResponse(c)
		return
	}

	var req domain.UpdateUserDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.User.Update(c.Request.Context(), id, req); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Изменить пароль
// @Description Изменяет пароль пользователя после проверки текущего
// @Tags Пользователи
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param input body domain.PasswordUpdateDTO true "Старый и новый пароли"
// @Success 204 {object} nil "Пароль успешно изменен"
// @Failure 400 {object} errorResponseBody "Ошибка валидации или неверный текущий пароль"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /users/{id}/password [put]
func (h *Handler) updatePassword(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	currentUserID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	if currentUserID != id {
		forbiddenResponse(c)
		return
	}

	var req domain.PasswordUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.User.UpdatePassword(c.Request.Context(), id, req); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Удалить пользователя
// @Description Деактивирует учетную запись пользователя (только для администраторов)
// @Tags Пользователи
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 204 {object} nil "Пользователь успешно удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Пользователь не найден"
// @Security ApiKeyAuth
// @Router /users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Список пользователей
// @Description Возвращает список пользователей (только для администраторов)
// @Tags Пользователи
// @Produce json
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {array} domain.User "Список пользователей"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Security ApiKeyAuth
// @Router /users [get]
func (h *Handler) getUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.services.User.List(c.Request.Context(), limit, offset)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, users)
}
