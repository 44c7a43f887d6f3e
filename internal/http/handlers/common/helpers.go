package common

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/http/middleware"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

var (
	// ErrUserNotInContext возвращается, когда в контексте нет аутентифицированного пользователя.
	ErrUserNotInContext error = apperror.New(apperror.ErrCodeUnauthorized, "пользователь не найден в контексте")

	// ErrInvalidUUID возвращается при невалидном UUID в параметре запроса.
	ErrInvalidUUID error = apperror.New(apperror.ErrCodeBadRequest, "неверный формат UUID")
)

// CurrentUserID извлекает ID пользователя из gin.Context.
func CurrentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, ErrUserNotInContext
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrUserNotInContext
	}

	return userID, nil
}

// CurrentUserRole извлекает роль пользователя из gin.Context.
func CurrentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", ErrUserNotInContext
	}

	role, ok := raw.(string)
	if !ok {
		return "", ErrUserNotInContext
	}

	return role, nil
}

// ParseUUIDParam парсит UUID из path-параметра.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return parsed, nil
}

// BindJSON биндит JSON тело и переводит ошибки биндинга в ошибку валидации.
func BindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, "ошибка валидации запроса: "+err.Error())
	}
	return nil
}

// ParsePagination читает page и limit из query-параметров.
func ParsePagination(c *gin.Context) (page, limit int) {
	page = intQuery(c, "page", 1)
	limit = intQuery(c, "limit", pagination.DefaultLimit)
	return pagination.Normalize(page, limit)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// RespondSuccess отправляет 200 в едином конверте.
func RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: data})
}

// RespondCreated отправляет 201 в едином конверте.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.Envelope{Success: true, Data: data})
}

// RespondNoContent отправляет 200 без полезной нагрузки.
func RespondNoContent(c *gin.Context) {
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Data: gin.H{}})
}

// RespondList отправляет списочный ответ с блоком pagination.
func RespondList(c *gin.Context, items interface{}, p pagination.Pagination) {
	RespondSuccess(c, dto.NewPaginated(items, p))
}

// RespondError переводит ошибку сервисного слоя в единый конверт.
func RespondError(c *gin.Context, err error) {
	status, body := middleware.Translate(err)
	c.JSON(status, body)
}
