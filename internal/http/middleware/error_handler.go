package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/logger"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
	"github.com/workmatch/workmatch-backend/internal/repository"
	"github.com/workmatch/workmatch-backend/internal/repository/common"
)

// ErrorHandler обрабатывает ошибки, отложенные хэндлерами через c.Error.
// Переводит *apperror.AppError и sentinel ошибки репозиториев в единый
// конверт ответа, всё остальное маскирует как внутреннюю ошибку.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		status, body := Translate(err)
		c.JSON(status, body)
	}
}

// Translate переводит ошибку в HTTP статус и тело ответа.
func Translate(err error) (int, dto.ErrorEnvelope) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body := dto.ErrorBody{
			Code:    string(appErr.Code),
			Message: appErr.Message,
		}
		if appErr.Field != "" {
			body.Details = gin.H{"field": appErr.Field}
		}
		return appErr.HTTPStatus, dto.ErrorEnvelope{Error: body}
	}

	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, notFound("пользователь не найден")
	case errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusUnauthorized, dto.ErrorEnvelope{
			Error: dto.ErrorBody{Code: "UNAUTHORIZED", Message: "сессия не найдена или отозвана"},
		}
	case errors.Is(err, repository.ErrTrackingNotFound):
		return http.StatusNotFound, notFound("запись учёта не найдена")
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, notFound("запись не найдена")
	case errors.Is(err, common.ErrAlreadyExists):
		return http.StatusConflict, dto.ErrorEnvelope{
			Error: dto.ErrorBody{Code: "CONFLICT", Message: "запись уже существует"},
		}
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, dto.ErrorEnvelope{
			Error: dto.ErrorBody{Code: "BAD_REQUEST", Message: "недопустимые данные"},
		}
	}

	return http.StatusInternalServerError, dto.ErrorEnvelope{
		Error: dto.ErrorBody{Code: "INTERNAL_ERROR", Message: "внутренняя ошибка сервера"},
	}
}

func notFound(message string) dto.ErrorEnvelope {
	return dto.ErrorEnvelope{Error: dto.ErrorBody{Code: "NOT_FOUND", Message: message}}
}
