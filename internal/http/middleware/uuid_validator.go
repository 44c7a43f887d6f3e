package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
)

// UUIDValidator проверяет, что path-параметр является валидным UUID.
// Использование: router.GET("/missions/:id", UUIDValidator("id"), handler.Get)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorEnvelope{
				Error: dto.ErrorBody{
					Code:    "BAD_REQUEST",
					Message: "параметр " + paramName + " обязателен",
				},
			})
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorEnvelope{
				Error: dto.ErrorBody{
					Code:    "BAD_REQUEST",
					Message: "параметр " + paramName + " должен быть валидным UUID",
				},
			})
			return
		}

		c.Next()
	}
}
