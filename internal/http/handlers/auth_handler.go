package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/http/handlers/common"
	"github.com/workmatch/workmatch-backend/internal/service"
)

// AuthHandler обслуживает регистрацию, вход и управление сессиями.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт новый хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func sessionMeta(c *gin.Context) service.SessionMeta {
	return service.SessionMeta{
		UserAgent: c.GetHeader("User-Agent"),
		IP:        c.ClientIP(),
	}
}

// Register обрабатывает POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), &req, sessionMeta(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondCreated(c, resp)
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req, sessionMeta(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, resp)
}

// Refresh обрабатывает POST /api/auth/refresh.
// Ротация: старая сессия отзывается, выдаётся новая пара токенов.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken, sessionMeta(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, resp)
}

// Logout обрабатывает POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondNoContent(c)
}
