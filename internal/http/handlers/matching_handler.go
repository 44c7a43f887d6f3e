package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/http/handlers/common"
	"github.com/workmatch/workmatch-backend/internal/service"
)

// MatchingHandler обслуживает подбор фрилансеров и миссий.
type MatchingHandler struct {
	matching *service.MatchingService
}

// NewMatchingHandler создаёт новый хэндлер.
func NewMatchingHandler(matching *service.MatchingService) *MatchingHandler {
	return &MatchingHandler{matching: matching}
}

// MatchFreelancers обрабатывает GET /api/matching/freelancers?mission_id=...&limit=...
// Доступно владельцу миссии и админу.
func (h *MatchingHandler) MatchFreelancers(c *gin.Context) {
	missionID, err := uuid.Parse(c.Query("mission_id"))
	if err != nil {
		common.RespondError(c, common.ErrInvalidUUID)
		return
	}

	viewerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	viewerRole, _ := common.CurrentUserRole(c)

	limit := limitQuery(c)
	results, err := h.matching.MatchFreelancers(c.Request.Context(), missionID, viewerID, viewerRole, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, results)
}

// MatchMissions обрабатывает GET /api/matching/missions?limit=...
// Подбирает опубликованные миссии под профиль текущего фрилансера.
func (h *MatchingHandler) MatchMissions(c *gin.Context) {
	freelancerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	limit := limitQuery(c)
	results, err := h.matching.MatchMissions(c.Request.Context(), freelancerID, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, results)
}

// limitQuery читает limit без нормализации: сервис матчинга сам
// приводит значение к своему диапазону.
func limitQuery(c *gin.Context) int {
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return 0
}
