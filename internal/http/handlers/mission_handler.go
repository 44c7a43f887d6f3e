package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/http/handlers/common"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/repository"
	"github.com/workmatch/workmatch-backend/internal/service"
)

// MissionHandler обслуживает CRUD миссий и переходы их статусов.
type MissionHandler struct {
	missions *service.MissionService
}

// NewMissionHandler создаёт новый хэндлер.
func NewMissionHandler(missions *service.MissionService) *MissionHandler {
	return &MissionHandler{missions: missions}
}

// Create обрабатывает POST /api/missions. Только COMPANY.
func (h *MissionHandler) Create(c *gin.Context) {
	companyID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.CreateMissionRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	mission, err := h.missions.Create(c.Request.Context(), companyID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondCreated(c, mission)
}

// List обрабатывает GET /api/missions. Публичный endpoint.
// Фильтры: status, company_id, skill.
func (h *MissionHandler) List(c *gin.Context) {
	page, limit := common.ParsePagination(c)

	filters := repository.MissionFilters{
		Status: c.Query("status"),
		Skill:  c.Query("skill"),
	}
	if raw := c.Query("company_id"); raw != "" {
		companyID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondError(c, common.ErrInvalidUUID)
			return
		}
		filters.CompanyID = &companyID
	}

	missions, p, err := h.missions.List(c.Request.Context(), filters, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, missions, p)
}

// ListMine обрабатывает GET /api/missions/my. Миссии текущей компании.
func (h *MissionHandler) ListMine(c *gin.Context) {
	companyID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	page, limit := common.ParsePagination(c)
	missions, p, err := h.missions.ListByCompany(c.Request.Context(), companyID, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, missions, p)
}

// Get обрабатывает GET /api/missions/:id.
// Черновик виден только владельцу и админу.
func (h *MissionHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	viewerID, _ := common.CurrentUserID(c)
	viewerRole, _ := common.CurrentUserRole(c)

	mission, err := h.missions.Get(c.Request.Context(), id, viewerID, viewerRole)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, mission)
}

// Update обрабатывает PUT /api/missions/:id.
func (h *MissionHandler) Update(c *gin.Context) {
	id, companyID, ok := h.idAndOwner(c)
	if !ok {
		return
	}

	var req dto.UpdateMissionRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	mission, err := h.missions.Update(c.Request.Context(), id, companyID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, mission)
}

// Publish обрабатывает POST /api/missions/:id/publish.
func (h *MissionHandler) Publish(c *gin.Context) {
	h.transition(c, h.missions.Publish)
}

// Complete обрабатывает POST /api/missions/:id/complete.
func (h *MissionHandler) Complete(c *gin.Context) {
	h.transition(c, h.missions.Complete)
}

// Cancel обрабатывает POST /api/missions/:id/cancel.
func (h *MissionHandler) Cancel(c *gin.Context) {
	h.transition(c, h.missions.Cancel)
}

// Delete обрабатывает DELETE /api/missions/:id. Удалять можно только черновик.
func (h *MissionHandler) Delete(c *gin.Context) {
	id, companyID, ok := h.idAndOwner(c)
	if !ok {
		return
	}

	if err := h.missions.Delete(c.Request.Context(), id, companyID); err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondNoContent(c)
}

func (h *MissionHandler) idAndOwner(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	companyID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	return id, companyID, true
}

func (h *MissionHandler) transition(c *gin.Context, op func(ctx context.Context, id, companyID uuid.UUID) (*models.Mission, error)) {
	id, companyID, ok := h.idAndOwner(c)
	if !ok {
		return
	}

	mission, err := op(c.Request.Context(), id, companyID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, mission)
}
