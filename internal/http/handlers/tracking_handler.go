package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/http/handlers/common"
	"github.com/workmatch/workmatch-backend/internal/service"
)

// TrackingHandler обслуживает учёт времени по контрактам.
type TrackingHandler struct {
	tracking *service.TrackingService
}

// NewTrackingHandler создаёт новый хэндлер.
func NewTrackingHandler(tracking *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{tracking: tracking}
}

// Log обрабатывает POST /api/contracts/:id/tracking. Только FREELANCE,
// контракт должен быть активен.
func (h *TrackingHandler) Log(c *gin.Context) {
	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	freelancerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.CreateTrackingRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	entry, err := h.tracking.Log(c.Request.Context(), contractID, freelancerID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondCreated(c, entry)
}

// List обрабатывает GET /api/contracts/:id/tracking. Только стороны контракта и админ.
func (h *TrackingHandler) List(c *gin.Context) {
	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	viewerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	viewerRole, _ := common.CurrentUserRole(c)

	page, limit := common.ParsePagination(c)
	entries, p, err := h.tracking.List(c.Request.Context(), contractID, viewerID, viewerRole, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, entries, p)
}

// Update обрабатывает PUT /api/tracking/:id. Только автор записи,
// подтверждённые записи неизменяемы.
func (h *TrackingHandler) Update(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	freelancerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.CreateTrackingRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	entry, err := h.tracking.Update(c.Request.Context(), id, freelancerID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, entry)
}

// Approve обрабатывает PUT /api/tracking/:id/approve. Только компания по контракту.
func (h *TrackingHandler) Approve(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	companyID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	entry, err := h.tracking.Approve(c.Request.Context(), id, companyID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, entry)
}

// Delete обрабатывает DELETE /api/tracking/:id. Только автор записи.
func (h *TrackingHandler) Delete(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	freelancerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	if err := h.tracking.Delete(c.Request.Context(), id, freelancerID); err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondNoContent(c)
}
