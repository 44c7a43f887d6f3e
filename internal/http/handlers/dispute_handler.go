package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/http/handlers/common"
	"github.com/workmatch/workmatch-backend/internal/service"
)

// DisputeHandler обслуживает споры по контрактам.
type DisputeHandler struct {
	disputes *service.DisputeService
}

// NewDisputeHandler создаёт новый хэндлер.
func NewDisputeHandler(disputes *service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

// Open обрабатывает POST /api/disputes. Только сторона контракта,
// по контракту может быть открыт только один спор.
func (h *DisputeHandler) Open(c *gin.Context) {
	raisedByID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.CreateDisputeRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	dispute, err := h.disputes.Open(c.Request.Context(), raisedByID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondCreated(c, dispute)
}

// ListMine обрабатывает GET /api/disputes/my.
func (h *DisputeHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	page, limit := common.ParsePagination(c)
	disputes, p, err := h.disputes.ListMine(c.Request.Context(), userID, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, disputes, p)
}

// Get обрабатывает GET /api/disputes/:id. Стороны контракта и админ.
func (h *DisputeHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
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

	dispute, err := h.disputes.Get(c.Request.Context(), id, viewerID, viewerRole)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, dispute)
}

// Update обрабатывает PATCH /api/disputes/:id. Только ADMIN.
func (h *DisputeHandler) Update(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	adminID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.UpdateDisputeRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	dispute, err := h.disputes.Update(c.Request.Context(), id, adminID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, dispute)
}

// Resolve обрабатывает POST /api/disputes/:id/resolve. Только ADMIN.
// Резолюция обязательна, статус по умолчанию RESOLVED.
func (h *DisputeHandler) Resolve(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	adminID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.ResolveDisputeRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	dispute, err := h.disputes.Resolve(c.Request.Context(), id, adminID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, dispute)
}
