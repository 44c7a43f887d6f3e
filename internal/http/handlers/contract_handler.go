package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/http/handlers/common"
	"github.com/workmatch/workmatch-backend/internal/service"
)

// ContractHandler обслуживает контракты и их вехи.
type ContractHandler struct {
	contracts *service.ContractService
}

// NewContractHandler создаёт новый хэндлер.
func NewContractHandler(contracts *service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// Create обрабатывает POST /api/contracts. Только COMPANY,
// отклик должен быть в статусе ACCEPTED.
func (h *ContractHandler) Create(c *gin.Context) {
	companyID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.CreateContractRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), companyID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondCreated(c, contract)
}

// ListMine обрабатывает GET /api/contracts/my.
func (h *ContractHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	page, limit := common.ParsePagination(c)
	contracts, p, err := h.contracts.ListMine(c.Request.Context(), userID, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, contracts, p)
}

// Get обрабатывает GET /api/contracts/:id. Только стороны контракта и админ.
func (h *ContractHandler) Get(c *gin.Context) {
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

	contract, err := h.contracts.Get(c.Request.Context(), id, viewerID, viewerRole)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, contract)
}

// Sign обрабатывает POST /api/contracts/:id/sign.
// Контракт активируется только после подписей обеих сторон.
func (h *ContractHandler) Sign(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	contract, err := h.contracts.Sign(c.Request.Context(), id, userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, contract)
}

// Complete обрабатывает POST /api/contracts/:id/complete. Только компания.
func (h *ContractHandler) Complete(c *gin.Context) {
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

	contract, err := h.contracts.Complete(c.Request.Context(), id, companyID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, contract)
}

// Terminate обрабатывает POST /api/contracts/:id/terminate. Только компания.
func (h *ContractHandler) Terminate(c *gin.Context) {
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

	contract, err := h.contracts.Terminate(c.Request.Context(), id, companyID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, contract)
}

// CreateMilestone обрабатывает POST /api/contracts/:id/milestones. Только COMPANY.
func (h *ContractHandler) CreateMilestone(c *gin.Context) {
	contractID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	companyID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.CreateMilestoneRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	milestone, err := h.contracts.CreateMilestone(c.Request.Context(), contractID, companyID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondCreated(c, milestone)
}

// ListMilestones обрабатывает GET /api/contracts/:id/milestones.
func (h *ContractHandler) ListMilestones(c *gin.Context) {
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

	milestones, err := h.contracts.ListMilestones(c.Request.Context(), contractID, viewerID, viewerRole)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, milestones)
}

// UpdateMilestoneStatus обрабатывает PUT /api/milestones/:id/status.
// Фрилансер сдаёт работу (SUBMITTED), компания принимает и оплачивает
// (APPROVED, PAID). Переход проверяется машиной состояний вехи.
func (h *ContractHandler) UpdateMilestoneStatus(c *gin.Context) {
	milestoneID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.UpdateMilestoneStatusRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	milestone, err := h.contracts.UpdateMilestoneStatus(c.Request.Context(), milestoneID, userID, req.Status)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, milestone)
}
