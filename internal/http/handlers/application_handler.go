package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/http/handlers/common"
	"github.com/workmatch/workmatch-backend/internal/service"
)

// ApplicationHandler обслуживает отклики на миссии и собеседования.
type ApplicationHandler struct {
	applications *service.ApplicationService
	interviews   *service.InterviewService
}

// NewApplicationHandler создаёт новый хэндлер.
func NewApplicationHandler(applications *service.ApplicationService, interviews *service.InterviewService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, interviews: interviews}
}

// Apply обрабатывает POST /api/missions/:id/applications. Только FREELANCE.
func (h *ApplicationHandler) Apply(c *gin.Context) {
	missionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	freelancerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.CreateApplicationRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	application, err := h.applications.Apply(c.Request.Context(), missionID, freelancerID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondCreated(c, application)
}

// ListByMission обрабатывает GET /api/missions/:id/applications. Только владелец миссии.
func (h *ApplicationHandler) ListByMission(c *gin.Context) {
	missionID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	companyID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	page, limit := common.ParsePagination(c)
	applications, p, err := h.applications.ListByMission(c.Request.Context(), missionID, companyID, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, applications, p)
}

// ListMine обрабатывает GET /api/applications/my. Отклики текущего фрилансера.
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	freelancerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	page, limit := common.ParsePagination(c)
	applications, p, err := h.applications.ListMine(c.Request.Context(), freelancerID, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, applications, p)
}

// Get обрабатывает GET /api/applications/:id.
func (h *ApplicationHandler) Get(c *gin.Context) {
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

	application, err := h.applications.Get(c.Request.Context(), id, viewerID, viewerRole)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, application)
}

// UpdateStatus обрабатывает PUT /api/applications/:id/status. Только COMPANY.
// Переход должен быть разрешён машиной состояний отклика.
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
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

	var req dto.UpdateApplicationStatusRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	application, err := h.applications.UpdateStatus(c.Request.Context(), id, companyID, req.Status)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, application)
}

// ScheduleInterview обрабатывает POST /api/applications/:id/interview. Только COMPANY.
func (h *ApplicationHandler) ScheduleInterview(c *gin.Context) {
	applicationID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	companyID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.ScheduleInterviewRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	interview, err := h.interviews.Schedule(c.Request.Context(), applicationID, companyID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondCreated(c, interview)
}

// GetInterview обрабатывает GET /api/interviews/:id.
func (h *ApplicationHandler) GetInterview(c *gin.Context) {
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

	interview, err := h.interviews.Get(c.Request.Context(), id, viewerID, viewerRole)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, interview)
}

// CompleteInterview обрабатывает PUT /api/interviews/:id/complete. Только COMPANY.
func (h *ApplicationHandler) CompleteInterview(c *gin.Context) {
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

	var req dto.CompleteInterviewRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	interview, err := h.interviews.Complete(c.Request.Context(), id, companyID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, interview)
}
