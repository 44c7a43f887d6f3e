package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/http/handlers/common"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/service"
)

// ProfileHandler обслуживает профили пользователей, поиск фрилансеров
// и портфолио.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler создаёт новый хэндлер.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetUser обрабатывает GET /api/users/:id. Публичный просмотр профиля:
// фрилансер возвращается с рейтингом и признаком сертификации.
func (h *ProfileHandler) GetUser(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	ref, err := h.profiles.GetUserRef(c.Request.Context(), userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	switch ref.Role {
	case models.RoleFreelance:
		view, err := h.profiles.GetFreelancerView(c.Request.Context(), userID)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		common.RespondSuccess(c, view)
	case models.RoleCompany:
		view, err := h.profiles.GetCompanyView(c.Request.Context(), userID)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		common.RespondSuccess(c, view)
	default:
		common.RespondSuccess(c, ref)
	}
}

// GetMe обрабатывает GET /api/users/me.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.Params = append(c.Params, gin.Param{Key: "id", Value: userID.String()})
	h.GetUser(c)
}

// UpdateFreelancerProfile обрабатывает PUT /api/profiles/freelancer. Только FREELANCE.
func (h *ProfileHandler) UpdateFreelancerProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.UpdateFreelancerProfileRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	profile, err := h.profiles.UpdateFreelancerProfile(c.Request.Context(), userID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, profile)
}

// UpdateCompanyProfile обрабатывает PUT /api/profiles/company. Только COMPANY.
func (h *ProfileHandler) UpdateCompanyProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.UpdateCompanyProfileRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	profile, err := h.profiles.UpdateCompanyProfile(c.Request.Context(), userID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, profile)
}

// SearchFreelancers обрабатывает GET /api/freelancers?availability=...
func (h *ProfileHandler) SearchFreelancers(c *gin.Context) {
	page, limit := common.ParsePagination(c)

	views, p, err := h.profiles.SearchFreelancers(c.Request.Context(), c.Query("availability"), page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, views, p)
}

// ListUsers обрабатывает GET /api/users. Только ADMIN.
func (h *ProfileHandler) ListUsers(c *gin.Context) {
	page, limit := common.ParsePagination(c)

	users, p, err := h.profiles.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, users, p)
}

// UpdateUserStatus обрабатывает PATCH /api/users/:id/status. Только ADMIN.
// Блокировка и разблокировка аккаунтов; админа заблокировать нельзя.
func (h *ProfileHandler) UpdateUserStatus(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.UpdateUserStatusRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	user, err := h.profiles.UpdateUserStatus(c.Request.Context(), userID, req.IsActive)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, user)
}

// AddPortfolioItem обрабатывает POST /api/portfolio. Только FREELANCE.
func (h *ProfileHandler) AddPortfolioItem(c *gin.Context) {
	freelancerID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.CreatePortfolioItemRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	item, err := h.profiles.AddPortfolioItem(c.Request.Context(), freelancerID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondCreated(c, item)
}

// ListPortfolio обрабатывает GET /api/users/:id/portfolio. Публичный endpoint.
func (h *ProfileHandler) ListPortfolio(c *gin.Context) {
	freelancerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	items, err := h.profiles.ListPortfolio(c.Request.Context(), freelancerID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, items)
}

// UpdatePortfolioItem обрабатывает PUT /api/portfolio/:id. Только владелец.
func (h *ProfileHandler) UpdatePortfolioItem(c *gin.Context) {
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

	var req dto.CreatePortfolioItemRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	item, err := h.profiles.UpdatePortfolioItem(c.Request.Context(), id, freelancerID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, item)
}

// DeletePortfolioItem обрабатывает DELETE /api/portfolio/:id. Только владелец.
func (h *ProfileHandler) DeletePortfolioItem(c *gin.Context) {
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

	if err := h.profiles.DeletePortfolioItem(c.Request.Context(), id, freelancerID); err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondNoContent(c)
}
