package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/http/handlers/common"
	"github.com/workmatch/workmatch-backend/internal/service"
)

// FeedbackHandler обслуживает отзывы и агрегированные рейтинги.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler создаёт новый хэндлер.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Create обрабатывает POST /api/feedback.
// Отзыв должен ссылаться на миссию или контракт.
func (h *FeedbackHandler) Create(c *gin.Context) {
	fromUserID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req dto.CreateFeedbackRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	feedback, err := h.feedback.Create(c.Request.Context(), fromUserID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondCreated(c, feedback)
}

// Get обрабатывает GET /api/feedback/:id.
// Приватный отзыв виден только автору, получателю и админу.
func (h *FeedbackHandler) Get(c *gin.Context) {
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

	feedback, err := h.feedback.Get(c.Request.Context(), id, viewerID, viewerRole)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, feedback)
}

// ListMine обрабатывает GET /api/feedback/me. Отзывы о текущем пользователе,
// включая приватные.
func (h *FeedbackHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	role, _ := common.CurrentUserRole(c)

	page, limit := common.ParsePagination(c)
	items, p, err := h.feedback.ListForUser(c.Request.Context(), userID, userID, role, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, items, p)
}

// ListForUser обрабатывает GET /api/users/:id/feedback.
// Посторонним возвращаются только публичные отзывы.
func (h *FeedbackHandler) ListForUser(c *gin.Context) {
	toUserID, err := common.ParseUUIDParam(c, "id")
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
	items, p, err := h.feedback.ListForUser(c.Request.Context(), toUserID, viewerID, viewerRole, page, limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondList(c, items, p)
}

// Update обрабатывает PUT /api/feedback/:id. Только автор.
func (h *FeedbackHandler) Update(c *gin.Context) {
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

	var req dto.UpdateFeedbackRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.RespondError(c, err)
		return
	}

	feedback, err := h.feedback.Update(c.Request.Context(), id, userID, &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, feedback)
}

// Delete обрабатывает DELETE /api/feedback/:id. Автор или админ.
func (h *FeedbackHandler) Delete(c *gin.Context) {
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
	role, _ := common.CurrentUserRole(c)

	if err := h.feedback.Delete(c.Request.Context(), id, userID, role); err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondNoContent(c)
}

// GetUserRating обрабатывает GET /api/users/:id/rating.
// Рейтинг считается только по публичным отзывам.
func (h *FeedbackHandler) GetUserRating(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondError(c, err)
		return
	}

	rating, err := h.feedback.GetUserRating(c.Request.Context(), userID)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.RespondSuccess(c, rating)
}
