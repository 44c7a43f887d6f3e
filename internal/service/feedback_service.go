package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

// Пороги сертификации: средний рейтинг по публичным отзывам
// не ниже 4.5 при не менее чем 5 отзывах.
const (
	certifiedMinRating  = 4.5
	certifiedMinReviews = 5
)

// IsCertified вычисляет признак сертификации по агрегированному рейтингу.
// Признак нигде не хранится и вычисляется только при чтении.
func IsCertified(r *models.UserRating) bool {
	return r != nil && r.TotalReviews >= certifiedMinReviews && r.AverageRating >= certifiedMinRating
}

// FeedbackRepository описывает зависимости FeedbackService от хранилища.
type FeedbackRepository interface {
	Create(ctx context.Context, f *models.Feedback) (*dto.FeedbackResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.FeedbackResponse, error)
	ListByToUser(ctx context.Context, toUserID uuid.UUID, isPublic *bool, page, limit int) ([]*dto.FeedbackResponse, pagination.Pagination, error)
	Update(ctx context.Context, id uuid.UUID, rating *int, comment *string, skills models.SkillRatings, isPublic *bool) (*dto.FeedbackResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CalculateUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error)
}

// FeedbackService содержит бизнес-логику отзывов и агрегированного рейтинга.
type FeedbackService struct {
	repo      FeedbackRepository
	missions  MissionGetter
	contracts ContractGetter
	notifier  Notifier
}

// NewFeedbackService создаёт сервис отзывов.
func NewFeedbackService(repo FeedbackRepository, missions MissionGetter, contracts ContractGetter, notifier Notifier) *FeedbackService {
	return &FeedbackService{repo: repo, missions: missions, contracts: contracts, notifier: notifier}
}

// Create создаёт отзыв. Отзыв обязан ссылаться на миссию или контракт,
// автор не может оставить отзыв самому себе.
func (s *FeedbackService) Create(ctx context.Context, fromUserID uuid.UUID, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ToUserID == fromUserID {
		return nil, apperror.Validation("to_user_id", "нельзя оставить отзыв самому себе")
	}

	if req.ContractID != nil {
		c, err := s.contracts.GetByID(ctx, *req.ContractID)
		if err != nil {
			return nil, apperror.ErrContractNotFound
		}
		if !isContractParty(c, fromUserID) || !isContractParty(c, req.ToUserID) {
			return nil, apperror.ErrForbidden
		}
	} else if req.MissionID != nil {
		if _, err := s.missions.GetByID(ctx, *req.MissionID); err != nil {
			return nil, apperror.ErrMissionNotFound
		}
	}

	f := &models.Feedback{
		FromUserID: fromUserID,
		ToUserID:   req.ToUserID,
		MissionID:  req.MissionID,
		ContractID: req.ContractID,
		Rating:     req.Rating,
		Comment:    req.Comment,
		Skills:     req.Skills,
		IsPublic:   req.Public(),
	}

	resp, err := s.repo.Create(ctx, f)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, req.ToUserID, EventFeedbackReceived, map[string]interface{}{
		"feedback_id": resp.ID,
		"rating":      resp.Rating,
	})

	return resp, nil
}

// Get возвращает отзыв. Приватный отзыв видят только автор,
// получатель и администратор.
func (s *FeedbackService) Get(ctx context.Context, id, viewerID uuid.UUID, viewerRole string) (*dto.FeedbackResponse, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "отзыв не найден")
	}
	if !f.IsPublic && f.FromUserID != viewerID && f.ToUserID != viewerID && viewerRole != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return f, nil
}

// ListForUser возвращает отзывы о пользователе. Сторонним зрителям
// отдаются только публичные, сам получатель и админ видят все.
func (s *FeedbackService) ListForUser(ctx context.Context, toUserID, viewerID uuid.UUID, viewerRole string, page, limit int) ([]*dto.FeedbackResponse, pagination.Pagination, error) {
	var isPublic *bool
	if toUserID != viewerID && viewerRole != models.RoleAdmin {
		public := true
		isPublic = &public
	}
	return s.repo.ListByToUser(ctx, toUserID, isPublic, page, limit)
}

// Update частично изменяет отзыв. Разрешено только автору.
func (s *FeedbackService) Update(ctx context.Context, id, userID uuid.UUID, req *dto.UpdateFeedbackRequest) (*dto.FeedbackResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "отзыв не найден")
	}
	if f.FromUserID != userID {
		return nil, apperror.ErrForbidden
	}

	return s.repo.Update(ctx, id, req.Rating, req.Comment, req.Skills, req.IsPublic)
}

// Delete удаляет отзыв. Разрешено автору и администратору.
func (s *FeedbackService) Delete(ctx context.Context, id, userID uuid.UUID, userRole string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperror.New(apperror.ErrCodeNotFound, "отзыв не найден")
	}
	if f.FromUserID != userID && userRole != models.RoleAdmin {
		return apperror.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// GetUserRating возвращает агрегированный рейтинг пользователя.
// Считаются только публичные отзывы, при их отсутствии рейтинг нулевой.
func (s *FeedbackService) GetUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error) {
	return s.repo.CalculateUserRating(ctx, userID)
}
