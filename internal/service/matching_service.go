package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/matching"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

// Ограничения выдачи матчинга.
const (
	matchingPoolSize     = 200
	defaultMatchLimit    = 10
	maxMatchLimit        = 50
	minScoreForInclusion = 1
)

// FreelancerPool отдаёт пул профилей для матчинга.
type FreelancerPool interface {
	ListFreelancers(ctx context.Context, limit int) ([]models.FreelancerProfile, error)
	GetFreelancerByUserID(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error)
}

// MissionPool отдаёт опубликованные миссии для матчинга.
type MissionPool interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error)
	ListPublished(ctx context.Context, limit int) ([]models.Mission, error)
}

// UserRefGetter отдаёт минимальную проекцию пользователя.
type UserRefGetter interface {
	GetRef(ctx context.Context, id uuid.UUID) (*models.UserRef, error)
}

// MatchingService сводит миссии и фрилансеров через авторитетный скоринг.
type MatchingService struct {
	missions MissionPool
	profiles FreelancerPool
	users    UserRefGetter
	ratings  RatingCalculator
}

// NewMatchingService создаёт сервис матчинга.
func NewMatchingService(missions MissionPool, profiles FreelancerPool, users UserRefGetter, ratings RatingCalculator) *MatchingService {
	return &MatchingService{missions: missions, profiles: profiles, users: users, ratings: ratings}
}

// MatchFreelancers возвращает лучших кандидатов для миссии.
// Доступно владельцу миссии и администратору.
func (s *MatchingService) MatchFreelancers(ctx context.Context, missionID, viewerID uuid.UUID, viewerRole string, limit int) ([]dto.MatchResult, error) {
	limit = normalizeMatchLimit(limit)

	mission, err := s.missions.GetByID(ctx, missionID)
	if err != nil {
		return nil, apperror.ErrMissionNotFound
	}
	if mission.CompanyID != viewerID && viewerRole != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}

	pool, err := s.profiles.ListFreelancers(ctx, matchingPoolSize)
	if err != nil {
		return nil, err
	}

	ranked := matching.RankFreelancers(mission, pool)

	results := make([]dto.MatchResult, 0, limit)
	for _, r := range ranked {
		if len(results) >= limit {
			break
		}
		if r.Score < minScoreForInclusion {
			continue
		}

		view := &dto.FreelancerView{FreelancerProfile: r.Profile}
		if ref, err := s.users.GetRef(ctx, r.Profile.UserID); err == nil {
			view.User = *ref
		}
		if rating, err := s.ratings.CalculateUserRating(ctx, r.Profile.UserID); err == nil {
			view.AverageRating = rating.AverageRating
			view.TotalReviews = rating.TotalReviews
			view.IsCertified = IsCertified(rating)
		}

		results = append(results, dto.MatchResult{
			Freelancer: view,
			MatchScore: r.Score,
			Reasons:    r.Reasons,
		})
	}
	return results, nil
}

// MatchMissions возвращает лучшие опубликованные миссии для фрилансера.
func (s *MatchingService) MatchMissions(ctx context.Context, freelancerID uuid.UUID, limit int) ([]dto.MatchResult, error) {
	limit = normalizeMatchLimit(limit)

	profile, err := s.profiles.GetFreelancerByUserID(ctx, freelancerID)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "профиль фрилансера не найден")
	}

	pool, err := s.missions.ListPublished(ctx, matchingPoolSize)
	if err != nil {
		return nil, err
	}

	ranked := matching.RankMissions(profile, pool)

	results := make([]dto.MatchResult, 0, limit)
	for _, r := range ranked {
		if len(results) >= limit {
			break
		}
		if r.Score < minScoreForInclusion {
			continue
		}
		mission := r.Mission
		results = append(results, dto.MatchResult{
			Mission:    &mission,
			MatchScore: r.Score,
			Reasons:    r.Reasons,
		})
	}
	return results, nil
}

func normalizeMatchLimit(limit int) int {
	if limit <= 0 {
		return defaultMatchLimit
	}
	if limit > maxMatchLimit {
		return maxMatchLimit
	}
	return limit
}
