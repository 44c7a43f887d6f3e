package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/logger"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

// UserStore описывает зависимости ProfileService от хранилища пользователей.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetRef(ctx context.Context, id uuid.UUID) (*models.UserRef, error)
	List(ctx context.Context, page, limit int) ([]models.User, pagination.Pagination, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error
}

// ProfileStore описывает зависимости ProfileService от хранилища профилей.
type ProfileStore interface {
	UpsertFreelancer(ctx context.Context, p *models.FreelancerProfile) error
	GetFreelancerByUserID(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error)
	SearchFreelancers(ctx context.Context, availability string, page, limit int) ([]models.FreelancerProfile, pagination.Pagination, error)
	UpsertCompany(ctx context.Context, p *models.CompanyProfile) error
	GetCompanyByUserID(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error)
	CreatePortfolioItem(ctx context.Context, item *models.PortfolioItem) error
	GetPortfolioItem(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error)
	ListPortfolio(ctx context.Context, freelancerID uuid.UUID) ([]models.PortfolioItem, error)
	UpdatePortfolioItem(ctx context.Context, item *models.PortfolioItem) error
	DeletePortfolioItem(ctx context.Context, id uuid.UUID) error
}

// RatingCalculator считает агрегированный рейтинг пользователя.
type RatingCalculator interface {
	CalculateUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error)
}

// ProfileService содержит бизнес-логику профилей, портфолио
// и административного управления пользователями.
type ProfileService struct {
	users    UserStore
	profiles ProfileStore
	ratings  RatingCalculator
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(users UserStore, profiles ProfileStore, ratings RatingCalculator) *ProfileService {
	return &ProfileService{users: users, profiles: profiles, ratings: ratings}
}

// GetFreelancerView собирает публичную карточку фрилансера:
// профиль, портфолио, агрегированный рейтинг и признак сертификации.
func (s *ProfileService) GetFreelancerView(ctx context.Context, userID uuid.UUID) (*dto.FreelancerView, error) {
	ref, err := s.users.GetRef(ctx, userID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}
	if ref.Role != models.RoleFreelance {
		return nil, apperror.ErrUserNotFound
	}

	profile, err := s.profiles.GetFreelancerByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "профиль фрилансера не найден")
	}

	view := &dto.FreelancerView{
		FreelancerProfile: *profile,
		User:              *ref,
	}

	if portfolio, err := s.profiles.ListPortfolio(ctx, userID); err == nil {
		view.Portfolio = portfolio
	}

	s.fillRating(ctx, view)
	return view, nil
}

// GetCompanyView собирает публичную карточку компании.
func (s *ProfileService) GetCompanyView(ctx context.Context, userID uuid.UUID) (*dto.CompanyView, error) {
	ref, err := s.users.GetRef(ctx, userID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}
	if ref.Role != models.RoleCompany {
		return nil, apperror.ErrUserNotFound
	}

	profile, err := s.profiles.GetCompanyByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "профиль компании не найден")
	}

	return &dto.CompanyView{CompanyProfile: *profile, User: *ref}, nil
}

// GetUserRef возвращает минимальную публичную проекцию пользователя.
func (s *ProfileService) GetUserRef(ctx context.Context, userID uuid.UUID) (*models.UserRef, error) {
	ref, err := s.users.GetRef(ctx, userID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}
	return ref, nil
}

// UpdateFreelancerProfile обновляет (или создаёт) профиль фрилансера.
func (s *ProfileService) UpdateFreelancerProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateFreelancerProfileRequest) (*models.FreelancerProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetFreelancerByUserID(ctx, userID)
	if err != nil {
		profile = &models.FreelancerProfile{
			UserID:             userID,
			Skills:             models.SkillList{},
			AvailabilityStatus: models.AvailabilityAvailable,
			Languages:          []string{},
		}
	}

	if req.Title != nil {
		profile.Title = *req.Title
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Skills != nil {
		profile.Skills = req.Skills
	}
	if req.DailyRate != nil {
		profile.DailyRate = req.DailyRate
	}
	if req.AvailabilityStatus != nil {
		switch *req.AvailabilityStatus {
		case models.AvailabilityAvailable, models.AvailabilityBusy, models.AvailabilityUnavailable:
			profile.AvailabilityStatus = *req.AvailabilityStatus
		default:
			return nil, apperror.Validation("availability_status", "недопустимый статус доступности")
		}
	}
	if req.AvailabilityStartDate != nil {
		profile.AvailabilityStartDate = req.AvailabilityStartDate
	}
	if req.Location != nil {
		profile.Location = req.Location
	}
	if req.Languages != nil {
		profile.Languages = req.Languages
	}

	if err := s.profiles.UpsertFreelancer(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateCompanyProfile обновляет (или создаёт) профиль компании.
func (s *ProfileService) UpdateCompanyProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateCompanyProfileRequest) (*models.CompanyProfile, error) {
	profile, err := s.profiles.GetCompanyByUserID(ctx, userID)
	if err != nil {
		profile = &models.CompanyProfile{UserID: userID, Values: []string{}}
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Industry != nil {
		profile.Industry = req.Industry
	}
	if req.Size != nil {
		profile.Size = req.Size
	}
	if req.Values != nil {
		profile.Values = req.Values
	}

	if err := s.profiles.UpsertCompany(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SearchFreelancers возвращает страницу карточек фрилансеров
// с рейтингами, опционально фильтруя по доступности.
func (s *ProfileService) SearchFreelancers(ctx context.Context, availability string, page, limit int) ([]dto.FreelancerView, pagination.Pagination, error) {
	if availability != "" {
		switch availability {
		case models.AvailabilityAvailable, models.AvailabilityBusy, models.AvailabilityUnavailable:
		default:
			return nil, pagination.Pagination{}, apperror.Validation("availability", "недопустимый статус доступности")
		}
	}

	profiles, p, err := s.profiles.SearchFreelancers(ctx, availability, page, limit)
	if err != nil {
		return nil, pagination.Pagination{}, err
	}

	views := make([]dto.FreelancerView, 0, len(profiles))
	for i := range profiles {
		view := dto.FreelancerView{FreelancerProfile: profiles[i]}
		if ref, err := s.users.GetRef(ctx, profiles[i].UserID); err == nil {
			view.User = *ref
		}
		s.fillRating(ctx, &view)
		views = append(views, view)
	}
	return views, p, nil
}

// ListUsers возвращает страницу пользователей (администратор).
func (s *ProfileService) ListUsers(ctx context.Context, page, limit int) ([]models.User, pagination.Pagination, error) {
	return s.users.List(ctx, page, limit)
}

// UpdateUserStatus блокирует или разблокирует пользователя (администратор).
func (s *ProfileService) UpdateUserStatus(ctx context.Context, userID uuid.UUID, isActive bool) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrUserNotFound
	}
	if user.Role == models.RoleAdmin {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя изменить статус администратора")
	}

	if err := s.users.UpdateStatus(ctx, userID, isActive); err != nil {
		return nil, err
	}
	user.IsActive = isActive
	return user, nil
}

// AddPortfolioItem добавляет элемент портфолио фрилансера.
func (s *ProfileService) AddPortfolioItem(ctx context.Context, freelancerID uuid.UUID, req *dto.CreatePortfolioItemRequest) (*models.PortfolioItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item := &models.PortfolioItem{
		FreelancerID: freelancerID,
		Title:        req.Title,
		Description:  req.Description,
		ExternalLink: req.ExternalLink,
	}
	if err := s.profiles.CreatePortfolioItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListPortfolio возвращает портфолио фрилансера.
func (s *ProfileService) ListPortfolio(ctx context.Context, freelancerID uuid.UUID) ([]models.PortfolioItem, error) {
	return s.profiles.ListPortfolio(ctx, freelancerID)
}

// UpdatePortfolioItem изменяет элемент портфолио владельца.
func (s *ProfileService) UpdatePortfolioItem(ctx context.Context, id, freelancerID uuid.UUID, req *dto.CreatePortfolioItemRequest) (*models.PortfolioItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := s.profiles.GetPortfolioItem(ctx, id)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "элемент портфолио не найден")
	}
	if item.FreelancerID != freelancerID {
		return nil, apperror.ErrForbidden
	}

	item.Title = req.Title
	item.Description = req.Description
	item.ExternalLink = req.ExternalLink

	if err := s.profiles.UpdatePortfolioItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeletePortfolioItem удаляет элемент портфолио владельца.
func (s *ProfileService) DeletePortfolioItem(ctx context.Context, id, freelancerID uuid.UUID) error {
	item, err := s.profiles.GetPortfolioItem(ctx, id)
	if err != nil {
		return apperror.New(apperror.ErrCodeNotFound, "элемент портфолио не найден")
	}
	if item.FreelancerID != freelancerID {
		return apperror.ErrForbidden
	}
	return s.profiles.DeletePortfolioItem(ctx, id)
}

func (s *ProfileService) fillRating(ctx context.Context, view *dto.FreelancerView) {
	rating, err := s.ratings.CalculateUserRating(ctx, view.UserID)
	if err != nil {
		logger.Log.WithField("user_id", view.UserID).Warn("profile service: не удалось посчитать рейтинг")
		return
	}
	view.AverageRating = rating.AverageRating
	view.TotalReviews = rating.TotalReviews
	view.IsCertified = IsCertified(rating)
}
