package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

// ApplicationRepository описывает зависимости ApplicationService от хранилища.
type ApplicationRepository interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	GetByMissionAndFreelancer(ctx context.Context, missionID, freelancerID uuid.UUID) (*models.Application, error)
	ListByMission(ctx context.Context, missionID uuid.UUID, page, limit int) ([]models.Application, pagination.Pagination, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, page, limit int) ([]models.Application, pagination.Pagination, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// MissionGetter читает миссии, нужен сервисам, работающим поверх миссий.
type MissionGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error)
}

// ApplicationService содержит бизнес-логику откликов на миссии.
type ApplicationService struct {
	repo     ApplicationRepository
	missions MissionGetter
	notifier Notifier
}

// NewApplicationService создаёт сервис откликов.
func NewApplicationService(repo ApplicationRepository, missions MissionGetter, notifier Notifier) *ApplicationService {
	return &ApplicationService{repo: repo, missions: missions, notifier: notifier}
}

// Apply создаёт отклик фрилансера на опубликованную миссию.
// Повторный отклик на ту же миссию запрещён.
func (s *ApplicationService) Apply(ctx context.Context, missionID, freelancerID uuid.UUID, req *dto.CreateApplicationRequest) (*models.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	mission, err := s.missions.GetByID(ctx, missionID)
	if err != nil {
		return nil, apperror.ErrMissionNotFound
	}
	if mission.Status != models.MissionStatusPublished {
		return nil, apperror.New(apperror.ErrCodeConflict, "отклик возможен только на опубликованную миссию")
	}

	existing, err := s.repo.GetByMissionAndFreelancer(ctx, missionID, freelancerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "отклик на эту миссию уже существует")
	}

	a := &models.Application{
		MissionID:    missionID,
		FreelancerID: freelancerID,
		CoverLetter:  req.CoverLetter,
		Status:       models.ApplicationStatusPending,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, mission.CompanyID, EventApplicationCreated, map[string]interface{}{
		"application_id": a.ID,
		"mission_id":     missionID,
	})

	return a, nil
}

// Get возвращает отклик. Видят его фрилансер-автор, компания-владелец
// миссии и администратор.
func (s *ApplicationService) Get(ctx context.Context, id, viewerID uuid.UUID, viewerRole string) (*models.Application, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrApplicationNotFound
	}
	if err := s.checkAccess(ctx, a, viewerID, viewerRole); err != nil {
		return nil, err
	}
	return a, nil
}

// ListByMission возвращает отклики на миссию компании-владельцу.
func (s *ApplicationService) ListByMission(ctx context.Context, missionID, companyID uuid.UUID, page, limit int) ([]models.Application, pagination.Pagination, error) {
	mission, err := s.missions.GetByID(ctx, missionID)
	if err != nil {
		return nil, pagination.Pagination{}, apperror.ErrMissionNotFound
	}
	if mission.CompanyID != companyID {
		return nil, pagination.Pagination{}, apperror.ErrForbidden
	}
	return s.repo.ListByMission(ctx, missionID, page, limit)
}

// ListMine возвращает отклики текущего фрилансера.
func (s *ApplicationService) ListMine(ctx context.Context, freelancerID uuid.UUID, page, limit int) ([]models.Application, pagination.Pagination, error) {
	return s.repo.ListByFreelancer(ctx, freelancerID, page, limit)
}

// UpdateStatus переводит отклик в новый статус. Машина состояний
// движется только вперёд, откаты отклоняются.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id, companyID uuid.UUID, status string) (*models.Application, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrApplicationNotFound
	}

	mission, err := s.missions.GetByID(ctx, a.MissionID)
	if err != nil {
		return nil, apperror.ErrMissionNotFound
	}
	if mission.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}

	if !models.CanTransition(models.ApplicationTransitions, a.Status, status) {
		return nil, apperror.New(apperror.ErrCodeConflict, "недопустимый переход статуса отклика")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status

	s.notifier.Notify(ctx, a.FreelancerID, EventApplicationStatus, map[string]interface{}{
		"application_id": a.ID,
		"mission_id":     a.MissionID,
		"status":         status,
	})

	return a, nil
}

func (s *ApplicationService) checkAccess(ctx context.Context, a *models.Application, viewerID uuid.UUID, viewerRole string) error {
	if viewerRole == models.RoleAdmin || a.FreelancerID == viewerID {
		return nil
	}
	mission, err := s.missions.GetByID(ctx, a.MissionID)
	if err != nil {
		return apperror.ErrMissionNotFound
	}
	if mission.CompanyID != viewerID {
		return apperror.ErrForbidden
	}
	return nil
}
