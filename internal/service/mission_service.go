package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
	"github.com/workmatch/workmatch-backend/internal/repository"
)

// MissionRepository описывает зависимости MissionService от хранилища.
type MissionRepository interface {
	Create(ctx context.Context, m *models.Mission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error)
	List(ctx context.Context, f repository.MissionFilters, page, limit int) ([]models.Mission, pagination.Pagination, error)
	Update(ctx context.Context, m *models.Mission) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MissionService содержит бизнес-логику работы с миссиями.
type MissionService struct {
	repo MissionRepository
}

// NewMissionService создаёт сервис миссий.
func NewMissionService(repo MissionRepository) *MissionService {
	return &MissionService{repo: repo}
}

// Create создаёт миссию компании в статусе DRAFT.
func (s *MissionService) Create(ctx context.Context, companyID uuid.UUID, req *dto.CreateMissionRequest) (*models.Mission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m := &models.Mission{
		CompanyID:      companyID,
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		OptionalSkills: req.OptionalSkills,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		Modality:       req.Modality,
		Urgency:        req.Urgency,
		Experience:     req.Experience,
		Status:         models.MissionStatusDraft,
	}
	if m.RequiredSkills == nil {
		m.RequiredSkills = []string{}
	}
	if m.OptionalSkills == nil {
		m.OptionalSkills = []string{}
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Get возвращает миссию по идентификатору.
// Черновик виден только владельцу и администратору.
func (s *MissionService) Get(ctx context.Context, id uuid.UUID, viewerID uuid.UUID, viewerRole string) (*models.Mission, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrMissionNotFound
	}

	if m.Status == models.MissionStatusDraft && m.CompanyID != viewerID && viewerRole != models.RoleAdmin {
		return nil, apperror.ErrMissionNotFound
	}
	return m, nil
}

// List возвращает страницу миссий. Неавторизованный просмотр
// ограничен опубликованными миссиями.
func (s *MissionService) List(ctx context.Context, f repository.MissionFilters, page, limit int) ([]models.Mission, pagination.Pagination, error) {
	if f.Status == "" && f.CompanyID == nil {
		f.Status = models.MissionStatusPublished
	}
	if f.Status != "" {
		if _, ok := models.ValidMissionStatuses[f.Status]; !ok {
			return nil, pagination.Pagination{}, apperror.Validation("status", "недопустимый статус миссии")
		}
	}
	return s.repo.List(ctx, f, page, limit)
}

// ListByCompany возвращает миссии конкретной компании, включая черновики.
func (s *MissionService) ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]models.Mission, pagination.Pagination, error) {
	return s.repo.List(ctx, repository.MissionFilters{CompanyID: &companyID}, page, limit)
}

// Update частично обновляет миссию. Разрешено только владельцу
// и только до завершения или отмены.
func (s *MissionService) Update(ctx context.Context, id, companyID uuid.UUID, req *dto.UpdateMissionRequest) (*models.Mission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrMissionNotFound
	}
	if m.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}
	if m.Status == models.MissionStatusCompleted || m.Status == models.MissionStatusCancelled {
		return nil, apperror.New(apperror.ErrCodeConflict, "завершённую миссию нельзя изменить")
	}

	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.RequiredSkills != nil {
		m.RequiredSkills = req.RequiredSkills
	}
	if req.OptionalSkills != nil {
		m.OptionalSkills = req.OptionalSkills
	}
	if req.BudgetMin != nil {
		m.BudgetMin = req.BudgetMin
	}
	if req.BudgetMax != nil {
		m.BudgetMax = req.BudgetMax
	}
	if req.Modality != nil {
		m.Modality = req.Modality
	}
	if req.Urgency != nil {
		m.Urgency = req.Urgency
	}
	if req.Experience != nil {
		m.Experience = req.Experience
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Publish переводит миссию DRAFT -> PUBLISHED.
func (s *MissionService) Publish(ctx context.Context, id, companyID uuid.UUID) (*models.Mission, error) {
	return s.transition(ctx, id, companyID, models.MissionStatusDraft, models.MissionStatusPublished)
}

// Complete переводит миссию PUBLISHED -> COMPLETED.
func (s *MissionService) Complete(ctx context.Context, id, companyID uuid.UUID) (*models.Mission, error) {
	return s.transition(ctx, id, companyID, models.MissionStatusPublished, models.MissionStatusCompleted)
}

// Cancel переводит миссию PUBLISHED -> CANCELLED.
func (s *MissionService) Cancel(ctx context.Context, id, companyID uuid.UUID) (*models.Mission, error) {
	return s.transition(ctx, id, companyID, models.MissionStatusPublished, models.MissionStatusCancelled)
}

// Delete удаляет миссию. Удалять можно только черновик.
func (s *MissionService) Delete(ctx context.Context, id, companyID uuid.UUID) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperror.ErrMissionNotFound
	}
	if m.CompanyID != companyID {
		return apperror.ErrForbidden
	}
	if m.Status != models.MissionStatusDraft {
		return apperror.New(apperror.ErrCodeConflict, "удалить можно только черновик миссии")
	}
	return s.repo.Delete(ctx, id)
}

func (s *MissionService) transition(ctx context.Context, id, companyID uuid.UUID, from, to string) (*models.Mission, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrMissionNotFound
	}
	if m.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}
	if m.Status != from {
		return nil, apperror.New(apperror.ErrCodeConflict, "недопустимый переход статуса миссии")
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		return nil, err
	}
	m.Status = to
	return m, nil
}
