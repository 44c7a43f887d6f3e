package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

// ContractRepository описывает зависимости ContractService от хранилища.
type ContractRepository interface {
	Create(ctx context.Context, c *models.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	GetResponse(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]dto.ContractResponse, pagination.Pagination, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	SetSignature(ctx context.Context, id uuid.UUID, freelancer bool) error
	CreateMilestone(ctx context.Context, m *models.Milestone) error
	GetMilestoneByID(ctx context.Context, id uuid.UUID) (*models.Milestone, error)
	ListMilestones(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error)
	UpdateMilestoneStatus(ctx context.Context, id uuid.UUID, status string) error
}

// AcceptedApplicationChecker проверяет, принят ли отклик фрилансера на миссию.
type AcceptedApplicationChecker interface {
	GetByMissionAndFreelancer(ctx context.Context, missionID, freelancerID uuid.UUID) (*models.Application, error)
}

// ContractService содержит бизнес-логику контрактов и платёжных вех.
type ContractService struct {
	repo         ContractRepository
	missions     MissionGetter
	applications AcceptedApplicationChecker
	notifier     Notifier
}

// NewContractService создаёт сервис контрактов.
func NewContractService(repo ContractRepository, missions MissionGetter, applications AcceptedApplicationChecker, notifier Notifier) *ContractService {
	return &ContractService{repo: repo, missions: missions, applications: applications, notifier: notifier}
}

// Create создаёт контракт по принятому отклику. Контракт появляется
// в статусе PENDING_SIGNATURES и ждёт подписи обеих сторон.
func (s *ContractService) Create(ctx context.Context, companyID uuid.UUID, req *dto.CreateContractRequest) (*dto.ContractResponse, error) {
	mission, err := s.missions.GetByID(ctx, req.MissionID)
	if err != nil {
		return nil, apperror.ErrMissionNotFound
	}
	if mission.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}

	application, err := s.applications.GetByMissionAndFreelancer(ctx, req.MissionID, req.FreelancerID)
	if err != nil {
		return nil, err
	}
	if application == nil || application.Status != models.ApplicationStatusAccepted {
		return nil, apperror.New(apperror.ErrCodeConflict, "контракт создаётся только по принятому отклику")
	}

	c := &models.Contract{
		MissionID:    req.MissionID,
		FreelancerID: req.FreelancerID,
		CompanyID:    companyID,
		Status:       models.ContractStatusPendingSignatures,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, req.FreelancerID, EventContractCreated, map[string]interface{}{
		"contract_id": c.ID,
		"mission_id":  req.MissionID,
	})

	return s.response(ctx, c.ID)
}

// Get возвращает контракт с вехами стороне контракта или администратору.
func (s *ContractService) Get(ctx context.Context, id, viewerID uuid.UUID, viewerRole string) (*dto.ContractResponse, error) {
	resp, err := s.repo.GetResponse(ctx, id)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	if !isContractParty(&resp.Contract, viewerID) && viewerRole != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}

	milestones, err := s.repo.ListMilestones(ctx, id)
	if err != nil {
		return nil, err
	}
	resp.Milestones = milestones
	return resp, nil
}

// ListMine возвращает контракты, где пользователь является стороной.
func (s *ContractService) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]dto.ContractResponse, pagination.Pagination, error) {
	return s.repo.ListByUser(ctx, userID, page, limit)
}

// Sign ставит подпись стороны. Контракт переходит в ACTIVE только
// когда подписали обе стороны.
func (s *ContractService) Sign(ctx context.Context, id, userID uuid.UUID) (*dto.ContractResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	if !isContractParty(c, userID) {
		return nil, apperror.ErrForbidden
	}
	if c.Status != models.ContractStatusPendingSignatures {
		return nil, apperror.New(apperror.ErrCodeConflict, "контракт не ожидает подписей")
	}

	asFreelancer := c.FreelancerID == userID
	if (asFreelancer && c.FreelancerSigned) || (!asFreelancer && c.CompanySigned) {
		return nil, apperror.New(apperror.ErrCodeConflict, "сторона уже подписала контракт")
	}

	if err := s.repo.SetSignature(ctx, id, asFreelancer); err != nil {
		return nil, err
	}

	if asFreelancer {
		c.FreelancerSigned = true
	} else {
		c.CompanySigned = true
	}

	other := c.FreelancerID
	if asFreelancer {
		other = c.CompanyID
	}
	s.notifier.Notify(ctx, other, EventContractSigned, map[string]interface{}{
		"contract_id": c.ID,
		"signed_by":   userID,
	})

	if c.FreelancerSigned && c.CompanySigned {
		if err := s.repo.UpdateStatus(ctx, id, models.ContractStatusActive); err != nil {
			return nil, err
		}
		c.Status = models.ContractStatusActive
		s.notifier.Notify(ctx, c.FreelancerID, EventContractActive, map[string]interface{}{"contract_id": c.ID})
		s.notifier.Notify(ctx, c.CompanyID, EventContractActive, map[string]interface{}{"contract_id": c.ID})
	}

	return s.response(ctx, id)
}

// Complete переводит активный контракт в COMPLETED (компания).
func (s *ContractService) Complete(ctx context.Context, id, companyID uuid.UUID) (*dto.ContractResponse, error) {
	return s.finish(ctx, id, companyID, models.ContractStatusCompleted)
}

// Terminate переводит активный контракт в TERMINATED (компания).
func (s *ContractService) Terminate(ctx context.Context, id, companyID uuid.UUID) (*dto.ContractResponse, error) {
	return s.finish(ctx, id, companyID, models.ContractStatusTerminated)
}

func (s *ContractService) finish(ctx context.Context, id, companyID uuid.UUID, status string) (*dto.ContractResponse, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	if c.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}
	if c.Status != models.ContractStatusActive {
		return nil, apperror.New(apperror.ErrCodeConflict, "завершить можно только активный контракт")
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.response(ctx, id)
}

// response перечитывает контракт с проекциями после записи.
func (s *ContractService) response(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error) {
	resp, err := s.repo.GetResponse(ctx, id)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	return resp, nil
}

// CreateMilestone добавляет платёжную веху активного контракта.
func (s *ContractService) CreateMilestone(ctx context.Context, contractID, companyID uuid.UUID, req *dto.CreateMilestoneRequest) (*models.Milestone, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	if c.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}
	if c.Status != models.ContractStatusActive {
		return nil, apperror.New(apperror.ErrCodeConflict, "вехи добавляются только к активному контракту")
	}

	m := &models.Milestone{
		ContractID: contractID,
		Title:      req.Title,
		Amount:     req.Amount,
		Status:     models.MilestoneStatusPending,
		DueDate:    req.DueDate,
	}
	if err := s.repo.CreateMilestone(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMilestones возвращает вехи контракта стороне контракта.
func (s *ContractService) ListMilestones(ctx context.Context, contractID, viewerID uuid.UUID, viewerRole string) ([]models.Milestone, error) {
	c, err := s.repo.GetByID(ctx, contractID)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	if !isContractParty(c, viewerID) && viewerRole != models.RoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return s.repo.ListMilestones(ctx, contractID)
}

// UpdateMilestoneStatus двигает веху по машине состояний
// PENDING -> SUBMITTED -> APPROVED -> PAID. SUBMITTED ставит фрилансер,
// APPROVED и PAID — компания. Откаты отклоняются.
func (s *ContractService) UpdateMilestoneStatus(ctx context.Context, milestoneID, userID uuid.UUID, status string) (*models.Milestone, error) {
	m, err := s.repo.GetMilestoneByID(ctx, milestoneID)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "веха не найдена")
	}

	c, err := s.repo.GetByID(ctx, m.ContractID)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	if !isContractParty(c, userID) {
		return nil, apperror.ErrForbidden
	}

	switch status {
	case models.MilestoneStatusSubmitted:
		if c.FreelancerID != userID {
			return nil, apperror.ErrForbidden
		}
	case models.MilestoneStatusApproved, models.MilestoneStatusPaid:
		if c.CompanyID != userID {
			return nil, apperror.ErrForbidden
		}
	default:
		return nil, apperror.Validation("status", "недопустимый статус вехи")
	}

	if !models.CanTransition(models.MilestoneTransitions, m.Status, status) {
		return nil, apperror.New(apperror.ErrCodeConflict, "недопустимый переход статуса вехи")
	}

	if err := s.repo.UpdateMilestoneStatus(ctx, milestoneID, status); err != nil {
		return nil, err
	}
	m.Status = status

	other := c.FreelancerID
	if userID == c.FreelancerID {
		other = c.CompanyID
	}
	s.notifier.Notify(ctx, other, EventMilestoneStatus, map[string]interface{}{
		"milestone_id": m.ID,
		"contract_id":  m.ContractID,
		"status":       status,
	})

	return m, nil
}

func isContractParty(c *models.Contract, userID uuid.UUID) bool {
	return c.FreelancerID == userID || c.CompanyID == userID
}
