package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

// DisputeRepository описывает зависимости DisputeService от хранилища.
type DisputeRepository interface {
	Create(ctx context.Context, d *models.Dispute) (*dto.DisputeResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.DisputeResponse, error)
	GetByContractID(ctx context.Context, contractID uuid.UUID) (*dto.DisputeResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*dto.DisputeResponse, pagination.Pagination, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, resolution *string, resolvedBy *uuid.UUID) error
}

// DisputeService содержит бизнес-логику споров по контрактам.
type DisputeService struct {
	repo      DisputeRepository
	contracts ContractGetter
	notifier  Notifier
}

// NewDisputeService создаёт сервис споров.
func NewDisputeService(repo DisputeRepository, contracts ContractGetter, notifier Notifier) *DisputeService {
	return &DisputeService{repo: repo, contracts: contracts, notifier: notifier}
}

// Open открывает спор по контракту. Открыть спор может только сторона
// контракта; два незакрытых спора по одному контракту не допускаются.
func (s *DisputeService) Open(ctx context.Context, raisedByID uuid.UUID, req *dto.CreateDisputeRequest) (*dto.DisputeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.contracts.GetByID(ctx, req.ContractID)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	if !isContractParty(c, raisedByID) {
		return nil, apperror.ErrForbidden
	}

	existing, err := s.repo.GetByContractID(ctx, req.ContractID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "по контракту уже открыт спор")
	}

	d := &models.Dispute{
		ContractID:  req.ContractID,
		RaisedByID:  raisedByID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      models.DisputeStatusOpen,
	}

	resp, err := s.repo.Create(ctx, d)
	if err != nil {
		return nil, err
	}

	other := c.FreelancerID
	if raisedByID == c.FreelancerID {
		other = c.CompanyID
	}
	s.notifier.Notify(ctx, other, EventDisputeOpened, map[string]interface{}{
		"dispute_id":  resp.ID,
		"contract_id": req.ContractID,
	})

	return resp, nil
}

// Get возвращает спор стороне контракта или администратору.
func (s *DisputeService) Get(ctx context.Context, id, viewerID uuid.UUID, viewerRole string) (*dto.DisputeResponse, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "спор не найден")
	}

	if viewerRole != models.RoleAdmin {
		c, err := s.contracts.GetByID(ctx, d.ContractID)
		if err != nil {
			return nil, apperror.ErrContractNotFound
		}
		if !isContractParty(c, viewerID) {
			return nil, apperror.ErrForbidden
		}
	}
	return d, nil
}

// ListMine возвращает споры по контрактам пользователя.
func (s *DisputeService) ListMine(ctx context.Context, userID uuid.UUID, page, limit int) ([]*dto.DisputeResponse, pagination.Pagination, error) {
	return s.repo.ListByUser(ctx, userID, page, limit)
}

// Update двигает спор по машине состояний (администратор).
// Типовой переход OPEN -> IN_REVIEW при взятии спора в работу.
func (s *DisputeService) Update(ctx context.Context, id, adminID uuid.UUID, req *dto.UpdateDisputeRequest) (*dto.DisputeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Status == nil {
		return nil, apperror.Validation("status", "статус обязателен")
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "спор не найден")
	}

	if !models.CanTransition(models.DisputeTransitions, d.Status, *req.Status) {
		return nil, apperror.New(apperror.ErrCodeConflict, "недопустимый переход статуса спора")
	}

	var resolvedBy *uuid.UUID
	if *req.Status == models.DisputeStatusResolved || *req.Status == models.DisputeStatusClosed {
		resolvedBy = &adminID
	}

	if err := s.repo.UpdateStatus(ctx, id, *req.Status, req.Resolution, resolvedBy); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Resolve закрывает спор с резолюцией (администратор). Резолюция
// обязательна и не короче 10 символов; статус по умолчанию RESOLVED.
func (s *DisputeService) Resolve(ctx context.Context, id, adminID uuid.UUID, req *dto.ResolveDisputeRequest) (*dto.DisputeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "спор не найден")
	}

	target := req.TargetStatus()
	if !models.CanTransition(models.DisputeTransitions, d.Status, target) {
		return nil, apperror.New(apperror.ErrCodeConflict, "спор уже разрешён или закрыт")
	}

	resolution := req.Resolution
	if err := s.repo.UpdateStatus(ctx, id, target, &resolution, &adminID); err != nil {
		return nil, err
	}

	resolved, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c, err := s.contracts.GetByID(ctx, d.ContractID); err == nil {
		data := map[string]interface{}{
			"dispute_id": id,
			"status":     target,
		}
		s.notifier.Notify(ctx, c.FreelancerID, EventDisputeResolved, data)
		s.notifier.Notify(ctx, c.CompanyID, EventDisputeResolved, data)
	}

	return resolved, nil
}
