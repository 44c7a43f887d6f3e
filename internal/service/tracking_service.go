package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
	"github.com/workmatch/workmatch-backend/internal/repository"
)

// TrackingRepository описывает зависимости TrackingService от хранилища.
type TrackingRepository interface {
	Create(ctx context.Context, e *models.TrackingEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TrackingEntry, error)
	ListByContract(ctx context.Context, contractID uuid.UUID, page, limit int) ([]models.TrackingEntry, pagination.Pagination, error)
	Update(ctx context.Context, e *models.TrackingEntry) error
	Approve(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContractGetter читает контракты, нужен сервисам поверх контрактов.
type ContractGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
}

// TrackingService содержит бизнес-логику учёта отработанных часов.
type TrackingService struct {
	repo      TrackingRepository
	contracts ContractGetter
	notifier  Notifier
}

// NewTrackingService создаёт сервис учёта времени.
func NewTrackingService(repo TrackingRepository, contracts ContractGetter, notifier Notifier) *TrackingService {
	return &TrackingService{repo: repo, contracts: contracts, notifier: notifier}
}

// Log записывает часы фрилансера по активному контракту.
func (s *TrackingService) Log(ctx context.Context, contractID, freelancerID uuid.UUID, req *dto.CreateTrackingRequest) (*models.TrackingEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	if c.FreelancerID != freelancerID {
		return nil, apperror.ErrForbidden
	}
	if c.Status != models.ContractStatusActive {
		return nil, apperror.New(apperror.ErrCodeConflict, "часы записываются только по активному контракту")
	}

	e := &models.TrackingEntry{
		ContractID:  contractID,
		Date:        req.Date,
		Hours:       req.Hours,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// List возвращает записи учёта стороне контракта.
func (s *TrackingService) List(ctx context.Context, contractID, viewerID uuid.UUID, viewerRole string, page, limit int) ([]models.TrackingEntry, pagination.Pagination, error) {
	c, err := s.contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, pagination.Pagination{}, apperror.ErrContractNotFound
	}
	if !isContractParty(c, viewerID) && viewerRole != models.RoleAdmin {
		return nil, pagination.Pagination{}, apperror.ErrForbidden
	}
	return s.repo.ListByContract(ctx, contractID, page, limit)
}

// Update изменяет неподтверждённую запись фрилансера.
// Подтверждённые записи неизменяемы.
func (s *TrackingService) Update(ctx context.Context, id, freelancerID uuid.UUID, req *dto.CreateTrackingRequest) (*models.TrackingEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "запись учёта не найдена")
	}

	c, err := s.contracts.GetByID(ctx, e.ContractID)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	if c.FreelancerID != freelancerID {
		return nil, apperror.ErrForbidden
	}

	e.Date = req.Date
	e.Hours = req.Hours
	e.Description = req.Description

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, s.mapTrackingErr(err)
	}
	return e, nil
}

// Approve подтверждает запись (компания). После подтверждения
// запись становится неизменяемой.
func (s *TrackingService) Approve(ctx context.Context, id, companyID uuid.UUID) (*models.TrackingEntry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeNotFound, "запись учёта не найдена")
	}

	c, err := s.contracts.GetByID(ctx, e.ContractID)
	if err != nil {
		return nil, apperror.ErrContractNotFound
	}
	if c.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}
	if e.Approved {
		return nil, apperror.New(apperror.ErrCodeConflict, "запись уже подтверждена")
	}

	if err := s.repo.Approve(ctx, id); err != nil {
		return nil, s.mapTrackingErr(err)
	}
	e.Approved = true

	s.notifier.Notify(ctx, c.FreelancerID, EventTrackingApproved, map[string]interface{}{
		"tracking_id": e.ID,
		"contract_id": e.ContractID,
	})

	return e, nil
}

// Delete удаляет неподтверждённую запись фрилансера.
func (s *TrackingService) Delete(ctx context.Context, id, freelancerID uuid.UUID) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return apperror.New(apperror.ErrCodeNotFound, "запись учёта не найдена")
	}

	c, err := s.contracts.GetByID(ctx, e.ContractID)
	if err != nil {
		return apperror.ErrContractNotFound
	}
	if c.FreelancerID != freelancerID {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapTrackingErr(err)
	}
	return nil
}

func (s *TrackingService) mapTrackingErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrTrackingApproved):
		return apperror.New(apperror.ErrCodeConflict, "подтверждённая запись учёта неизменяема")
	case errors.Is(err, repository.ErrTrackingNotFound):
		return apperror.New(apperror.ErrCodeNotFound, "запись учёта не найдена")
	default:
		return err
	}
}
