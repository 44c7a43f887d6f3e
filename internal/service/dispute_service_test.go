package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
)

type mockDisputeRepo struct {
	mock.Mock
}

func (m *mockDisputeRepo) Create(ctx context.Context, d *models.Dispute) (*dto.DisputeResponse, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DisputeResponse), args.Error(1)
}

func (m *mockDisputeRepo) GetByID(ctx context.Context, id uuid.UUID) (*dto.DisputeResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DisputeResponse), args.Error(1)
}

func (m *mockDisputeRepo) GetByContractID(ctx context.Context, contractID uuid.UUID) (*dto.DisputeResponse, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.DisputeResponse), args.Error(1)
}

func (m *mockDisputeRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*dto.DisputeResponse, pagination.Pagination, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]*dto.DisputeResponse), args.Get(1).(pagination.Pagination), args.Error(2)
}

func (m *mockDisputeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, resolution *string, resolvedBy *uuid.UUID) error {
	args := m.Called(ctx, id, status, resolution, resolvedBy)
	return args.Error(0)
}

func disputeResponse(contractID uuid.UUID, status string) *dto.DisputeResponse {
	return &dto.DisputeResponse{
		Dispute: models.Dispute{
			ID:         uuid.New(),
			ContractID: contractID,
			RaisedByID: uuid.New(),
			Reason:     "Просрочка вехи",
			Status:     status,
		},
	}
}

func TestDisputeService_Resolve_DefaultsToResolved(t *testing.T) {
	repo := new(mockDisputeRepo)
	contracts := new(mockContractGetter)
	notifier := &recordingNotifier{}
	svc := NewDisputeService(repo, contracts, notifier)
	ctx := context.Background()

	adminID := uuid.New()
	contractID := uuid.New()
	open := disputeResponse(contractID, models.DisputeStatusOpen)
	resolved := disputeResponse(contractID, models.DisputeStatusResolved)
	resolved.ID = open.ID

	repo.On("GetByID", ctx, open.ID).Return(open, nil).Once()
	// Статус не передан: сервис должен выбрать RESOLVED.
	repo.On("UpdateStatus", ctx, open.ID, models.DisputeStatusResolved, mock.Anything, &adminID).Return(nil)
	repo.On("GetByID", ctx, open.ID).Return(resolved, nil)
	contracts.On("GetByID", ctx, contractID).Return(&models.Contract{
		ID:           contractID,
		FreelancerID: uuid.New(),
		CompanyID:    uuid.New(),
	}, nil)

	got, err := svc.Resolve(ctx, open.ID, adminID, &dto.ResolveDisputeRequest{
		Resolution: "Возврат оплаты по вехе после проверки переписки",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.DisputeStatusResolved, got.Status)
	assert.Contains(t, notifier.sent(), EventDisputeResolved)
	repo.AssertExpectations(t)
}

func TestDisputeService_Resolve_ShortResolutionRejected(t *testing.T) {
	repo := new(mockDisputeRepo)
	svc := NewDisputeService(repo, new(mockContractGetter), &recordingNotifier{})
	ctx := context.Background()

	_, err := svc.Resolve(ctx, uuid.New(), uuid.New(), &dto.ResolveDisputeRequest{
		Resolution: "коротко",
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDisputeService_Resolve_AlreadyClosedRejected(t *testing.T) {
	repo := new(mockDisputeRepo)
	svc := NewDisputeService(repo, new(mockContractGetter), &recordingNotifier{})
	ctx := context.Background()

	closed := disputeResponse(uuid.New(), models.DisputeStatusClosed)
	repo.On("GetByID", ctx, closed.ID).Return(closed, nil)

	_, err := svc.Resolve(ctx, closed.ID, uuid.New(), &dto.ResolveDisputeRequest{
		Resolution: "резолюция достаточной длины",
	})

	assert.Error(t, err)
}

func TestDisputeService_Open_DuplicateRejected(t *testing.T) {
	repo := new(mockDisputeRepo)
	contracts := new(mockContractGetter)
	svc := NewDisputeService(repo, contracts, &recordingNotifier{})
	ctx := context.Background()

	freelancerID := uuid.New()
	contractID := uuid.New()
	contracts.On("GetByID", ctx, contractID).Return(&models.Contract{
		ID:           contractID,
		FreelancerID: freelancerID,
		CompanyID:    uuid.New(),
		Status:       models.ContractStatusActive,
	}, nil)
	repo.On("GetByContractID", ctx, contractID).Return(disputeResponse(contractID, models.DisputeStatusOpen), nil)

	_, err := svc.Open(ctx, freelancerID, &dto.CreateDisputeRequest{
		ContractID:  contractID,
		Reason:      "Просрочка вехи",
		Description: "Веха не сдана в срок, обсуждение зашло в тупик",
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestDisputeService_Update_BackwardRejected(t *testing.T) {
	repo := new(mockDisputeRepo)
	svc := NewDisputeService(repo, new(mockContractGetter), &recordingNotifier{})
	ctx := context.Background()

	inReview := disputeResponse(uuid.New(), models.DisputeStatusInReview)
	repo.On("GetByID", ctx, inReview.ID).Return(inReview, nil)

	backward := models.DisputeStatusOpen
	_, err := svc.Update(ctx, inReview.ID, uuid.New(), &dto.UpdateDisputeRequest{Status: &backward})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
