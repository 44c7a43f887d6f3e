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
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

type mockContractRepo struct {
	mock.Mock
}

func (m *mockContractRepo) Create(ctx context.Context, c *models.Contract) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockContractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contract), args.Error(1)
}

// GetResponse собирает проекцию из контракта на момент вызова,
// чтобы отражать мутации, сделанные сервисом.
func (m *mockContractRepo) GetResponse(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	c := args.Get(0).(*models.Contract)
	return &dto.ContractResponse{
		Contract:   *c,
		Mission:    models.MissionRef{ID: c.MissionID, Title: "Тестовая миссия"},
		Freelancer: models.UserRef{ID: c.FreelancerID, Role: models.RoleFreelance},
		Company:    models.UserRef{ID: c.CompanyID, Role: models.RoleCompany},
	}, args.Error(1)
}

func (m *mockContractRepo) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]dto.ContractResponse, pagination.Pagination, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]dto.ContractResponse), args.Get(1).(pagination.Pagination), args.Error(2)
}

func (m *mockContractRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockContractRepo) SetSignature(ctx context.Context, id uuid.UUID, freelancer bool) error {
	args := m.Called(ctx, id, freelancer)
	return args.Error(0)
}

func (m *mockContractRepo) CreateMilestone(ctx context.Context, ms *models.Milestone) error {
	args := m.Called(ctx, ms)
	if args.Error(0) == nil {
		ms.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockContractRepo) GetMilestoneByID(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Milestone), args.Error(1)
}

func (m *mockContractRepo) ListMilestones(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).([]models.Milestone), args.Error(1)
}

func (m *mockContractRepo) UpdateMilestoneStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockAcceptedChecker struct {
	mock.Mock
}

func (m *mockAcceptedChecker) GetByMissionAndFreelancer(ctx context.Context, missionID, freelancerID uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, missionID, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func pendingContract(freelancerID, companyID uuid.UUID) *models.Contract {
	return &models.Contract{
		ID:           uuid.New(),
		MissionID:    uuid.New(),
		FreelancerID: freelancerID,
		CompanyID:    companyID,
		Status:       models.ContractStatusPendingSignatures,
	}
}

func TestContractService_Sign_FirstSignatureKeepsPending(t *testing.T) {
	repo := new(mockContractRepo)
	notifier := &recordingNotifier{}
	svc := NewContractService(repo, new(mockMissionGetter), new(mockAcceptedChecker), notifier)
	ctx := context.Background()

	freelancerID := uuid.New()
	companyID := uuid.New()
	c := pendingContract(freelancerID, companyID)

	repo.On("GetByID", ctx, c.ID).Return(c, nil)
	repo.On("SetSignature", ctx, c.ID, true).Return(nil)
	repo.On("GetResponse", ctx, c.ID).Return(c, nil)

	signed, err := svc.Sign(ctx, c.ID, freelancerID)

	assert.NoError(t, err)
	assert.True(t, signed.FreelancerSigned)
	// Одной подписи недостаточно для активации.
	assert.Equal(t, models.ContractStatusPendingSignatures, signed.Status)
	repo.AssertNotCalled(t, "UpdateStatus", ctx, c.ID, models.ContractStatusActive)
}

func TestContractService_Sign_BothSignaturesActivate(t *testing.T) {
	repo := new(mockContractRepo)
	notifier := &recordingNotifier{}
	svc := NewContractService(repo, new(mockMissionGetter), new(mockAcceptedChecker), notifier)
	ctx := context.Background()

	freelancerID := uuid.New()
	companyID := uuid.New()
	c := pendingContract(freelancerID, companyID)
	c.FreelancerSigned = true

	repo.On("GetByID", ctx, c.ID).Return(c, nil)
	repo.On("SetSignature", ctx, c.ID, false).Return(nil)
	repo.On("UpdateStatus", ctx, c.ID, models.ContractStatusActive).Return(nil)
	repo.On("GetResponse", ctx, c.ID).Return(c, nil)

	signed, err := svc.Sign(ctx, c.ID, companyID)

	assert.NoError(t, err)
	assert.Equal(t, models.ContractStatusActive, signed.Status)
	assert.Contains(t, notifier.sent(), EventContractActive)
	repo.AssertExpectations(t)
}

func TestContractService_Sign_DoubleSignRejected(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo, new(mockMissionGetter), new(mockAcceptedChecker), &recordingNotifier{})
	ctx := context.Background()

	freelancerID := uuid.New()
	c := pendingContract(freelancerID, uuid.New())
	c.FreelancerSigned = true

	repo.On("GetByID", ctx, c.ID).Return(c, nil)

	_, err := svc.Sign(ctx, c.ID, freelancerID)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "SetSignature", ctx, c.ID, true)
}

func TestContractService_Sign_OutsiderForbidden(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo, new(mockMissionGetter), new(mockAcceptedChecker), &recordingNotifier{})
	ctx := context.Background()

	c := pendingContract(uuid.New(), uuid.New())
	repo.On("GetByID", ctx, c.ID).Return(c, nil)

	_, err := svc.Sign(ctx, c.ID, uuid.New())

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

// Контракт отдаётся с проекциями миссии и сторон, а не голой строкой.
func TestContractService_Get_ReturnsProjections(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo, new(mockMissionGetter), new(mockAcceptedChecker), &recordingNotifier{})
	ctx := context.Background()

	freelancerID := uuid.New()
	companyID := uuid.New()
	c := pendingContract(freelancerID, companyID)

	repo.On("GetResponse", ctx, c.ID).Return(c, nil)
	repo.On("ListMilestones", ctx, c.ID).Return([]models.Milestone{
		{ContractID: c.ID, Title: "Первый этап", Status: models.MilestoneStatusPending},
	}, nil)

	resp, err := svc.Get(ctx, c.ID, freelancerID, models.RoleFreelance)

	assert.NoError(t, err)
	assert.Equal(t, c.MissionID, resp.Mission.ID)
	assert.NotEmpty(t, resp.Mission.Title)
	assert.Equal(t, freelancerID, resp.Freelancer.ID)
	assert.Equal(t, companyID, resp.Company.ID)
	assert.Len(t, resp.Milestones, 1)
}

func TestContractService_Get_OutsiderForbidden(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo, new(mockMissionGetter), new(mockAcceptedChecker), &recordingNotifier{})
	ctx := context.Background()

	c := pendingContract(uuid.New(), uuid.New())
	repo.On("GetResponse", ctx, c.ID).Return(c, nil)

	_, err := svc.Get(ctx, c.ID, uuid.New(), models.RoleCompany)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	repo.AssertNotCalled(t, "ListMilestones", ctx, c.ID)
}

func TestContractService_Create_RequiresAcceptedApplication(t *testing.T) {
	repo := new(mockContractRepo)
	missions := new(mockMissionGetter)
	applications := new(mockAcceptedChecker)
	svc := NewContractService(repo, missions, applications, &recordingNotifier{})
	ctx := context.Background()

	companyID := uuid.New()
	freelancerID := uuid.New()
	missionID := uuid.New()

	missions.On("GetByID", ctx, missionID).Return(&models.Mission{
		ID:        missionID,
		CompanyID: companyID,
		Status:    models.MissionStatusPublished,
	}, nil)
	applications.On("GetByMissionAndFreelancer", ctx, missionID, freelancerID).Return(&models.Application{
		MissionID:    missionID,
		FreelancerID: freelancerID,
		Status:       models.ApplicationStatusPending,
	}, nil)

	_, err := svc.Create(ctx, companyID, &dto.CreateContractRequest{
		MissionID:    missionID,
		FreelancerID: freelancerID,
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestContractService_UpdateMilestoneStatus_BackwardRejected(t *testing.T) {
	repo := new(mockContractRepo)
	svc := NewContractService(repo, new(mockMissionGetter), new(mockAcceptedChecker), &recordingNotifier{})
	ctx := context.Background()

	freelancerID := uuid.New()
	companyID := uuid.New()
	c := pendingContract(freelancerID, companyID)
	c.Status = models.ContractStatusActive

	ms := &models.Milestone{
		ID:         uuid.New(),
		ContractID: c.ID,
		Status:     models.MilestoneStatusApproved,
	}

	repo.On("GetMilestoneByID", ctx, ms.ID).Return(ms, nil)
	repo.On("GetByID", ctx, c.ID).Return(c, nil)

	// Откат APPROVED -> SUBMITTED запрещён.
	_, err := svc.UpdateMilestoneStatus(ctx, ms.ID, freelancerID, models.MilestoneStatusSubmitted)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateMilestoneStatus", ctx, ms.ID, models.MilestoneStatusSubmitted)
}

func TestContractService_UpdateMilestoneStatus_ForwardByRole(t *testing.T) {
	repo := new(mockContractRepo)
	notifier := &recordingNotifier{}
	svc := NewContractService(repo, new(mockMissionGetter), new(mockAcceptedChecker), notifier)
	ctx := context.Background()

	freelancerID := uuid.New()
	companyID := uuid.New()
	c := pendingContract(freelancerID, companyID)
	c.Status = models.ContractStatusActive

	ms := &models.Milestone{
		ID:         uuid.New(),
		ContractID: c.ID,
		Status:     models.MilestoneStatusPending,
	}

	repo.On("GetMilestoneByID", ctx, ms.ID).Return(ms, nil)
	repo.On("GetByID", ctx, c.ID).Return(c, nil)
	repo.On("UpdateMilestoneStatus", ctx, ms.ID, models.MilestoneStatusSubmitted).Return(nil)

	// SUBMITTED может поставить только фрилансер.
	_, err := svc.UpdateMilestoneStatus(ctx, ms.ID, companyID, models.MilestoneStatusSubmitted)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := svc.UpdateMilestoneStatus(ctx, ms.ID, freelancerID, models.MilestoneStatusSubmitted)
	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusSubmitted, updated.Status)
	assert.Contains(t, notifier.sent(), EventMilestoneStatus)
}
