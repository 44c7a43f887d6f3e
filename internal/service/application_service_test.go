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

type mockApplicationRepo struct {
	mock.Mock
}

func (m *mockApplicationRepo) Create(ctx context.Context, a *models.Application) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockApplicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *mockApplicationRepo) GetByMissionAndFreelancer(ctx context.Context, missionID, freelancerID uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, missionID, freelancerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *mockApplicationRepo) ListByMission(ctx context.Context, missionID uuid.UUID, page, limit int) ([]models.Application, pagination.Pagination, error) {
	args := m.Called(ctx, missionID, page, limit)
	return args.Get(0).([]models.Application), args.Get(1).(pagination.Pagination), args.Error(2)
}

func (m *mockApplicationRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, page, limit int) ([]models.Application, pagination.Pagination, error) {
	args := m.Called(ctx, freelancerID, page, limit)
	return args.Get(0).([]models.Application), args.Get(1).(pagination.Pagination), args.Error(2)
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func publishedMission(companyID uuid.UUID) *models.Mission {
	return &models.Mission{
		ID:        uuid.New(),
		CompanyID: companyID,
		Title:     "Интеграция платёжного шлюза",
		Status:    models.MissionStatusPublished,
	}
}

func TestApplicationService_Apply_Success(t *testing.T) {
	repo := new(mockApplicationRepo)
	missions := new(mockMissionGetter)
	notifier := &recordingNotifier{}
	svc := NewApplicationService(repo, missions, notifier)
	ctx := context.Background()

	companyID := uuid.New()
	freelancerID := uuid.New()
	mission := publishedMission(companyID)

	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)
	repo.On("GetByMissionAndFreelancer", ctx, mission.ID, freelancerID).Return(nil, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Application")).Return(nil)

	a, err := svc.Apply(ctx, mission.ID, freelancerID, &dto.CreateApplicationRequest{})

	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, a.Status)
	assert.Contains(t, notifier.sent(), EventApplicationCreated)
}

func TestApplicationService_Apply_DuplicateRejected(t *testing.T) {
	repo := new(mockApplicationRepo)
	missions := new(mockMissionGetter)
	svc := NewApplicationService(repo, missions, &recordingNotifier{})
	ctx := context.Background()

	freelancerID := uuid.New()
	mission := publishedMission(uuid.New())

	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)
	repo.On("GetByMissionAndFreelancer", ctx, mission.ID, freelancerID).Return(&models.Application{
		MissionID:    mission.ID,
		FreelancerID: freelancerID,
		Status:       models.ApplicationStatusPending,
	}, nil)

	_, err := svc.Apply(ctx, mission.ID, freelancerID, &dto.CreateApplicationRequest{})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestApplicationService_Apply_DraftMissionRejected(t *testing.T) {
	repo := new(mockApplicationRepo)
	missions := new(mockMissionGetter)
	svc := NewApplicationService(repo, missions, &recordingNotifier{})
	ctx := context.Background()

	mission := publishedMission(uuid.New())
	mission.Status = models.MissionStatusDraft
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)

	_, err := svc.Apply(ctx, mission.ID, uuid.New(), &dto.CreateApplicationRequest{})

	assert.Error(t, err)
}

func TestApplicationService_UpdateStatus_ForwardOnly(t *testing.T) {
	repo := new(mockApplicationRepo)
	missions := new(mockMissionGetter)
	notifier := &recordingNotifier{}
	svc := NewApplicationService(repo, missions, notifier)
	ctx := context.Background()

	companyID := uuid.New()
	mission := publishedMission(companyID)
	a := &models.Application{
		ID:           uuid.New(),
		MissionID:    mission.ID,
		FreelancerID: uuid.New(),
		Status:       models.ApplicationStatusPending,
	}

	repo.On("GetByID", ctx, a.ID).Return(a, nil)
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)
	repo.On("UpdateStatus", ctx, a.ID, models.ApplicationStatusShortlisted).Return(nil)

	updated, err := svc.UpdateStatus(ctx, a.ID, companyID, models.ApplicationStatusShortlisted)

	assert.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusShortlisted, updated.Status)
	assert.Contains(t, notifier.sent(), EventApplicationStatus)
}

func TestApplicationService_UpdateStatus_BackwardRejected(t *testing.T) {
	repo := new(mockApplicationRepo)
	missions := new(mockMissionGetter)
	svc := NewApplicationService(repo, missions, &recordingNotifier{})
	ctx := context.Background()

	companyID := uuid.New()
	mission := publishedMission(companyID)
	a := &models.Application{
		ID:        uuid.New(),
		MissionID: mission.ID,
		Status:    models.ApplicationStatusAccepted,
	}

	repo.On("GetByID", ctx, a.ID).Return(a, nil)
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)

	// ACCEPTED терминален, откат в PENDING невозможен.
	_, err := svc.UpdateStatus(ctx, a.ID, companyID, models.ApplicationStatusPending)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", ctx, a.ID, models.ApplicationStatusPending)
}

func TestApplicationService_UpdateStatus_ForeignMissionForbidden(t *testing.T) {
	repo := new(mockApplicationRepo)
	missions := new(mockMissionGetter)
	svc := NewApplicationService(repo, missions, &recordingNotifier{})
	ctx := context.Background()

	mission := publishedMission(uuid.New())
	a := &models.Application{
		ID:        uuid.New(),
		MissionID: mission.ID,
		Status:    models.ApplicationStatusPending,
	}

	repo.On("GetByID", ctx, a.ID).Return(a, nil)
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)

	_, err := svc.UpdateStatus(ctx, a.ID, uuid.New(), models.ApplicationStatusShortlisted)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
