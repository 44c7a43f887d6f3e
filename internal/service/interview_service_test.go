package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

type mockInterviewRepo struct {
	mock.Mock
}

func (m *mockInterviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Application), args.Error(1)
}

func (m *mockInterviewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockInterviewRepo) ScheduleInterview(ctx context.Context, i *models.Interview, status string) error {
	args := m.Called(ctx, i, status)
	if args.Error(0) == nil {
		i.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockInterviewRepo) GetInterviewByID(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Interview), args.Error(1)
}

func (m *mockInterviewRepo) CompleteInterview(ctx context.Context, id uuid.UUID, rating *int, notes *string) error {
	args := m.Called(ctx, id, rating, notes)
	return args.Error(0)
}

func TestInterviewService_Schedule_SingleAtomicWrite(t *testing.T) {
	repo := new(mockInterviewRepo)
	missions := new(mockMissionGetter)
	notifier := &recordingNotifier{}
	svc := NewInterviewService(repo, missions, notifier)
	ctx := context.Background()

	companyID := uuid.New()
	applicationID := uuid.New()
	missionID := uuid.New()

	repo.On("GetByID", ctx, applicationID).Return(&models.Application{
		ID:        applicationID,
		MissionID: missionID,
		Status:    models.ApplicationStatusShortlisted,
	}, nil)
	missions.On("GetByID", ctx, missionID).Return(&models.Mission{
		ID:        missionID,
		CompanyID: companyID,
	}, nil)
	repo.On("ScheduleInterview", ctx, mock.Anything, models.ApplicationStatusInterviewScheduled).Return(nil)

	i, err := svc.Schedule(ctx, applicationID, companyID, &dto.ScheduleInterviewRequest{
		ScheduledAt: time.Now().Add(24 * time.Hour),
		DurationMin: 60,
	})

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, i.ID)
	assert.Contains(t, notifier.sent(), EventInterviewScheduled)
	// Смена статуса отклика идёт внутри той же записи, отдельного вызова нет.
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestInterviewService_Schedule_PendingApplicationRejected(t *testing.T) {
	repo := new(mockInterviewRepo)
	missions := new(mockMissionGetter)
	svc := NewInterviewService(repo, missions, &recordingNotifier{})
	ctx := context.Background()

	companyID := uuid.New()
	applicationID := uuid.New()
	missionID := uuid.New()

	repo.On("GetByID", ctx, applicationID).Return(&models.Application{
		ID:        applicationID,
		MissionID: missionID,
		Status:    models.ApplicationStatusPending,
	}, nil)
	missions.On("GetByID", ctx, missionID).Return(&models.Mission{
		ID:        missionID,
		CompanyID: companyID,
	}, nil)

	_, err := svc.Schedule(ctx, applicationID, companyID, &dto.ScheduleInterviewRequest{
		ScheduledAt: time.Now().Add(24 * time.Hour),
		DurationMin: 60,
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "ScheduleInterview", mock.Anything, mock.Anything, mock.Anything)
}

func TestInterviewService_Get_VisibleToParties(t *testing.T) {
	repo := new(mockInterviewRepo)
	missions := new(mockMissionGetter)
	svc := NewInterviewService(repo, missions, &recordingNotifier{})
	ctx := context.Background()

	freelancerID := uuid.New()
	companyID := uuid.New()
	applicationID := uuid.New()
	missionID := uuid.New()
	interviewID := uuid.New()

	repo.On("GetInterviewByID", ctx, interviewID).Return(&models.Interview{
		ID:            interviewID,
		ApplicationID: applicationID,
	}, nil)
	repo.On("GetByID", ctx, applicationID).Return(&models.Application{
		ID:           applicationID,
		MissionID:    missionID,
		FreelancerID: freelancerID,
	}, nil)
	missions.On("GetByID", ctx, missionID).Return(&models.Mission{
		ID:        missionID,
		CompanyID: companyID,
	}, nil)

	_, err := svc.Get(ctx, interviewID, freelancerID, models.RoleFreelance)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, interviewID, companyID, models.RoleCompany)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, interviewID, uuid.New(), models.RoleAdmin)
	assert.NoError(t, err)
}

func TestInterviewService_Get_StrangerForbidden(t *testing.T) {
	repo := new(mockInterviewRepo)
	missions := new(mockMissionGetter)
	svc := NewInterviewService(repo, missions, &recordingNotifier{})
	ctx := context.Background()

	applicationID := uuid.New()
	missionID := uuid.New()
	interviewID := uuid.New()

	repo.On("GetInterviewByID", ctx, interviewID).Return(&models.Interview{
		ID:            interviewID,
		ApplicationID: applicationID,
	}, nil)
	repo.On("GetByID", ctx, applicationID).Return(&models.Application{
		ID:           applicationID,
		MissionID:    missionID,
		FreelancerID: uuid.New(),
	}, nil)
	missions.On("GetByID", ctx, missionID).Return(&models.Mission{
		ID:        missionID,
		CompanyID: uuid.New(),
	}, nil)

	_, err := svc.Get(ctx, interviewID, uuid.New(), models.RoleFreelance)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestInterviewService_Complete_TwiceRejected(t *testing.T) {
	repo := new(mockInterviewRepo)
	svc := NewInterviewService(repo, new(mockMissionGetter), &recordingNotifier{})
	ctx := context.Background()

	interviewID := uuid.New()
	repo.On("GetInterviewByID", ctx, interviewID).Return(&models.Interview{
		ID:        interviewID,
		Completed: true,
	}, nil)

	_, err := svc.Complete(ctx, interviewID, uuid.New(), &dto.CompleteInterviewRequest{})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "CompleteInterview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
