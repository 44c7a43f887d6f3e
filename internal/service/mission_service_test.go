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
	"github.com/workmatch/workmatch-backend/internal/repository"
)

type mockMissionRepo struct {
	mock.Mock
}

func (m *mockMissionRepo) Create(ctx context.Context, mi *models.Mission) error {
	args := m.Called(ctx, mi)
	if args.Error(0) == nil {
		mi.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockMissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mission), args.Error(1)
}

func (m *mockMissionRepo) List(ctx context.Context, f repository.MissionFilters, page, limit int) ([]models.Mission, pagination.Pagination, error) {
	args := m.Called(ctx, f, page, limit)
	return args.Get(0).([]models.Mission), args.Get(1).(pagination.Pagination), args.Error(2)
}

func (m *mockMissionRepo) Update(ctx context.Context, mi *models.Mission) error {
	args := m.Called(ctx, mi)
	return args.Error(0)
}

func (m *mockMissionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockMissionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestMissionService_Create_StartsAsDraft(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Mission")).Return(nil)

	m, err := svc.Create(ctx, uuid.New(), &dto.CreateMissionRequest{
		Title:          "Миграция на PostgreSQL 16",
		Description:    "Перенос продовой базы с минимальным простоем",
		RequiredSkills: []string{"PostgreSQL"},
	})

	assert.NoError(t, err)
	assert.Equal(t, models.MissionStatusDraft, m.Status)
}

func TestMissionService_Publish_OnlyFromDraft(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	companyID := uuid.New()
	m := &models.Mission{ID: uuid.New(), CompanyID: companyID, Status: models.MissionStatusCompleted}
	repo.On("GetByID", ctx, m.ID).Return(m, nil)

	_, err := svc.Publish(ctx, m.ID, companyID)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", ctx, m.ID, models.MissionStatusPublished)
}

func TestMissionService_Publish_Success(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	companyID := uuid.New()
	m := &models.Mission{ID: uuid.New(), CompanyID: companyID, Status: models.MissionStatusDraft}
	repo.On("GetByID", ctx, m.ID).Return(m, nil)
	repo.On("UpdateStatus", ctx, m.ID, models.MissionStatusPublished).Return(nil)

	published, err := svc.Publish(ctx, m.ID, companyID)

	assert.NoError(t, err)
	assert.Equal(t, models.MissionStatusPublished, published.Status)
}

func TestMissionService_Get_DraftHiddenFromStrangers(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	owner := uuid.New()
	m := &models.Mission{ID: uuid.New(), CompanyID: owner, Status: models.MissionStatusDraft}
	repo.On("GetByID", ctx, m.ID).Return(m, nil)

	_, err := svc.Get(ctx, m.ID, uuid.New(), models.RoleFreelance)
	assert.ErrorIs(t, err, apperror.ErrMissionNotFound)

	got, err := svc.Get(ctx, m.ID, owner, models.RoleCompany)
	assert.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
}

func TestMissionService_Delete_PublishedRejected(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	companyID := uuid.New()
	m := &models.Mission{ID: uuid.New(), CompanyID: companyID, Status: models.MissionStatusPublished}
	repo.On("GetByID", ctx, m.ID).Return(m, nil)

	err := svc.Delete(ctx, m.ID, companyID)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Delete", ctx, m.ID)
}

func TestMissionService_List_DefaultsToPublished(t *testing.T) {
	repo := new(mockMissionRepo)
	svc := NewMissionService(repo)
	ctx := context.Background()

	repo.On("List", ctx, repository.MissionFilters{Status: models.MissionStatusPublished}, 1, 20).
		Return([]models.Mission{}, pagination.Pagination{}, nil)

	_, _, err := svc.List(ctx, repository.MissionFilters{}, 1, 20)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
