package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

type mockMatchingMissions struct {
	mock.Mock
}

func (m *mockMatchingMissions) GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mission), args.Error(1)
}

func (m *mockMatchingMissions) ListPublished(ctx context.Context, limit int) ([]models.Mission, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Mission), args.Error(1)
}

type mockFreelancerPool struct {
	mock.Mock
}

func (m *mockFreelancerPool) ListFreelancers(ctx context.Context, limit int) ([]models.FreelancerProfile, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.FreelancerProfile), args.Error(1)
}

func (m *mockFreelancerPool) GetFreelancerByUserID(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FreelancerProfile), args.Error(1)
}

type mockUserRefs struct {
	mock.Mock
}

func (m *mockUserRefs) GetRef(ctx context.Context, id uuid.UUID) (*models.UserRef, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRef), args.Error(1)
}

type mockRatings struct {
	mock.Mock
}

func (m *mockRatings) CalculateUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRating), args.Error(1)
}

func rate(v float64) *float64 { return &v }

func TestMatchingService_MatchFreelancers_RanksAndLimits(t *testing.T) {
	missions := new(mockMatchingMissions)
	pool := new(mockFreelancerPool)
	users := new(mockUserRefs)
	ratings := new(mockRatings)
	svc := NewMatchingService(missions, pool, users, ratings)
	ctx := context.Background()

	companyID := uuid.New()
	mission := &models.Mission{
		ID:             uuid.New(),
		CompanyID:      companyID,
		RequiredSkills: []string{"Go"},
		BudgetMax:      rate(1000),
		Status:         models.MissionStatusPublished,
	}

	strong := models.FreelancerProfile{
		UserID:             uuid.New(),
		Skills:             models.SkillList{{Name: "Go", Level: 5}},
		DailyRate:          rate(500),
		AvailabilityStatus: models.AvailabilityAvailable,
	}
	weak := models.FreelancerProfile{
		UserID:             uuid.New(),
		Skills:             models.SkillList{{Name: "Python", Level: 5}},
		AvailabilityStatus: models.AvailabilityBusy,
	}

	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)
	pool.On("ListFreelancers", ctx, matchingPoolSize).Return([]models.FreelancerProfile{weak, strong}, nil)
	users.On("GetRef", ctx, mock.AnythingOfType("uuid.UUID")).Return(&models.UserRef{Name: "Кандидат", Role: models.RoleFreelance}, nil)
	ratings.On("CalculateUserRating", ctx, mock.AnythingOfType("uuid.UUID")).Return(&models.UserRating{AverageRating: 4.8, TotalReviews: 12}, nil)

	results, err := svc.MatchFreelancers(ctx, mission.ID, companyID, models.RoleCompany, 10)

	assert.NoError(t, err)
	assert.NotEmpty(t, results)
	assert.Equal(t, strong.UserID, results[0].Freelancer.UserID)
	assert.True(t, results[0].Freelancer.IsCertified)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].MatchScore, results[i-1].MatchScore)
	}
}

func TestMatchingService_MatchFreelancers_ForeignMissionForbidden(t *testing.T) {
	missions := new(mockMatchingMissions)
	svc := NewMatchingService(missions, new(mockFreelancerPool), new(mockUserRefs), new(mockRatings))
	ctx := context.Background()

	mission := &models.Mission{ID: uuid.New(), CompanyID: uuid.New()}
	missions.On("GetByID", ctx, mission.ID).Return(mission, nil)

	_, err := svc.MatchFreelancers(ctx, mission.ID, uuid.New(), models.RoleCompany, 10)

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestMatchingService_MatchMissions_UsesFreelancerProfile(t *testing.T) {
	missions := new(mockMatchingMissions)
	pool := new(mockFreelancerPool)
	svc := NewMatchingService(missions, pool, new(mockUserRefs), new(mockRatings))
	ctx := context.Background()

	freelancerID := uuid.New()
	profile := &models.FreelancerProfile{
		UserID:             freelancerID,
		Skills:             models.SkillList{{Name: "Go", Level: 4}},
		DailyRate:          rate(400),
		AvailabilityStatus: models.AvailabilityAvailable,
	}
	m1 := models.Mission{ID: uuid.New(), RequiredSkills: []string{"Go"}, BudgetMax: rate(800), Status: models.MissionStatusPublished}
	m2 := models.Mission{ID: uuid.New(), RequiredSkills: []string{"Rust"}, Status: models.MissionStatusPublished}

	pool.On("GetFreelancerByUserID", ctx, freelancerID).Return(profile, nil)
	missions.On("ListPublished", ctx, matchingPoolSize).Return([]models.Mission{m2, m1}, nil)

	results, err := svc.MatchMissions(ctx, freelancerID, 5)

	assert.NoError(t, err)
	assert.NotEmpty(t, results)
	assert.Equal(t, m1.ID, results[0].Mission.ID)
}

func TestMatchingService_LimitNormalization(t *testing.T) {
	assert.Equal(t, defaultMatchLimit, normalizeMatchLimit(0))
	assert.Equal(t, defaultMatchLimit, normalizeMatchLimit(-3))
	assert.Equal(t, maxMatchLimit, normalizeMatchLimit(500))
	assert.Equal(t, 7, normalizeMatchLimit(7))
}
