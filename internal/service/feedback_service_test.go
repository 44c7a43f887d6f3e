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

type mockFeedbackRepo struct {
	mock.Mock
}

func (m *mockFeedbackRepo) Create(ctx context.Context, f *models.Feedback) (*dto.FeedbackResponse, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FeedbackResponse), args.Error(1)
}

func (m *mockFeedbackRepo) GetByID(ctx context.Context, id uuid.UUID) (*dto.FeedbackResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FeedbackResponse), args.Error(1)
}

func (m *mockFeedbackRepo) ListByToUser(ctx context.Context, toUserID uuid.UUID, isPublic *bool, page, limit int) ([]*dto.FeedbackResponse, pagination.Pagination, error) {
	args := m.Called(ctx, toUserID, isPublic, page, limit)
	return args.Get(0).([]*dto.FeedbackResponse), args.Get(1).(pagination.Pagination), args.Error(2)
}

func (m *mockFeedbackRepo) Update(ctx context.Context, id uuid.UUID, rating *int, comment *string, skills models.SkillRatings, isPublic *bool) (*dto.FeedbackResponse, error) {
	args := m.Called(ctx, id, rating, comment, skills, isPublic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FeedbackResponse), args.Error(1)
}

func (m *mockFeedbackRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockFeedbackRepo) CalculateUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRating), args.Error(1)
}

func newFeedbackService(repo *mockFeedbackRepo, missions *mockMissionGetter, contracts *mockContractGetter) *FeedbackService {
	return NewFeedbackService(repo, missions, contracts, &recordingNotifier{})
}

func TestFeedbackService_Create_RequiresMissionOrContract(t *testing.T) {
	repo := new(mockFeedbackRepo)
	svc := newFeedbackService(repo, new(mockMissionGetter), new(mockContractGetter))
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), &dto.CreateFeedbackRequest{
		ToUserID: uuid.New(),
		Rating:   5,
	})

	assert.Error(t, err)
	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	// Межполевая ошибка привязывается к mission_id.
	assert.Equal(t, "mission_id", appErr.Field)
	repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestFeedbackService_Create_RatingOutOfBounds(t *testing.T) {
	repo := new(mockFeedbackRepo)
	svc := newFeedbackService(repo, new(mockMissionGetter), new(mockContractGetter))
	ctx := context.Background()
	missionID := uuid.New()

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.Create(ctx, uuid.New(), &dto.CreateFeedbackRequest{
			ToUserID:  uuid.New(),
			MissionID: &missionID,
			Rating:    rating,
		})
		assert.Error(t, err, "rating %d должен отклоняться", rating)
	}
	repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestFeedbackService_Create_DefaultsToPublic(t *testing.T) {
	repo := new(mockFeedbackRepo)
	missions := new(mockMissionGetter)
	svc := newFeedbackService(repo, missions, new(mockContractGetter))
	ctx := context.Background()

	fromID := uuid.New()
	missionID := uuid.New()
	missions.On("GetByID", ctx, missionID).Return(&models.Mission{ID: missionID}, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(f *models.Feedback) bool {
		return f.IsPublic
	})).Return(&dto.FeedbackResponse{Feedback: models.Feedback{ID: uuid.New(), Rating: 4}}, nil)

	_, err := svc.Create(ctx, fromID, &dto.CreateFeedbackRequest{
		ToUserID:  uuid.New(),
		MissionID: &missionID,
		Rating:    4,
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFeedbackService_Create_SelfFeedbackRejected(t *testing.T) {
	repo := new(mockFeedbackRepo)
	svc := newFeedbackService(repo, new(mockMissionGetter), new(mockContractGetter))
	ctx := context.Background()

	userID := uuid.New()
	missionID := uuid.New()
	_, err := svc.Create(ctx, userID, &dto.CreateFeedbackRequest{
		ToUserID:  userID,
		MissionID: &missionID,
		Rating:    5,
	})

	assert.Error(t, err)
}

func TestFeedbackService_ListForUser_StrangerSeesOnlyPublic(t *testing.T) {
	repo := new(mockFeedbackRepo)
	svc := newFeedbackService(repo, new(mockMissionGetter), new(mockContractGetter))
	ctx := context.Background()

	target := uuid.New()
	public := true
	repo.On("ListByToUser", ctx, target, &public, 1, 20).
		Return([]*dto.FeedbackResponse{}, pagination.Pagination{}, nil)

	_, _, err := svc.ListForUser(ctx, target, uuid.New(), models.RoleFreelance, 1, 20)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFeedbackService_ListForUser_OwnerSeesAll(t *testing.T) {
	repo := new(mockFeedbackRepo)
	svc := newFeedbackService(repo, new(mockMissionGetter), new(mockContractGetter))
	ctx := context.Background()

	target := uuid.New()
	repo.On("ListByToUser", ctx, target, (*bool)(nil), 1, 20).
		Return([]*dto.FeedbackResponse{}, pagination.Pagination{}, nil)

	_, _, err := svc.ListForUser(ctx, target, target, models.RoleFreelance, 1, 20)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFeedbackService_Update_OnlyAuthor(t *testing.T) {
	repo := new(mockFeedbackRepo)
	svc := newFeedbackService(repo, new(mockMissionGetter), new(mockContractGetter))
	ctx := context.Background()

	author := uuid.New()
	f := &dto.FeedbackResponse{Feedback: models.Feedback{
		ID:         uuid.New(),
		FromUserID: author,
		Rating:     3,
	}}
	repo.On("GetByID", ctx, f.ID).Return(f, nil)

	_, err := svc.Update(ctx, f.ID, uuid.New(), &dto.UpdateFeedbackRequest{})

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestFeedbackService_GetUserRating_ZeroWithoutReviews(t *testing.T) {
	repo := new(mockFeedbackRepo)
	svc := newFeedbackService(repo, new(mockMissionGetter), new(mockContractGetter))
	ctx := context.Background()

	userID := uuid.New()
	repo.On("CalculateUserRating", ctx, userID).Return(&models.UserRating{}, nil)

	rating, err := svc.GetUserRating(ctx, userID)

	assert.NoError(t, err)
	assert.Zero(t, rating.AverageRating)
	assert.Zero(t, rating.TotalReviews)
}

func TestIsCertified_Thresholds(t *testing.T) {
	cases := []struct {
		name   string
		rating models.UserRating
		want   bool
	}{
		{"высокий рейтинг и достаточно отзывов", models.UserRating{AverageRating: 4.7, TotalReviews: 8}, true},
		{"ровно на границе", models.UserRating{AverageRating: 4.5, TotalReviews: 5}, true},
		{"мало отзывов", models.UserRating{AverageRating: 5.0, TotalReviews: 4}, false},
		{"низкий рейтинг", models.UserRating{AverageRating: 4.4, TotalReviews: 20}, false},
		{"без отзывов", models.UserRating{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.rating
			assert.Equal(t, tc.want, IsCertified(&r))
		})
	}
}
