package dto

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
)

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("ожидалась *apperror.AppError, получено %T", err)
	}
	return appErr.Field
}

func TestCreateFeedbackRequest_RequiresMissionOrContract(t *testing.T) {
	req := &CreateFeedbackRequest{
		ToUserID: uuid.New(),
		Rating:   4,
	}

	err := req.Validate()

	assert.Error(t, err)
	assert.Equal(t, "mission_id", fieldOf(t, err))
}

func TestCreateFeedbackRequest_MissionAloneSuffices(t *testing.T) {
	missionID := uuid.New()
	req := &CreateFeedbackRequest{
		ToUserID:  uuid.New(),
		MissionID: &missionID,
		Rating:    4,
	}

	assert.NoError(t, req.Validate())
}

func TestCreateFeedbackRequest_ContractAloneSuffices(t *testing.T) {
	contractID := uuid.New()
	req := &CreateFeedbackRequest{
		ToUserID:   uuid.New(),
		ContractID: &contractID,
		Rating:     4,
	}

	assert.NoError(t, req.Validate())
}

func TestCreateFeedbackRequest_RatingBounds(t *testing.T) {
	missionID := uuid.New()
	for _, rating := range []int{0, 6, -5} {
		req := &CreateFeedbackRequest{
			ToUserID:  uuid.New(),
			MissionID: &missionID,
			Rating:    rating,
		}
		err := req.Validate()
		assert.Error(t, err, "rating %d", rating)
		assert.Equal(t, "rating", fieldOf(t, err))
	}

	for rating := 1; rating <= 5; rating++ {
		req := &CreateFeedbackRequest{
			ToUserID:  uuid.New(),
			MissionID: &missionID,
			Rating:    rating,
		}
		assert.NoError(t, req.Validate(), "rating %d", rating)
	}
}

func TestCreateFeedbackRequest_SkillRatingBounds(t *testing.T) {
	missionID := uuid.New()
	req := &CreateFeedbackRequest{
		ToUserID:  uuid.New(),
		MissionID: &missionID,
		Rating:    5,
		Skills:    map[string]int{"Go": 7},
	}

	assert.Error(t, req.Validate())
}

func TestCreateFeedbackRequest_PublicDefaultsTrue(t *testing.T) {
	req := &CreateFeedbackRequest{}
	assert.True(t, req.Public())

	private := false
	req.IsPublic = &private
	assert.False(t, req.Public())
}

func TestResolveDisputeRequest_ResolutionMinLength(t *testing.T) {
	req := &ResolveDisputeRequest{Resolution: "короткая"}

	err := req.Validate()

	assert.Error(t, err)
	assert.Equal(t, "resolution", fieldOf(t, err))
}

func TestResolveDisputeRequest_StatusDefaultsToResolved(t *testing.T) {
	req := &ResolveDisputeRequest{Resolution: "возврат средств по результатам проверки"}

	assert.NoError(t, req.Validate())
	assert.Equal(t, models.DisputeStatusResolved, req.TargetStatus())
}

func TestResolveDisputeRequest_ExplicitClosed(t *testing.T) {
	closed := models.DisputeStatusClosed
	req := &ResolveDisputeRequest{
		Resolution: "спор закрыт без удовлетворения требований",
		Status:     &closed,
	}

	assert.NoError(t, req.Validate())
	assert.Equal(t, models.DisputeStatusClosed, req.TargetStatus())
}

func TestResolveDisputeRequest_ArbitraryStatusRejected(t *testing.T) {
	open := models.DisputeStatusOpen
	req := &ResolveDisputeRequest{
		Resolution: "резолюция достаточной длины для проверки",
		Status:     &open,
	}

	assert.Error(t, req.Validate())
}

func TestCreateDisputeRequest_DescriptionMinLength(t *testing.T) {
	req := &CreateDisputeRequest{
		ContractID:  uuid.New(),
		Reason:      "Просрочка",
		Description: "коротко",
	}

	err := req.Validate()

	assert.Error(t, err)
	assert.Equal(t, "description", fieldOf(t, err))
}

func TestRegisterRequest_RoleRestricted(t *testing.T) {
	req := &RegisterRequest{
		Email:    "user@example.com",
		Password: "Sup3rSecret!",
		Name:     "Анна",
		Role:     models.RoleAdmin,
	}

	err := req.Validate()

	assert.Error(t, err)
	assert.Equal(t, "role", fieldOf(t, err))
}
