package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
	"github.com/workmatch/workmatch-backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAuthRepo) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockAuthRepo) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockAuthRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *mockAuthRepo) DeleteExpiredSessions(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testTokenManager() *TokenManager {
	return NewTokenManager(
		"test-access-secret-for-unit-tests-only",
		"test-refresh-secret-for-unit-tests-only",
		15*time.Minute,
		7*24*time.Hour,
	)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "anna@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)
	repo.On("DeleteExpiredSessions", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

	resp, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "Anna@Example.com",
		Password: "Sup3rSecret!",
		Name:     "Анна Иванова",
		Role:     models.RoleFreelance,
	}, SessionMeta{UserAgent: "go-test"})

	assert.NoError(t, err)
	assert.Equal(t, "anna@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.True(t, resp.User.IsActive)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "taken@example.com").Return(&models.User{ID: uuid.New()}, nil)

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Email:    "taken@example.com",
		Password: "Sup3rSecret!",
		Name:     "Пётр",
		Role:     models.RoleCompany,
	}, SessionMeta{})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestAuthService_Register_AdminRoleRejected(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "root@example.com",
		Password: "Sup3rSecret!",
		Name:     "Админ",
		Role:     models.RoleAdmin,
	}, SessionMeta{})

	assert.Error(t, err)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Corr3ctPass!"), bcrypt.DefaultCost)
	repo.On("GetByEmail", ctx, "anna@example.com").Return(&models.User{
		ID:           uuid.New(),
		Email:        "anna@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)

	_, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "anna@example.com",
		Password: "WrongPass1",
	}, SessionMeta{})

	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_BlockedAccount(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "blocked@example.com").Return(&models.User{
		ID:       uuid.New(),
		Email:    "blocked@example.com",
		IsActive: false,
	}, nil)

	_, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "blocked@example.com",
		Password: "AnyPass123",
	}, SessionMeta{})

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeForbidden, appErr.Code)
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	repo := new(mockAuthRepo)
	tm := testTokenManager()
	svc := NewAuthService(repo, tm)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Role: models.RoleFreelance, IsActive: true}
	pair, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	repo.On("GetSessionByToken", ctx, pair.RefreshToken).Return(&models.Session{
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
	}, nil)
	repo.On("GetByID", ctx, user.ID).Return(user, nil)
	repo.On("DeleteSession", ctx, pair.RefreshToken).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)
	repo.On("DeleteExpiredSessions", ctx, user.ID).Return(nil)

	resp, err := svc.Refresh(ctx, pair.RefreshToken, SessionMeta{})

	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	repo.AssertExpectations(t)
}

func TestAuthService_Refresh_RevokedSessionRejected(t *testing.T) {
	repo := new(mockAuthRepo)
	tm := testTokenManager()
	svc := NewAuthService(repo, tm)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Role: models.RoleCompany, IsActive: true}
	pair, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	// Сессия удалена при logout: токен формально валиден, но отозван.
	repo.On("GetSessionByToken", ctx, pair.RefreshToken).Return(nil, repository.ErrSessionNotFound)

	_, err = svc.Refresh(ctx, pair.RefreshToken, SessionMeta{})

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeUnauthorized, appErr.Code)
}

func TestTokenManager_ParseAccess_RoundTrip(t *testing.T) {
	tm := testTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.RoleCompany}

	pair, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	userID, role, err := tm.ParseAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RoleCompany, role)
}
