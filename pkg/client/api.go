package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
)

// Page страница списочного ответа.
type Page[T any] struct {
	Items      []T                   `json:"items"`
	Pagination pagination.Pagination `json:"pagination"`
}

// Register регистрирует пользователя и сохраняет выданные токены.
func (c *Client) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	var auth dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &auth); err != nil {
		return nil, err
	}
	c.session.set(auth.AccessToken, auth.RefreshToken)
	return &auth, nil
}

// Login выполняет вход и сохраняет выданные токены.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var auth dto.AuthResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &auth); err != nil {
		return nil, err
	}
	c.session.set(auth.AccessToken, auth.RefreshToken)
	return &auth, nil
}

// Refresh принудительно обновляет пару токенов.
func (c *Client) Refresh(ctx context.Context) error {
	return c.refreshSession(ctx)
}

// Logout отзывает текущую сессию и очищает токены.
func (c *Client) Logout(ctx context.Context) error {
	_, refresh := c.session.Tokens()
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", dto.RefreshRequest{RefreshToken: refresh}, nil)
	c.session.clear()
	return err
}

// MissionFilters параметры листинга миссий.
type MissionFilters struct {
	Status string
	Skill  string
	Page   int
	Limit  int
}

// ListMissions возвращает страницу миссий.
func (c *Client) ListMissions(ctx context.Context, f MissionFilters) (*Page[models.Mission], error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Skill != "" {
		q.Set("skill", f.Skill)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}

	path := "/api/missions"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page Page[models.Mission]
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetMission возвращает миссию по ID.
func (c *Client) GetMission(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	var mission models.Mission
	if err := c.do(ctx, http.MethodGet, "/api/missions/"+id.String(), nil, &mission); err != nil {
		return nil, err
	}
	return &mission, nil
}

// CreateMission создаёт черновик миссии.
func (c *Client) CreateMission(ctx context.Context, req *dto.CreateMissionRequest) (*models.Mission, error) {
	var mission models.Mission
	if err := c.do(ctx, http.MethodPost, "/api/missions", req, &mission); err != nil {
		return nil, err
	}
	return &mission, nil
}

// PublishMission публикует черновик миссии.
func (c *Client) PublishMission(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	var mission models.Mission
	if err := c.do(ctx, http.MethodPost, "/api/missions/"+id.String()+"/publish", nil, &mission); err != nil {
		return nil, err
	}
	return &mission, nil
}

// Apply создаёт отклик на миссию.
func (c *Client) Apply(ctx context.Context, missionID uuid.UUID, req *dto.CreateApplicationRequest) (*models.Application, error) {
	var application models.Application
	if err := c.do(ctx, http.MethodPost, "/api/missions/"+missionID.String()+"/applications", req, &application); err != nil {
		return nil, err
	}
	return &application, nil
}

// UpdateApplicationStatus переводит отклик в новый статус.
func (c *Client) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string) (*models.Application, error) {
	var application models.Application
	req := dto.UpdateApplicationStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPut, "/api/applications/"+id.String()+"/status", req, &application); err != nil {
		return nil, err
	}
	return &application, nil
}

// MatchFreelancers возвращает подбор фрилансеров под миссию.
func (c *Client) MatchFreelancers(ctx context.Context, missionID uuid.UUID, limit int) ([]dto.MatchResult, error) {
	path := "/api/matching/freelancers?mission_id=" + missionID.String()
	if limit > 0 {
		path += "&limit=" + strconv.Itoa(limit)
	}

	var results []dto.MatchResult
	if err := c.do(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// MatchMissions возвращает подбор миссий под профиль текущего фрилансера.
func (c *Client) MatchMissions(ctx context.Context, limit int) ([]dto.MatchResult, error) {
	path := "/api/matching/missions"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var results []dto.MatchResult
	if err := c.do(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// CreateContract создаёт контракт по принятому отклику.
func (c *Client) CreateContract(ctx context.Context, req *dto.CreateContractRequest) (*dto.ContractResponse, error) {
	var contract dto.ContractResponse
	if err := c.do(ctx, http.MethodPost, "/api/contracts", req, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// SignContract подписывает контракт текущим пользователем.
func (c *Client) SignContract(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error) {
	var contract dto.ContractResponse
	if err := c.do(ctx, http.MethodPost, "/api/contracts/"+id.String()+"/sign", nil, &contract); err != nil {
		return nil, err
	}
	return &contract, nil
}

// ListMyContracts возвращает контракты текущего пользователя.
func (c *Client) ListMyContracts(ctx context.Context, page, limit int) (*Page[dto.ContractResponse], error) {
	path := "/api/contracts/my?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)

	var result Page[dto.ContractResponse]
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LogTracking добавляет запись учёта времени по контракту.
func (c *Client) LogTracking(ctx context.Context, contractID uuid.UUID, req *dto.CreateTrackingRequest) (*models.TrackingEntry, error) {
	var entry models.TrackingEntry
	if err := c.do(ctx, http.MethodPost, "/api/contracts/"+contractID.String()+"/tracking", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ApproveTracking подтверждает запись учёта времени.
func (c *Client) ApproveTracking(ctx context.Context, id uuid.UUID) (*models.TrackingEntry, error) {
	var entry models.TrackingEntry
	if err := c.do(ctx, http.MethodPut, "/api/tracking/"+id.String()+"/approve", nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateFeedback оставляет отзыв о пользователе.
func (c *Client) CreateFeedback(ctx context.Context, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	var feedback dto.FeedbackResponse
	if err := c.do(ctx, http.MethodPost, "/api/feedback", req, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// ListUserFeedback возвращает отзывы о пользователе.
func (c *Client) ListUserFeedback(ctx context.Context, userID uuid.UUID, page, limit int) (*Page[dto.FeedbackResponse], error) {
	path := "/api/users/" + userID.String() + "/feedback?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)

	var result Page[dto.FeedbackResponse]
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUserRating возвращает агрегированный рейтинг пользователя.
func (c *Client) GetUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error) {
	var rating models.UserRating
	if err := c.do(ctx, http.MethodGet, "/api/users/"+userID.String()+"/rating", nil, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// OpenDispute открывает спор по контракту.
func (c *Client) OpenDispute(ctx context.Context, req *dto.CreateDisputeRequest) (*dto.DisputeResponse, error) {
	var dispute dto.DisputeResponse
	if err := c.do(ctx, http.MethodPost, "/api/disputes", req, &dispute); err != nil {
		return nil, err
	}
	return &dispute, nil
}

// ResolveDispute разрешает спор (только для администраторов).
func (c *Client) ResolveDispute(ctx context.Context, id uuid.UUID, req *dto.ResolveDisputeRequest) (*dto.DisputeResponse, error) {
	var dispute dto.DisputeResponse
	if err := c.do(ctx, http.MethodPost, "/api/disputes/"+id.String()+"/resolve", req, &dispute); err != nil {
		return nil, err
	}
	return &dispute, nil
}

// ListNotifications возвращает уведомления текущего пользователя.
func (c *Client) ListNotifications(ctx context.Context, page, limit int) (*Page[models.Notification], error) {
	path := "/api/notifications?page=" + strconv.Itoa(page) + "&limit=" + strconv.Itoa(limit)

	var result Page[models.Notification]
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUser возвращает публичный профиль пользователя.
func (c *Client) GetUser(ctx context.Context, userID uuid.UUID, out interface{}) error {
	return c.do(ctx, http.MethodGet, "/api/users/"+userID.String(), nil, out)
}
