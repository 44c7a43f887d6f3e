package dto

import (
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
)

// Envelope единый формат успешного ответа API.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorBody тело ошибки в едином формате ответа.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorEnvelope единый формат ответа с ошибкой.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// Paginated канонический конверт списочного ответа:
// {"items": [...], "pagination": {"page","limit","total","pages"}}.
type Paginated struct {
	Items      interface{}           `json:"items"`
	Pagination pagination.Pagination `json:"pagination"`
}

// NewPaginated собирает списочный ответ; nil срез заменяется пустым.
func NewPaginated(items interface{}, p pagination.Pagination) Paginated {
	return Paginated{Items: items, Pagination: p}
}

// FreelancerView read-model профиля фрилансера с вычисляемыми полями.
// isCertified никогда не сохраняется в БД и вычисляется при чтении.
type FreelancerView struct {
	models.FreelancerProfile
	User          models.UserRef         `json:"user"`
	Portfolio     []models.PortfolioItem `json:"portfolio,omitempty"`
	AverageRating float64                `json:"average_rating"`
	TotalReviews  int                    `json:"total_reviews"`
	IsCertified   bool                   `json:"is_certified"`
}

// CompanyView read-model профиля компании.
type CompanyView struct {
	models.CompanyProfile
	User models.UserRef `json:"user"`
}

// FeedbackResponse отзыв с минимальными проекциями связанных сущностей.
type FeedbackResponse struct {
	models.Feedback
	FromUser models.UserRef     `json:"from_user"`
	ToUser   models.UserRef     `json:"to_user"`
	Mission  *models.MissionRef `json:"mission,omitempty"`
}

// DisputeResponse спор с проекциями участников.
type DisputeResponse struct {
	models.Dispute
	RaisedBy models.UserRef `json:"raised_by"`
}

// MatchResult результат матчинга: сущность, оценка 0-100 и причины.
type MatchResult struct {
	Freelancer *FreelancerView `json:"freelancer,omitempty"`
	Mission    *models.Mission `json:"mission,omitempty"`
	MatchScore int             `json:"match_score"`
	Reasons    []string        `json:"match_reasons"`
}

// AuthResponse итог регистрации или входа.
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// ContractResponse контракт с вехами и проекциями сторон.
type ContractResponse struct {
	models.Contract
	Mission    models.MissionRef  `json:"mission"`
	Freelancer models.UserRef     `json:"freelancer"`
	Company    models.UserRef     `json:"company"`
	Milestones []models.Milestone `json:"milestones,omitempty"`
}
