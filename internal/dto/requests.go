package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pkg/apperror"
	"github.com/workmatch/workmatch-backend/internal/validation"
)

// RegisterRequest описывает запрос регистрации.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// Validate проверяет поля запроса регистрации.
func (r *RegisterRequest) Validate() error {
	if err := validation.ValidateEmail(r.Email); err != nil {
		return apperror.Validation("email", err.Error())
	}
	if err := validation.ValidatePassword(r.Password); err != nil {
		return apperror.Validation("password", err.Error())
	}
	if err := validation.ValidateLength("name", r.Name, validation.MinNameLength, validation.MaxNameLength); err != nil {
		return apperror.Validation("name", err.Error())
	}
	if _, ok := models.ValidRoles[r.Role]; !ok || r.Role == models.RoleAdmin {
		return apperror.Validation("role", "роль должна быть FREELANCE или COMPANY")
	}
	return nil
}

// LoginRequest описывает запрос входа.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest описывает запрос обновления токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateMissionRequest описывает создание миссии компанией.
type CreateMissionRequest struct {
	Title          string   `json:"title" binding:"required"`
	Description    string   `json:"description" binding:"required"`
	RequiredSkills []string `json:"required_skills"`
	OptionalSkills []string `json:"optional_skills"`
	BudgetMin      *float64 `json:"budget_min"`
	BudgetMax      *float64 `json:"budget_max"`
	Modality       *string  `json:"modality"`
	Urgency        *string  `json:"urgency"`
	Experience     *string  `json:"experience"`
}

// Validate проверяет поля создаваемой миссии.
func (r *CreateMissionRequest) Validate() error {
	if err := validation.ValidateLength("title", r.Title, validation.MinMissionTitleLength, validation.MaxMissionTitleLength); err != nil {
		return apperror.Validation("title", err.Error())
	}
	if err := validation.ValidateLength("description", r.Description, validation.MinMissionDescriptionLength, validation.MaxMissionDescriptionLength); err != nil {
		return apperror.Validation("description", err.Error())
	}
	if err := validation.ValidateSkills(r.RequiredSkills); err != nil {
		return apperror.Validation("required_skills", err.Error())
	}
	if err := validation.ValidateSkills(r.OptionalSkills); err != nil {
		return apperror.Validation("optional_skills", err.Error())
	}
	if err := validation.ValidateBudgetRange(r.BudgetMin, r.BudgetMax); err != nil {
		return apperror.Validation("budget_min", err.Error())
	}
	return nil
}

// UpdateMissionRequest частичное обновление миссии.
type UpdateMissionRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	OptionalSkills []string `json:"optional_skills"`
	BudgetMin      *float64 `json:"budget_min"`
	BudgetMax      *float64 `json:"budget_max"`
	Modality       *string  `json:"modality"`
	Urgency        *string  `json:"urgency"`
	Experience     *string  `json:"experience"`
}

// Validate проверяет только переданные поля.
func (r *UpdateMissionRequest) Validate() error {
	if r.Title != nil {
		if err := validation.ValidateLength("title", *r.Title, validation.MinMissionTitleLength, validation.MaxMissionTitleLength); err != nil {
			return apperror.Validation("title", err.Error())
		}
	}
	if r.Description != nil {
		if err := validation.ValidateLength("description", *r.Description, validation.MinMissionDescriptionLength, validation.MaxMissionDescriptionLength); err != nil {
			return apperror.Validation("description", err.Error())
		}
	}
	if err := validation.ValidateSkills(r.RequiredSkills); err != nil {
		return apperror.Validation("required_skills", err.Error())
	}
	if err := validation.ValidateBudgetRange(r.BudgetMin, r.BudgetMax); err != nil {
		return apperror.Validation("budget_min", err.Error())
	}
	return nil
}

// CreateApplicationRequest отклик фрилансера на миссию.
type CreateApplicationRequest struct {
	CoverLetter *string `json:"cover_letter"`
}

// Validate проверяет сопроводительное письмо, если оно передано.
func (r *CreateApplicationRequest) Validate() error {
	if r.CoverLetter != nil {
		if err := validation.ValidateLength("cover_letter", *r.CoverLetter, validation.MinCoverLetterLength, validation.MaxCoverLetterLength); err != nil {
			return apperror.Validation("cover_letter", err.Error())
		}
	}
	return nil
}

// UpdateApplicationStatusRequest смена статуса отклика.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ScheduleInterviewRequest назначение собеседования по отклику.
type ScheduleInterviewRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	DurationMin int       `json:"duration_min" binding:"required"`
	MeetingLink *string   `json:"meeting_link"`
}

// Validate проверяет параметры собеседования.
func (r *ScheduleInterviewRequest) Validate() error {
	if r.DurationMin < 15 || r.DurationMin > 480 {
		return apperror.Validation("duration_min", "длительность должна быть от 15 до 480 минут")
	}
	return nil
}

// CompleteInterviewRequest завершение собеседования.
type CompleteInterviewRequest struct {
	Rating *int    `json:"rating"`
	Notes  *string `json:"notes"`
}

// Validate проверяет необязательную оценку собеседования.
func (r *CompleteInterviewRequest) Validate() error {
	if r.Rating != nil {
		if err := validation.ValidateRating("rating", *r.Rating); err != nil {
			return apperror.Validation("rating", err.Error())
		}
	}
	return nil
}

// CreateContractRequest создание контракта по принятому отклику.
type CreateContractRequest struct {
	MissionID    uuid.UUID `json:"mission_id" binding:"required"`
	FreelancerID uuid.UUID `json:"freelancer_id" binding:"required"`
}

// CreateMilestoneRequest создание вехи контракта.
type CreateMilestoneRequest struct {
	Title   string     `json:"title" binding:"required"`
	Amount  float64    `json:"amount" binding:"required"`
	DueDate *time.Time `json:"due_date"`
}

// Validate проверяет поля вехи.
func (r *CreateMilestoneRequest) Validate() error {
	if err := validation.ValidateLength("title", r.Title, 1, validation.MaxMissionTitleLength); err != nil {
		return apperror.Validation("title", err.Error())
	}
	if r.Amount <= 0 {
		return apperror.Validation("amount", "сумма вехи должна быть положительной")
	}
	return nil
}

// UpdateMilestoneStatusRequest смена статуса вехи.
type UpdateMilestoneStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateTrackingRequest запись отработанных часов.
type CreateTrackingRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Hours       float64   `json:"hours" binding:"required"`
	Description *string   `json:"description"`
}

// Validate проверяет запись учёта времени.
func (r *CreateTrackingRequest) Validate() error {
	if r.Hours <= 0 || r.Hours > validation.MaxHoursPerEntry {
		return apperror.Validation("hours", "часы должны быть в диапазоне (0, 24]")
	}
	return nil
}

// CreateFeedbackRequest создание отзыва.
// Обязательна привязка либо к миссии, либо к контракту.
type CreateFeedbackRequest struct {
	ToUserID   uuid.UUID      `json:"to_user_id" binding:"required"`
	MissionID  *uuid.UUID     `json:"mission_id"`
	ContractID *uuid.UUID     `json:"contract_id"`
	Rating     int            `json:"rating" binding:"required"`
	Comment    *string        `json:"comment"`
	Skills     map[string]int `json:"skills"`
	IsPublic   *bool          `json:"is_public"`
}

// Validate проверяет поля отзыва, включая межполевое правило.
func (r *CreateFeedbackRequest) Validate() error {
	if r.ToUserID == uuid.Nil {
		return apperror.Validation("to_user_id", "получатель отзыва обязателен")
	}
	if err := validation.ValidateRating("rating", r.Rating); err != nil {
		return apperror.Validation("rating", err.Error())
	}
	// Межполевое правило: отзыв должен ссылаться на миссию или контракт.
	// При нарушении ошибка привязывается к полю mission_id.
	if r.MissionID == nil && r.ContractID == nil {
		return apperror.Validation("mission_id", "требуется mission_id или contract_id")
	}
	if r.Comment != nil {
		if err := validation.ValidateLength("comment", *r.Comment, 0, validation.MaxCommentLength); err != nil {
			return apperror.Validation("comment", err.Error())
		}
	}
	for name, level := range r.Skills {
		if err := validation.ValidateRating("skills."+name, level); err != nil {
			return apperror.Validation("skills."+name, err.Error())
		}
	}
	return nil
}

// Public возвращает значение is_public с учётом дефолта true.
func (r *CreateFeedbackRequest) Public() bool {
	if r.IsPublic == nil {
		return true
	}
	return *r.IsPublic
}

// UpdateFeedbackRequest частичное обновление отзыва.
type UpdateFeedbackRequest struct {
	Rating   *int           `json:"rating"`
	Comment  *string        `json:"comment"`
	Skills   map[string]int `json:"skills"`
	IsPublic *bool          `json:"is_public"`
}

// Validate проверяет только переданные поля, границы те же, что при создании.
func (r *UpdateFeedbackRequest) Validate() error {
	if r.Rating != nil {
		if err := validation.ValidateRating("rating", *r.Rating); err != nil {
			return apperror.Validation("rating", err.Error())
		}
	}
	if r.Comment != nil {
		if err := validation.ValidateLength("comment", *r.Comment, 0, validation.MaxCommentLength); err != nil {
			return apperror.Validation("comment", err.Error())
		}
	}
	for name, level := range r.Skills {
		if err := validation.ValidateRating("skills."+name, level); err != nil {
			return apperror.Validation("skills."+name, err.Error())
		}
	}
	return nil
}

// CreateDisputeRequest открытие спора по контракту.
type CreateDisputeRequest struct {
	ContractID  uuid.UUID `json:"contract_id" binding:"required"`
	Reason      string    `json:"reason" binding:"required"`
	Description string    `json:"description" binding:"required"`
}

// Validate проверяет поля спора.
func (r *CreateDisputeRequest) Validate() error {
	if r.ContractID == uuid.Nil {
		return apperror.Validation("contract_id", "контракт обязателен")
	}
	if err := validation.ValidateLength("reason", r.Reason, validation.MinDisputeReasonLength, validation.MaxDisputeReasonLength); err != nil {
		return apperror.Validation("reason", err.Error())
	}
	if err := validation.ValidateLength("description", r.Description, validation.MinDisputeDescriptionLength, validation.MaxDisputeDescriptionLength); err != nil {
		return apperror.Validation("description", err.Error())
	}
	return nil
}

// UpdateDisputeRequest обновление спора.
type UpdateDisputeRequest struct {
	Status     *string `json:"status"`
	Resolution *string `json:"resolution"`
}

// Validate проверяет необязательный статус.
func (r *UpdateDisputeRequest) Validate() error {
	if r.Status != nil {
		if _, ok := models.ValidDisputeStatuses[*r.Status]; !ok {
			return apperror.Validation("status", "недопустимый статус спора")
		}
	}
	return nil
}

// ResolveDisputeRequest закрытие спора с резолюцией.
// Статус по умолчанию RESOLVED, допустим также CLOSED.
type ResolveDisputeRequest struct {
	Resolution string  `json:"resolution" binding:"required"`
	Status     *string `json:"status"`
}

// Validate проверяет резолюцию и итоговый статус.
func (r *ResolveDisputeRequest) Validate() error {
	if err := validation.ValidateLength("resolution", r.Resolution, validation.MinResolutionLength, 0); err != nil {
		return apperror.Validation("resolution", err.Error())
	}
	if r.Status != nil && *r.Status != models.DisputeStatusResolved && *r.Status != models.DisputeStatusClosed {
		return apperror.Validation("status", "статус должен быть RESOLVED или CLOSED")
	}
	return nil
}

// TargetStatus возвращает итоговый статус спора с учётом дефолта RESOLVED.
func (r *ResolveDisputeRequest) TargetStatus() string {
	if r.Status == nil {
		return models.DisputeStatusResolved
	}
	return *r.Status
}

// UpdateUserStatusRequest блокировка/разблокировка пользователя (ADMIN).
type UpdateUserStatusRequest struct {
	IsActive bool `json:"is_active"`
}

// CreatePortfolioItemRequest создание элемента портфолио.
type CreatePortfolioItemRequest struct {
	Title        string  `json:"title" binding:"required"`
	Description  *string `json:"description"`
	ExternalLink *string `json:"external_link"`
}

// Validate проверяет поля элемента портфолио.
func (r *CreatePortfolioItemRequest) Validate() error {
	if err := validation.ValidateLength("title", r.Title, 1, validation.MaxMissionTitleLength); err != nil {
		return apperror.Validation("title", err.Error())
	}
	if r.Description != nil {
		if err := validation.ValidateLength("description", *r.Description, 0, validation.MaxCommentLength); err != nil {
			return apperror.Validation("description", err.Error())
		}
	}
	return nil
}

// UpdateFreelancerProfileRequest обновление профиля фрилансера.
type UpdateFreelancerProfileRequest struct {
	Title                 *string        `json:"title"`
	Bio                   *string        `json:"bio"`
	Skills                []models.Skill `json:"skills"`
	DailyRate             *float64       `json:"daily_rate"`
	AvailabilityStatus    *string        `json:"availability_status"`
	AvailabilityStartDate *time.Time     `json:"availability_start_date"`
	Location              *string        `json:"location"`
	Languages             []string       `json:"languages"`
}

// Validate проверяет переданные поля профиля.
func (r *UpdateFreelancerProfileRequest) Validate() error {
	if len(r.Skills) > validation.MaxSkillsCount {
		return apperror.Validation("skills", "слишком много навыков")
	}
	for _, s := range r.Skills {
		if s.Name == "" {
			return apperror.Validation("skills", "название навыка не может быть пустым")
		}
		if err := validation.ValidateRating("skills."+s.Name, s.Level); err != nil {
			return apperror.Validation("skills."+s.Name, err.Error())
		}
	}
	if r.DailyRate != nil && *r.DailyRate < 0 {
		return apperror.Validation("daily_rate", "ставка не может быть отрицательной")
	}
	return nil
}

// UpdateCompanyProfileRequest обновление профиля компании.
type UpdateCompanyProfileRequest struct {
	Name     *string  `json:"name"`
	Industry *string  `json:"industry"`
	Size     *string  `json:"size"`
	Values   []string `json:"values"`
}
