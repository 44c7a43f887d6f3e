package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Mission описывает миссию (заказ), размещённую компанией.
type Mission struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	CompanyID      uuid.UUID      `db:"company_id" json:"company_id"`
	Title          string         `db:"title" json:"title"`
	Description    string         `db:"description" json:"description"`
	RequiredSkills pq.StringArray `db:"required_skills" json:"required_skills"`
	OptionalSkills pq.StringArray `db:"optional_skills" json:"optional_skills"`
	BudgetMin      *float64       `db:"budget_min" json:"budget_min,omitempty"`
	BudgetMax      *float64       `db:"budget_max" json:"budget_max,omitempty"`
	Modality       *string        `db:"modality" json:"modality,omitempty"`
	Urgency        *string        `db:"urgency" json:"urgency,omitempty"`
	Experience     *string        `db:"experience" json:"experience,omitempty"`
	Status         string         `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// MissionRef минимальная проекция миссии для вложенных ответов.
type MissionRef struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Title string    `db:"title" json:"title"`
}

// Application представляет отклик фрилансера на миссию.
type Application struct {
	ID           uuid.UUID `db:"id" json:"id"`
	MissionID    uuid.UUID `db:"mission_id" json:"mission_id"`
	FreelancerID uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	CoverLetter  *string   `db:"cover_letter" json:"cover_letter,omitempty"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Interview описывает собеседование по отклику.
// После completed=true запись терминальна и не изменяется.
type Interview struct {
	ID            uuid.UUID `db:"id" json:"id"`
	ApplicationID uuid.UUID `db:"application_id" json:"application_id"`
	ScheduledAt   time.Time `db:"scheduled_at" json:"scheduled_at"`
	DurationMin   int       `db:"duration_min" json:"duration_min"`
	MeetingLink   *string   `db:"meeting_link" json:"meeting_link,omitempty"`
	Completed     bool      `db:"completed" json:"completed"`
	Rating        *int      `db:"rating" json:"rating,omitempty"`
	Notes         *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
