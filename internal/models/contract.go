package models

import (
	"time"

	"github.com/google/uuid"
)

// Contract связывает миссию, фрилансера и компанию.
// Переход в ACTIVE возможен только после подписей обеих сторон.
type Contract struct {
	ID               uuid.UUID `db:"id" json:"id"`
	MissionID        uuid.UUID `db:"mission_id" json:"mission_id"`
	FreelancerID     uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	CompanyID        uuid.UUID `db:"company_id" json:"company_id"`
	Status           string    `db:"status" json:"status"`
	FreelancerSigned bool      `db:"freelancer_signed" json:"freelancer_signed"`
	CompanySigned    bool      `db:"company_signed" json:"company_signed"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Milestone платёжная веха контракта (1:N).
type Milestone struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ContractID uuid.UUID  `db:"contract_id" json:"contract_id"`
	Title      string     `db:"title" json:"title"`
	Amount     float64    `db:"amount" json:"amount"`
	Status     string     `db:"status" json:"status"`
	DueDate    *time.Time `db:"due_date" json:"due_date,omitempty"`
	PaidAt     *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// TrackingEntry учёт отработанных часов по контракту.
// Запись с approved=true неизменяема.
type TrackingEntry struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ContractID  uuid.UUID `db:"contract_id" json:"contract_id"`
	Date        time.Time `db:"date" json:"date"`
	Hours       float64   `db:"hours" json:"hours"`
	Description *string   `db:"description" json:"description,omitempty"`
	Approved    bool      `db:"approved" json:"approved"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
