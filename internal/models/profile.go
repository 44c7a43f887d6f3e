package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Skill описывает навык фрилансера с уровнем владения (1-5).
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// SkillList хранится в JSONB, порядок навыков сохраняется.
type SkillList []Skill

// Value сериализует список навыков для записи в БД.
func (s SkillList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan читает список навыков из JSONB колонки.
func (s *SkillList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = SkillList{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("skill list: неподдерживаемый тип %T", src)
	}
}

// FreelancerProfile описывает профиль фрилансера (1:1 к пользователю).
type FreelancerProfile struct {
	UserID                uuid.UUID      `db:"user_id" json:"user_id"`
	Title                 string         `db:"title" json:"title"`
	Bio                   *string        `db:"bio" json:"bio,omitempty"`
	Skills                SkillList      `db:"skills" json:"skills"`
	DailyRate             *float64       `db:"daily_rate" json:"daily_rate,omitempty"`
	AvailabilityStatus    string         `db:"availability_status" json:"availability_status"`
	AvailabilityStartDate *time.Time     `db:"availability_start_date" json:"availability_start_date,omitempty"`
	Location              *string        `db:"location" json:"location,omitempty"`
	Languages             pq.StringArray `db:"languages" json:"languages"`
	CVPath                *string        `db:"cv_path" json:"cv_path,omitempty"`
	CreatedAt             time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at" json:"updated_at"`
}

// PortfolioItem элемент портфолио фрилансера (1:N).
type PortfolioItem struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FreelancerID uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	Title        string    `db:"title" json:"title"`
	Description  *string   `db:"description" json:"description,omitempty"`
	ExternalLink *string   `db:"external_link" json:"external_link,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CompanyProfile описывает профиль компании (1:1 к пользователю).
type CompanyProfile struct {
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Name      string         `db:"name" json:"name"`
	Industry  *string        `db:"industry" json:"industry,omitempty"`
	Size      *string        `db:"size" json:"size,omitempty"`
	Values    pq.StringArray `db:"values" json:"values"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
