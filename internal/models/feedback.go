package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SkillRatings оценки по отдельным навыкам (имя навыка -> 1..5), JSONB.
type SkillRatings map[string]int

// Value сериализует оценки для записи в БД.
func (r SkillRatings) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r)
}

// Scan читает оценки из JSONB колонки.
func (r *SkillRatings) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = SkillRatings{}
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("skill ratings: неподдерживаемый тип %T", src)
	}
}

// Feedback отзыв пользователя о другом пользователе.
// Привязан минимум к одной из сущностей: миссии или контракту.
type Feedback struct {
	ID         uuid.UUID    `db:"id" json:"id"`
	FromUserID uuid.UUID    `db:"from_user_id" json:"from_user_id"`
	ToUserID   uuid.UUID    `db:"to_user_id" json:"to_user_id"`
	MissionID  *uuid.UUID   `db:"mission_id" json:"mission_id,omitempty"`
	ContractID *uuid.UUID   `db:"contract_id" json:"contract_id,omitempty"`
	Rating     int          `db:"rating" json:"rating"`
	Comment    *string      `db:"comment" json:"comment,omitempty"`
	Skills     SkillRatings `db:"skills" json:"skills"`
	IsPublic   bool         `db:"is_public" json:"is_public"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// UserRating агрегированный рейтинг пользователя по публичным отзывам.
type UserRating struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// Dispute спор по контракту.
type Dispute struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ContractID  uuid.UUID  `db:"contract_id" json:"contract_id"`
	RaisedByID  uuid.UUID  `db:"raised_by_id" json:"raised_by_id"`
	Reason      string     `db:"reason" json:"reason"`
	Description string     `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	Resolution  *string    `db:"resolution" json:"resolution,omitempty"`
	ResolvedBy  *uuid.UUID `db:"resolved_by" json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Notification уведомление пользователя о событии платформы.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	Event     string          `db:"event" json:"event"`
	Data      json.RawMessage `db:"data" json:"data"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
