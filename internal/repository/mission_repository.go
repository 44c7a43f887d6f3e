package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/repository/common"
)

var ErrMissionNotFound = fmt.Errorf("mission: %w", common.ErrNotFound)

// MissionRepository отвечает за миссии компаний.
type MissionRepository struct {
	db *sqlx.DB
}

// NewMissionRepository создаёт новый экземпляр.
func NewMissionRepository(db *sqlx.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

// Create создаёт миссию в статусе DRAFT.
func (r *MissionRepository) Create(ctx context.Context, m *models.Mission) error {
	query := `
		INSERT INTO missions (company_id, title, description, required_skills, optional_skills, budget_min, budget_max, modality, urgency, experience, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		m.CompanyID, m.Title, m.Description,
		pq.Array([]string(m.RequiredSkills)), pq.Array([]string(m.OptionalSkills)),
		m.BudgetMin, m.BudgetMax, m.Modality, m.Urgency, m.Experience, m.Status,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID возвращает миссию по ID.
func (r *MissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	return common.GetByID[models.Mission](ctx, r.db, "missions", id, ErrMissionNotFound)
}

// GetRef возвращает минимальную проекцию миссии.
func (r *MissionRepository) GetRef(ctx context.Context, id uuid.UUID) (*models.MissionRef, error) {
	var ref models.MissionRef
	err := r.db.GetContext(ctx, &ref, `SELECT id, title FROM missions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMissionNotFound
	}
	return &ref, err
}

// MissionFilters параметры списочного запроса миссий.
type MissionFilters struct {
	Status    string
	CompanyID *uuid.UUID
	Skill     string
}

// List возвращает страницу миссий с фильтрами.
// COUNT и страница выполняются параллельно.
func (r *MissionRepository) List(ctx context.Context, f MissionFilters, page, limit int) ([]models.Mission, pagination.Pagination, error) {
	page, limit = pagination.Normalize(page, limit)

	conds := []string{"1=1"}
	args := []interface{}{}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.CompanyID != nil {
		args = append(args, *f.CompanyID)
		conds = append(conds, fmt.Sprintf("company_id = $%d", len(args)))
	}
	if f.Skill != "" {
		// Совпадение по точному имени навыка в required_skills.
		args = append(args, f.Skill)
		conds = append(conds, fmt.Sprintf("$%d = ANY(required_skills)", len(args)))
	}

	where := "WHERE " + strings.Join(conds, " AND ")
	countQuery := "SELECT COUNT(*) FROM missions " + where
	pageQuery := fmt.Sprintf(
		"SELECT * FROM missions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	pageArgs := append(append([]interface{}{}, args...), limit, pagination.Offset(page, limit))

	missions, total, err := common.PagedQuery[models.Mission](ctx, r.db, countQuery, pageQuery, args, pageArgs)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("mission repository: list %w", err)
	}
	return missions, pagination.Paginate(total, page, limit), nil
}

// ListPublished возвращает пул опубликованных миссий для матчинга.
func (r *MissionRepository) ListPublished(ctx context.Context, limit int) ([]models.Mission, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var missions []models.Mission
	err := r.db.SelectContext(ctx, &missions, `
		SELECT * FROM missions WHERE status = $1 ORDER BY created_at ASC LIMIT $2
	`, models.MissionStatusPublished, limit)
	if err != nil {
		return nil, fmt.Errorf("mission repository: list published %w", err)
	}
	return missions, nil
}

// Update обновляет поля миссии.
func (r *MissionRepository) Update(ctx context.Context, m *models.Mission) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE missions SET
			title = $2, description = $3,
			required_skills = $4, optional_skills = $5,
			budget_min = $6, budget_max = $7,
			modality = $8, urgency = $9, experience = $10,
			updated_at = NOW()
		WHERE id = $1
	`, m.ID, m.Title, m.Description,
		pq.Array([]string(m.RequiredSkills)), pq.Array([]string(m.OptionalSkills)),
		m.BudgetMin, m.BudgetMax, m.Modality, m.Urgency, m.Experience)
	if err != nil {
		return fmt.Errorf("mission repository: update %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrMissionNotFound
	}
	return nil
}

// UpdateStatus меняет статус миссии.
func (r *MissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE missions SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("mission repository: update status %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrMissionNotFound
	}
	return nil
}

// Delete удаляет миссию. Допустимо только для черновиков,
// проверка выполняется на уровне сервиса.
func (r *MissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM missions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrMissionNotFound
	}
	return nil
}
