package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/repository/common"
)

var (
	ErrApplicationNotFound = fmt.Errorf("application: %w", common.ErrNotFound)
	ErrInterviewNotFound   = fmt.Errorf("interview: %w", common.ErrNotFound)
)

// ApplicationRepository отвечает за отклики и собеседования.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository создаёт новый экземпляр.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create создаёт отклик в статусе PENDING.
func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	query := `
		INSERT INTO applications (mission_id, freelancer_id, cover_letter, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		a.MissionID, a.FreelancerID, a.CoverLetter, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return common.TranslateConstraint(err)
}

// GetByID возвращает отклик по ID.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return common.GetByID[models.Application](ctx, r.db, "applications", id, ErrApplicationNotFound)
}

// GetByMissionAndFreelancer проверяет, откликался ли фрилансер на миссию.
func (r *ApplicationRepository) GetByMissionAndFreelancer(ctx context.Context, missionID, freelancerID uuid.UUID) (*models.Application, error) {
	var a models.Application
	err := r.db.GetContext(ctx, &a, `
		SELECT * FROM applications WHERE mission_id = $1 AND freelancer_id = $2
	`, missionID, freelancerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByMission возвращает страницу откликов на миссию.
func (r *ApplicationRepository) ListByMission(ctx context.Context, missionID uuid.UUID, page, limit int) ([]models.Application, pagination.Pagination, error) {
	page, limit = pagination.Normalize(page, limit)
	apps, total, err := common.PagedQuery[models.Application](ctx, r.db,
		`SELECT COUNT(*) FROM applications WHERE mission_id = $1`,
		`SELECT * FROM applications WHERE mission_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		[]interface{}{missionID},
		[]interface{}{missionID, limit, pagination.Offset(page, limit)},
	)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("application repository: list by mission %w", err)
	}
	return apps, pagination.Paginate(total, page, limit), nil
}

// ListByFreelancer возвращает страницу откликов фрилансера.
func (r *ApplicationRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, page, limit int) ([]models.Application, pagination.Pagination, error) {
	page, limit = pagination.Normalize(page, limit)
	apps, total, err := common.PagedQuery[models.Application](ctx, r.db,
		`SELECT COUNT(*) FROM applications WHERE freelancer_id = $1`,
		`SELECT * FROM applications WHERE freelancer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		[]interface{}{freelancerID},
		[]interface{}{freelancerID, limit, pagination.Offset(page, limit)},
	)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("application repository: list by freelancer %w", err)
	}
	return apps, pagination.Paginate(total, page, limit), nil
}

// UpdateStatus меняет статус отклика.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("application repository: update status %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// ScheduleInterview создаёт собеседование и переводит отклик
// в новый статус одной транзакцией.
func (r *ApplicationRepository) ScheduleInterview(ctx context.Context, i *models.Interview, status string) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO interviews (application_id, scheduled_at, duration_min, meeting_link)
			VALUES ($1, $2, $3, $4)
			RETURNING id, completed, created_at, updated_at
		`, i.ApplicationID, i.ScheduledAt, i.DurationMin, i.MeetingLink,
		).Scan(&i.ID, &i.Completed, &i.CreatedAt, &i.UpdatedAt)
		if err != nil {
			return fmt.Errorf("application repository: schedule interview %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1
		`, i.ApplicationID, status)
		if err != nil {
			return fmt.Errorf("application repository: schedule interview status %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return ErrApplicationNotFound
		}
		return nil
	})
}

// GetInterviewByID возвращает собеседование по ID.
func (r *ApplicationRepository) GetInterviewByID(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	return common.GetByID[models.Interview](ctx, r.db, "interviews", id, ErrInterviewNotFound)
}

// CompleteInterview помечает собеседование завершённым.
// Завершённое собеседование терминально, повторное завершение отклоняется
// условием completed = FALSE.
func (r *ApplicationRepository) CompleteInterview(ctx context.Context, id uuid.UUID, rating *int, notes *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE interviews SET completed = TRUE, rating = $2, notes = $3, updated_at = NOW()
		WHERE id = $1 AND completed = FALSE
	`, id, rating, notes)
	if err != nil {
		return fmt.Errorf("application repository: complete interview %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrInterviewNotFound
	}
	return nil
}
