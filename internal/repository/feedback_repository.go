package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/repository/common"
)

var ErrFeedbackNotFound = fmt.Errorf("feedback: %w", common.ErrNotFound)

// FeedbackRepository отвечает за отзывы и агрегированный рейтинг.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository создаёт новый экземпляр.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// feedbackRow строка JOIN запроса: отзыв плюс минимальные проекции
// связанных сущностей. Полные строки пользователей наружу не отдаются.
type feedbackRow struct {
	models.Feedback
	FromName     string  `db:"from_name"`
	FromRole     string  `db:"from_role"`
	ToName       string  `db:"to_name"`
	ToRole       string  `db:"to_role"`
	MissionTitle *string `db:"mission_title"`
}

func (row *feedbackRow) toResponse() *dto.FeedbackResponse {
	resp := &dto.FeedbackResponse{
		Feedback: row.Feedback,
		FromUser: models.UserRef{ID: row.FromUserID, Name: row.FromName, Role: row.FromRole},
		ToUser:   models.UserRef{ID: row.ToUserID, Name: row.ToName, Role: row.ToRole},
	}
	if row.MissionID != nil && row.MissionTitle != nil {
		resp.Mission = &models.MissionRef{ID: *row.MissionID, Title: *row.MissionTitle}
	}
	return resp
}

const feedbackSelect = `
	SELECT f.*,
	       fu.name AS from_name, fu.role AS from_role,
	       tu.name AS to_name, tu.role AS to_role,
	       m.title AS mission_title
	FROM feedback f
	JOIN users fu ON fu.id = f.from_user_id
	JOIN users tu ON tu.id = f.to_user_id
	LEFT JOIN missions m ON m.id = f.mission_id
`

// Create сохраняет отзыв и возвращает его вместе с проекциями
// связанных сущностей.
func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) (*dto.FeedbackResponse, error) {
	query := `
		INSERT INTO feedback (from_user_id, to_user_id, mission_id, contract_id, rating, comment, skills, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		f.FromUserID, f.ToUserID, f.MissionID, f.ContractID,
		f.Rating, f.Comment, f.Skills, f.IsPublic,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("feedback repository: create %w", common.TranslateConstraint(err))
	}
	return r.GetByID(ctx, f.ID)
}

// GetByID возвращает отзыв с проекциями, либо ErrFeedbackNotFound.
func (r *FeedbackRepository) GetByID(ctx context.Context, id uuid.UUID) (*dto.FeedbackResponse, error) {
	var row feedbackRow
	err := r.db.GetContext(ctx, &row, feedbackSelect+` WHERE f.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("feedback repository: get by id %w", err)
	}
	return row.toResponse(), nil
}

// ListByToUser возвращает страницу отзывов о пользователе.
// isPublic=nil означает отсутствие фильтра по видимости.
func (r *FeedbackRepository) ListByToUser(ctx context.Context, toUserID uuid.UUID, isPublic *bool, page, limit int) ([]*dto.FeedbackResponse, pagination.Pagination, error) {
	page, limit = pagination.Normalize(page, limit)

	where := `WHERE f.to_user_id = $1`
	countArgs := []interface{}{toUserID}
	if isPublic != nil {
		where += ` AND f.is_public = $2`
		countArgs = append(countArgs, *isPublic)
	}

	countQuery := `SELECT COUNT(*) FROM feedback f ` + where
	pageQuery := fmt.Sprintf(
		feedbackSelect+` %s ORDER BY f.created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(countArgs)+1, len(countArgs)+2,
	)
	pageArgs := append(append([]interface{}{}, countArgs...), limit, pagination.Offset(page, limit))

	rows, total, err := common.PagedQuery[feedbackRow](ctx, r.db, countQuery, pageQuery, countArgs, pageArgs)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("feedback repository: list by user %w", err)
	}

	items := make([]*dto.FeedbackResponse, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toResponse())
	}
	return items, pagination.Paginate(total, page, limit), nil
}

// Update частично обновляет отзыв и возвращает его с проекциями.
func (r *FeedbackRepository) Update(ctx context.Context, id uuid.UUID, rating *int, comment *string, skills models.SkillRatings, isPublic *bool) (*dto.FeedbackResponse, error) {
	// nil означает "не менять": в запрос уходит NULL, а не пустой объект.
	var skillsArg interface{}
	if skills != nil {
		skillsArg = skills
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE feedback SET
			rating = COALESCE($2, rating),
			comment = COALESCE($3, comment),
			skills = COALESCE($4, skills),
			is_public = COALESCE($5, is_public),
			updated_at = NOW()
		WHERE id = $1
	`, id, rating, comment, skillsArg, isPublic)
	if err != nil {
		return nil, fmt.Errorf("feedback repository: update %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, ErrFeedbackNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete удаляет отзыв.
func (r *FeedbackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

// CalculateUserRating возвращает средний рейтинг и количество отзывов
// по публичным отзывам, адресованным пользователю. Приватные отзывы
// в агрегат не входят; при отсутствии строк оба значения нулевые.
func (r *FeedbackRepository) CalculateUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error) {
	var result struct {
		Avg   sql.NullFloat64 `db:"avg"`
		Count int             `db:"count"`
	}
	err := r.db.GetContext(ctx, &result, `
		SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count
		FROM feedback
		WHERE to_user_id = $1 AND is_public = TRUE
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("feedback repository: calculate rating %w", err)
	}
	return &models.UserRating{
		AverageRating: result.Avg.Float64,
		TotalReviews:  result.Count,
	}, nil
}
