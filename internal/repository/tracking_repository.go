package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/repository/common"
)

var (
	ErrTrackingNotFound = fmt.Errorf("tracking entry: %w", common.ErrNotFound)
	// ErrTrackingApproved возвращается при попытке изменить
	// или удалить уже согласованную запись.
	ErrTrackingApproved = errors.New("tracking entry already approved")
)

// TrackingRepository отвечает за записи учёта времени.
type TrackingRepository struct {
	db *sqlx.DB
}

// NewTrackingRepository создаёт новый экземпляр.
func NewTrackingRepository(db *sqlx.DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// Create создаёт запись учёта времени.
func (r *TrackingRepository) Create(ctx context.Context, e *models.TrackingEntry) error {
	query := `
		INSERT INTO tracking_entries (contract_id, date, hours, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, approved, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		e.ContractID, e.Date, e.Hours, e.Description,
	).Scan(&e.ID, &e.Approved, &e.CreatedAt, &e.UpdatedAt)
	return common.TranslateConstraint(err)
}

// GetByID возвращает запись по ID.
func (r *TrackingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TrackingEntry, error) {
	return common.GetByID[models.TrackingEntry](ctx, r.db, "tracking_entries", id, ErrTrackingNotFound)
}

// ListByContract возвращает страницу записей по контракту.
func (r *TrackingRepository) ListByContract(ctx context.Context, contractID uuid.UUID, page, limit int) ([]models.TrackingEntry, pagination.Pagination, error) {
	page, limit = pagination.Normalize(page, limit)
	entries, total, err := common.PagedQuery[models.TrackingEntry](ctx, r.db,
		`SELECT COUNT(*) FROM tracking_entries WHERE contract_id = $1`,
		`SELECT * FROM tracking_entries WHERE contract_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`,
		[]interface{}{contractID},
		[]interface{}{contractID, limit, pagination.Offset(page, limit)},
	)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("tracking repository: list by contract %w", err)
	}
	return entries, pagination.Paginate(total, page, limit), nil
}

// Update обновляет несогласованную запись.
// Согласованные записи неизменяемы: условие approved = FALSE.
func (r *TrackingRepository) Update(ctx context.Context, e *models.TrackingEntry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tracking_entries SET date = $2, hours = $3, description = $4, updated_at = NOW()
		WHERE id = $1 AND approved = FALSE
	`, e.ID, e.Date, e.Hours, e.Description)
	if err != nil {
		return fmt.Errorf("tracking repository: update %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return r.notFoundOrApproved(ctx, e.ID)
	}
	return nil
}

// Approve согласовывает запись.
func (r *TrackingRepository) Approve(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tracking_entries SET approved = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("tracking repository: approve %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrTrackingNotFound
	}
	return nil
}

// Delete удаляет несогласованную запись.
func (r *TrackingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM tracking_entries WHERE id = $1 AND approved = FALSE
	`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return r.notFoundOrApproved(ctx, id)
	}
	return nil
}

// notFoundOrApproved различает отсутствие записи и запрет изменения.
func (r *TrackingRepository) notFoundOrApproved(ctx context.Context, id uuid.UUID) error {
	entry, err := r.GetByID(ctx, id)
	if err != nil {
		return ErrTrackingNotFound
	}
	if entry.Approved {
		return ErrTrackingApproved
	}
	return ErrTrackingNotFound
}
