package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/workmatch/workmatch-backend/internal/dto"
	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/repository/common"
)

var ErrDisputeNotFound = fmt.Errorf("dispute: %w", common.ErrNotFound)

// DisputeRepository отвечает за споры по контрактам.
type DisputeRepository struct {
	db *sqlx.DB
}

// NewDisputeRepository создаёт новый экземпляр.
func NewDisputeRepository(db *sqlx.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

type disputeRow struct {
	models.Dispute
	RaisedByName string `db:"raised_by_name"`
	RaisedByRole string `db:"raised_by_role"`
}

func (row *disputeRow) toResponse() *dto.DisputeResponse {
	return &dto.DisputeResponse{
		Dispute:  row.Dispute,
		RaisedBy: models.UserRef{ID: row.RaisedByID, Name: row.RaisedByName, Role: row.RaisedByRole},
	}
}

const disputeSelect = `
	SELECT d.*, u.name AS raised_by_name, u.role AS raised_by_role
	FROM disputes d
	JOIN users u ON u.id = d.raised_by_id
`

// Create открывает спор и возвращает его с проекцией инициатора.
func (r *DisputeRepository) Create(ctx context.Context, d *models.Dispute) (*dto.DisputeResponse, error) {
	query := `
		INSERT INTO disputes (contract_id, raised_by_id, reason, description, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		d.ContractID, d.RaisedByID, d.Reason, d.Description, d.Status,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("dispute repository: create %w", err)
	}
	return r.GetByID(ctx, d.ID)
}

// GetByID возвращает спор по ID.
func (r *DisputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*dto.DisputeResponse, error) {
	var row disputeRow
	err := r.db.GetContext(ctx, &row, disputeSelect+` WHERE d.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDisputeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("dispute repository: get by id %w", err)
	}
	return row.toResponse(), nil
}

// GetByContractID возвращает открытый спор по контракту, если он есть.
func (r *DisputeRepository) GetByContractID(ctx context.Context, contractID uuid.UUID) (*dto.DisputeResponse, error) {
	var row disputeRow
	err := r.db.GetContext(ctx, &row, disputeSelect+`
		WHERE d.contract_id = $1 AND d.status IN ($2, $3)
	`, contractID, models.DisputeStatusOpen, models.DisputeStatusInReview)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dispute repository: get by contract %w", err)
	}
	return row.toResponse(), nil
}

// ListByUser возвращает страницу споров по контрактам пользователя.
func (r *DisputeRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]*dto.DisputeResponse, pagination.Pagination, error) {
	page, limit = pagination.Normalize(page, limit)

	countQuery := `
		SELECT COUNT(*) FROM disputes d
		JOIN contracts c ON c.id = d.contract_id
		WHERE c.freelancer_id = $1 OR c.company_id = $1
	`
	pageQuery := disputeSelect + `
		JOIN contracts c ON c.id = d.contract_id
		WHERE c.freelancer_id = $1 OR c.company_id = $1
		ORDER BY d.created_at DESC LIMIT $2 OFFSET $3
	`
	rows, total, err := common.PagedQuery[disputeRow](ctx, r.db, countQuery, pageQuery,
		[]interface{}{userID},
		[]interface{}{userID, limit, pagination.Offset(page, limit)},
	)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("dispute repository: list by user %w", err)
	}

	items := make([]*dto.DisputeResponse, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toResponse())
	}
	return items, pagination.Paginate(total, page, limit), nil
}

// UpdateStatus меняет статус спора и при необходимости резолюцию.
func (r *DisputeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, resolution *string, resolvedBy *uuid.UUID) error {
	var resolvedAt *time.Time
	if status == models.DisputeStatusResolved || status == models.DisputeStatusClosed {
		now := time.Now()
		resolvedAt = &now
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE disputes SET
			status = $2,
			resolution = COALESCE($3, resolution),
			resolved_by = COALESCE($4, resolved_by),
			resolved_at = COALESCE($5, resolved_at),
			updated_at = NOW()
		WHERE id = $1
	`, id, status, resolution, resolvedBy, resolvedAt)
	if err != nil {
		return fmt.Errorf("dispute repository: update status %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrDisputeNotFound
	}
	return nil
}
