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

var (
	ErrContractNotFound  = fmt.Errorf("contract: %w", common.ErrNotFound)
	ErrMilestoneNotFound = fmt.Errorf("milestone: %w", common.ErrNotFound)
)

// ContractRepository отвечает за контракты и их вехи.
type ContractRepository struct {
	db *sqlx.DB
}

// NewContractRepository создаёт новый экземпляр.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// contractRow строка JOIN запроса: контракт плюс минимальные проекции
// миссии и сторон.
type contractRow struct {
	models.Contract
	MissionTitle   string `db:"mission_title"`
	FreelancerName string `db:"freelancer_name"`
	FreelancerRole string `db:"freelancer_role"`
	CompanyName    string `db:"company_name"`
	CompanyRole    string `db:"company_role"`
}

func (row *contractRow) toResponse() *dto.ContractResponse {
	return &dto.ContractResponse{
		Contract:   row.Contract,
		Mission:    models.MissionRef{ID: row.MissionID, Title: row.MissionTitle},
		Freelancer: models.UserRef{ID: row.FreelancerID, Name: row.FreelancerName, Role: row.FreelancerRole},
		Company:    models.UserRef{ID: row.CompanyID, Name: row.CompanyName, Role: row.CompanyRole},
	}
}

const contractSelect = `
	SELECT c.*,
	       m.title AS mission_title,
	       f.name AS freelancer_name, f.role AS freelancer_role,
	       cu.name AS company_name, cu.role AS company_role
	FROM contracts c
	JOIN missions m ON m.id = c.mission_id
	JOIN users f ON f.id = c.freelancer_id
	JOIN users cu ON cu.id = c.company_id
`

// Create создаёт контракт в статусе, переданном вызывающей стороной
// (сервис всегда передаёт PENDING_SIGNATURES).
func (r *ContractRepository) Create(ctx context.Context, c *models.Contract) error {
	query := `
		INSERT INTO contracts (mission_id, freelancer_id, company_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, freelancer_signed, company_signed, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		c.MissionID, c.FreelancerID, c.CompanyID, c.Status,
	).Scan(&c.ID, &c.FreelancerSigned, &c.CompanySigned, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID возвращает контракт по ID.
func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	return common.GetByID[models.Contract](ctx, r.db, "contracts", id, ErrContractNotFound)
}

// GetResponse возвращает контракт с проекциями миссии и сторон.
func (r *ContractRepository) GetResponse(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error) {
	var row contractRow
	err := r.db.GetContext(ctx, &row, contractSelect+` WHERE c.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("contract repository: get response %w", err)
	}
	return row.toResponse(), nil
}

// ListByUser возвращает страницу контрактов с проекциями, где
// пользователь выступает фрилансером или компанией.
func (r *ContractRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]dto.ContractResponse, pagination.Pagination, error) {
	page, limit = pagination.Normalize(page, limit)
	rows, total, err := common.PagedQuery[contractRow](ctx, r.db,
		`SELECT COUNT(*) FROM contracts WHERE freelancer_id = $1 OR company_id = $1`,
		contractSelect+` WHERE c.freelancer_id = $1 OR c.company_id = $1 ORDER BY c.created_at DESC LIMIT $2 OFFSET $3`,
		[]interface{}{userID},
		[]interface{}{userID, limit, pagination.Offset(page, limit)},
	)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("contract repository: list by user %w", err)
	}

	contracts := make([]dto.ContractResponse, 0, len(rows))
	for i := range rows {
		contracts = append(contracts, *rows[i].toResponse())
	}
	return contracts, pagination.Paginate(total, page, limit), nil
}

// UpdateStatus меняет статус контракта.
func (r *ContractRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contracts SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("contract repository: update status %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrContractNotFound
	}
	return nil
}

// SetSignature фиксирует подпись одной из сторон.
func (r *ContractRepository) SetSignature(ctx context.Context, id uuid.UUID, freelancer bool) error {
	column := "company_signed"
	if freelancer {
		column = "freelancer_signed"
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`
		UPDATE contracts SET %s = TRUE, updated_at = NOW() WHERE id = $1
	`, column), id)
	if err != nil {
		return fmt.Errorf("contract repository: set signature %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrContractNotFound
	}
	return nil
}

// CreateMilestone создаёт веху контракта в статусе PENDING.
func (r *ContractRepository) CreateMilestone(ctx context.Context, m *models.Milestone) error {
	query := `
		INSERT INTO milestones (contract_id, title, amount, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		m.ContractID, m.Title, m.Amount, m.Status, m.DueDate,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// GetMilestoneByID возвращает веху по ID.
func (r *ContractRepository) GetMilestoneByID(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	return common.GetByID[models.Milestone](ctx, r.db, "milestones", id, ErrMilestoneNotFound)
}

// ListMilestones возвращает вехи контракта в порядке создания.
func (r *ContractRepository) ListMilestones(ctx context.Context, contractID uuid.UUID) ([]models.Milestone, error) {
	var milestones []models.Milestone
	err := r.db.SelectContext(ctx, &milestones, `
		SELECT * FROM milestones WHERE contract_id = $1 ORDER BY created_at ASC
	`, contractID)
	if milestones == nil {
		milestones = []models.Milestone{}
	}
	return milestones, err
}

// UpdateMilestoneStatus меняет статус вехи.
// Переход в PAID фиксирует время оплаты.
func (r *ContractRepository) UpdateMilestoneStatus(ctx context.Context, id uuid.UUID, status string) error {
	var paidAt *time.Time
	if status == models.MilestoneStatusPaid {
		now := time.Now()
		paidAt = &now
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE milestones SET status = $2, paid_at = COALESCE($3, paid_at), updated_at = NOW() WHERE id = $1
	`, id, status, paidAt)
	if err != nil {
		return fmt.Errorf("contract repository: update milestone status %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrMilestoneNotFound
	}
	return nil
}
