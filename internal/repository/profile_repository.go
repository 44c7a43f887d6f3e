package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/repository/common"
)

var (
	ErrProfileNotFound   = fmt.Errorf("profile: %w", common.ErrNotFound)
	ErrPortfolioNotFound = fmt.Errorf("portfolio item: %w", common.ErrNotFound)
)

// ProfileRepository отвечает за профили фрилансеров и компаний.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository создаёт новый экземпляр.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// UpsertFreelancer создаёт или обновляет профиль фрилансера.
func (r *ProfileRepository) UpsertFreelancer(ctx context.Context, p *models.FreelancerProfile) error {
	query := `
		INSERT INTO freelancer_profiles (user_id, title, bio, skills, daily_rate, availability_status, availability_start_date, location, languages, cv_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			title = EXCLUDED.title,
			bio = EXCLUDED.bio,
			skills = EXCLUDED.skills,
			daily_rate = EXCLUDED.daily_rate,
			availability_status = EXCLUDED.availability_status,
			availability_start_date = EXCLUDED.availability_start_date,
			location = EXCLUDED.location,
			languages = EXCLUDED.languages,
			cv_path = EXCLUDED.cv_path,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		p.UserID, p.Title, p.Bio, p.Skills, p.DailyRate,
		p.AvailabilityStatus, p.AvailabilityStartDate, p.Location,
		pq.Array([]string(p.Languages)), p.CVPath,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetFreelancerByUserID возвращает профиль фрилансера.
func (r *ProfileRepository) GetFreelancerByUserID(ctx context.Context, userID uuid.UUID) (*models.FreelancerProfile, error) {
	return common.GetByField[models.FreelancerProfile](ctx, r.db, "freelancer_profiles", "user_id", userID, ErrProfileNotFound)
}

// ListFreelancers возвращает пул профилей для матчинга.
// Заблокированные пользователи в пул не попадают.
func (r *ProfileRepository) ListFreelancers(ctx context.Context, limit int) ([]models.FreelancerProfile, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var profiles []models.FreelancerProfile
	err := r.db.SelectContext(ctx, &profiles, `
		SELECT fp.* FROM freelancer_profiles fp
		JOIN users u ON u.id = fp.user_id
		WHERE u.is_active = TRUE
		ORDER BY fp.created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("profile repository: list freelancers %w", err)
	}
	return profiles, nil
}

// SearchFreelancers возвращает страницу профилей с фильтрами.
func (r *ProfileRepository) SearchFreelancers(ctx context.Context, availability string, page, limit int) ([]models.FreelancerProfile, pagination.Pagination, error) {
	page, limit = pagination.Normalize(page, limit)

	where := `WHERE u.is_active = TRUE`
	countArgs := []interface{}{}
	if availability != "" {
		where += ` AND fp.availability_status = $1`
		countArgs = append(countArgs, availability)
	}

	countQuery := `SELECT COUNT(*) FROM freelancer_profiles fp JOIN users u ON u.id = fp.user_id ` + where
	pageQuery := fmt.Sprintf(`
		SELECT fp.* FROM freelancer_profiles fp
		JOIN users u ON u.id = fp.user_id
		%s
		ORDER BY fp.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(countArgs)+1, len(countArgs)+2)
	pageArgs := append(append([]interface{}{}, countArgs...), limit, pagination.Offset(page, limit))

	profiles, total, err := common.PagedQuery[models.FreelancerProfile](ctx, r.db, countQuery, pageQuery, countArgs, pageArgs)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("profile repository: search freelancers %w", err)
	}
	return profiles, pagination.Paginate(total, page, limit), nil
}

// UpsertCompany создаёт или обновляет профиль компании.
func (r *ProfileRepository) UpsertCompany(ctx context.Context, p *models.CompanyProfile) error {
	query := `
		INSERT INTO company_profiles (user_id, name, industry, size, "values")
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			industry = EXCLUDED.industry,
			size = EXCLUDED.size,
			"values" = EXCLUDED."values",
			updated_at = NOW()
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		p.UserID, p.Name, p.Industry, p.Size, pq.Array([]string(p.Values)),
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetCompanyByUserID возвращает профиль компании.
func (r *ProfileRepository) GetCompanyByUserID(ctx context.Context, userID uuid.UUID) (*models.CompanyProfile, error) {
	return common.GetByField[models.CompanyProfile](ctx, r.db, "company_profiles", "user_id", userID, ErrProfileNotFound)
}

// CreatePortfolioItem создаёт элемент портфолио.
func (r *ProfileRepository) CreatePortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	query := `
		INSERT INTO portfolio_items (freelancer_id, title, description, external_link)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		item.FreelancerID, item.Title, item.Description, item.ExternalLink,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// GetPortfolioItem возвращает элемент портфолио по ID.
func (r *ProfileRepository) GetPortfolioItem(ctx context.Context, id uuid.UUID) (*models.PortfolioItem, error) {
	return common.GetByID[models.PortfolioItem](ctx, r.db, "portfolio_items", id, ErrPortfolioNotFound)
}

// ListPortfolio возвращает портфолио фрилансера.
func (r *ProfileRepository) ListPortfolio(ctx context.Context, freelancerID uuid.UUID) ([]models.PortfolioItem, error) {
	var items []models.PortfolioItem
	err := r.db.SelectContext(ctx, &items, `
		SELECT * FROM portfolio_items WHERE freelancer_id = $1 ORDER BY created_at DESC
	`, freelancerID)
	if items == nil {
		items = []models.PortfolioItem{}
	}
	return items, err
}

// UpdatePortfolioItem обновляет элемент портфолио.
func (r *ProfileRepository) UpdatePortfolioItem(ctx context.Context, item *models.PortfolioItem) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE portfolio_items SET title = $2, description = $3, external_link = $4, updated_at = NOW()
		WHERE id = $1
	`, item.ID, item.Title, item.Description, item.ExternalLink)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}

// DeletePortfolioItem удаляет элемент портфолио.
func (r *ProfileRepository) DeletePortfolioItem(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM portfolio_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrPortfolioNotFound
	}
	return nil
}
