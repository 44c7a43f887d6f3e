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
	ErrUserNotFound    = fmt.Errorf("user: %w", common.ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("session: %w", common.ErrNotFound)
)

// UserRepository отвечает за пользователей и их сессии.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт новый экземпляр.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт пользователя.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	return common.TranslateConstraint(err)
}

// GetByID возвращает пользователя по ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return common.GetByID[models.User](ctx, r.db, "users", id, ErrUserNotFound)
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return common.GetByField[models.User](ctx, r.db, "users", "email", email, ErrUserNotFound)
}

// GetRef возвращает минимальную публичную проекцию пользователя.
func (r *UserRepository) GetRef(ctx context.Context, id uuid.UUID) (*models.UserRef, error) {
	var ref models.UserRef
	err := r.db.GetContext(ctx, &ref, `SELECT id, name, role FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return &ref, err
}

// List возвращает страницу пользователей (для администратора).
func (r *UserRepository) List(ctx context.Context, page, limit int) ([]models.User, pagination.Pagination, error) {
	page, limit = pagination.Normalize(page, limit)
	users, total, err := common.PagedQuery[models.User](ctx, r.db,
		`SELECT COUNT(*) FROM users`,
		`SELECT * FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		nil,
		[]interface{}{limit, pagination.Offset(page, limit)},
	)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("user repository: list %w", err)
	}
	return users, pagination.Paginate(total, page, limit), nil
}

// UpdateStatus блокирует или разблокирует пользователя.
func (r *UserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1
	`, id, isActive)
	if err != nil {
		return fmt.Errorf("user repository: update status %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateLastLoginAt фиксирует время последнего входа.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}

// CreateSession сохраняет refresh сессию.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRowxContext(ctx, query,
		session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
}

// GetSessionByToken возвращает сессию по refresh токену.
func (r *UserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	return common.GetByField[models.Session](ctx, r.db, "sessions", "refresh_token", refreshToken, ErrSessionNotFound)
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE refresh_token = $1`, refreshToken)
	return err
}

// DeleteExpiredSessions удаляет просроченные сессии пользователя.
func (r *UserRepository) DeleteExpiredSessions(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1 AND expires_at < NOW()`, userID)
	return err
}
