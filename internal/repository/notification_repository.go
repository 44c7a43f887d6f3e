package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/workmatch/workmatch-backend/internal/models"
	"github.com/workmatch/workmatch-backend/internal/pagination"
	"github.com/workmatch/workmatch-backend/internal/repository/common"
)

var ErrNotificationNotFound = fmt.Errorf("notification: %w", common.ErrNotFound)

// NotificationRepository отвечает за уведомления пользователей.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository создаёт новый экземпляр.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create сохраняет уведомление.
func (r *NotificationRepository) Create(ctx context.Context, userID uuid.UUID, event string, data interface{}) (*models.Notification, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("notification repository: marshal %w", err)
	}

	n := &models.Notification{UserID: userID, Event: event, Data: payload}
	query := `
		INSERT INTO notifications (user_id, event, data)
		VALUES ($1, $2, $3)
		RETURNING id, is_read, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query, userID, event, payload).Scan(&n.ID, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, fmt.Errorf("notification repository: create %w", err)
	}
	return n, nil
}

// ListByUser возвращает страницу уведомлений пользователя.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Notification, pagination.Pagination, error) {
	page, limit = pagination.Normalize(page, limit)
	items, total, err := common.PagedQuery[models.Notification](ctx, r.db,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`,
		`SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		[]interface{}{userID},
		[]interface{}{userID, limit, pagination.Offset(page, limit)},
	)
	if err != nil {
		return nil, pagination.Pagination{}, fmt.Errorf("notification repository: list %w", err)
	}
	return items, pagination.Paginate(total, page, limit), nil
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	return count, err
}

// MarkAsRead помечает уведомление прочитанным.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead помечает все уведомления пользователя прочитанными.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE
	`, userID)
	return err
}
